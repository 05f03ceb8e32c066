package jsondoc

// SafeDeepMerge merges source into target and returns a new value.
//
// Objects are merged key by key with source winning, arrays are concatenated
// with scalar elements deduplicated, and any other combination takes the
// source value. Dangerous keys are dropped from both inputs at every depth.
// Neither input is modified and the result shares no containers with them.
func SafeDeepMerge(target, source any) any {
	return mergeOwned(Sanitize(target), Sanitize(source))
}

// mergeOwned merges two freshly copied trees, reusing their containers.
func mergeOwned(target, source any) any {
	if t, ok := target.(*Object); ok {
		if s, ok := source.(*Object); ok {
			for _, k := range s.keys {
				sv := s.vals[k]
				if tv, ok := t.vals[k]; ok {
					t.Set(k, mergeOwned(tv, sv))
				} else {
					t.Set(k, sv)
				}
			}
			return t
		}
	}
	if t, ok := target.([]any); ok {
		if s, ok := source.([]any); ok {
			return concatDedup(t, s)
		}
	}
	return source
}

// concatDedup appends the elements of src to dst, skipping scalars already
// present. Objects, arrays and nulls are always appended.
func concatDedup(dst, src []any) []any {
	for _, e := range src {
		if IsScalar(e) && containsScalar(dst, e) {
			continue
		}
		dst = append(dst, e)
	}
	return dst
}

func containsScalar(list []any, v any) bool {
	for _, e := range list {
		if IsScalar(e) && Equal(e, v) {
			return true
		}
	}
	return false
}

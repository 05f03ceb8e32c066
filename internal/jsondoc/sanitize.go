package jsondoc

import (
	"strconv"
	"strings"
)

var dangerousKeys = map[string]struct{}{
	"__proto__":   {},
	"constructor": {},
	"prototype":   {},
}

// IsDangerousKey reports whether key is one of the names that must never be
// merged into or copied out of a document.
func IsDangerousKey(key string) bool {
	_, ok := dangerousKeys[key]
	return ok
}

// Clone returns a deep copy of v. Plain Go maps and string slices are
// converted to *Object and []any. Containers nested deeper than MaxDepth are
// emptied.
func Clone(v any) any {
	return copier{}.copy(v, 0, "")
}

// Sanitize returns a deep copy of v with dangerous keys removed at every depth.
func Sanitize(v any) any {
	return copier{strip: true}.copy(v, 0, "")
}

// SanitizeFunc is Sanitize, calling onDrop with the JSON pointer of every
// removed key.
func SanitizeFunc(v any, onDrop func(pointer string)) any {
	return copier{strip: true, onDrop: onDrop}.copy(v, 0, "")
}

type copier struct {
	strip  bool
	onDrop func(string)
}

func (c copier) copy(v any, depth int, path string) any {
	if t, ok := v.(*Object); ok && t == nil {
		return nil
	}
	if obj, ok := AsObject(v); ok {
		out := NewObject()
		if depth >= MaxDepth {
			return out
		}
		for _, k := range obj.keys {
			p := path + "/" + escapePointer(k)
			if c.strip && IsDangerousKey(k) {
				if c.onDrop != nil {
					c.onDrop(p)
				}
				continue
			}
			out.Set(k, c.copy(obj.vals[k], depth+1, p))
		}
		return out
	}
	if arr, ok := AsArray(v); ok {
		out := make([]any, 0, len(arr))
		if depth >= MaxDepth {
			return out
		}
		for i, e := range arr {
			out = append(out, c.copy(e, depth+1, path+"/"+strconv.Itoa(i)))
		}
		return out
	}
	return v
}

// escapePointer escapes a key for use as a JSON pointer token (RFC 6901).
func escapePointer(key string) string {
	if !strings.ContainsAny(key, "~/") {
		return key
	}
	key = strings.ReplaceAll(key, "~", "~0")
	return strings.ReplaceAll(key, "/", "~1")
}

// Pointer joins tokens into a JSON pointer.
func Pointer(tokens ...string) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteByte('/')
		b.WriteString(escapePointer(t))
	}
	return b.String()
}

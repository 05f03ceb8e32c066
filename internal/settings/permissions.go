package settings

import (
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/jsondoc"
)

// PermissionLists are the rule lists merged as ordered sets.
var PermissionLists = []string{"allow", "deny", "ask"}

// PermissionRuleSet is the string view of a permissions object.
type PermissionRuleSet struct {
	Allow []string
	Deny  []string
	Ask   []string
}

// Len returns the total number of rules.
func (p PermissionRuleSet) Len() int {
	return len(p.Allow) + len(p.Deny) + len(p.Ask)
}

// MergePermissions merges the incoming permissions object into the existing
// one and returns a new object. Neither input is modified.
//
// Each rule list keeps the existing rules in order followed by the incoming
// rules not already present. A missing list counts as empty. Other keys keep
// their existing value and keys only the incoming side has are appended.
func MergePermissions(existing, incoming *jsondoc.Object) (*jsondoc.Object, *Report) {
	rep := &Report{}
	e := sanitizedObject(existing, "existing", "", rep)
	n := sanitizedObject(incoming, "new", "", rep)
	return mergePermissions(e, n, "", rep), rep
}

// mergePermissions merges owned, sanitized trees. existing is modified in place.
func mergePermissions(existing, incoming *jsondoc.Object, prefix string, rep *Report) *jsondoc.Object {
	for _, key := range incoming.Keys() {
		nv, _ := incoming.Get(key)
		pointer := prefix + jsondoc.Pointer(key)

		if !isPermissionList(key) {
			if !existing.Has(key) {
				existing.Set(key, nv)
			}
			continue
		}

		add, ok := nv.([]any)
		if !ok {
			rep.skip(pointer, "new value is not an array; existing rules were kept")
			continue
		}
		ev, ok := existing.Get(key)
		if !ok {
			existing.Set(key, unionRules(nil, add))
			continue
		}
		cur, ok := ev.([]any)
		if !ok {
			rep.skip(pointer, "existing value is not an array; new rules were not merged")
			continue
		}
		existing.Set(key, unionRules(cur, add))
	}
	return existing
}

// unionRules appends the rules of add that are not already in the result.
// Every existing rule survives; a string rule listed twice is kept once, at
// its first position.
func unionRules(existing, add []any) []any {
	out := make([]any, 0, len(existing)+len(add))
	seen := make(map[string]bool, len(existing))
	for _, r := range existing {
		if s, ok := r.(string); ok {
			if seen[s] {
				continue
			}
			seen[s] = true
		}
		out = append(out, r)
	}
	for _, r := range add {
		if s, ok := r.(string); ok {
			if seen[s] {
				continue
			}
			seen[s] = true
			out = append(out, s)
			continue
		}
		if !containsValue(out, r) {
			out = append(out, r)
		}
	}
	return out
}

func containsValue(list []any, v any) bool {
	for _, e := range list {
		if jsondoc.Equal(e, v) {
			return true
		}
	}
	return false
}

func isPermissionList(key string) bool {
	for _, l := range PermissionLists {
		if key == l {
			return true
		}
	}
	return false
}

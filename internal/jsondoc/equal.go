package jsondoc

import (
	"encoding/json"
	"math"
)

// IsScalar reports whether v is a string, boolean or number.
func IsScalar(v any) bool {
	switch v.(type) {
	case string, bool:
		return true
	}
	_, ok := toFloat(v)
	return ok
}

// Equal reports whether a and b hold the same JSON value. Numbers compare by
// value and object key order is ignored.
func Equal(a, b any) bool {
	if an, ok := toFloat(a); ok {
		if aj, ok := a.(json.Number); ok {
			if bj, ok := b.(json.Number); ok && aj == bj {
				return true
			}
		}
		bn, ok := toFloat(b)
		return ok && an == bn
	}

	switch at := a.(type) {
	case nil:
		return b == nil
	case string:
		bt, ok := b.(string)
		return ok && at == bt
	case bool:
		bt, ok := b.(bool)
		return ok && at == bt
	}

	if ao, ok := AsObject(a); ok {
		bo, ok := AsObject(b)
		if !ok || ao.Len() != bo.Len() {
			return false
		}
		for _, k := range ao.keys {
			bv, ok := bo.vals[k]
			if !ok || !Equal(ao.vals[k], bv) {
				return false
			}
		}
		return true
	}
	if aa, ok := AsArray(a); ok {
		ba, ok := AsArray(b)
		if !ok || len(aa) != len(ba) {
			return false
		}
		for i := range aa {
			if !Equal(aa[i], ba[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return math.NaN(), true
		}
		return f, true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case uint32:
		return float64(n), true
	}
	return 0, false
}

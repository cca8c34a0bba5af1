package tree

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"
)

// IsMapping reports whether v is a configuration mapping.
func IsMapping(v any) bool {
	_, ok := v.(map[string]any)
	return ok
}

// Canonicalize converts parser output into the closed value set
// (nil, bool, int, float64, string, []any, map[string]any).
//
// Mapping keys that are not strings are rendered with fmt. Integers that do
// not fit into int become float64. Types with no natural counterpart are
// rendered as strings.
func Canonicalize(v any) any {
	switch x := v.(type) {
	case nil, bool, string, int, float64:
		return x

	case int8:
		return int(x)
	case int16:
		return int(x)
	case int32:
		return int(x)
	case int64:
		if x > math.MaxInt || x < math.MinInt {
			return float64(x)
		}
		return int(x)
	case uint:
		return canonicalUint(uint64(x))
	case uint8:
		return int(x)
	case uint16:
		return int(x)
	case uint32:
		return canonicalUint(uint64(x))
	case uint64:
		return canonicalUint(x)
	case float32:
		return float64(x)

	case json.Number:
		if i, err := x.Int64(); err == nil {
			return Canonicalize(i)
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()

	case time.Time:
		return x.Format(time.RFC3339Nano)

	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = Canonicalize(item)
		}
		return out
	case []string:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = item
		}
		return out

	case map[string]any:
		out := make(map[string]any, len(x))
		for key, item := range x {
			out[key] = Canonicalize(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(x))
		for key, item := range x {
			out[fmt.Sprint(key)] = Canonicalize(item)
		}
		return out
	case map[string]string:
		out := make(map[string]any, len(x))
		for key, item := range x {
			out[key] = item
		}
		return out

	default:
		return fmt.Sprint(x)
	}
}

func canonicalUint(u uint64) any {
	if u > math.MaxInt {
		return float64(u)
	}
	return int(u)
}

// Clone returns a deep copy of v. Mappings and sequences are copied,
// scalars are shared.
func Clone(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for key, item := range x {
			out[key] = Clone(item)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = Clone(item)
		}
		return out
	default:
		return x
	}
}

// FormatScalar renders a scalar value the way it is substituted into
// strings. The second result is false for nil, mappings and sequences.
func FormatScalar(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case bool:
		return strconv.FormatBool(x), true
	case int:
		return strconv.Itoa(x), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	default:
		return "", false
	}
}

// sortedKeys returns the keys of m in lexical order so that merges and
// normalization behave deterministically when two keys collide.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

package tree

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// NormalizeKey converts a hyphen-delimited key into camel form.
//
// The first segment is kept as-is. Every following segment is lower-cased
// and its leading character upper-cased, so "a-b2c-d" becomes "aB2cD".
// Empty segments produced by repeated or trailing hyphens are dropped.
// The result never contains a hyphen, which makes the function idempotent.
func NormalizeKey(key string) string {
	if !strings.Contains(key, "-") {
		return key
	}

	segments := strings.Split(key, "-")

	var b strings.Builder
	b.Grow(len(key))
	b.WriteString(segments[0])

	for _, segment := range segments[1:] {
		if segment == "" {
			continue
		}
		lower := strings.ToLower(segment)
		first, size := utf8.DecodeRuneInString(lower)
		b.WriteRune(unicode.ToUpper(first))
		b.WriteString(lower[size:])
	}

	return b.String()
}

// NormalizeKeys returns a deep copy of v with every mapping key normalized.
// Values outside mappings and sequences are returned unchanged.
func NormalizeKeys(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for _, key := range sortedKeys(x) {
			out[NormalizeKey(key)] = NormalizeKeys(x[key])
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = NormalizeKeys(item)
		}
		return out
	default:
		return x
	}
}

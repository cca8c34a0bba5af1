package tree

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotMapping is returned when an operation requires a mapping and gets
// something else.
var ErrNotMapping = errors.New("value is not a mapping")

// Get returns the value stored at the dotted path inside m.
//
// When normalize is true, keys at every level and the path segments are
// compared in their normalized form, so "config.activate.on-profile" finds a
// value written under "on-profile" as well as "onProfile".
//
// The boolean result is false when a segment is missing or when an
// intermediate value is not a mapping. A present nil value yields (nil, true).
func Get(m any, path string, normalize bool) (any, bool) {
	current, ok := m.(map[string]any)
	if !ok {
		return nil, false
	}

	segments := strings.Split(path, ".")
	for i, segment := range segments {
		value, found := lookup(current, segment, normalize)
		if !found {
			return nil, false
		}
		if i == len(segments)-1 {
			return value, true
		}
		next, ok := value.(map[string]any)
		if !ok {
			return nil, false
		}
		current = next
	}

	return nil, false
}

func lookup(m map[string]any, segment string, normalize bool) (any, bool) {
	if value, ok := m[segment]; ok {
		return value, true
	}
	if !normalize {
		return nil, false
	}

	want := NormalizeKey(segment)
	// Sorted so that colliding spellings resolve the same way every time.
	for _, key := range sortedKeys(m) {
		if NormalizeKey(key) == want {
			return m[key], true
		}
	}
	return nil, false
}

// Set stores v at the dotted path inside m, creating intermediate mappings
// as needed and replacing any non-mapping value found on the way.
func Set(m map[string]any, path string, v any) error {
	return SetPath(m, strings.Split(path, "."), v)
}

// SetPath is Set with the path already split into segments.
func SetPath(m map[string]any, segments []string, v any) error {
	if m == nil {
		return fmt.Errorf("set %q: %w", strings.Join(segments, "."), ErrNotMapping)
	}
	if len(segments) == 0 {
		return fmt.Errorf("set: empty path")
	}

	current := m
	for _, segment := range segments[:len(segments)-1] {
		next, ok := current[segment].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[segment] = next
		}
		current = next
	}
	current[segments[len(segments)-1]] = v

	return nil
}

package tree

import "fmt"

// Merge folds source into target and returns target.
//
// Merge strategy:
//   - every source key is normalized with NormalizeKey before it is written
//   - mappings are merged recursively; a non-mapping value in the target is
//     replaced by a fresh mapping
//   - sequences are leaves: they replace the target value wholesale (mapping
//     keys inside them are normalized too)
//   - scalars, including nil, overwrite the target value
//
// The result never shares mappings or sequences with source.
// A source that is not a mapping is an error.
func Merge(target map[string]any, source any) (map[string]any, error) {
	if target == nil {
		return nil, fmt.Errorf("merge target: %w", ErrNotMapping)
	}

	src, ok := source.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("merge source of type %T: %w", source, ErrNotMapping)
	}

	mergeInto(target, src)
	return target, nil
}

func mergeInto(target, source map[string]any) {
	for _, key := range sortedKeys(source) {
		normalized := NormalizeKey(key)

		switch value := source[key].(type) {
		case map[string]any:
			child, ok := target[normalized].(map[string]any)
			if !ok {
				child = make(map[string]any, len(value))
				target[normalized] = child
			}
			mergeInto(child, value)

		case []any:
			target[normalized] = NormalizeKeys(value)

		default:
			target[normalized] = value
		}
	}
}

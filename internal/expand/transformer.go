// Package expand substitutes ${reference} placeholders in a merged
// configuration.
//
// A reference is looked up in the environment snapshot first and then, by
// dotted path, in the configuration as it was before expansion started.
// Substituted values are not expanded again, so "${a}" pointing at a value
// that itself contains "${b}" yields the literal "${b}".
package expand

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/nauticalab/layerconf/internal/registry"
	"github.com/nauticalab/layerconf/internal/tree"
	"github.com/nauticalab/layerconf/pkg/settings"
)

// ErrUnresolvedReference is returned when a placeholder names a key found
// neither in the environment nor in the configuration.
var ErrUnresolvedReference = errors.New("unable to find the key")

var placeholderRe = regexp.MustCompile(`\$\{([^}]*)\}`)

// Transformer expands placeholders.
type Transformer struct {
	reg *registry.Registry
}

// New creates a Transformer reading the environment snapshot from reg.
func New(reg *registry.Registry) *Transformer {
	return &Transformer{reg: reg}
}

// Expand returns a copy of cfg with every placeholder in every string value
// replaced. Mapping keys, sequence order and non-string values are kept.
func (t *Transformer) Expand(cfg map[string]any) (map[string]any, error) {
	env, err := t.reg.Environment()
	if err != nil {
		return nil, fmt.Errorf("failed to expand configuration: %w", err)
	}

	r := &resolver{
		env:      env,
		snapshot: tree.Clone(cfg).(map[string]any),
	}

	expanded, err := r.walk(cfg, "")
	if err != nil {
		return nil, err
	}
	return expanded.(map[string]any), nil
}

type resolver struct {
	env      settings.Environment
	snapshot map[string]any
}

func (r *resolver) walk(v any, path string) (any, error) {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for key, item := range x {
			expanded, err := r.walk(item, join(path, key))
			if err != nil {
				return nil, err
			}
			out[key] = expanded
		}
		return out, nil

	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			expanded, err := r.walk(item, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			out[i] = expanded
		}
		return out, nil

	case string:
		return r.replace(x, path)

	default:
		return x, nil
	}
}

func (r *resolver) replace(value, path string) (string, error) {
	var firstErr error

	out := placeholderRe.ReplaceAllStringFunc(value, func(match string) string {
		if firstErr != nil {
			return match
		}
		reference := placeholderRe.FindStringSubmatch(match)[1]

		resolved, err := r.resolve(reference)
		if err != nil {
			firstErr = fmt.Errorf("failed to expand %s: %w", path, err)
			return match
		}
		return resolved
	})

	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}

func (r *resolver) resolve(reference string) (string, error) {
	if value, ok := r.env[reference]; ok {
		return value, nil
	}

	value, ok := tree.Get(r.snapshot, reference, true)
	if !ok || value == nil {
		return "", fmt.Errorf("%w %s", ErrUnresolvedReference, reference)
	}

	formatted, ok := tree.FormatScalar(value)
	if !ok {
		return "", fmt.Errorf("%w %s: value is not a scalar", ErrUnresolvedReference, reference)
	}
	return formatted, nil
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

package loader

import (
	"fmt"

	"github.com/nauticalab/layerconf/internal/tree"
	"github.com/nauticalab/layerconf/pkg/settings"
)

// ActiveProfiles derives the active profile set from the environment: the
// comma-separated value of the property, trimmed and de-duplicated in order.
// Without a usable value the default profile is active.
func ActiveProfiles(property settings.Property, env settings.Environment) []string {
	value, _ := property.Lookup(env)

	seen := make(map[string]bool)
	var profiles []string
	for _, profile := range settings.SplitList(value) {
		if !seen[profile] {
			seen[profile] = true
			profiles = append(profiles, profile)
		}
	}

	if len(profiles) == 0 {
		return []string{settings.DefaultProfile}
	}
	return profiles
}

// DeclaredProfiles reads the profile selector of a document at the dotted
// path selector. The selector is a comma-separated string or a sequence of
// strings. A document without a selector declares no profiles.
func DeclaredProfiles(doc any, selector string) []string {
	if selector == "" {
		return nil
	}

	value, ok := tree.Get(doc, selector, true)
	if !ok || value == nil {
		return nil
	}

	switch v := value.(type) {
	case string:
		return settings.SplitList(v)
	case []any:
		var out []string
		for _, item := range v {
			if s, ok := tree.FormatScalar(item); ok {
				out = append(out, settings.SplitList(s)...)
			}
		}
		return out
	default:
		if s, ok := tree.FormatScalar(v); ok {
			return settings.SplitList(s)
		}
		return settings.SplitList(fmt.Sprint(v))
	}
}

// Matches reports whether a document declaring the given profiles applies.
// A document that declares nothing applies when the default profile is
// active; otherwise at least one declared profile must be active.
func Matches(declared, active []string) bool {
	if len(declared) == 0 {
		return contains(active, settings.DefaultProfile)
	}
	for _, profile := range declared {
		if contains(active, profile) {
			return true
		}
	}
	return false
}

func contains(list []string, want string) bool {
	for _, item := range list {
		if item == want {
			return true
		}
	}
	return false
}

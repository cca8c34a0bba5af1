// Package settings describes the environment keys that drive configuration
// loading and builds the environment snapshot the loader reads them from.
package settings

import (
	"slices"
	"sort"
	"strings"

	"github.com/nauticalab/layerconf/internal/tree"
)

// DefaultProfile is the profile that is active when none is configured and
// the profile assumed by documents that do not declare one.
const DefaultProfile = "default"

// DefaultSeparator marks environment variables that address configuration
// keys, e.g. "config.baseLocation" or "database.password".
const DefaultSeparator = "."

// Property is a configuration property read from the environment.
type Property struct {
	// Name is the dotted environment key, e.g. "config.baseLocation".
	Name string
	// Default is used when the environment does not define Name.
	Default string
	// HasDefault distinguishes an empty default from no default at all.
	HasDefault bool
}

// Lookup returns the environment value for the property, falling back to
// its default. The boolean result is false when neither is available.
func (p Property) Lookup(env Environment) (string, bool) {
	if value, ok := env[p.Name]; ok {
		return value, true
	}
	if p.HasDefault {
		return p.Default, true
	}
	return "", false
}

// Properties holds the five properties the loader depends on.
type Properties struct {
	// BaseLocation is the directory holding the configuration files.
	BaseLocation Property
	// DefaultFile is the file loaded first, relative to BaseLocation.
	DefaultFile Property
	// AdditionalFiles is a comma-separated list of further files, merged in
	// order after DefaultFile.
	AdditionalFiles Property
	// ActiveProfiles is a comma-separated list of active profiles.
	ActiveProfiles Property
	// OnProfile is the dotted path, inside each document, of the profile
	// selector that decides whether the document applies.
	OnProfile Property
}

// DefaultProperties returns the stock property set:
//
//	config.baseLocation        ./config
//	config.location            application.yaml
//	config.additionalLocation  (none)
//	profiles.active            default
//	config.activate.onProfile  (none)
func DefaultProperties() Properties {
	return Properties{
		BaseLocation:    Property{Name: "config.baseLocation", Default: "./config", HasDefault: true},
		DefaultFile:     Property{Name: "config.location", Default: "application.yaml", HasDefault: true},
		AdditionalFiles: Property{Name: "config.additionalLocation"},
		ActiveProfiles:  Property{Name: "profiles.active", Default: DefaultProfile, HasDefault: true},
		OnProfile:       Property{Name: "config.activate.onProfile"},
	}
}

// Normalized returns a copy with every property name key-normalized, so that
// "config.base-location" and "config.baseLocation" address the same value.
func (p Properties) Normalized() Properties {
	normalize := func(prop Property) Property {
		prop.Name = tree.NormalizeKey(prop.Name)
		return prop
	}
	return Properties{
		BaseLocation:    normalize(p.BaseLocation),
		DefaultFile:     normalize(p.DefaultFile),
		AdditionalFiles: normalize(p.AdditionalFiles),
		ActiveProfiles:  normalize(p.ActiveProfiles),
		OnProfile:       normalize(p.OnProfile),
	}
}

// Roots returns the distinct first segments of the property names, in
// declaration order. Environment overrides and profile selectors place keys
// under these roots in the merged configuration.
func (p Properties) Roots() []string {
	var roots []string
	for _, prop := range []Property{p.BaseLocation, p.DefaultFile, p.AdditionalFiles, p.ActiveProfiles, p.OnProfile} {
		root, _, _ := strings.Cut(prop.Name, ".")
		if root == "" || slices.Contains(roots, root) {
			continue
		}
		roots = append(roots, root)
	}
	return roots
}

// Environment is a snapshot of process environment variables with
// configuration-style keys normalized.
type Environment map[string]string

// Snapshot builds an Environment from "key=value" pairs as returned by
// os.Environ. Keys containing separator are key-normalized; all other keys
// are kept verbatim. An empty separator selects DefaultSeparator.
func Snapshot(environ []string, separator string) Environment {
	if separator == "" {
		separator = DefaultSeparator
	}

	env := make(Environment, len(environ))
	for _, pair := range environ {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			continue
		}
		if strings.Contains(key, separator) {
			key = tree.NormalizeKey(key)
		}
		env[key] = value
	}

	return env
}

// FromMap builds an Environment from a plain map, applying the same key
// rules as Snapshot.
func FromMap(vars map[string]string, separator string) Environment {
	environ := make([]string, 0, len(vars))
	for key, value := range vars {
		environ = append(environ, key+"="+value)
	}
	// Keys that normalize to the same name resolve in a stable order.
	sort.Strings(environ)
	return Snapshot(environ, separator)
}

// SplitList splits a comma-separated value, trims each entry and drops
// empty entries.
func SplitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Package tree provides the value model shared by every stage of the
// configuration pipeline together with the helpers that operate on it.
//
// A configuration tree is a map[string]any whose values belong to a closed
// set of types:
//
//	nil | bool | int | float64 | string | []any | map[string]any
//
// Parsers produce a wider variety of Go types (map[any]any, json.Number,
// int64, ...). [Canonicalize] folds them into the closed set so that merge
// and expansion can switch over it exhaustively.
//
// # Key normalization
//
// Keys are compared in a canonical camel form produced by [NormalizeKey]:
//
//	log-levels      -> logLevels
//	a-b2c-d         -> aB2cD
//	config.on-profile -> config.onProfile
//
// Only the character following a hyphen is upper-cased. Dots are left alone,
// so dotted paths can be normalized as a whole.
//
// # Paths
//
// [Get] and [Set] address nested mappings by dotted path. Lookups are
// advisory: a missing segment is reported through the boolean result rather
// than an error.
//
// # Merging
//
// [Merge] folds a source mapping into a target, normalizing every key on the
// way. Nested mappings are merged recursively; sequences and scalars replace
// whatever the target held at the same path.
package tree

// Package substitution builds the string maps that templates are
// interpolated against. Load reads a flat document of string values from a
// YAML, JSON, TOML or dotenv file, picking the decoder from the file
// extension; ParseAssignments turns NAME=VALUE pairs into a map; Merge
// layers maps so that later sources override earlier ones.
//
// Only string values are accepted. A number, boolean, list or nested
// object in a document is rejected with ErrNonStringValue instead of being
// converted, so a template never renders a value the author did not write
// as text.
package substitution

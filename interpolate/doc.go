// Package interpolate substitutes square-bracket placeholders in a template
// with values from a string map. A single [name] is a lookup of "name"; a
// doubled [[text]] is an escape that renders as the literal [text]. Keys
// with no mapping render as the fixed sentinel Undefined.
//
// The scan is a single left-to-right pass with no backtracking, so
// Interpolate is O(n) in the template length, pure and safe for
// concurrent use. It never fails: an unterminated "[" or "[[" makes the
// rest of the template, opening bracket included, a literal run.
package interpolate

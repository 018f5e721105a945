// Package yamldoc interpolates bracket placeholders inside YAML streams. It
// decodes every document of a single or multi-document stream, replaces
// [name] placeholders in string scalar values (mapping keys are left
// alone), and writes the documents back separated by "---" markers.
package yamldoc

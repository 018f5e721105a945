// Package stamper reads Bazel workspace status files into substitution maps
// and expands single-brace {VAR} references against them. LoadStamps parses
// one or more status files; StampValues expands {VAR} references inside the
// values of a substitution map so that a value such as "built by
// {BUILD_USER}" picks up build metadata before it is interpolated into a
// template; Stamp does the same for a single format string.
package stamper

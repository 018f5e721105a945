// Package messages renders localized user-facing messages. A Catalog keeps
// message texts per locale in a go-i18n bundle, loaded from TOML, YAML or
// JSON message files or added directly, and renders them by interpolating
// the [name] placeholders of the resolved text.
//
// Message texts use the bracket syntax of package interpolate, not Go
// templates: "Hello [name], [[brackets]] stay literal".
package messages

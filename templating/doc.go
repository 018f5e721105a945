// Package templating expands bracket templates held in files. The Engine
// type gathers substitution values from stamp info files, substitution
// documents, explicit NAME=VALUE variables and imported partial files, then
// interpolates the template with package interpolate and writes the result.
package templating

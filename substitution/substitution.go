package substitution

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

var (
	// ErrUnsupportedFormat is returned for file extensions
	// Load has no decoder for.
	ErrUnsupportedFormat = errors.New("unsupported substitution file format")

	// ErrNonStringValue is returned when a document holds
	// a value that is not a string.
	ErrNonStringValue = errors.New("substitution value is not a string")

	// ErrBadAssignment is returned for an assignment with
	// no "=".
	ErrBadAssignment = errors.New("assignment must be NAME=VALUE")
)

type decodeFunc func(data []byte) (map[string]any, error)

var decoders = map[string]decodeFunc{
	".yaml": decodeYAML,
	".yml":  decodeYAML,
	".json": decodeJSON,
	".toml": decodeTOML,
}

// Extensions lists the file extensions Load understands.
func Extensions() []string {
	exts := []string{".env"}
	for ext := range decoders {
		exts = append(exts, ext)
	}

	sort.Strings(exts)

	return exts
}

// Load reads a substitution map from path. The format is
// chosen from the extension: .yaml/.yml, .json, .toml or
// .env. The document must be a flat object whose values
// are all strings.
func Load(path string) (map[string]string, error) {
	const errCtx = "loading substitutions"

	ext := strings.ToLower(filepath.Ext(path))

	if ext == ".env" {
		vals, err := godotenv.Read(path)
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %s: %w", errCtx, path, err,
			)
		}

		return vals, nil
	}

	decode, ok := decoders[ext]
	if !ok {
		return nil, fmt.Errorf(
			"%s: %s: %w", errCtx, path, ErrUnsupportedFormat,
		)
	}

	content, err := os.ReadFile(path) //nolint:gosec // paths from CLI flags
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	doc, err := decode(content)
	if err != nil {
		return nil, fmt.Errorf(
			"%s: decoding %s: %w", errCtx, path, err,
		)
	}

	vals, err := toStrings(doc)
	if err != nil {
		return nil, fmt.Errorf(
			"%s: %s: %w", errCtx, path, err,
		)
	}

	return vals, nil
}

// LoadAll loads every path in order and merges the
// results; later files override earlier ones.
func LoadAll(paths []string) (map[string]string, error) {
	layers := make([]map[string]string, 0, len(paths))

	for _, pa := range paths {
		vals, err := Load(pa)
		if err != nil {
			return nil, err
		}

		layers = append(layers, vals)
	}

	return Merge(layers...), nil
}

// Merge copies layers into a new map. Later layers win on
// key collisions. Nil layers are skipped.
func Merge(layers ...map[string]string) map[string]string {
	out := make(map[string]string)

	for _, layer := range layers {
		for key, val := range layer {
			out[key] = val
		}
	}

	return out
}

// ParseAssignment splits "NAME=VALUE" on the first "=".
// An empty NAME is allowed since "" is a valid key.
func ParseAssignment(assignment string) (string, string, error) {
	name, val, ok := strings.Cut(assignment, "=")
	if !ok {
		return "", "", fmt.Errorf(
			"%w, got %q", ErrBadAssignment, assignment,
		)
	}

	return name, val, nil
}

// ParseAssignments parses NAME=VALUE pairs into a map.
// Later assignments to the same name win.
func ParseAssignments(
	assignments []string,
) (map[string]string, error) {
	const errCtx = "parsing assignments"

	vals := make(map[string]string, len(assignments))

	for _, as := range assignments {
		name, val, err := ParseAssignment(as)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", errCtx, err)
		}

		vals[name] = val
	}

	return vals, nil
}

func decodeYAML(data []byte) (map[string]any, error) {
	var doc map[string]any

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	return doc, nil
}

func decodeJSON(data []byte) (map[string]any, error) {
	var doc map[string]any

	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	return doc, nil
}

func decodeTOML(data []byte) (map[string]any, error) {
	var doc map[string]any

	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	return doc, nil
}

// toStrings narrows a decoded document to string values,
// reporting the first offending key in sorted order.
func toStrings(doc map[string]any) (map[string]string, error) {
	keys := make([]string, 0, len(doc))
	for key := range doc {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	vals := make(map[string]string, len(doc))

	for _, key := range keys {
		str, ok := doc[key].(string)
		if !ok {
			return nil, fmt.Errorf(
				"%w: key %q holds %T",
				ErrNonStringValue, key, doc[key],
			)
		}

		vals[key] = str
	}

	return vals, nil
}

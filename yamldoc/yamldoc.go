package yamldoc

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/goccy/go-yaml"

	"github.com/byte4ever/bracketfmt/interpolate"
)

type valueInterpolator struct {
	subs    map[string]string
	missing map[string]struct{}
}

// Interpolate reads a YAML stream from in, interpolates
// every string value against subs and writes the result
// to out. It returns the distinct keys that had no
// mapping, sorted; those render as interpolate.Undefined.
func Interpolate(
	in io.Reader,
	out io.Writer,
	subs map[string]string,
) ([]string, error) {
	const errCtx = "interpolating yaml"

	vi := valueInterpolator{
		subs:    subs,
		missing: make(map[string]struct{}),
	}

	decoder := yaml.NewDecoder(in)

	firstDoc := true

	for {
		var doc interface{}

		err := decoder.Decode(&doc)
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf(
				"%s: decoding yaml: %w",
				errCtx, err,
			)
		}

		if doc == nil {
			continue
		}

		buf, err := yaml.Marshal(vi.walk(doc))
		if err != nil {
			return nil, fmt.Errorf(
				"%s: marshaling document: %w",
				errCtx, err,
			)
		}

		if firstDoc {
			firstDoc = false
		} else {
			if _, err := out.Write(
				[]byte("---\n"),
			); err != nil {
				return nil, fmt.Errorf(
					"%s: writing separator: %w",
					errCtx, err,
				)
			}
		}

		if _, err := out.Write(buf); err != nil {
			return nil, fmt.Errorf(
				"%s: writing output: %w",
				errCtx, err,
			)
		}
	}

	return vi.missingKeys(), nil
}

// DecodeAll decodes all YAML documents from raw bytes,
// skipping empty ones.
func DecodeAll(raw []byte) ([]interface{}, error) {
	const errCtx = "decoding all docs"

	decoder := yaml.NewDecoder(bytes.NewReader(raw))

	var docs []interface{}

	for {
		var doc interface{}

		err := decoder.Decode(&doc)
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		if doc == nil {
			continue
		}

		docs = append(docs, doc)
	}

	return docs, nil
}

func (vi *valueInterpolator) lookup(key string) (string, bool) {
	val, ok := vi.subs[key]
	if !ok {
		vi.missing[key] = struct{}{}
	}

	return val, ok
}

// walk rewrites string scalars in place and returns the
// node, which differs from the argument only for strings.
func (vi *valueInterpolator) walk(node interface{}) interface{} {
	switch typed := node.(type) {
	case string:
		return interpolate.Func(typed, vi.lookup)
	case map[string]interface{}:
		for key, val := range typed {
			typed[key] = vi.walk(val)
		}
	case map[interface{}]interface{}:
		for key, val := range typed {
			typed[key] = vi.walk(val)
		}
	case []interface{}:
		for idx := range typed {
			typed[idx] = vi.walk(typed[idx])
		}
	}

	return node
}

func (vi *valueInterpolator) missingKeys() []string {
	if len(vi.missing) == 0 {
		return nil
	}

	keys := make([]string, 0, len(vi.missing))
	for key := range vi.missing {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

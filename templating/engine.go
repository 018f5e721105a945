package templating

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/byte4ever/bracketfmt/interpolate"
	"github.com/byte4ever/bracketfmt/stamper"
	"github.com/byte4ever/bracketfmt/substitution"
)

// ErrMissingKeys is returned in strict mode when the
// template references keys the context has no value for.
var ErrMissingKeys = errors.New("template references undefined keys")

// Engine expands templates using stamp info files,
// substitution files and explicit variables.
type Engine struct {
	StampInfoFiles    []string
	SubstitutionFiles []string

	// Strict makes undefined keys an error instead of
	// rendering them as interpolate.Undefined.
	Strict bool

	// Logger receives missing-key warnings. Nil means
	// slog.Default().
	Logger *slog.Logger

	// Stdout receives the result when no output path is
	// given. Nil means os.Stdout.
	Stdout io.Writer
}

// Expand reads a template, substitutes variables, and
// writes the result. If tplPath is empty it reads stdin;
// if outPath is empty it writes to Stdout. If executable
// is true the output file receives mode 0777 instead of
// 0666.
//
// Processing order:
//  1. Load stamp files; they form the base context.
//  2. Load substitution files over it, expanding {VAR}
//     stamp references in their values.
//  3. For each variable NAME=VALUE, expand {VAR} stamp
//     references in VALUE and store it as both "NAME"
//     and "variables.NAME".
//  4. For each import NAME=filename, interpolate the
//     file against the context, expand stamp references
//     and store the result as "imports.NAME".
//  5. Interpolate the template against the context.
func (en *Engine) Expand(
	tplPath string,
	outPath string,
	vars []string,
	imports []string,
	executable bool,
) error {
	const errCtx = "expanding template"

	tplContent, err := en.readTemplate(tplPath)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	ctx, err := en.Context(vars, imports)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := en.checkMissing(string(tplContent), ctx); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	out, closer, err := en.openOutput(outPath, executable)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if closer != nil {
		defer closer()
	}

	if _, err := interpolate.Execute(
		out, string(tplContent), ctx,
	); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// Context builds the substitution map Expand uses, from
// the engine files plus vars and imports.
func (en *Engine) Context(
	vars []string,
	imports []string,
) (map[string]string, error) {
	const errCtx = "building context"

	stamps, err := stamper.LoadStamps(en.StampInfoFiles)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	subs, err := substitution.LoadAll(en.SubstitutionFiles)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	// Stamps form the base context; substitution files,
	// variables and imports override them. Substitution
	// file values may reference stamps as {VAR}.
	ctx := substitution.Merge(
		stamps, stamper.StampValues(subs, stamps),
	)

	if err := en.resolveVars(vars, stamps, ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := en.resolveImports(imports, stamps, ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return ctx, nil
}

func (en *Engine) logger() *slog.Logger {
	if en.Logger != nil {
		return en.Logger
	}

	return slog.Default()
}

// checkMissing reports template keys absent from ctx. It
// only fails in strict mode.
func (en *Engine) checkMissing(
	tpl string,
	ctx map[string]string,
) error {
	missing := interpolate.Missing(tpl, ctx)
	if len(missing) == 0 {
		return nil
	}

	if en.Strict {
		return fmt.Errorf(
			"%w: %s",
			ErrMissingKeys, quoteAll(missing),
		)
	}

	en.logger().Warn(
		"template references undefined keys",
		"keys", missing,
		"rendered_as", interpolate.Undefined,
	)

	return nil
}

func quoteAll(keys []string) string {
	quoted := make([]string, len(keys))
	for i, key := range keys {
		quoted[i] = fmt.Sprintf("%q", key)
	}

	return strings.Join(quoted, ", ")
}

// resolveVars processes --variable flags. Each variable
// value is expanded against stamps using single-brace
// tags, then stored as both "NAME" and "variables.NAME".
func (en *Engine) resolveVars(
	vars []string,
	stamps map[string]string,
	ctx map[string]string,
) error {
	const errCtx = "resolving variables"

	for _, vr := range vars {
		name, raw, err := substitution.ParseAssignment(vr)
		if err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}

		val := stamper.Expand(raw, stamps)

		ctx[name] = val
		ctx["variables."+name] = val
	}

	return nil
}

// resolveImports processes --imports flags. Each import
// file is read, interpolated against ctx, then expanded
// against stamps, and stored as "imports.NAME".
func (en *Engine) resolveImports(
	imports []string,
	stamps map[string]string,
	ctx map[string]string,
) error {
	const errCtx = "resolving imports"

	for _, im := range imports {
		name, file, ok := strings.Cut(im, "=")
		if !ok {
			return fmt.Errorf(
				"%s: import must be NAME=filename, got %s",
				errCtx, im,
			)
		}

		content, err := os.ReadFile(file) //nolint:gosec // paths from CLI flags
		if err != nil {
			return fmt.Errorf(
				"%s: reading %s: %w",
				errCtx, file, err,
			)
		}

		val := interpolate.Interpolate(string(content), ctx)

		ctx["imports."+name] = stamper.Expand(val, stamps)
	}

	return nil
}

// readTemplate reads the template from a file path. If
// tplPath is empty it reads from stdin.
func (en *Engine) readTemplate(
	tplPath string,
) ([]byte, error) {
	const errCtx = "reading template"

	if tplPath != "" {
		content, err := os.ReadFile(tplPath) //nolint:gosec // paths from CLI flags
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		return content, nil
	}

	content, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf(
			"%s: reading stdin: %w", errCtx, err,
		)
	}

	return content, nil
}

// openOutput returns a writer for the result. When
// outPath is empty it returns stdout. The returned
// closer function must be called to finalize the file
// (may be nil for stdout).
func (en *Engine) openOutput(
	outPath string,
	executable bool,
) (io.Writer, func(), error) {
	const errCtx = "opening output"

	if outPath == "" {
		if en.Stdout != nil {
			return en.Stdout, nil, nil
		}

		return os.Stdout, nil, nil
	}

	var perm os.FileMode = 0o666
	if executable {
		perm = 0o777
	}

	fi, err := os.OpenFile( //nolint:gosec // paths from CLI flags
		outPath,
		os.O_RDWR|os.O_CREATE|os.O_TRUNC,
		perm,
	)
	if err != nil {
		return nil, nil, fmt.Errorf(
			"%s: %w", errCtx, err,
		)
	}

	return fi, func() {
		_ = fi.Close() //nolint:errcheck // best-effort close
	}, nil
}

// Binary bracketfmt expands [name] bracket templates in text
// files and YAML streams, lists the keys a template references
// and renders localized catalog messages.
package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/byte4ever/bracketfmt/interpolate"
	"github.com/byte4ever/bracketfmt/messages"
	"github.com/byte4ever/bracketfmt/substitution"
	"github.com/byte4ever/bracketfmt/templating"
	"github.com/byte4ever/bracketfmt/yamldoc"
)

const envPrefix = "BRACKETFMT_"

func newApp(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "bracketfmt",
		Usage: "substitute [name] placeholders in templates",

		// Values such as "greeting=Hello, Jim" carry commas.
		DisableSliceFlagSeparator: true,

		Commands: []*cli.Command{
			expandCommand(out),
			keysCommand(out),
			messageCommand(out),
			yamlCommand(out),
		},
	}
}

// substitutionsUsage lists the substitution file formats
// the loader understands.
func substitutionsUsage() string {
	return "substitution file, one of " +
		strings.Join(substitution.Extensions(), ", ") +
		" (repeatable)"
}

func expandCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "expand",
		Usage: "expand a template file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "template",
				Aliases: []string{"t"},
				Usage:   "input template file path (stdin if empty)",
				Sources: cli.EnvVars(envPrefix + "TEMPLATE"),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "output file path (stdout if empty)",
				Sources: cli.EnvVars(envPrefix + "OUTPUT"),
			},
			&cli.StringSliceFlag{
				Name:    "stamp-info-file",
				Usage:   "workspace status file path (repeatable)",
				Sources: cli.EnvVars(envPrefix + "STAMP_INFO_FILES"),
			},
			&cli.StringSliceFlag{
				Name:    "substitutions",
				Aliases: []string{"s"},
				Usage:   substitutionsUsage(),
				Sources: cli.EnvVars(envPrefix + "SUBSTITUTIONS"),
			},
			&cli.StringSliceFlag{
				Name:    "variable",
				Aliases: []string{"v"},
				Usage:   "variable in NAME=VALUE format (repeatable)",
			},
			&cli.StringSliceFlag{
				Name:  "imports",
				Usage: "import in NAME=filename format (repeatable)",
			},
			&cli.BoolFlag{
				Name:  "executable",
				Usage: "set executable bit on output file",
			},
			&cli.BoolFlag{
				Name:    "strict",
				Usage:   "fail when the template references undefined keys",
				Sources: cli.EnvVars(envPrefix + "STRICT"),
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			en := templating.Engine{
				StampInfoFiles:    cmd.StringSlice("stamp-info-file"),
				SubstitutionFiles: cmd.StringSlice("substitutions"),
				Strict:            cmd.Bool("strict"),
				Stdout:            out,
			}

			return en.Expand(
				cmd.String("template"),
				cmd.String("output"),
				cmd.StringSlice("variable"),
				cmd.StringSlice("imports"),
				cmd.Bool("executable"),
			)
		},
	}
}

func keysCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "keys",
		Usage: "print the keys a template references, one per line",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "template",
				Aliases: []string{"t"},
				Usage:   "input template file path (stdin if empty)",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			const errCtx = "listing keys"

			tpl, err := readInput(cmd.String("template"))
			if err != nil {
				return fmt.Errorf("%s: %w", errCtx, err)
			}

			for _, key := range interpolate.Keys(tpl) {
				if _, err := fmt.Fprintln(out, key); err != nil {
					return fmt.Errorf("%s: %w", errCtx, err)
				}
			}

			return nil
		},
	}
}

func messageCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "message",
		Usage: "render a message from localized catalog files",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:     "catalog",
				Aliases:  []string{"c"},
				Usage:    "message file such as active.en.toml (repeatable)",
				Required: true,
				Sources:  cli.EnvVars(envPrefix + "CATALOGS"),
			},
			&cli.StringFlag{
				Name:    "default-locale",
				Value:   "en",
				Usage:   "locale used when a message is missing",
				Sources: cli.EnvVars(envPrefix + "DEFAULT_LOCALE"),
			},
			&cli.StringFlag{
				Name:    "locale",
				Aliases: []string{"l"},
				Usage:   "requested locale",
				Sources: cli.EnvVars(envPrefix + "LOCALE"),
			},
			&cli.StringFlag{
				Name:     "id",
				Usage:    "message id",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:    "substitutions",
				Aliases: []string{"s"},
				Usage:   substitutionsUsage(),
			},
			&cli.StringSliceFlag{
				Name:    "variable",
				Aliases: []string{"v"},
				Usage:   "variable in NAME=VALUE format (repeatable)",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			const errCtx = "rendering message"

			ca := messages.NewCatalog(cmd.String("default-locale"))

			for _, pa := range cmd.StringSlice("catalog") {
				if err := ca.LoadFile(pa); err != nil {
					return fmt.Errorf("%s: %w", errCtx, err)
				}
			}

			files, err := substitution.LoadAll(
				cmd.StringSlice("substitutions"),
			)
			if err != nil {
				return fmt.Errorf("%s: %w", errCtx, err)
			}

			vars, err := substitution.ParseAssignments(
				cmd.StringSlice("variable"),
			)
			if err != nil {
				return fmt.Errorf("%s: %w", errCtx, err)
			}

			msg, err := ca.Render(
				cmd.String("locale"),
				cmd.String("id"),
				substitution.Merge(files, vars),
			)
			if err != nil {
				return fmt.Errorf("%s: %w", errCtx, err)
			}

			if _, err := fmt.Fprintln(out, msg); err != nil {
				return fmt.Errorf("%s: %w", errCtx, err)
			}

			return nil
		},
	}
}

func yamlCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "yaml",
		Usage: "interpolate string values of a YAML stream",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "infile",
				Usage: "input YAML file path (stdin if empty)",
			},
			&cli.StringFlag{
				Name:  "outfile",
				Usage: "output YAML file path (stdout if empty)",
			},
			&cli.StringSliceFlag{
				Name:    "substitutions",
				Aliases: []string{"s"},
				Usage:   substitutionsUsage(),
				Sources: cli.EnvVars(envPrefix + "SUBSTITUTIONS"),
			},
			&cli.StringSliceFlag{
				Name:    "variable",
				Aliases: []string{"v"},
				Usage:   "variable in NAME=VALUE format (repeatable)",
			},
			&cli.BoolFlag{
				Name:    "strict",
				Usage:   "fail when a value references undefined keys",
				Sources: cli.EnvVars(envPrefix + "STRICT"),
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			const errCtx = "interpolating yaml"

			in, err := readInput(cmd.String("infile"))
			if err != nil {
				return fmt.Errorf("%s: %w", errCtx, err)
			}

			files, err := substitution.LoadAll(
				cmd.StringSlice("substitutions"),
			)
			if err != nil {
				return fmt.Errorf("%s: %w", errCtx, err)
			}

			vars, err := substitution.ParseAssignments(
				cmd.StringSlice("variable"),
			)
			if err != nil {
				return fmt.Errorf("%s: %w", errCtx, err)
			}

			// Render fully before touching the output so a
			// strict failure leaves no partial file.
			var buf bytes.Buffer

			missing, err := yamldoc.Interpolate(
				bytes.NewBufferString(in),
				&buf,
				substitution.Merge(files, vars),
			)
			if err != nil {
				return fmt.Errorf("%s: %w", errCtx, err)
			}

			if len(missing) > 0 {
				if cmd.Bool("strict") {
					return fmt.Errorf(
						"%s: %w: %v",
						errCtx, templating.ErrMissingKeys, missing,
					)
				}

				slog.Warn(
					"yaml references undefined keys",
					"keys", missing,
				)
			}

			if outFile := cmd.String("outfile"); outFile != "" {
				//nolint:gosec // path from CLI flag
				if err := os.WriteFile(outFile, buf.Bytes(), 0o666); err != nil {
					return fmt.Errorf("%s: %w", errCtx, err)
				}

				return nil
			}

			if _, err := buf.WriteTo(out); err != nil {
				return fmt.Errorf("%s: %w", errCtx, err)
			}

			return nil
		},
	}
}

// readInput returns the content of path, or stdin when
// path is empty.
func readInput(path string) (string, error) {
	if path == "" {
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}

		return string(content), nil
	}

	content, err := os.ReadFile(path) //nolint:gosec // path from CLI flag
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	return string(content), nil
}

func main() {
	if err := newApp(os.Stdout).Run(
		context.Background(), os.Args,
	); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

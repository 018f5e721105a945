package stamper

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/valyala/fasttemplate"
)

// LoadStamps reads workspace status files and merges them
// into a single map. Each line is "KEY VALUE" with the
// first space as delimiter. Lines without a space are
// silently skipped and later files override earlier ones.
func LoadStamps(
	infoFiles []string,
) (map[string]string, error) {
	const errCtx = "loading stamps"

	stamps := make(map[string]string)

	for _, sf := range infoFiles {
		content, err := os.ReadFile(sf) //nolint:gosec // paths from CLI flags
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		for _, line := range strings.Split(
			string(content), "\n",
		) {
			line = strings.TrimSuffix(line, "\r")

			key, val, ok := strings.Cut(line, " ")
			if ok {
				stamps[key] = val
			}
		}
	}

	return stamps, nil
}

// Expand substitutes {VAR} references in format with
// stamp values. Unknown references are preserved as-is.
func Expand(
	format string,
	stamps map[string]string,
) string {
	return fasttemplate.ExecuteFuncString(
		format, "{", "}",
		func(w io.Writer, tag string) (int, error) {
			if val, ok := stamps[tag]; ok {
				return io.WriteString(w, val)
			}

			return io.WriteString(w, "{"+tag+"}")
		},
	)
}

// StampValues returns a copy of vals where every value has
// its {VAR} references expanded against stamps. Keys are
// left untouched.
func StampValues(
	vals map[string]string,
	stamps map[string]string,
) map[string]string {
	out := make(map[string]string, len(vals))

	for key, val := range vals {
		out[key] = Expand(val, stamps)
	}

	return out
}

// Stamp loads workspace status variables from infoFiles
// and substitutes {VAR} placeholders in format. Unknown
// variables are preserved as-is.
func Stamp(
	infoFiles []string,
	format string,
) (string, error) {
	const errCtx = "stamping"

	stamps, err := LoadStamps(infoFiles)
	if err != nil {
		return "", fmt.Errorf(
			"%s: %w", errCtx, err,
		)
	}

	return Expand(format, stamps), nil
}

package substitution_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/bracketfmt/substitution"
)

func writeTemp(
	tb testing.TB,
	dir string,
	name string,
	content string,
) string {
	tb.Helper()

	pa := filepath.Join(dir, name)
	require.NoError(
		tb,
		os.WriteFile(pa, []byte(content), 0o600),
	)

	return pa
}

func TestLoad_formats(t *testing.T) {
	t.Parallel()

	want := map[string]string{
		"name":            "Jim",
		"action and food": "eating your toast",
	}

	tests := []struct {
		file    string
		content string
	}{
		{
			file: "subs.yaml",
			content: "name: Jim\n" +
				"action and food: eating your toast\n",
		},
		{
			file: "subs.yml",
			content: "name: \"Jim\"\n" +
				"\"action and food\": 'eating your toast'\n",
		},
		{
			file: "subs.json",
			content: `{"name": "Jim", ` +
				`"action and food": "eating your toast"}`,
		},
		{
			file: "subs.toml",
			content: "name = \"Jim\"\n" +
				"\"action and food\" = \"eating your toast\"\n",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.file, func(t *testing.T) {
			t.Parallel()

			pa := writeTemp(t, t.TempDir(), tt.file, tt.content)

			got, err := substitution.Load(pa)

			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestLoad_empty_key(t *testing.T) {
	t.Parallel()

	pa := writeTemp(
		t, t.TempDir(), "subs.json", `{"": "", "name": "Jim"}`,
	)

	got, err := substitution.Load(pa)

	require.NoError(t, err)
	assert.Equal(t, map[string]string{"": "", "name": "Jim"}, got)
}

func TestLoad_dotenv(t *testing.T) {
	t.Parallel()

	pa := writeTemp(
		t, t.TempDir(), "subs.env",
		"# greeting values\nname=Jim\nfood=\"buttered toast\"\n",
	)

	got, err := substitution.Load(pa)

	require.NoError(t, err)
	assert.Equal(
		t,
		map[string]string{"name": "Jim", "food": "buttered toast"},
		got,
	)
}

func TestLoad_rejects_non_string_values(t *testing.T) {
	t.Parallel()

	tests := []struct {
		file    string
		content string
	}{
		{file: "n.yaml", content: "count: 3\n"},
		{file: "b.json", content: `{"flag": true}`},
		{file: "l.toml", content: "list = [\"a\"]\n"},
		{file: "o.yaml", content: "nested:\n  a: b\n"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.file, func(t *testing.T) {
			t.Parallel()

			pa := writeTemp(t, t.TempDir(), tt.file, tt.content)

			_, err := substitution.Load(pa)

			require.ErrorIs(t, err, substitution.ErrNonStringValue)
			assert.Contains(t, err.Error(), tt.file)
		})
	}
}

func TestLoad_unsupported_extension(t *testing.T) {
	t.Parallel()

	pa := writeTemp(t, t.TempDir(), "subs.ini", "a=b\n")

	_, err := substitution.Load(pa)

	require.ErrorIs(t, err, substitution.ErrUnsupportedFormat)
}

func TestLoad_malformed_document(t *testing.T) {
	t.Parallel()

	pa := writeTemp(t, t.TempDir(), "bad.json", `{"name": `)

	_, err := substitution.Load(pa)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading substitutions")
}

func TestLoad_missing_file(t *testing.T) {
	t.Parallel()

	for _, pa := range []string{
		"/nonexistent/subs.yaml",
		"/nonexistent/subs.env",
	} {
		_, err := substitution.Load(pa)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "loading substitutions")
	}
}

func TestLoadAll_later_file_overrides(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	first := writeTemp(t, dir, "a.yaml", "name: Jim\nfood: toast\n")
	second := writeTemp(t, dir, "b.json", `{"food": "crumpets"}`)

	got, err := substitution.LoadAll([]string{first, second})

	require.NoError(t, err)
	assert.Equal(
		t,
		map[string]string{"name": "Jim", "food": "crumpets"},
		got,
	)
}

func TestLoadAll_stops_on_error(t *testing.T) {
	t.Parallel()

	_, err := substitution.LoadAll(
		[]string{"/nonexistent/subs.toml"},
	)

	require.Error(t, err)
}

func TestMerge(t *testing.T) {
	t.Parallel()

	base := map[string]string{"a": "1", "b": "2"}

	got := substitution.Merge(
		base, nil, map[string]string{"b": "3", "": "empty"},
	)

	assert.Equal(
		t,
		map[string]string{"a": "1", "b": "3", "": "empty"},
		got,
	)
	assert.Equal(t, "2", base["b"])
}

func TestParseAssignments(t *testing.T) {
	t.Parallel()

	got, err := substitution.ParseAssignments([]string{
		"name=Jim",
		"eq=a=b",
		"=empty key",
		"blank=",
		"name=Bob",
	})

	require.NoError(t, err)
	assert.Equal(
		t,
		map[string]string{
			"name":  "Bob",
			"eq":    "a=b",
			"":      "empty key",
			"blank": "",
		},
		got,
	)
}

func TestParseAssignments_bad(t *testing.T) {
	t.Parallel()

	_, err := substitution.ParseAssignments([]string{"NOEQUALS"})

	require.ErrorIs(t, err, substitution.ErrBadAssignment)
	assert.Contains(t, err.Error(), "NOEQUALS")
}

func TestExtensions(t *testing.T) {
	t.Parallel()

	assert.Equal(
		t,
		[]string{".env", ".json", ".toml", ".yaml", ".yml"},
		substitution.Extensions(),
	)
}

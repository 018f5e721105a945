package messages_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/bracketfmt/messages"
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

func newCatalog(t *testing.T) *messages.Catalog {
	t.Helper()

	dir := t.TempDir()

	ca := messages.NewCatalog("en")

	require.NoError(t, ca.LoadFile(writeTemp(
		t, dir, "active.en.toml",
		"greeting = \"Hello [name] [[author]]\"\n"+
			"breakfast = \"Would you like some [food] with [spread]?\"\n",
	)))

	require.NoError(t, ca.LoadFile(writeTemp(
		t, dir, "active.fr.toml",
		"greeting = \"Bonjour [name]\"\n",
	)))

	return ca
}

func TestRender_default_locale(t *testing.T) {
	t.Parallel()

	ca := newCatalog(t)

	got, err := ca.Render(
		"en", "greeting", map[string]string{"name": "Jim"},
	)

	require.NoError(t, err)
	assert.Equal(t, "Hello Jim [author]", got)
}

func TestRender_requested_locale(t *testing.T) {
	t.Parallel()

	ca := newCatalog(t)

	got, err := ca.Render(
		"fr", "greeting", map[string]string{"name": "Jim"},
	)

	require.NoError(t, err)
	assert.Equal(t, "Bonjour Jim", got)
}

func TestRender_falls_back_to_default_locale(t *testing.T) {
	t.Parallel()

	ca := newCatalog(t)

	got, err := ca.Render(
		"fr", "breakfast", map[string]string{"food": "toast"},
	)

	require.NoError(t, err)
	assert.Equal(
		t,
		"Would you like some toast with [undefined]?",
		got,
	)
}

func TestRender_empty_locale_uses_default(t *testing.T) {
	t.Parallel()

	ca := newCatalog(t)

	got, err := ca.Render(
		"", "greeting", map[string]string{"name": "Jim"},
	)

	require.NoError(t, err)
	assert.Equal(t, "Hello Jim [author]", got)
}

func TestRender_unknown_message(t *testing.T) {
	t.Parallel()

	ca := newCatalog(t)

	_, err := ca.Render("en", "nope", nil)

	require.ErrorIs(t, err, messages.ErrMessageNotFound)
	assert.Contains(t, err.Error(), "nope")
}

func TestAddMessages(t *testing.T) {
	t.Parallel()

	ca := messages.NewCatalog("en")

	require.NoError(t, ca.AddMessages("de", map[string]string{
		"greeting": "Hallo [name]",
	}))
	require.NoError(t, ca.AddMessages("en", map[string]string{
		"greeting": "Hello [name]",
	}))

	got, err := ca.Render(
		"de", "greeting", map[string]string{"name": "Jim"},
	)

	require.NoError(t, err)
	assert.Equal(t, "Hallo Jim", got)
}

func TestRender_go_template_syntax_is_literal(t *testing.T) {
	t.Parallel()

	ca := messages.NewCatalog("en")

	require.NoError(t, ca.AddMessages("en", map[string]string{
		"braces": "Hi [name], use {{ or }} freely",
		"action": "Hi [name] {{.X}}",
	}))

	subs := map[string]string{"name": "Jim"}

	got, err := ca.Render("en", "braces", subs)
	require.NoError(t, err)
	assert.Equal(t, "Hi Jim, use {{ or }} freely", got)

	got, err = ca.Render("en", "action", subs)
	require.NoError(t, err)
	assert.Equal(t, "Hi Jim {{.X}}", got)
}

func TestAddMessages_bad_locale(t *testing.T) {
	t.Parallel()

	ca := messages.NewCatalog("en")

	err := ca.AddMessages("not a locale!", map[string]string{"a": "b"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "adding messages")
}

func TestLoadFile_yaml_and_json(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	ca := messages.NewCatalog("en")

	require.NoError(t, ca.LoadFile(writeTemp(
		t, dir, "en.yaml", "farewell: \"Bye [name]\"\n",
	)))
	require.NoError(t, ca.LoadFile(writeTemp(
		t, dir, "es.json", `{"farewell": "Adiós [name]"}`,
	)))

	subs := map[string]string{"name": "Jim"}

	got, err := ca.Render("en", "farewell", subs)
	require.NoError(t, err)
	assert.Equal(t, "Bye Jim", got)

	got, err = ca.Render("es", "farewell", subs)
	require.NoError(t, err)
	assert.Equal(t, "Adiós Jim", got)
}

func TestLoadFile_missing(t *testing.T) {
	t.Parallel()

	ca := messages.NewCatalog("en")

	err := ca.LoadFile("/nonexistent/active.en.toml")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading message file")
}

func TestNewCatalog_bad_locale_falls_back_to_english(t *testing.T) {
	t.Parallel()

	ca := messages.NewCatalog("???")

	assert.Equal(t, "en", ca.DefaultLocale())
}

func TestMustRender_returns_id_and_logs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	ca := messages.NewCatalog(
		"en",
		messages.WithLogger(
			slog.New(slog.NewTextHandler(&buf, nil)),
		),
	)

	got := ca.MustRender("en", "missing.id", nil)

	assert.Equal(t, "missing.id", got)
	assert.Contains(t, buf.String(), "rendering message failed")
	assert.Contains(t, buf.String(), "missing.id")
}

func TestMustRender_success(t *testing.T) {
	t.Parallel()

	ca := newCatalog(t)

	got := ca.MustRender(
		"en", "greeting", map[string]string{"name": "Jim"},
	)

	assert.Equal(t, "Hello Jim [author]", got)
}

package messages

import (
	"errors"
	"fmt"
	"log/slog"

	json "github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/nicksnyder/go-i18n/v2/i18n/template"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"

	"github.com/byte4ever/bracketfmt/interpolate"
)

// ErrMessageNotFound is returned when no locale of the
// catalog holds the requested message id.
var ErrMessageNotFound = errors.New("message not found")

// Catalog resolves message texts by locale and renders
// them against substitution maps.
type Catalog struct {
	bundle          *i18n.Bundle
	defaultLanguage language.Tag
	logger          *slog.Logger
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithLogger sets the logger MustRender reports to.
func WithLogger(logger *slog.Logger) Option {
	return func(ca *Catalog) {
		ca.logger = logger
	}
}

// NewCatalog builds an empty catalog whose fallback locale
// is defaultLocale (e.g. "en"). An unparsable locale falls
// back to English.
func NewCatalog(defaultLocale string, opts ...Option) *Catalog {
	tag, err := language.Parse(defaultLocale)
	if err != nil {
		tag = language.English
	}

	bundle := i18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)
	bundle.RegisterUnmarshalFunc(
		"yaml",
		func(data []byte, v interface{}) error {
			return yaml.Unmarshal(data, v)
		},
	)

	ca := &Catalog{
		bundle:          bundle,
		defaultLanguage: tag,
		logger:          slog.Default(),
	}

	for _, opt := range opts {
		opt(ca)
	}

	return ca
}

// DefaultLocale returns the catalog fallback locale.
func (ca *Catalog) DefaultLocale() string {
	return ca.defaultLanguage.String()
}

// LoadFile adds the messages of a go-i18n message file.
// The locale comes from the file name, e.g. active.fr.toml
// or en.yaml.
func (ca *Catalog) LoadFile(path string) error {
	const errCtx = "loading message file"

	if _, err := ca.bundle.LoadMessageFile(path); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// AddMessages registers id -> text pairs for locale.
func (ca *Catalog) AddMessages(
	locale string,
	msgs map[string]string,
) error {
	const errCtx = "adding messages"

	tag, err := language.Parse(locale)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	list := make([]*i18n.Message, 0, len(msgs))
	for id, text := range msgs {
		list = append(list, &i18n.Message{ID: id, Other: text})
	}

	if err := ca.bundle.AddMessages(tag, list...); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// Text returns the raw text of message id for locale,
// falling back to the default locale. The text is not run
// through Go templates, so "{{" and "}}" are literal.
func (ca *Catalog) Text(locale, id string) (string, error) {
	const errCtx = "resolving message"

	langs := make([]string, 0, 2)
	if locale != "" {
		langs = append(langs, locale)
	}

	langs = append(langs, ca.defaultLanguage.String())

	localizer := i18n.NewLocalizer(ca.bundle, langs...)

	text, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:      id,
		TemplateParser: template.IdentityParser{},
	})
	if err != nil {
		var notFound *i18n.MessageNotFoundErr
		if errors.As(err, &notFound) {
			return "", fmt.Errorf(
				"%s: %q: %w", errCtx, id, ErrMessageNotFound,
			)
		}

		return "", fmt.Errorf("%s: %q: %w", errCtx, id, err)
	}

	return text, nil
}

// Render resolves message id for locale and interpolates
// it against subs.
func (ca *Catalog) Render(
	locale string,
	id string,
	subs map[string]string,
) (string, error) {
	text, err := ca.Text(locale, id)
	if err != nil {
		return "", err
	}

	return interpolate.Interpolate(text, subs), nil
}

// MustRender is Render that never fails: when the message
// cannot be resolved it logs the error and returns id.
func (ca *Catalog) MustRender(
	locale string,
	id string,
	subs map[string]string,
) string {
	out, err := ca.Render(locale, id, subs)
	if err != nil {
		ca.logger.Warn(
			"rendering message failed",
			"id", id,
			"locale", locale,
			"error", err,
		)

		return id
	}

	return out
}

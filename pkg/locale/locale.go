// Package locale provides the engine's fallback and default texts in several languages.
//
// Translations are go-i18n TOML message files embedded in the binary. Extra
// files can be loaded at runtime to add languages or override messages.
package locale

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/BurntSushi/toml"
	"github.com/elliotchance/pie/v2"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/aretw0/pageflow"
	"github.com/aretw0/pageflow/pkg/domain"
)

//go:embed locales/*.toml
var localeFS embed.FS

// Message ids.
const (
	MsgFallbackText       = "fallback_text"
	MsgUnresolvedText     = "unresolved_text"
	MsgDefaultActionLabel = "default_action_label"
	MsgDefaultPatientName = "default_patient_name"
)

// DefaultLanguage is used when no requested language matches.
var DefaultLanguage = language.English

// Bundle holds the loaded translations.
type Bundle struct {
	bundle *i18n.Bundle
}

// NewBundle loads the embedded translations.
func NewBundle() (*Bundle, error) {
	b := i18n.NewBundle(DefaultLanguage)
	b.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, err := fs.Glob(localeFS, "locales/*.toml")
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		if _, err := b.LoadMessageFileFS(localeFS, f); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return &Bundle{bundle: b}, nil
}

// LoadFile adds a message file from disk, e.g. "active.fr.toml".
// The language is taken from the file name.
func (b *Bundle) LoadFile(path string) error {
	if _, err := b.bundle.LoadMessageFile(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Languages returns the available language tags, sorted.
func (b *Bundle) Languages() []string {
	tags := b.bundle.LanguageTags()
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.String()
	}
	return pie.Sort(names)
}

// Localizer resolves texts for a list of preferred languages
// (BCP 47 tags or Accept-Language values).
type Localizer struct {
	localizer *i18n.Localizer
	lang      string
}

// Localizer returns a localizer for the given preferences.
func (b *Bundle) Localizer(langs ...string) *Localizer {
	lang := DefaultLanguage.String()
	if len(langs) > 0 && langs[0] != "" {
		if tag, err := language.Parse(langs[0]); err == nil {
			lang = tag.String()
		}
	}
	return &Localizer{localizer: i18n.NewLocalizer(b.bundle, langs...), lang: lang}
}

// Language returns the first preferred language, normalized.
func (l *Localizer) Language() string {
	return l.lang
}

// Message returns the translation of id, or fallback if there is none.
func (l *Localizer) Message(id, fallback string) string {
	msg, err := l.localizer.Localize(&i18n.LocalizeConfig{MessageID: id})
	if err != nil || msg == "" {
		return fallback
	}
	return msg
}

// Texts implements pageflow.TextSource.
func (l *Localizer) Texts() pageflow.Texts {
	def := pageflow.DefaultTexts()
	return pageflow.Texts{
		FallbackText:       l.Message(MsgFallbackText, def.FallbackText),
		UnresolvedText:     l.Message(MsgUnresolvedText, def.UnresolvedText),
		DefaultActionLabel: l.Message(MsgDefaultActionLabel, def.DefaultActionLabel),
		Defaults: map[string]string{
			domain.PlaceholderPatientName: l.Message(MsgDefaultPatientName, def.Defaults[domain.PlaceholderPatientName]),
		},
	}
}

// Texts is a shortcut for loading the embedded bundle and localizing it.
func Texts(langs ...string) (pageflow.Texts, error) {
	b, err := NewBundle()
	if err != nil {
		return pageflow.Texts{}, err
	}
	return b.Localizer(langs...).Texts(), nil
}

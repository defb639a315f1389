package i18nsvc

import (
	"embed"
	"fmt"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"golang.org/x/text/language"

	"github.com/trezcool/actios/core"
	"github.com/trezcool/actios/core/notification"
)

//go:embed active.*.toml
var localeFS embed.FS

var localeFiles = []string{"active.en.toml", "active.fr.toml"}

type Translator struct {
	bundle          *i18n.Bundle
	defaultLanguage language.Tag
	logger          core.Logger
}

var _ notification.Translator = (*Translator)(nil)

// NewTranslator loads the embedded message files. Unknown locales fall back to English.
func NewTranslator(conf *core.Config, logger core.Logger) (*Translator, error) {
	tag, err := language.Parse(conf.Locale)
	if err != nil {
		tag = language.English
	}
	bundle := i18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, file := range localeFiles {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			return nil, errors.Wrapf(err, "loading %s", file)
		}
	}
	return &Translator{bundle: bundle, defaultLanguage: tag, logger: logger}, nil
}

// T renders the message identified by key for locale, falling back to the default
// language and finally to the key itself.
func (t *Translator) T(locale, key string, data map[string]interface{}) string {
	if key == "" {
		return ""
	}
	languages := make([]string, 0, 2)
	if locale != "" {
		languages = append(languages, locale)
	}
	languages = append(languages, t.defaultLanguage.String())

	localizer := i18n.NewLocalizer(t.bundle, languages...)
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		if t.logger != nil {
			t.logger.Warn(fmt.Sprintf("i18n: localize failed (key=%s, locales=%v)", key, languages), err)
		}
		return key
	}
	return msg
}

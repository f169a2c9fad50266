package i18n

import (
	"embed"

	"github.com/bytedance/sonic"
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var locales embed.FS

// Translator resolves user facing message ids for an Accept-Language value.
type Translator struct {
	bundle *goi18n.Bundle
}

func NewTranslator() (*Translator, error) {
	bundle := goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", sonic.Unmarshal)

	for _, file := range []string{"locales/active.en.json", "locales/active.de.json"} {
		if _, err := bundle.LoadMessageFileFS(locales, file); err != nil {
			return nil, err
		}
	}
	return &Translator{bundle: bundle}, nil
}

// MustTranslator panics when the embedded message files are broken.
func MustTranslator() *Translator {
	t, err := NewTranslator()
	if err != nil {
		panic(err)
	}
	return t
}

// T localizes id. Unknown ids fall back to the id itself so a missing
// translation never hides the failure it describes.
func (t *Translator) T(acceptLanguage, id string, data map[string]any) string {
	loc := goi18n.NewLocalizer(t.bundle, acceptLanguage, language.English.String())
	msg, err := loc.Localize(&goi18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
	if err != nil {
		return id
	}
	return msg
}

package i18n

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"log"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

var (
	bundle        *i18n.Bundle
	matcher       language.Matcher
	defaultLocale = "en"
)

type ctxKey struct{}

// Init loads all locale files and sets the default locale.
func Init(defLocale string) {
	if defLocale != "" {
		defaultLocale = defLocale
	}

	bundle = i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		log.Fatalf("i18n: read locales dir: %v", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := localeFS.ReadFile("locales/" + e.Name())
		if err != nil {
			log.Fatalf("i18n: read %s: %v", e.Name(), err)
		}
		bundle.MustParseMessageFileBytes(data, e.Name())
	}
	matcher = language.NewMatcher(bundle.LanguageTags())
	log.Printf("i18n: loaded %d locale files, default=%s", len(entries), defaultLocale)
}

// Match picks the best supported locale for an Accept-Language header value.
// It returns "" when nothing matches.
func Match(acceptLanguage string) string {
	if matcher == nil || acceptLanguage == "" {
		return ""
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return ""
	}
	tag, _, conf := matcher.Match(tags...)
	if conf == language.No {
		return ""
	}
	base, _ := tag.Base()
	return base.String()
}

// WithLocale returns a new context carrying the given locale string (e.g. "si", "en").
func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, ctxKey{}, locale)
}

// LocaleFromContext extracts the locale from the context.
// Returns the configured default locale if not set.
func LocaleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKey{}).(string); ok && v != "" {
		return v
	}
	return defaultLocale
}

// T translates a message ID using the locale from the context.
// Optional templateData provides values for template placeholders.
func T(ctx context.Context, messageID string, templateData ...map[string]any) string {
	if bundle == nil {
		return messageID
	}
	cfg := &i18n.LocalizeConfig{MessageID: messageID}
	if len(templateData) > 0 && templateData[0] != nil {
		cfg.TemplateData = templateData[0]
	}

	locale := LocaleFromContext(ctx)
	if msg, ok := localize(i18n.NewLocalizer(bundle, locale, defaultLocale), cfg); ok {
		return msg
	}
	if locale != defaultLocale {
		if msg, ok := localize(i18n.NewLocalizer(bundle, defaultLocale), cfg); ok {
			return msg
		}
	}
	return messageID
}

// localize treats a MessageNotFoundErr that still carries fallback text as success.
func localize(l *i18n.Localizer, cfg *i18n.LocalizeConfig) (string, bool) {
	msg, err := l.Localize(cfg)
	if err == nil {
		return msg, true
	}
	var missing *i18n.MessageNotFoundErr
	if errors.As(err, &missing) && msg != "" {
		return msg, true
	}
	return "", false
}

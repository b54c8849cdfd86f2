package i18n

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

type ctxKey struct{}

type localized struct {
	loc *i18n.Localizer
	tag language.Tag
}

var (
	bundle     *i18n.Bundle
	defaultTag = language.English
	matcher    language.Matcher
)

// Init loads the translation bundle and makes lang the fallback language.
func Init(lang string) error {
	tag, err := language.Parse(lang)
	if err != nil {
		return fmt.Errorf("parse language %q: %w", lang, err)
	}

	b := i18n.NewBundle(tag)
	b.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return fmt.Errorf("read locales dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := localeFS.ReadFile("locales/" + e.Name())
		if err != nil {
			return fmt.Errorf("read locale file %s: %w", e.Name(), err)
		}
		if _, err := b.ParseMessageFileBytes(data, e.Name()); err != nil {
			return fmt.Errorf("parse locale file %s: %w", e.Name(), err)
		}
		slog.Debug("loaded locale file", "file", e.Name())
	}

	bundle = b
	defaultTag = tag
	// The default goes first so unmatched requests fall back to it.
	tags := []language.Tag{tag}
	for _, t := range b.LanguageTags() {
		if t != tag {
			tags = append(tags, t)
		}
	}
	matcher = language.NewMatcher(tags)
	return nil
}

// Languages lists the loaded locales.
func Languages() []language.Tag {
	if bundle == nil {
		return nil
	}
	return bundle.LanguageTags()
}

// Match picks the best supported language for the given preferences. Each
// preference may be a tag or a whole Accept-Language header value.
func Match(prefs ...string) language.Tag {
	if matcher == nil {
		return defaultTag
	}
	tag, _ := language.MatchStrings(matcher, prefs...)
	base, _ := tag.Base()
	// MatchStrings may return a tag with a -u-rg extension; keep the base.
	t, err := language.Compose(base)
	if err != nil {
		return defaultTag
	}
	return t
}

// NewLocalizer creates a localizer for the given language preferences.
func NewLocalizer(langs ...string) *i18n.Localizer {
	return i18n.NewLocalizer(bundle, append(langs, defaultTag.String())...)
}

// WithLanguage stores a localizer for the best match of prefs in the context.
func WithLanguage(ctx context.Context, prefs ...string) context.Context {
	tag := Match(prefs...)
	return context.WithValue(ctx, ctxKey{}, localized{loc: NewLocalizer(tag.String()), tag: tag})
}

func fromCtx(ctx context.Context) localized {
	if l, ok := ctx.Value(ctxKey{}).(localized); ok {
		return l
	}
	return localized{loc: NewLocalizer(defaultTag.String()), tag: defaultTag}
}

// Lang returns the language chosen for ctx.
func Lang(ctx context.Context) language.Tag {
	return fromCtx(ctx).tag
}

// T translates a message by ID.
func T(ctx context.Context, msgID string) string {
	return localize(ctx, &i18n.LocalizeConfig{MessageID: msgID})
}

// Td translates a message by ID with template data.
func Td(ctx context.Context, msgID string, data map[string]any) string {
	return localize(ctx, &i18n.LocalizeConfig{
		MessageID:    msgID,
		TemplateData: data,
	})
}

// Tp translates a pluralized message by ID. Count is also available to the
// template, alongside any extra data.
func Tp(ctx context.Context, msgID string, count int, data ...map[string]any) string {
	td := map[string]any{"Count": count}
	for _, d := range data {
		for k, v := range d {
			td[k] = v
		}
	}
	return localize(ctx, &i18n.LocalizeConfig{
		MessageID:    msgID,
		PluralCount:  count,
		TemplateData: td,
	})
}

func localize(ctx context.Context, cfg *i18n.LocalizeConfig) string {
	s, err := fromCtx(ctx).loc.Localize(cfg)
	if err != nil {
		slog.Warn("missing translation", "id", cfg.MessageID, "error", err)
		return cfg.MessageID
	}
	return s
}

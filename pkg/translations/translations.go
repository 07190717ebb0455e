// Package translations supplies localized unit names for badges.
package translations

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/money-is-time/models"
)

//go:embed locales/*.yaml
var locales embed.FS

const (
	msgYears   = "years_unit"
	msgMonths  = "months_unit"
	msgDays    = "days_unit"
	msgHours   = "hours_unit"
	msgMinutes = "minutes_unit"
)

// Provider returns unit names for a language code.
type Provider interface {
	Units(lang string) models.UnitNames
}

// Bundle is a Provider backed by a go-i18n bundle.
type Bundle struct {
	bundle *i18n.Bundle
	logger *slog.Logger
}

// New loads the embedded locales.
func New(logger *slog.Logger) (*Bundle, error) {
	return NewFromFS(locales, "locales", logger)
}

// NewFromFS loads every active.<lang>.yaml file under dir in fsys.
func NewFromFS(fsys fs.FS, dir string, logger *slog.Logger) (*Bundle, error) {
	if logger == nil {
		logger = slog.Default()
	}

	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)

	files, err := fs.Glob(fsys, path.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list translation files: %w", err)
	}
	for _, f := range files {
		if _, err := bundle.LoadMessageFileFS(fsys, f); err != nil {
			return nil, fmt.Errorf("failed to load translation file %s: %w", f, err)
		}
	}

	return &Bundle{bundle: bundle, logger: logger}, nil
}

// Languages returns the base language codes with a translation file.
func (b *Bundle) Languages() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, tag := range b.bundle.LanguageTags() {
		base, _ := tag.Base()
		code := base.String()
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// Supports reports whether lang has its own translation file.
func (b *Bundle) Supports(lang string) bool {
	lang = strings.ToLower(strings.TrimSpace(lang))
	for _, l := range b.Languages() {
		if l == lang {
			return true
		}
	}
	return false
}

// Units returns the unit table for lang. Unknown languages and missing
// entries fall back to English.
func (b *Bundle) Units(lang string) models.UnitNames {
	localizer := i18n.NewLocalizer(b.bundle, lang, language.English.String())
	en := models.EnglishUnits()

	return models.UnitNames{
		Years:   b.localize(localizer, lang, msgYears, en.Years),
		Months:  b.localize(localizer, lang, msgMonths, en.Months),
		Days:    b.localize(localizer, lang, msgDays, en.Days),
		Hours:   b.localize(localizer, lang, msgHours, en.Hours),
		Minutes: b.localize(localizer, lang, msgMinutes, en.Minutes),
	}
}

func (b *Bundle) localize(localizer *i18n.Localizer, lang, id, fallback string) string {
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:      id,
		DefaultMessage: &i18n.Message{ID: id, Other: fallback},
	})
	if err != nil {
		b.logger.Debug("Translation missing, using English", "language", lang, "message_id", id, "error", err)
	}
	if msg == "" {
		return fallback
	}
	return msg
}

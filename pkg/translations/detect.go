package translations

import (
	"strings"

	"github.com/pemistahl/lingua-go"

	"github.com/dtnitsch/money-is-time/models"
)

// Auto is the language setting that picks the page's language.
const Auto = "auto"

var linguaLanguages = map[string]lingua.Language{
	"en": lingua.English,
	"de": lingua.German,
	"fr": lingua.French,
	"es": lingua.Spanish,
	"it": lingua.Italian,
	"pt": lingua.Portuguese,
	"ru": lingua.Russian,
	"tr": lingua.Turkish,
	"pl": lingua.Polish,
}

// Detector guesses the language of page text, restricted to the languages
// the bundle can translate into.
type Detector struct {
	detector lingua.LanguageDetector
}

// NewDetector builds a detector for langs. Codes lingua does not know are
// ignored; at least two known codes are needed.
func NewDetector(langs []string) *Detector {
	var known []lingua.Language
	for _, l := range langs {
		if ll, ok := linguaLanguages[l]; ok {
			known = append(known, ll)
		}
	}
	if len(known) < 2 {
		return &Detector{}
	}
	return &Detector{
		detector: lingua.NewLanguageDetectorBuilder().FromLanguages(known...).Build(),
	}
}

// Detect returns the ISO 639-1 code of text's language.
func (d *Detector) Detect(text string) (string, bool) {
	if d.detector == nil || strings.TrimSpace(text) == "" {
		return "", false
	}
	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}

// Resolve picks the badge language. Explicit settings win; "auto" uses the
// page's declared language when translated, then detection, then English.
func Resolve(setting string, page models.Page, b *Bundle, d *Detector) string {
	setting = strings.ToLower(strings.TrimSpace(setting))
	if setting != Auto && setting != "" {
		return setting
	}
	if setting == "" {
		return "en"
	}

	if declared := baseLanguage(page.Language); declared != "" && b.Supports(declared) {
		return declared
	}
	if d != nil {
		if detected, ok := d.Detect(page.ToPlainText()); ok && b.Supports(detected) {
			return detected
		}
	}
	return "en"
}

func baseLanguage(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if i := strings.IndexAny(tag, "-_"); i >= 0 {
		tag = tag[:i]
	}
	return tag
}

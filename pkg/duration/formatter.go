package duration

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dtnitsch/money-is-time/models"
)

// DefaultCompactThreshold is the number of annotations on a page after which
// badges switch to the compact form.
const DefaultCompactThreshold = 15

// Formatter renders breakdowns for one language. It is safe for concurrent
// use; a Caser is not, so one is built per call.
type Formatter struct {
	tag language.Tag
}

// NewFormatter returns a Formatter that abbreviates units using the casing
// rules of lang. Unknown tags fall back to English rules.
func NewFormatter(lang string) *Formatter {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	return &Formatter{tag: tag}
}

// Compact reports whether badges should use the compact form once
// processed annotations already exist on the page.
func Compact(processed, threshold int) bool {
	return processed > threshold
}

type unit struct {
	value int
	name  string
}

// Format returns the two largest non-zero units of b, either spelled out
// ("1 days 1 hours") or abbreviated ("1d 1h"). All-zero breakdowns render as
// zero minutes.
func (f *Formatter) Format(b models.DurationBreakdown, names models.UnitNames, compact bool) string {
	units := []unit{
		{b.Years, names.Years},
		{b.Months, names.Months},
		{b.Days, names.Days},
		{b.Hours, names.Hours},
		{b.Minutes, names.Minutes},
	}

	picked := make([]unit, 0, 2)
	for _, u := range units {
		if u.value == 0 {
			continue
		}
		picked = append(picked, u)
		if len(picked) == 2 {
			break
		}
	}
	if len(picked) == 0 {
		picked = append(picked, unit{0, names.Minutes})
	}

	parts := make([]string, len(picked))
	for i, u := range picked {
		if compact {
			parts[i] = strconv.Itoa(u.value) + f.Abbreviate(u.name)
		} else {
			parts[i] = strconv.Itoa(u.value) + " " + u.name
		}
	}
	return strings.Join(parts, " ")
}

// Abbreviate returns the lowercased first character of name. Translations
// whose unit names share an initial produce colliding abbreviations.
func (f *Formatter) Abbreviate(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError && size <= 1 {
		return ""
	}
	return cases.Lower(f.tag).String(name[:size])
}

package duration

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dtnitsch/money-is-time/models"
)

func TestFormat(t *testing.T) {
	f := NewFormatter("en")
	en := models.EnglishUnits()

	tests := []struct {
		name    string
		b       models.DurationBreakdown
		compact bool
		want    string
	}{
		{name: "two largest units", b: models.DurationBreakdown{Days: 1, Hours: 1, Minutes: 24}, want: "1 days 1 hours"},
		{name: "skips zero units", b: models.DurationBreakdown{Years: 2, Days: 3, Minutes: 5}, want: "2 years 3 days"},
		{name: "single unit", b: models.DurationBreakdown{Minutes: 42}, want: "42 minutes"},
		{name: "all zero", b: models.DurationBreakdown{}, want: "0 minutes"},
		{name: "compact", b: models.DurationBreakdown{Days: 1, Hours: 1, Minutes: 24}, compact: true, want: "1d 1h"},
		{name: "compact years months", b: models.DurationBreakdown{Years: 1, Months: 11, Days: 4}, compact: true, want: "1y 11m"},
		{name: "compact zero", b: models.DurationBreakdown{}, compact: true, want: "0m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Format(tt.b, en, tt.compact))
		})
	}
}

func TestFormat_LocalizedAbbreviations(t *testing.T) {
	de := models.UnitNames{Years: "Jahre", Months: "Monate", Days: "Tage", Hours: "Stunden", Minutes: "Minuten"}
	got := NewFormatter("de").Format(models.DurationBreakdown{Days: 2, Hours: 3}, de, true)
	assert.Equal(t, "2t 3s", got)

	ru := models.UnitNames{Years: "лет", Months: "мес.", Days: "дн.", Hours: "Часов", Minutes: "мин"}
	got = NewFormatter("ru").Format(models.DurationBreakdown{Hours: 5, Minutes: 10}, ru, true)
	assert.Equal(t, "5ч 10м", got)
}

func TestAbbreviate_TurkishCasing(t *testing.T) {
	assert.Equal(t, "i", NewFormatter("tr").Abbreviate("İş"))
	assert.Equal(t, "", NewFormatter("en").Abbreviate(""))
}

func TestCompact(t *testing.T) {
	assert.False(t, Compact(15, DefaultCompactThreshold))
	assert.True(t, Compact(16, DefaultCompactThreshold))
}

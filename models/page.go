package models

import "time"

// Page describes the document an annotator run worked on.
type Page struct {
	URL      string `json:"url,omitempty" yaml:"url,omitempty"`
	Domain   string `json:"domain,omitempty" yaml:"domain,omitempty"`
	Title    string `json:"title,omitempty" yaml:"title,omitempty"`
	SiteName string `json:"site_name,omitempty" yaml:"site_name,omitempty"`
	Excerpt  string `json:"excerpt,omitempty" yaml:"excerpt,omitempty"`
	Language string `json:"language,omitempty" yaml:"language,omitempty"`
	Text     string `json:"-" yaml:"-"`
}

// Annotation is the outcome of converting one price into a badge.
type Annotation struct {
	Match          PriceMatch        `json:"match" yaml:"match"`
	Rate           float64           `json:"rate" yaml:"rate"`
	Converted      float64           `json:"converted" yaml:"converted"`
	TargetCurrency string            `json:"target_currency" yaml:"target_currency"`
	Breakdown      DurationBreakdown `json:"breakdown" yaml:"breakdown"`
	Label          string            `json:"label" yaml:"label"`
	Compact        bool              `json:"compact,omitempty" yaml:"compact,omitempty"`
	Err            error             `json:"-" yaml:"-"`
	Error          string            `json:"error,omitempty" yaml:"error,omitempty"`
}

// Report is the summary printed after an annotate run.
type Report struct {
	Page        Page         `json:"page" yaml:"page"`
	ScannedAt   time.Time    `json:"scanned_at" yaml:"scanned_at"`
	Matches     int          `json:"matches" yaml:"matches"`
	Annotated   int          `json:"annotated" yaml:"annotated"`
	Skipped     int          `json:"skipped" yaml:"skipped"`
	Annotations []Annotation `json:"annotations" yaml:"annotations"`
}

// ToPlainText returns the page text used for language detection.
func (p *Page) ToPlainText() string {
	if p.Text != "" {
		return p.Text
	}
	return p.Title + "\n" + p.Excerpt
}

package models

import "github.com/shopspring/decimal"

// Span is a half-open byte range [Start, End) into the scanned text.
type Span struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// PriceMatch is one currency-tagged amount found in a block of text.
type PriceMatch struct {
	Text         string          `json:"text" yaml:"text"`
	AmountRaw    string          `json:"amount_raw" yaml:"amount_raw"`
	Amount       decimal.Decimal `json:"amount" yaml:"amount"`
	Token        string          `json:"token" yaml:"token"`
	CurrencyCode string          `json:"currency" yaml:"currency"`
	SourceSpan   Span            `json:"span" yaml:"span"`
}

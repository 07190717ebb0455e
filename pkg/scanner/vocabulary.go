package scanner

import (
	"sort"
	"strings"
	"unicode"
)

// Vocabulary maps currency symbols and codes to ISO 4217 codes.
// Lookups are case-sensitive.
type Vocabulary map[string]string

// DefaultVocabulary is the built-in symbol table.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		"$":   "USD",
		"€":   "EUR",
		"£":   "GBP",
		"¥":   "JPY",
		"₹":   "INR",
		"C$":  "CAD",
		"A$":  "AUD",
		"CHF": "CHF",
		"RUB": "RUB",
		"R$":  "BRL",
		"₺":   "TRY",
	}
}

// Resolve returns the ISO code for token. Unknown tokens made of exactly three
// uppercase ASCII letters are taken as ISO codes verbatim, so ordinary
// acronyms can match too.
func (v Vocabulary) Resolve(token string) (string, bool) {
	if code, ok := v[token]; ok {
		return code, true
	}
	if isISOCode(token) {
		return token, true
	}
	return "", false
}

// Tokens returns the vocabulary keys, longest first so that "C$" wins over "$".
func (v Vocabulary) Tokens() []string {
	tokens := make([]string, 0, len(v))
	for t := range v {
		tokens = append(tokens, t)
	}
	sort.Slice(tokens, func(i, j int) bool {
		if len(tokens[i]) != len(tokens[j]) {
			return len(tokens[i]) > len(tokens[j])
		}
		return tokens[i] < tokens[j]
	})
	return tokens
}

// Indicators returns the non-letter runes used by the vocabulary's symbols.
func (v Vocabulary) Indicators() string {
	seen := map[rune]struct{}{}
	var b strings.Builder
	for _, t := range v.Tokens() {
		for _, r := range t {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				continue
			}
			if _, ok := seen[r]; ok {
				continue
			}
			seen[r] = struct{}{}
			b.WriteRune(r)
		}
	}
	return b.String()
}

// HasIndicator reports whether text contains a currency indicator character.
func (v Vocabulary) HasIndicator(text string) bool {
	return strings.ContainsAny(text, v.Indicators())
}

func isISOCode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for i := 0; i < 3; i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}

// Package scanner finds currency-tagged amounts in free text.
package scanner

import (
	"iter"
	"regexp"
	"strings"

	"github.com/dtnitsch/money-is-time/models"
	"github.com/dtnitsch/money-is-time/pkg/normalizer"
)

const (
	whitespace = `[\s\x{00A0}\x{202F}]*`
	numeral    = `\d+(?:[.,]\d+)*`
)

// Scanner is built once per vocabulary and reused for every text node.
// It is safe for concurrent use.
type Scanner struct {
	vocab      Vocabulary
	normalizer *normalizer.Normalizer
	pattern    *regexp.Regexp
	indicators string
}

// New compiles the price pattern for vocab.
func New(vocab Vocabulary, n *normalizer.Normalizer) *Scanner {
	if n == nil {
		n = normalizer.New(normalizer.PreferThousands)
	}

	quoted := make([]string, 0, len(vocab)+1)
	for _, t := range vocab.Tokens() {
		quoted = append(quoted, regexp.QuoteMeta(t))
	}
	quoted = append(quoted, `\b[A-Z]{3}\b`)
	token := "(" + strings.Join(quoted, "|") + ")"

	pattern := regexp.MustCompile(
		token + whitespace + "(" + numeral + ")" +
			"|" +
			"(" + numeral + ")" + whitespace + token,
	)

	return &Scanner{
		vocab:      vocab,
		normalizer: n,
		pattern:    pattern,
		indicators: vocab.Indicators(),
	}
}

// Vocabulary returns the scanner's symbol table.
func (s *Scanner) Vocabulary() Vocabulary {
	return s.vocab
}

// HasIndicator reports whether text is worth scanning at all.
func (s *Scanner) HasIndicator(text string) bool {
	return strings.ContainsAny(text, s.indicators)
}

// Scan yields every valid price in text, in order. Matches whose token does
// not resolve to a currency or whose amount does not parse are skipped. A
// trailing token glued to the digits after it ("2 $19.99") belongs to the next
// amount, so scanning resumes at that token. A token separated from the next
// number by whitespace ("10 € 20 €") closes its own amount.
func (s *Scanner) Scan(text string) iter.Seq[models.PriceMatch] {
	return func(yield func(models.PriceMatch) bool) {
		pos := 0
		for pos < len(text) {
			loc := s.pattern.FindStringSubmatchIndex(text[pos:])
			if loc == nil {
				return
			}
			for i := range loc {
				if loc[i] >= 0 {
					loc[i] += pos
				}
			}

			if loc[2] < 0 && digitFollows(text, loc[1]) {
				pos = loc[8]
				continue
			}
			pos = loc[1]

			m, ok := s.resolve(text, loc)
			if !ok {
				continue
			}
			if !yield(m) {
				return
			}
		}
	}
}

func digitFollows(text string, i int) bool {
	return i < len(text) && text[i] >= '0' && text[i] <= '9'
}

// First returns the first valid price in text.
func (s *Scanner) First(text string) (models.PriceMatch, bool) {
	for m := range s.Scan(text) {
		return m, true
	}
	return models.PriceMatch{}, false
}

// resolve turns a submatch index slice into a PriceMatch.
// Groups: 1 token, 2 amount (prefix form); 3 amount, 4 token (suffix form).
func (s *Scanner) resolve(text string, loc []int) (models.PriceMatch, bool) {
	group := func(i int) string {
		if loc[2*i] < 0 {
			return ""
		}
		return text[loc[2*i]:loc[2*i+1]]
	}

	token, raw := group(1), group(2)
	if token == "" {
		raw, token = group(3), group(4)
	}

	code, ok := s.vocab.Resolve(token)
	if !ok {
		return models.PriceMatch{}, false
	}
	amount, ok := s.normalizer.Parse(raw)
	if !ok {
		return models.PriceMatch{}, false
	}

	return models.PriceMatch{
		Text:         text[loc[0]:loc[1]],
		AmountRaw:    raw,
		Amount:       amount,
		Token:        token,
		CurrencyCode: code,
		SourceSpan:   models.Span{Start: loc[0], End: loc[1]},
	}, true
}

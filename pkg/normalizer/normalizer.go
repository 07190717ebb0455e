// Package normalizer turns locale-ambiguous numeric literals such as
// "1.234,56", "199,99" or "22.900" into decimal values.
package normalizer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Policy decides how a lone dot followed by exactly three digits is read.
type Policy int

const (
	// PreferThousands reads "22.900" as 22900.
	PreferThousands Policy = iota
	// PreferDecimal reads "1.234" as 1.234.
	PreferDecimal
)

func (p Policy) String() string {
	if p == PreferDecimal {
		return "decimal"
	}
	return "thousands"
}

// ParsePolicy maps a config value onto a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "thousands":
		return PreferThousands, nil
	case "decimal":
		return PreferDecimal, nil
	default:
		return PreferThousands, fmt.Errorf("unknown normalizer policy %q", s)
	}
}

var (
	literalPattern   = regexp.MustCompile(`^[\d.,]+$`)
	thousandsPattern = regexp.MustCompile(`^\d{1,3}\.\d{3}$`)
	canonicalPattern = regexp.MustCompile(`^\d+(\.\d+)?$`)
)

// Normalizer is safe for concurrent use.
type Normalizer struct {
	policy Policy
}

// New returns a Normalizer using the given policy for the "1.234" case.
func New(policy Policy) *Normalizer {
	return &Normalizer{policy: policy}
}

// Policy returns the configured ambiguity policy.
func (n *Normalizer) Policy() Policy {
	return n.policy
}

// Canonical rewrites raw into a dot-decimal literal without grouping.
// Rules, first match wins:
//  1. dots and commas: dots group thousands, the comma is the decimal point
//  2. commas only: the comma is the decimal point
//  3. one dot in the form d{1,3}.ddd: thousands separator (PreferThousands only)
//  4. dots only: decimal point
//  5. no separator: unchanged
func (n *Normalizer) Canonical(raw string) (string, bool) {
	if !literalPattern.MatchString(raw) {
		return "", false
	}

	dots := strings.Count(raw, ".")
	commas := strings.Count(raw, ",")

	var out string
	switch {
	case dots > 0 && commas > 0:
		out = strings.ReplaceAll(strings.ReplaceAll(raw, ".", ""), ",", ".")
	case commas > 0:
		out = strings.ReplaceAll(raw, ",", ".")
	case dots == 1 && n.policy == PreferThousands && thousandsPattern.MatchString(raw):
		out = strings.ReplaceAll(raw, ".", "")
	default:
		out = raw
	}

	if !canonicalPattern.MatchString(out) {
		return "", false
	}
	return out, true
}

// Parse returns the decimal value of raw. ok is false when raw is not a
// number under any of the rules (the NaN case).
func (n *Normalizer) Parse(raw string) (decimal.Decimal, bool) {
	canonical, ok := n.Canonical(raw)
	if !ok {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(canonical)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// Format renders d in the normalizer's own output format, which Parse reads
// back as d. Values that would look like a grouped thousand ("1.234") get a
// trailing zero.
func (n *Normalizer) Format(d decimal.Decimal) string {
	s := d.String()
	if n.policy == PreferThousands && thousandsPattern.MatchString(s) {
		s += "0"
	}
	return s
}

// Package money formats decimal amounts for display. Rounding is a
// presentation concern, so the calculators never call into this package.
package money

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Mode selects how amounts are reduced to the display precision
type Mode string

const (
	ModeRound    Mode = "round"
	ModeTruncate Mode = "truncate"
	ModeExact    Mode = "exact" // no precision reduction
)

// Formatter renders amounts with a currency symbol and locale digit grouping
type Formatter struct {
	Symbol    string
	Locale    language.Tag
	Precision int32
	Mode      Mode
}

// DefaultFormatter is rupees, Indian grouping, rounded to 2 places
func DefaultFormatter() Formatter {
	return Formatter{
		Symbol:    "₹",
		Locale:    language.MustParse("en-IN"),
		Precision: 2,
		Mode:      ModeRound,
	}
}

// WholeFormatter drops the fractional part, matching how amounts are quoted
// inside recommendation text.
func WholeFormatter() Formatter {
	f := DefaultFormatter()
	f.Precision = 0
	return f
}

// ParseMode validates a mode string
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(s)) {
	case ModeRound:
		return ModeRound, nil
	case ModeTruncate:
		return ModeTruncate, nil
	case ModeExact:
		return ModeExact, nil
	default:
		return "", fmt.Errorf("unknown rounding mode %q (valid: round, truncate, exact)", s)
	}
}

// Apply reduces amount to the formatter's precision
func (f Formatter) Apply(amount decimal.Decimal) decimal.Decimal {
	switch f.Mode {
	case ModeTruncate:
		return amount.Truncate(f.Precision)
	case ModeExact:
		return amount
	default:
		return amount.Round(f.Precision)
	}
}

// places is the number of fractional digits shown for an applied amount
func (f Formatter) places(v decimal.Decimal) int32 {
	if f.Mode != ModeExact {
		return f.Precision
	}
	// String drops trailing fractional zeros left over from multiplication
	if _, frac, ok := strings.Cut(v.String(), "."); ok {
		return int32(len(frac))
	}
	return 0
}

// Number formats amount with grouping and no symbol. Digits come from the
// decimal itself; the locale only supplies separators and group sizes.
func (f Formatter) Number(amount decimal.Decimal) string {
	v := f.Apply(amount)
	digits := v.Abs().StringFixed(f.places(v))
	intPart, frac, hasFrac := strings.Cut(digits, ".")

	g := localeGrouping(f.Locale)
	var b strings.Builder
	if v.IsNegative() {
		b.WriteString("-")
	}
	b.WriteString(g.apply(intPart))
	if hasFrac {
		b.WriteString(g.decimal)
		b.WriteString(frac)
	}
	return b.String()
}

// grouping describes how a locale separates integer digits
type grouping struct {
	group     string
	decimal   string
	primary   int // size of the rightmost group
	secondary int // size of every group to its left
}

// localeGrouping reads the separators and group sizes off the locale's
// rendering of a fixed sample.
func localeGrouping(tag language.Tag) grouping {
	sample := message.NewPrinter(tag).Sprintf("%.1f", 1234567.5)

	var runs, seps []string
	var cur []rune
	inDigits := true
	for _, r := range sample {
		if unicode.IsDigit(r) != inDigits {
			if inDigits {
				runs = append(runs, string(cur))
			} else {
				seps = append(seps, string(cur))
			}
			cur = cur[:0]
			inDigits = !inDigits
		}
		cur = append(cur, r)
	}
	if inDigits {
		runs = append(runs, string(cur))
	}

	g := grouping{decimal: "."}
	if len(runs) < 2 || len(seps) == 0 {
		return g
	}
	g.decimal = seps[len(seps)-1]
	ints := runs[:len(runs)-1]
	if len(ints) < 2 {
		return g
	}
	g.group = seps[0]
	g.primary = utf8.RuneCountInString(ints[len(ints)-1])
	g.secondary = g.primary
	if len(ints) > 2 {
		g.secondary = utf8.RuneCountInString(ints[len(ints)-2])
	}
	return g
}

func (g grouping) apply(digits string) string {
	if g.group == "" || g.primary <= 0 || len(digits) <= g.primary {
		return digits
	}
	head := digits[:len(digits)-g.primary]
	parts := []string{digits[len(digits)-g.primary:]}
	for len(head) > g.secondary {
		parts = append(parts, head[len(head)-g.secondary:])
		head = head[:len(head)-g.secondary]
	}
	parts = append(parts, head)
	slices.Reverse(parts)
	return strings.Join(parts, g.group)
}

// Currency formats amount with the currency symbol prefixed
func (f Formatter) Currency(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-" + f.Symbol + f.Number(amount.Abs())
	}
	return f.Symbol + f.Number(amount)
}

// Percent formats a percentage value (21 -> "21.00%")
func (f Formatter) Percent(pct decimal.Decimal) string {
	v := f.Apply(pct)
	return v.StringFixed(f.places(v)) + "%"
}

// Plain formats amount at the configured precision with no grouping or
// symbol, for machine-readable output.
func (f Formatter) Plain(amount decimal.Decimal) string {
	v := f.Apply(amount)
	return v.StringFixed(f.places(v))
}

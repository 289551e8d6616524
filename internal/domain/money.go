package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a monetary amount in minor currency units (centavos).
// All arithmetic on money inside the core is integer arithmetic; decimal
// values only exist at the API boundary.
type Money int64

// MoneyTolerance absorbs rounding drift from amounts that were entered as
// floats in the UI. Every equality/threshold comparison on money goes
// through it.
const MoneyTolerance Money = 1

// WithinTolerance reports whether two amounts are equal within one minor unit.
func WithinTolerance(a, b Money) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= MoneyTolerance
}

// ParseMoney converts free-form user text into minor units. It never fails:
// unparsable input yields zero by design (lenient human-entry behavior, see
// the ledger docs). Thousands and decimal separators are accepted in either
// order; the last separator found is taken as the decimal point; fractional
// digits beyond two are truncated, not rounded. A minus sign anywhere makes
// the result negative.
func ParseMoney(s string) Money {
	negative := strings.ContainsRune(s, '-')

	lastSep := -1
	for i, r := range s {
		if r == '.' || r == ',' {
			lastSep = i
		}
	}

	intPart := s
	fracPart := ""
	if lastSep >= 0 {
		intPart = s[:lastSep]
		fracPart = s[lastSep+1:]
	}

	intDigits := keepDigits(intPart)
	fracDigits := keepDigits(fracPart)
	if intDigits == "" && fracDigits == "" {
		return 0
	}

	// Truncate beyond two fractional digits, pad below two.
	if len(fracDigits) > 2 {
		fracDigits = fracDigits[:2]
	}
	for len(fracDigits) < 2 {
		fracDigits += "0"
	}
	if intDigits == "" {
		intDigits = "0"
	}

	value, err := strconv.ParseInt(intDigits+fracDigits, 10, 64)
	if err != nil {
		return 0
	}
	if negative {
		value = -value
	}
	return Money(value)
}

// MoneyFromDecimal converts a boundary decimal (UI-entered amount) into
// minor units, rounding to the nearest centavo.
func MoneyFromDecimal(d decimal.Decimal) Money {
	return Money(d.Mul(decimal.NewFromInt(100)).Round(0).IntPart())
}

// Decimal returns the amount as a two-place decimal for API responses.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -2)
}

// DecimalString renders the amount as a plain "1234.56" string.
func (m Money) DecimalString() string {
	return m.Decimal().StringFixed(2)
}

// Format renders the amount as a localized currency string, e.g.
// "R$ 1.234,56", with exactly two decimal digits.
func (m Money) Format(symbol string) string {
	v := int64(m)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}

	units := v / 100
	cents := v % 100

	unitStr := strconv.FormatInt(units, 10)
	var grouped strings.Builder
	for i, r := range unitStr {
		if i > 0 && (len(unitStr)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(r)
	}

	return fmt.Sprintf("%s %s%s,%02d", symbol, sign, grouped.String(), cents)
}

func keepDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TaxBracket is one slice of a progressive withholding table. Rate is a
// fraction (0.075 = 7.5%) kept as a decimal so bracket math never touches
// floating point.
type TaxBracket struct {
	UpperLimit Money
	Rate       decimal.Decimal
}

// TaxTable is the statutory contribution table for one fiscal year. Tables
// are supplied by configuration per year, never compiled in: the rates
// change annually and a stale constant is a silent correctness bug.
type TaxTable struct {
	Year                int
	MinimumReference    Money
	ContributionCeiling Money
	Brackets            []TaxBracket
}

// TopLimit returns the upper limit of the highest bracket, or zero for an
// empty table.
func (t *TaxTable) TopLimit() Money {
	if len(t.Brackets) == 0 {
		return 0
	}
	return t.Brackets[len(t.Brackets)-1].UpperLimit
}

// Validate checks table well-formedness. Callers must validate tables at
// load time; the progressive computation itself is not defensive.
func (t *TaxTable) Validate() error {
	if len(t.Brackets) == 0 {
		return fmt.Errorf("tax table %d: no brackets", t.Year)
	}
	if t.ContributionCeiling <= 0 {
		return fmt.Errorf("tax table %d: contribution ceiling must be positive", t.Year)
	}
	if t.MinimumReference <= 0 {
		return fmt.Errorf("tax table %d: minimum reference must be positive", t.Year)
	}
	prev := Money(0)
	one := decimal.NewFromInt(1)
	for i, b := range t.Brackets {
		if b.UpperLimit <= prev {
			return fmt.Errorf("tax table %d: bracket %d limit %d is not above previous limit %d", t.Year, i, b.UpperLimit, prev)
		}
		if b.Rate.IsNegative() || b.Rate.GreaterThan(one) {
			return fmt.Errorf("tax table %d: bracket %d rate %s out of range", t.Year, i, b.Rate)
		}
		prev = b.UpperLimit
	}
	return nil
}

// TaxTableProvider supplies the statutory table for a fiscal year.
type TaxTableProvider interface {
	TableFor(year int) (*TaxTable, error)
}

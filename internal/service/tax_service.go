package service

import (
	"github.com/amparo/amparo-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// ComputeProgressiveTax evaluates a progressive-bracket withholding table
// against a contribution base, in minor units.
//
// Each slice of the base is taxed at its own bracket's marginal rate, not
// the whole amount at the top rate. A base above the table's top bracket
// limit contributes the table's ceiling directly.
//
// The function is pure and has no year-specific constants: the table is
// supplied per fiscal year by configuration. It assumes a well-formed table
// (validated at load time) and is deliberately not defensive about
// non-monotonic bracket limits.
func ComputeProgressiveTax(base domain.Money, table *domain.TaxTable) domain.Money {
	if base <= 0 {
		return 0
	}
	if base > table.TopLimit() {
		return table.ContributionCeiling
	}

	var tax domain.Money
	lowerBound := domain.Money(0)
	for _, bracket := range table.Brackets {
		if base > bracket.UpperLimit {
			// Bracket fully below the base: tax its whole width.
			tax += sliceTax(bracket.UpperLimit-lowerBound, bracket.Rate)
			lowerBound = bracket.UpperLimit
			continue
		}
		// Bracket containing the base: tax the final partial slice.
		tax += sliceTax(base-lowerBound, bracket.Rate)
		break
	}
	return tax
}

// sliceTax applies a fractional rate to a slice of income. Exact decimal
// multiplication, rounded to the nearest minor unit; no floating point.
func sliceTax(slice domain.Money, rate decimal.Decimal) domain.Money {
	return domain.Money(decimal.NewFromInt(int64(slice)).Mul(rate).Round(0).IntPart())
}

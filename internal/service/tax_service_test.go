package service

import (
	"testing"

	"github.com/amparo/amparo-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// twoBracketTable is the simplest non-trivial table: up to 1000.00 at 5%,
// up to 3000.00 at 10%, ceiling 500.00.
func twoBracketTable() *domain.TaxTable {
	return &domain.TaxTable{
		Year:                2025,
		MinimumReference:    100000,
		ContributionCeiling: 50000,
		Brackets: []domain.TaxBracket{
			{UpperLimit: 100000, Rate: decimal.RequireFromString("0.05")},
			{UpperLimit: 300000, Rate: decimal.RequireFromString("0.10")},
		},
	}
}

func TestComputeProgressiveTax_MarginalBrackets(t *testing.T) {
	table := twoBracketTable()

	// 2000.00: first 1000.00 at 5% (50.00) + next 1000.00 at 10% (100.00).
	if got := ComputeProgressiveTax(200000, table); got != 15000 {
		t.Errorf("Expected tax 15000, got %d", got)
	}
}

func TestComputeProgressiveTax_WithinFirstBracket(t *testing.T) {
	table := twoBracketTable()

	if got := ComputeProgressiveTax(50000, table); got != 2500 {
		t.Errorf("Expected tax 2500, got %d", got)
	}
}

func TestComputeProgressiveTax_AtTopLimit(t *testing.T) {
	table := twoBracketTable()

	// Exactly the top limit still walks the brackets: 50.00 + 200.00.
	if got := ComputeProgressiveTax(300000, table); got != 25000 {
		t.Errorf("Expected tax 25000, got %d", got)
	}
}

func TestComputeProgressiveTax_AboveTopLimit(t *testing.T) {
	table := twoBracketTable()

	// Above the top limit the ceiling applies directly.
	if got := ComputeProgressiveTax(500000, table); got != 50000 {
		t.Errorf("Expected ceiling 50000, got %d", got)
	}
}

func TestComputeProgressiveTax_NonPositiveBase(t *testing.T) {
	table := twoBracketTable()

	if got := ComputeProgressiveTax(0, table); got != 0 {
		t.Errorf("Expected zero tax on zero base, got %d", got)
	}
	if got := ComputeProgressiveTax(-10000, table); got != 0 {
		t.Errorf("Expected zero tax on negative base, got %d", got)
	}
}

func TestComputeProgressiveTax_RoundsPerSlice(t *testing.T) {
	table := &domain.TaxTable{
		Year:                2025,
		MinimumReference:    100000,
		ContributionCeiling: 100000,
		Brackets: []domain.TaxBracket{
			{UpperLimit: 1000000, Rate: decimal.RequireFromString("0.075")},
		},
	}

	// 333.33 * 7.5% = 24.99975 -> rounds to 25.00, exact decimal math.
	if got := ComputeProgressiveTax(33333, table); got != 2500 {
		t.Errorf("Expected 2500, got %d", got)
	}
}

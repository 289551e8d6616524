package config

import (
	"fmt"
	"os"

	"github.com/amparo/amparo-backend/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// taxTableFile mirrors the YAML layout of the fiscal tax table file.
// Amounts travel as decimal strings and are converted to minor units on
// load, so the file reads like the published government tables.
type taxTableFile struct {
	Tables []taxTableEntry `yaml:"tables"`
}

type taxTableEntry struct {
	Year                int               `yaml:"year"`
	MinimumReference    string            `yaml:"minimum_reference"`
	ContributionCeiling string            `yaml:"contribution_ceiling"`
	Brackets            []taxBracketEntry `yaml:"brackets"`
}

type taxBracketEntry struct {
	UpperLimit string `yaml:"upper_limit"`
	Rate       string `yaml:"rate"`
}

// TaxTables holds the statutory tables loaded for each fiscal year. It
// implements domain.TaxTableProvider.
type TaxTables struct {
	byYear map[int]*domain.TaxTable
}

// LoadTaxTables reads and validates the fiscal tax table file. Malformed
// tables are rejected here, at load time; the tax computation itself
// assumes well-formed input.
func LoadTaxTables(path string) (*TaxTables, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tax tables: %w", err)
	}

	var file taxTableFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse tax tables: %w", err)
	}
	if len(file.Tables) == 0 {
		return nil, fmt.Errorf("tax table file %s defines no tables", path)
	}

	tables := &TaxTables{byYear: make(map[int]*domain.TaxTable, len(file.Tables))}
	for _, entry := range file.Tables {
		table := &domain.TaxTable{
			Year:                entry.Year,
			MinimumReference:    domain.ParseMoney(entry.MinimumReference),
			ContributionCeiling: domain.ParseMoney(entry.ContributionCeiling),
		}
		for _, b := range entry.Brackets {
			rate, err := decimal.NewFromString(b.Rate)
			if err != nil {
				return nil, fmt.Errorf("tax table %d: bad bracket rate %q: %w", entry.Year, b.Rate, err)
			}
			table.Brackets = append(table.Brackets, domain.TaxBracket{
				UpperLimit: domain.ParseMoney(b.UpperLimit),
				Rate:       rate,
			})
		}
		if err := table.Validate(); err != nil {
			return nil, err
		}
		if _, dup := tables.byYear[entry.Year]; dup {
			return nil, fmt.Errorf("tax table file %s defines year %d twice", path, entry.Year)
		}
		tables.byYear[entry.Year] = table
	}

	return tables, nil
}

// TableFor returns the table for a fiscal year.
func (t *TaxTables) TableFor(year int) (*domain.TaxTable, error) {
	table, ok := t.byYear[year]
	if !ok {
		return nil, domain.ErrTaxTableNotFound
	}
	return table, nil
}

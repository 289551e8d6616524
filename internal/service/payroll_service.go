package service

import (
	"fmt"

	"github.com/amparo/amparo-backend/internal/domain"
	"github.com/amparo/amparo-backend/internal/util"
	"github.com/shopspring/decimal"
)

// PayrollService computes net pay for employees. The computation itself is
// pure (ComputeNetPayroll); the service only gathers the inputs.
type PayrollService struct {
	employeeRepo domain.EmployeeRepository
	incidentRepo domain.IncidentRepository
	taxTables    domain.TaxTableProvider
	commuteRate  decimal.Decimal
}

// NewPayrollService creates a new PayrollService
func NewPayrollService(employeeRepo domain.EmployeeRepository, incidentRepo domain.IncidentRepository, taxTables domain.TaxTableProvider, commuteRate decimal.Decimal) *PayrollService {
	return &PayrollService{
		employeeRepo: employeeRepo,
		incidentRepo: incidentRepo,
		taxTables:    taxTables,
		commuteRate:  commuteRate,
	}
}

// ComputeForEmployee loads the employee, their competence-period incidents
// and the fiscal-year tax table, and computes net pay. Results are always
// recomputed on demand, never persisted directly.
func (s *PayrollService) ComputeForEmployee(employeeID int32, year, month int) (*domain.PayrollCalculationResult, error) {
	if !util.ValidCompetence(month) {
		return nil, domain.ErrInvalidCompetence
	}

	employee, err := s.employeeRepo.GetByID(employeeID)
	if err != nil {
		return nil, err
	}

	incidents, err := s.incidentRepo.ListByEmployeeMonth(employeeID, year, month)
	if err != nil {
		return nil, err
	}

	table, err := s.taxTables.TableFor(year)
	if err != nil {
		return nil, err
	}

	return ComputeNetPayroll(employee, incidents, month, year, table, s.commuteRate), nil
}

// ComputeNetPayroll combines base pay, hazard premium, competence-scoped
// incident adjustments and the progressive statutory contribution into net
// pay with itemized line items.
//
// Invariant: the signed sum of the emitted line items equals NetTotal
// exactly. The same line items are later copied verbatim onto the payroll
// invoice, so no separate rounding path is allowed between items and total.
func ComputeNetPayroll(employee *domain.Employee, incidents []*domain.IncidentAdjustment, month, year int, table *domain.TaxTable, commuteRate decimal.Decimal) *domain.PayrollCalculationResult {
	items := []domain.PayrollLineItem{{
		Label:  "Base salary",
		Kind:   domain.LineItemEarning,
		Amount: employee.BaseSalary,
	}}

	// Hazard premium is a percentage of the table's minimum reference, not
	// of the employee's salary. The tier (0/20/40) is an employee attribute.
	var hazardPremium domain.Money
	if employee.HazardPercent > 0 {
		hazardPremium = domain.Money(int64(table.MinimumReference) * int64(employee.HazardPercent) / 100)
		ref := fmt.Sprintf("%d%%", employee.HazardPercent)
		items = append(items, domain.PayrollLineItem{
			Label:     "Hazard premium",
			Kind:      domain.LineItemEarning,
			Amount:    hazardPremium,
			Reference: &ref,
		})
	}

	var sumAdditions, sumDeductions domain.Money
	for _, incident := range incidents {
		if !util.InCompetence(incident.Date, year, month) || incident.FinancialImpact == 0 {
			continue
		}
		ref := incident.Date.Format("2006-01-02")
		if incident.FinancialImpact > 0 {
			sumAdditions += incident.FinancialImpact
			items = append(items, domain.PayrollLineItem{
				Label:     incident.Description,
				Kind:      domain.LineItemEarning,
				Amount:    incident.FinancialImpact,
				Reference: &ref,
			})
		} else {
			sumDeductions += -incident.FinancialImpact
			items = append(items, domain.PayrollLineItem{
				Label:     incident.Description,
				Kind:      domain.LineItemDeduction,
				Amount:    -incident.FinancialImpact,
				Reference: &ref,
			})
		}
	}

	grossForTax := employee.BaseSalary + hazardPremium + sumAdditions

	statutory := ComputeProgressiveTax(grossForTax, table)
	taxRef := fmt.Sprintf("fiscal year %d", table.Year)
	items = append(items, domain.PayrollLineItem{
		Label:     "Statutory contribution",
		Kind:      domain.LineItemDeduction,
		Amount:    statutory,
		Reference: &taxRef,
	})

	var commuteDeduction domain.Money
	if employee.CommuteEligible {
		commuteDeduction = domain.Money(decimal.NewFromInt(int64(employee.BaseSalary)).Mul(commuteRate).Round(0).IntPart())
		ref := commuteRate.Mul(decimal.NewFromInt(100)).String() + "%"
		items = append(items, domain.PayrollLineItem{
			Label:     "Commute benefit deduction",
			Kind:      domain.LineItemDeduction,
			Amount:    commuteDeduction,
			Reference: &ref,
		})
	}

	discountTotal := sumDeductions + statutory + commuteDeduction

	return &domain.PayrollCalculationResult{
		Items:           items,
		GrossTotal:      grossForTax,
		DiscountTotal:   discountTotal,
		NetTotal:        grossForTax - discountTotal,
		BaseSalary:      employee.BaseSalary,
		CompetenceMonth: month,
		CompetenceYear:  year,
	}
}

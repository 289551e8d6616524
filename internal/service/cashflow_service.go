package service

import (
	"github.com/amparo/amparo-backend/internal/domain"
	"github.com/amparo/amparo-backend/internal/util"
)

// CashflowService is a read-side aggregator over settled payments. It
// holds no state of its own and never writes.
type CashflowService struct {
	invoiceRepo domain.InvoiceRepository
}

// NewCashflowService creates a new CashflowService
func NewCashflowService(invoiceRepo domain.InvoiceRepository) *CashflowService {
	return &CashflowService{invoiceRepo: invoiceRepo}
}

// MonthlySummary sums the payments registered against a competence month's
// invoices, split by invoice kind, with the previous month's net alongside
// for the dashboard trend.
func (s *CashflowService) MonthlySummary(year, month int) (*domain.CashflowSummary, error) {
	if !util.ValidCompetence(month) {
		return nil, domain.ErrInvalidCompetence
	}

	summary := &domain.CashflowSummary{Year: year, Month: month}
	income, expense, err := s.sumSettled(year, month)
	if err != nil {
		return nil, err
	}
	summary.Income = income
	summary.Expense = expense
	summary.Net = income - expense

	prevYear, prevMonth := util.PreviousMonth(year, month)
	prevIncome, prevExpense, err := s.sumSettled(prevYear, prevMonth)
	if err != nil {
		return nil, err
	}
	summary.PreviousNet = prevIncome - prevExpense

	return summary, nil
}

func (s *CashflowService) sumSettled(year, month int) (income, expense domain.Money, err error) {
	invoices, err := s.invoiceRepo.List(&domain.InvoiceFilters{
		CompetenceYear:  &year,
		CompetenceMonth: &month,
	})
	if err != nil {
		return 0, 0, err
	}

	for _, invoice := range invoices {
		for _, payment := range invoice.Payments {
			switch invoice.Kind {
			case domain.InvoiceKindIncome:
				income += payment.Amount
			case domain.InvoiceKindExpense:
				expense += payment.Amount
			}
		}
	}
	return income, expense, nil
}

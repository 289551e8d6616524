package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/amparo/amparo-backend/internal/domain"
	"github.com/amparo/amparo-backend/internal/util"
)

// PayrollSyncService turns payroll computations into ledger entries and
// detects drift between the two. Generation runs once per competence
// period; afterwards the staleness check reports invoices whose stored
// totals no longer match a fresh computation (salary raises, late
// incidents, a new tax table).
type PayrollSyncService struct {
	invoiceRepo    domain.InvoiceRepository
	employeeRepo   domain.EmployeeRepository
	payrollService *PayrollService
}

// NewPayrollSyncService creates a new PayrollSyncService
func NewPayrollSyncService(invoiceRepo domain.InvoiceRepository, employeeRepo domain.EmployeeRepository, payrollService *PayrollService) *PayrollSyncService {
	return &PayrollSyncService{
		invoiceRepo:    invoiceRepo,
		employeeRepo:   employeeRepo,
		payrollService: payrollService,
	}
}

// GenerateBatch creates one expense invoice per active employee lacking a
// payroll invoice for the competence period. The invoice carries the
// payroll line items verbatim and totalAmount = netTotal. A zero dueDate
// defaults to the last day of the competence month. Returns the number of
// invoices created.
func (s *PayrollSyncService) GenerateBatch(year, month int, dueDate time.Time) (int, error) {
	if !util.ValidCompetence(month) {
		return 0, domain.ErrInvalidCompetence
	}
	if dueDate.IsZero() {
		dueDate = util.LastDayOfMonth(year, time.Month(month))
	}

	employees, err := s.employeeRepo.ListActive()
	if err != nil {
		return 0, err
	}

	created := 0
	for _, employee := range employees {
		_, err := s.invoiceRepo.GetPayrollInvoice(employee.ID, year, month)
		if err == nil {
			continue // already generated for this period
		}
		if !errors.Is(err, domain.ErrInvoiceNotFound) {
			return created, err
		}

		calc, err := s.payrollService.ComputeForEmployee(employee.ID, year, month)
		if err != nil {
			return created, err
		}

		if _, err := s.invoiceRepo.Create(payrollInvoice(employee, calc, dueDate)); err != nil {
			return created, err
		}
		created++
	}

	return created, nil
}

// CheckStaleness recomputes payroll for every unpaid, zero-paid payroll
// invoice of the competence period and reports which ones have drifted
// beyond the one-minor-unit tolerance.
func (s *PayrollSyncService) CheckStaleness(year, month int) ([]*domain.PayrollStaleness, error) {
	if !util.ValidCompetence(month) {
		return nil, domain.ErrInvalidCompetence
	}

	kind := domain.InvoiceKindExpense
	invoices, err := s.invoiceRepo.List(&domain.InvoiceFilters{
		CompetenceYear:  &year,
		CompetenceMonth: &month,
		Kind:            &kind,
	})
	if err != nil {
		return nil, err
	}

	var reports []*domain.PayrollStaleness
	for _, invoice := range invoices {
		if invoice.EmployeeID == nil {
			continue // not a payroll invoice
		}
		if invoice.Status == domain.InvoiceStatusPaid || invoice.PaidAmount > 0 {
			continue // settled history is never reconciled against
		}

		calc, err := s.payrollService.ComputeForEmployee(*invoice.EmployeeID, year, month)
		if err != nil {
			return nil, err
		}

		reports = append(reports, &domain.PayrollStaleness{
			InvoiceID:   invoice.ID,
			EmployeeID:  *invoice.EmployeeID,
			StoredTotal: invoice.TotalAmount,
			FreshTotal:  calc.NetTotal,
			Outdated:    !domain.WithinTolerance(invoice.TotalAmount, calc.NetTotal),
		})
	}

	return reports, nil
}

// Resync overwrites a payroll invoice's due date, total and line items
// with freshly computed values. It refuses when the invoice already has
// any registered payment: a ledger rewrite would invalidate the payment
// history. The refusal is a typed error with a reason code, never a silent
// no-op.
func (s *PayrollSyncService) Resync(invoiceID int32, dueDate time.Time) (*domain.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.EmployeeID == nil {
		return nil, domain.ErrInvoiceNotFound
	}

	if len(invoice.Payments) > 0 {
		return nil, &domain.ResyncRefusedError{
			InvoiceID: invoiceID,
			Reason:    domain.ResyncReasonPaymentsRegistered,
		}
	}

	calc, err := s.payrollService.ComputeForEmployee(*invoice.EmployeeID, invoice.CompetenceYear, invoice.CompetenceMonth)
	if err != nil {
		return nil, err
	}

	invoice.DueDate = dueDate
	invoice.TotalAmount = calc.NetTotal
	invoice.LineItems = calc.Items
	invoice.UpdatedAt = time.Now()

	if err := s.invoiceRepo.Replace(invoice); err != nil {
		return nil, err
	}

	return invoice, nil
}

func payrollInvoice(employee *domain.Employee, calc *domain.PayrollCalculationResult, dueDate time.Time) *domain.Invoice {
	counterparty := employee.Name
	employeeID := employee.ID
	return &domain.Invoice{
		Kind:            domain.InvoiceKindExpense,
		Description:     fmt.Sprintf("Payroll %s %02d/%d", employee.Name, calc.CompetenceMonth, calc.CompetenceYear),
		TotalAmount:     calc.NetTotal,
		Status:          domain.InvoiceStatusPending,
		DueDate:         dueDate,
		CompetenceMonth: calc.CompetenceMonth,
		CompetenceYear:  calc.CompetenceYear,
		LineItems:       calc.Items,
		CounterpartyRef: &counterparty,
		EmployeeID:      &employeeID,
	}
}

package service

import (
	"errors"
	"testing"
	"time"

	"github.com/amparo/amparo-backend/internal/domain"
	"github.com/amparo/amparo-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSyncFixture() (*testutil.MockInvoiceRepository, *testutil.MockEmployeeRepository, *PayrollSyncService) {
	invoiceRepo := testutil.NewMockInvoiceRepository()
	employeeRepo := testutil.NewMockEmployeeRepository()
	incidentRepo := testutil.NewMockIncidentRepository()
	payrollService := newPayrollService(employeeRepo, incidentRepo)
	syncService := NewPayrollSyncService(invoiceRepo, employeeRepo, payrollService)

	employeeRepo.Employees[1] = &domain.Employee{ID: 1, Name: "Maria", BaseSalary: 300000, Active: true}
	employeeRepo.Employees[2] = &domain.Employee{ID: 2, Name: "Joana", BaseSalary: 250000, Active: true}
	employeeRepo.Employees[3] = &domain.Employee{ID: 3, Name: "Left Already", BaseSalary: 200000, Active: false}

	return invoiceRepo, employeeRepo, syncService
}

func TestGenerateBatch(t *testing.T) {
	invoiceRepo, _, syncService := newSyncFixture()
	dueDate := time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC)

	created, err := syncService.GenerateBatch(2025, 3, dueDate)
	require.NoError(t, err)
	assert.Equal(t, 2, created) // inactive employee excluded

	invoice, err := invoiceRepo.GetPayrollInvoice(1, 2025, 3)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceKindExpense, invoice.Kind)
	assert.Equal(t, domain.InvoiceStatusPending, invoice.Status)
	assert.Equal(t, "Payroll Maria 03/2025", invoice.Description)
	assert.Equal(t, dueDate, invoice.DueDate)
	require.NotNil(t, invoice.EmployeeID)
	assert.Equal(t, int32(1), *invoice.EmployeeID)
	require.NotNil(t, invoice.CounterpartyRef)
	assert.Equal(t, "Maria", *invoice.CounterpartyRef)
	assert.NotEmpty(t, invoice.LineItems)

	// The invoice total is exactly the net of its own line items.
	var signed domain.Money
	for _, item := range invoice.LineItems {
		signed += item.Signed()
	}
	assert.Equal(t, invoice.TotalAmount, signed)
}

func TestGenerateBatch_SkipsExisting(t *testing.T) {
	_, employeeRepo, syncService := newSyncFixture()
	dueDate := time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC)

	created, err := syncService.GenerateBatch(2025, 3, dueDate)
	require.NoError(t, err)
	require.Equal(t, 2, created)

	// Rerunning generates nothing new.
	created, err = syncService.GenerateBatch(2025, 3, dueDate)
	require.NoError(t, err)
	assert.Equal(t, 0, created)

	// A newly hired employee is picked up on the next run.
	employeeRepo.Employees[4] = &domain.Employee{ID: 4, Name: "Nova", BaseSalary: 180000, Active: true}
	created, err = syncService.GenerateBatch(2025, 3, dueDate)
	require.NoError(t, err)
	assert.Equal(t, 1, created)
}

func TestGenerateBatch_DefaultDueDate(t *testing.T) {
	invoiceRepo, _, syncService := newSyncFixture()

	created, err := syncService.GenerateBatch(2025, 4, time.Time{})
	require.NoError(t, err)
	require.Equal(t, 2, created)

	invoice, err := invoiceRepo.GetPayrollInvoice(1, 2025, 4)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC), invoice.DueDate)
}

func TestGenerateBatch_InvalidMonth(t *testing.T) {
	_, _, syncService := newSyncFixture()

	_, err := syncService.GenerateBatch(2025, 0, time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidCompetence)
}

func TestCheckStaleness(t *testing.T) {
	invoiceRepo, employeeRepo, syncService := newSyncFixture()
	dueDate := time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC)

	_, err := syncService.GenerateBatch(2025, 3, dueDate)
	require.NoError(t, err)

	// Nothing changed yet: no drift.
	reports, err := syncService.CheckStaleness(2025, 3)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	for _, r := range reports {
		assert.False(t, r.Outdated)
	}

	// A raise after generation makes the stored invoice stale.
	employeeRepo.Employees[1].BaseSalary = 350000

	reports, err = syncService.CheckStaleness(2025, 3)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	for _, r := range reports {
		if r.EmployeeID == 1 {
			assert.True(t, r.Outdated)
			assert.NotEqual(t, r.StoredTotal, r.FreshTotal)
		} else {
			assert.False(t, r.Outdated)
		}
	}

	// A paid payroll invoice drops out of the report entirely.
	invoice, err := invoiceRepo.GetPayrollInvoice(1, 2025, 3)
	require.NoError(t, err)
	require.NoError(t, invoiceRepo.UpdateStatus(invoice.ID, domain.InvoiceStatusPaid))

	reports, err = syncService.CheckStaleness(2025, 3)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, int32(2), reports[0].EmployeeID)
}

func TestResync(t *testing.T) {
	invoiceRepo, employeeRepo, syncService := newSyncFixture()
	dueDate := time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC)

	_, err := syncService.GenerateBatch(2025, 3, dueDate)
	require.NoError(t, err)

	invoice, err := invoiceRepo.GetPayrollInvoice(1, 2025, 3)
	require.NoError(t, err)
	staleTotal := invoice.TotalAmount

	employeeRepo.Employees[1].BaseSalary = 350000
	newDue := time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)

	updated, err := syncService.Resync(invoice.ID, newDue)
	require.NoError(t, err)
	assert.NotEqual(t, staleTotal, updated.TotalAmount)
	assert.Equal(t, newDue, updated.DueDate)

	var signed domain.Money
	for _, item := range updated.LineItems {
		signed += item.Signed()
	}
	assert.Equal(t, updated.TotalAmount, signed)
}

func TestResync_RefusedWithPayments(t *testing.T) {
	invoiceRepo, _, syncService := newSyncFixture()
	ledgerService := NewLedgerService(invoiceRepo)
	dueDate := time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC)

	_, err := syncService.GenerateBatch(2025, 3, dueDate)
	require.NoError(t, err)

	invoice, err := invoiceRepo.GetPayrollInvoice(1, 2025, 3)
	require.NoError(t, err)
	_, err = ledgerService.RegisterPayment(invoice.ID, 10000, "pix", dueDate, nil)
	require.NoError(t, err)

	totalBefore := invoice.TotalAmount
	itemsBefore := len(invoice.LineItems)

	_, err = syncService.Resync(invoice.ID, dueDate)
	var refused *domain.ResyncRefusedError
	require.True(t, errors.As(err, &refused))
	assert.Equal(t, invoice.ID, refused.InvoiceID)
	assert.Equal(t, domain.ResyncReasonPaymentsRegistered, refused.Reason)

	// A refused resync must leave the invoice untouched.
	after, err := invoiceRepo.GetByID(invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, totalBefore, after.TotalAmount)
	assert.Len(t, after.LineItems, itemsBefore)
}

func TestResync_NotAPayrollInvoice(t *testing.T) {
	invoiceRepo, _, syncService := newSyncFixture()
	ledgerService := NewLedgerService(invoiceRepo)

	manual, err := ledgerService.CreateInvoice(&domain.Invoice{
		Kind:            domain.InvoiceKindExpense,
		Description:     "Electricity",
		TotalAmount:     50000,
		DueDate:         time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC),
		CompetenceMonth: 3,
		CompetenceYear:  2025,
	})
	require.NoError(t, err)

	_, err = syncService.Resync(manual.ID, time.Now())
	assert.ErrorIs(t, err, domain.ErrInvoiceNotFound)
}

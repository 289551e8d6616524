package service

import (
	"time"

	"github.com/amparo/amparo-backend/internal/domain"
	"github.com/amparo/amparo-backend/internal/util"
	"github.com/google/uuid"
)

// LedgerService owns the invoice/payment lifecycle: manual invoice
// creation, payment registration and batch settlement. It never compares
// dates: overdue status is assigned by an external scheduler through
// MarkOverdue.
type LedgerService struct {
	invoiceRepo domain.InvoiceRepository
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(invoiceRepo domain.InvoiceRepository) *LedgerService {
	return &LedgerService{invoiceRepo: invoiceRepo}
}

// CreateInvoice registers a manual invoice (resident billing income or a
// facility expense). TotalAmount is fixed at creation; afterwards it only
// changes through the payment-guarded payroll resync.
func (s *LedgerService) CreateInvoice(invoice *domain.Invoice) (*domain.Invoice, error) {
	if invoice.TotalAmount <= 0 {
		return nil, domain.ErrAmountNotPositive
	}
	if !util.ValidCompetence(invoice.CompetenceMonth) {
		return nil, domain.ErrInvalidCompetence
	}
	invoice.Status = domain.InvoiceStatusPending
	invoice.PaidAmount = 0
	return s.invoiceRepo.Create(invoice)
}

// GetInvoice retrieves one invoice with its payments.
func (s *LedgerService) GetInvoice(id int32) (*domain.Invoice, error) {
	return s.invoiceRepo.GetByID(id)
}

// ListInvoices lists invoices, optionally filtered by competence period,
// status and kind.
func (s *LedgerService) ListInvoices(filters *domain.InvoiceFilters) ([]*domain.Invoice, error) {
	return s.invoiceRepo.List(filters)
}

// RegisterPayment appends a payment to an invoice and re-derives the
// header: paidAmount becomes the sum of all payments and the status flips
// to paid once the total is covered (within the one-minor-unit tolerance).
// Overpayment is accepted without error; amount positivity is the caller's
// contract, validated at the API boundary, not here.
func (s *LedgerService) RegisterPayment(invoiceID int32, amount domain.Money, method string, date time.Time, note *string) (*domain.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	payment := &domain.Payment{
		ID:        uuid.New(),
		InvoiceID: invoice.ID,
		Amount:    amount,
		Date:      date,
		Method:    method,
		Note:      note,
		CreatedAt: now,
	}

	invoice.Payments = append(invoice.Payments, *payment)
	invoice.PaidAmount = sumPayments(invoice.Payments)
	if invoice.PaidAmount >= invoice.TotalAmount-domain.MoneyTolerance {
		invoice.Status = domain.InvoiceStatusPaid
	} else {
		invoice.Status = domain.InvoiceStatusPending
	}
	// Header stamps for quick display in listings.
	invoice.LastPaymentMethod = &payment.Method
	invoice.LastPaymentDate = &payment.Date

	if err := s.invoiceRepo.AppendPayment(invoice, payment); err != nil {
		return nil, err
	}

	return invoice, nil
}

// MarkAsPaidBatch fully settles every invoice in the batch, each for its
// own exact remaining balance. It never distributes a partial amount across
// invoices. Invoices already covered are forced to paid without a duplicate
// payment, which makes the operation idempotent.
func (s *LedgerService) MarkAsPaidBatch(invoiceIDs []int32, method string, date time.Time) (*domain.BatchSettlementResult, error) {
	if len(invoiceIDs) == 0 {
		return nil, domain.ErrEmptyBatch
	}

	now := time.Now()
	result := &domain.BatchSettlementResult{SettledAt: now}

	for _, id := range invoiceIDs {
		invoice, err := s.invoiceRepo.GetByID(id)
		if err != nil {
			return nil, err
		}

		remaining := invoice.TotalAmount - sumPayments(invoice.Payments)
		if remaining <= domain.MoneyTolerance {
			// Already covered: force status only, no duplicate payment.
			if invoice.Status != domain.InvoiceStatusPaid {
				if err := s.invoiceRepo.UpdateStatus(id, domain.InvoiceStatusPaid); err != nil {
					return nil, err
				}
			}
			result.SettledCount++
			continue
		}

		payment := &domain.Payment{
			ID:        uuid.New(),
			InvoiceID: invoice.ID,
			Amount:    remaining,
			Date:      date,
			Method:    method,
			CreatedAt: now,
		}
		invoice.Payments = append(invoice.Payments, *payment)
		invoice.PaidAmount = sumPayments(invoice.Payments)
		invoice.Status = domain.InvoiceStatusPaid
		invoice.LastPaymentMethod = &payment.Method
		invoice.LastPaymentDate = &payment.Date

		if err := s.invoiceRepo.AppendPayment(invoice, payment); err != nil {
			return nil, err
		}

		result.SettledCount++
		result.TotalAmount += remaining
	}

	return result, nil
}

// MarkOverdue is called by the external due-date collaborator; the ledger
// itself never derives overdue from dates.
func (s *LedgerService) MarkOverdue(invoiceID int32) error {
	invoice, err := s.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return err
	}
	if invoice.Status == domain.InvoiceStatusPaid {
		return nil
	}
	return s.invoiceRepo.UpdateStatus(invoiceID, domain.InvoiceStatusOverdue)
}

func sumPayments(payments []domain.Payment) domain.Money {
	var total domain.Money
	for _, p := range payments {
		total += p.Amount
	}
	return total
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

type InvoiceKind string

const (
	InvoiceKindIncome  InvoiceKind = "income"
	InvoiceKindExpense InvoiceKind = "expense"
)

// InvoiceStatus is the persisted status enum. It deliberately has only
// three values: "partial" is never stored, it is derived display logic
// (see DisplayStatus). Widening this enum would allow status and amounts
// to diverge.
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
)

// DisplayStatusPartial is the derived label for a pending invoice with a
// partial balance. Presentation-only, never persisted.
const DisplayStatusPartial = "partial"

// Payment is one settlement event against an invoice. Payments are
// append-only: normal flows never mutate or delete them.
type Payment struct {
	ID        uuid.UUID `json:"id"`
	InvoiceID int32     `json:"invoiceId"`
	Amount    Money     `json:"amount"`
	Date      time.Time `json:"date"`
	Method    string    `json:"method"`
	Note      *string   `json:"note,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Invoice is a receivable or payable in the ledger. TotalAmount is fixed at
// creation and changes only through a payment-guarded resync. PaidAmount is
// derived and must always equal the sum of Payments.
type Invoice struct {
	ID                int32             `json:"id"`
	Kind              InvoiceKind       `json:"kind"`
	Description       string            `json:"description"`
	TotalAmount       Money             `json:"totalAmount"`
	Payments          []Payment         `json:"payments"`
	PaidAmount        Money             `json:"paidAmount"`
	Status            InvoiceStatus     `json:"status"`
	DueDate           time.Time         `json:"dueDate"`
	CompetenceMonth   int               `json:"competenceMonth"`
	CompetenceYear    int               `json:"competenceYear"`
	LineItems         []PayrollLineItem `json:"lineItems,omitempty"`
	CounterpartyRef   *string           `json:"counterpartyRef,omitempty"`
	EmployeeID        *int32            `json:"employeeId,omitempty"`
	LastPaymentMethod *string           `json:"lastPaymentMethod,omitempty"`
	LastPaymentDate   *time.Time        `json:"lastPaymentDate,omitempty"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}

// RemainingAmount is the unsettled balance. Can be negative on overpayment.
func (i *Invoice) RemainingAmount() Money {
	return i.TotalAmount - i.PaidAmount
}

// DisplayStatus returns the presentation status: the stored status, except
// that a pending invoice with 0 < paidAmount < totalAmount reads "partial".
func (i *Invoice) DisplayStatus() string {
	if i.Status == InvoiceStatusPending && i.PaidAmount > 0 && i.PaidAmount < i.TotalAmount {
		return DisplayStatusPartial
	}
	return string(i.Status)
}

// InvoiceFilters narrows invoice listings.
type InvoiceFilters struct {
	CompetenceYear  *int
	CompetenceMonth *int
	Status          *InvoiceStatus
	Kind            *InvoiceKind
}

// InvoiceRepository is the persistence boundary for invoices and their
// payments. Implementations must keep PaidAmount equal to the payment sum.
type InvoiceRepository interface {
	Create(invoice *Invoice) (*Invoice, error)
	GetByID(id int32) (*Invoice, error)
	List(filters *InvoiceFilters) ([]*Invoice, error)
	// AppendPayment persists one new payment together with the recomputed
	// header fields (paidAmount, status, last-payment stamps) atomically.
	AppendPayment(invoice *Invoice, payment *Payment) error
	UpdateStatus(id int32, status InvoiceStatus) error
	// Replace overwrites the invoice header and line items by whole-object
	// replacement. Payments are untouched.
	Replace(invoice *Invoice) error
	// GetPayrollInvoice finds the expense invoice generated for an employee
	// in a competence period, or ErrInvoiceNotFound.
	GetPayrollInvoice(employeeID int32, year, month int) (*Invoice, error)
}

// BatchSettlementResult summarizes a batch mark-as-paid operation.
type BatchSettlementResult struct {
	SettledCount int       `json:"settledCount"`
	TotalAmount  Money     `json:"totalAmount"`
	SettledAt    time.Time `json:"settledAt"`
}

// CashflowSummary aggregates settled payments for one competence month.
// PreviousNet carries the prior month's net for the dashboard trend.
type CashflowSummary struct {
	Year        int   `json:"year"`
	Month       int   `json:"month"`
	Income      Money `json:"income"`
	Expense     Money `json:"expense"`
	Net         Money `json:"net"`
	PreviousNet Money `json:"previousNet"`
}

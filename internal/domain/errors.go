package domain

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrNotFound             = errors.New("resource not found")
	ErrInvalidInput         = errors.New("invalid input")
	ErrInvoiceNotFound      = errors.New("invoice not found")
	ErrEmployeeNotFound     = errors.New("employee not found")
	ErrVacationNotFound     = errors.New("vacation record not found")
	ErrEmptyBatch           = errors.New("batch contains no invoices")
	ErrTaxTableNotFound     = errors.New("no tax table configured for fiscal year")
	ErrInvalidCompetence    = errors.New("competence month out of range")
	ErrInvalidPeriod        = errors.New("period end before period start")
	ErrNoEntitlement        = errors.New("employee has no vacation entitlement")
	ErrAmountNotPositive    = errors.New("amount must be positive")
	ErrPayrollInvoiceExists = errors.New("payroll invoice already exists for competence period")
)

// Resync refusal reason codes.
const (
	ResyncReasonPaymentsRegistered = "payments_registered"
)

// ResyncRefusedError is returned when a payroll invoice resync is refused.
// The refusal carries a reason code so callers can inform the user; a
// silent no-op is forbidden here because the caller would believe the
// ledger was rewritten.
type ResyncRefusedError struct {
	InvoiceID int32
	Reason    string
}

func (e *ResyncRefusedError) Error() string {
	return fmt.Sprintf("resync of invoice %d refused: %s", e.InvoiceID, e.Reason)
}

// InsufficientBalanceWarning is a warning requiring confirmation, not a
// hard failure: the requested vacation days exceed the remaining balance
// but the operation may proceed when the caller confirms.
type InsufficientBalanceWarning struct {
	RequestedDays int
	RemainingDays int
}

func (e *InsufficientBalanceWarning) Error() string {
	return fmt.Sprintf("requested %d vacation days but only %d remain in the current cycle", e.RequestedDays, e.RemainingDays)
}

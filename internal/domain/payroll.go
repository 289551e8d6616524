package domain

// LineItemKind distinguishes earnings from deductions on a payslip or
// invoice breakdown.
type LineItemKind string

const (
	LineItemEarning   LineItemKind = "earning"
	LineItemDeduction LineItemKind = "deduction"
)

// PayrollLineItem is one component of a payroll computation. Amount is
// always a positive magnitude; Kind carries the sign. The same line items
// are copied verbatim onto the payroll invoice, so there is no separate
// rounding path between a payslip and its ledger entry.
type PayrollLineItem struct {
	Label     string       `json:"label"`
	Kind      LineItemKind `json:"kind"`
	Amount    Money        `json:"amount"`
	Reference *string      `json:"reference,omitempty"`
	Note      *string      `json:"note,omitempty"`
}

// Signed returns the amount with deduction items negated.
func (it PayrollLineItem) Signed() Money {
	if it.Kind == LineItemDeduction {
		return -it.Amount
	}
	return it.Amount
}

// PayrollCalculationResult is the pure output of a net-pay computation.
// It carries no identity and is never persisted on its own; only its line
// items, once turned into an invoice, persist.
//
// Invariant: the signed sum of Items equals NetTotal exactly.
type PayrollCalculationResult struct {
	Items           []PayrollLineItem `json:"items"`
	GrossTotal      Money             `json:"grossTotal"`
	DiscountTotal   Money             `json:"discountTotal"`
	NetTotal        Money             `json:"netTotal"`
	BaseSalary      Money             `json:"baseSalary"`
	CompetenceMonth int               `json:"competenceMonth"`
	CompetenceYear  int               `json:"competenceYear"`
}

// PayrollStaleness reports drift between a generated payroll invoice and a
// freshly recomputed result for the same competence period. Drift is
// surfaced to the caller, never silently corrected.
type PayrollStaleness struct {
	InvoiceID   int32 `json:"invoiceId"`
	EmployeeID  int32 `json:"employeeId"`
	StoredTotal Money `json:"storedTotal"`
	FreshTotal  Money `json:"freshTotal"`
	Outdated    bool  `json:"outdated"`
}

// SignedSum adds up every line item with deductions negative.
func (r *PayrollCalculationResult) SignedSum() Money {
	var total Money
	for _, it := range r.Items {
		total += it.Signed()
	}
	return total
}

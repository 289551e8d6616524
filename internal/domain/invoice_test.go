package domain

import "testing"

func TestInvoiceDisplayStatus(t *testing.T) {
	tests := []struct {
		name     string
		invoice  Invoice
		expected string
	}{
		{"pending untouched", Invoice{Status: InvoiceStatusPending, TotalAmount: 10000}, "pending"},
		{"pending partially paid", Invoice{Status: InvoiceStatusPending, TotalAmount: 10000, PaidAmount: 4000}, "partial"},
		{"paid", Invoice{Status: InvoiceStatusPaid, TotalAmount: 10000, PaidAmount: 10000}, "paid"},
		{"overdue stays overdue even with partial balance", Invoice{Status: InvoiceStatusOverdue, TotalAmount: 10000, PaidAmount: 4000}, "overdue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.invoice.DisplayStatus(); got != tt.expected {
				t.Errorf("DisplayStatus() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestInvoiceRemainingAmount(t *testing.T) {
	invoice := Invoice{TotalAmount: 10000, PaidAmount: 4000}
	if got := invoice.RemainingAmount(); got != 6000 {
		t.Errorf("Expected remaining 6000, got %d", got)
	}

	// Overpayment yields a negative remainder, not an error.
	invoice.PaidAmount = 12000
	if got := invoice.RemainingAmount(); got != -2000 {
		t.Errorf("Expected remaining -2000, got %d", got)
	}
}

func TestPayrollLineItemSigned(t *testing.T) {
	earning := PayrollLineItem{Kind: LineItemEarning, Amount: 5000}
	if earning.Signed() != 5000 {
		t.Errorf("Expected 5000, got %d", earning.Signed())
	}
	deduction := PayrollLineItem{Kind: LineItemDeduction, Amount: 5000}
	if deduction.Signed() != -5000 {
		t.Errorf("Expected -5000, got %d", deduction.Signed())
	}
}

package domain

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		input    string
		expected Money
	}{
		{"1234.56", 123456},
		{"1.234,56", 123456},  // pt-BR style
		{"1,234.56", 123456},  // en-US style
		{"1234,5", 123450},    // single fractional digit padded
		{"12.3456", 1234},     // fractional digits beyond two truncated
		{"1.234.567,89", 123456789},
		{"100", 10000},        // no separator: whole units
		{"R$ 100", 10000},     // currency noise ignored
		{",50", 50},
		{"0", 0},
		{"", 0},
		{"abc", 0},            // unparsable yields zero, never an error
		{"-50", -5000},
		{"-1.000,00", -100000},
		{"100-", -10000},      // minus anywhere makes it negative
	}

	for _, tt := range tests {
		got := ParseMoney(tt.input)
		if got != tt.expected {
			t.Errorf("ParseMoney(%q) = %d, expected %d", tt.input, got, tt.expected)
		}
	}
}

func TestParseMoney_RoundTrip(t *testing.T) {
	// Any canonical rendering must parse back to the same amount.
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		amount := Money(rng.Int63n(2_000_000_000) - 1_000_000_000)
		if got := ParseMoney(amount.DecimalString()); got != amount {
			t.Fatalf("round trip failed: %d -> %q -> %d", amount, amount.DecimalString(), got)
		}
	}
}

func TestWithinTolerance(t *testing.T) {
	if !WithinTolerance(1000, 1000) {
		t.Error("Expected equal amounts within tolerance")
	}
	if !WithinTolerance(1000, 1001) {
		t.Error("Expected one minor unit apart within tolerance")
	}
	if !WithinTolerance(1001, 1000) {
		t.Error("Expected tolerance to be symmetric")
	}
	if WithinTolerance(1000, 1002) {
		t.Error("Expected two minor units apart outside tolerance")
	}
}

func TestMoneyDecimalString(t *testing.T) {
	tests := []struct {
		amount   Money
		expected string
	}{
		{123456, "1234.56"},
		{0, "0.00"},
		{5, "0.05"},
		{-50, "-0.50"},
	}
	for _, tt := range tests {
		if got := tt.amount.DecimalString(); got != tt.expected {
			t.Errorf("Money(%d).DecimalString() = %q, expected %q", tt.amount, got, tt.expected)
		}
	}
}

func TestMoneyFormat(t *testing.T) {
	tests := []struct {
		amount   Money
		expected string
	}{
		{123456, "R$ 1.234,56"},
		{123456789, "R$ 1.234.567,89"},
		{10000, "R$ 100,00"},
		{5, "R$ 0,05"},
		{-123456, "R$ -1.234,56"},
	}
	for _, tt := range tests {
		if got := tt.amount.Format("R$"); got != tt.expected {
			t.Errorf("Money(%d).Format() = %q, expected %q", tt.amount, got, tt.expected)
		}
	}
}

func TestMoneyFromDecimal(t *testing.T) {
	d, _ := decimal.NewFromString("1234.56")
	if got := MoneyFromDecimal(d); got != 123456 {
		t.Errorf("Expected 123456, got %d", got)
	}

	// Rounds to the nearest centavo.
	d, _ = decimal.NewFromString("0.005")
	if got := MoneyFromDecimal(d); got != 1 {
		t.Errorf("Expected 1, got %d", got)
	}
}

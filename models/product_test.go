package models

import (
	"testing"
	"time"
)

func TestNormalizeProductName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Whole Milk Gal", "whole milk gal"},
		{"  ORANGE JUICE  64oz ", "orange juice 64oz"},
		{"paper\ttowels   12pk", "paper towels 12pk"},
		{"", ""},
		{"   ", ""},
	}
	for _, tc := range cases {
		if got := NormalizeProductName(tc.in); got != tc.want {
			t.Errorf("NormalizeProductName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCalculateDueDate(t *testing.T) {
	invoiceDate := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		terms      PaymentTerms
		customDays int
		wantDays   int
	}{
		{PaymentTermsDueOnReceipt, 0, 0},
		{PaymentTermsNet15, 0, 15},
		{PaymentTermsNet30, 0, 30},
		{PaymentTermsNet45, 0, 45},
		{PaymentTermsNet60, 0, 60},
		{PaymentTermsCustom, 21, 21},
	}
	for _, tc := range cases {
		due := CalculateDueDate(invoiceDate, tc.terms, tc.customDays)
		if due == nil {
			t.Fatalf("%s: nil due date", tc.terms)
		}
		want := invoiceDate.AddDate(0, 0, tc.wantDays)
		if !due.Equal(want) {
			t.Errorf("%s: due %s, want %s", tc.terms, due, want)
		}
	}
}

package models

import (
	"testing"
	"time"
)

func TestFormatPoNumber(t *testing.T) {
	cases := []struct {
		seq  int64
		want string
	}{
		{1, "0000000001"},
		{42, "0000000042"},
		{9999999999, "9999999999"},
	}
	for _, tc := range cases {
		if got := FormatPoNumber(tc.seq); got != tc.want {
			t.Errorf("FormatPoNumber(%d) = %q, want %q", tc.seq, got, tc.want)
		}
	}
}

func TestFormatInvoiceNumber(t *testing.T) {
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	if got := FormatInvoiceNumber(date, 7); got != "INV-20240601-0007" {
		t.Fatalf("FormatInvoiceNumber = %q, want INV-20240601-0007", got)
	}
}

func TestParseInvoiceNumberSuffix(t *testing.T) {
	cases := []struct {
		number string
		want   int64
	}{
		{"INV-20240601-0007", 7},
		{"INV-20240601-0123", 123},
		{"INV-20240601-10000", 10000},
		{"", 0},
		{"garbage", 0},
		{"INV-20240601-", 0},
		{"INV-20240601-xyz", 0},
	}
	for _, tc := range cases {
		if got := ParseInvoiceNumberSuffix(tc.number); got != tc.want {
			t.Errorf("ParseInvoiceNumberSuffix(%q) = %d, want %d", tc.number, got, tc.want)
		}
	}
}

func TestInvoiceNumberRoundTrip(t *testing.T) {
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	number := FormatInvoiceNumber(date, 7)
	next := FormatInvoiceNumber(date, ParseInvoiceNumberSuffix(number)+1)
	if next != "INV-20240601-0008" {
		t.Fatalf("next after %q = %q, want INV-20240601-0008", number, next)
	}
}

package models

import "testing"

func TestInvoiceStatusTransitions(t *testing.T) {
	cases := []struct {
		from InvoiceStatus
		to   InvoiceStatus
		want bool
	}{
		{InvoiceStatusPending, InvoiceStatusPaid, true},
		{InvoiceStatusPending, InvoiceStatusCancelled, true},
		{InvoiceStatusPending, InvoiceStatusPending, false},
		{InvoiceStatusPaid, InvoiceStatusCancelled, false},
		{InvoiceStatusPaid, InvoiceStatusPending, false},
		{InvoiceStatusCancelled, InvoiceStatusPaid, false},
		{InvoiceStatusCancelled, InvoiceStatusPending, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

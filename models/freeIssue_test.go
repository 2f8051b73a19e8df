package models

import "testing"

func TestFreeQtyForFlat(t *testing.T) {
	rule := FreeIssue{
		FreeIssueType: FreeIssueTypeFlat,
		PurchaseQty:   10,
		FreeQty:       2,
	}

	cases := []struct {
		purchased int
		want      int
	}{
		{0, 0},
		{9, 0},
		{10, 2},
		{11, 2},
		{25, 2},
		{100, 2},
	}
	for _, tc := range cases {
		if got := rule.FreeQtyFor(tc.purchased); got != tc.want {
			t.Errorf("flat 10=>2: FreeQtyFor(%d) = %d, want %d", tc.purchased, got, tc.want)
		}
	}
}

func TestFreeQtyForMultiple(t *testing.T) {
	rule := FreeIssue{
		FreeIssueType: FreeIssueTypeMultiple,
		PurchaseQty:   10,
		FreeQty:       2,
	}

	cases := []struct {
		purchased int
		want      int
	}{
		{0, 0},
		{9, 0},
		{10, 2},
		{19, 2},
		{20, 4},
		{25, 4},
	}
	for _, tc := range cases {
		if got := rule.FreeQtyFor(tc.purchased); got != tc.want {
			t.Errorf("multiple 10=>2: FreeQtyFor(%d) = %d, want %d", tc.purchased, got, tc.want)
		}
	}

	triple := FreeIssue{
		FreeIssueType: FreeIssueTypeMultiple,
		PurchaseQty:   10,
		FreeQty:       3,
	}
	if got := triple.FreeQtyFor(22); got != 6 {
		t.Errorf("multiple 10=>3: FreeQtyFor(22) = %d, want 6", got)
	}
}

func TestFreeQtyForBadRule(t *testing.T) {
	// zero threshold must never divide or grant
	rule := FreeIssue{
		FreeIssueType: FreeIssueTypeMultiple,
		PurchaseQty:   0,
		FreeQty:       5,
	}
	if got := rule.FreeQtyFor(100); got != 0 {
		t.Errorf("zero threshold: FreeQtyFor(100) = %d, want 0", got)
	}

	unknown := FreeIssue{
		FreeIssueType: FreeIssueType("Tiered"),
		PurchaseQty:   10,
		FreeQty:       1,
	}
	if got := unknown.FreeQtyFor(50); got != 0 {
		t.Errorf("unknown type: FreeQtyFor(50) = %d, want 0", got)
	}
}

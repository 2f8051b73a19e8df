package utils

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCalculateDiscountedPrice(t *testing.T) {
	cases := []struct {
		name       string
		unitPrice  string
		percentage string
		want       string
	}{
		{"ten percent off round number", "100", "10", "90"},
		{"zero percent keeps price", "100", "0", "100"},
		{"full discount is free", "100", "100", "0"},
		{"fractional price rounds to cents", "33.33", "7.5", "30.83"},
		{"half percent", "199.99", "0.5", "198.99"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			unitPrice := decimal.RequireFromString(tc.unitPrice)
			percentage := decimal.RequireFromString(tc.percentage)
			want := decimal.RequireFromString(tc.want)

			got := CalculateDiscountedPrice(unitPrice, percentage)
			if !got.Equal(want) {
				t.Fatalf("CalculateDiscountedPrice(%s, %s%%) = %s, want %s", tc.unitPrice, tc.percentage, got, want)
			}
		})
	}
}

func TestCalculateDiscountedPriceIsDeterministic(t *testing.T) {
	unitPrice := decimal.RequireFromString("123.45")
	percentage := decimal.RequireFromString("12.5")

	first := CalculateDiscountedPrice(unitPrice, percentage)
	for i := 0; i < 10; i++ {
		again := CalculateDiscountedPrice(unitPrice, percentage)
		if !again.Equal(first) {
			t.Fatalf("resolving twice gave %s then %s", first, again)
		}
	}
}

func TestCalculateDiscountAmount(t *testing.T) {
	subTotal := decimal.RequireFromString("250")
	percentage := decimal.RequireFromString("4")

	got := CalculateDiscountAmount(subTotal, percentage)
	if !got.Equal(decimal.RequireFromString("10")) {
		t.Fatalf("CalculateDiscountAmount(250, 4%%) = %s, want 10", got)
	}
}

package pricing

import (
	"testing"

	"ComandaApp/app/models"
)

func TestNormalizePayment(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"efectivoLower", "efectivo", "Efectivo"},
		{"efectSubstring", "pago en EFECTIVO por favor", "Efectivo"},
		{"nequi", "Nequi  ", "Nequi"},
		{"daviplata", "daviplata", "Daviplata"},
		{"daviSubstring", "Davi", "Daviplata"},
		{"unknownPassesThrough", "Bancolombia", "Bancolombia"},
		{"unknownTrimmed", "  Bancolombia ", "Bancolombia"},
		{"emptyIsUnspecified", "", PaymentUnspecified},
		{"blankIsUnspecified", "   ", PaymentUnspecified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePayment(tt.input); got != tt.want {
				t.Errorf("NormalizePayment(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestBreakdownByPayment(t *testing.T) {
	items := []models.LineItem{
		{Kind: models.KindLunch, Soup: opt("Sancocho"), Payment: opt("efectivo")}, // 13000
		{Kind: models.KindLunch, Payment: opt("Nequi")},                           // 12000
		{Kind: models.KindLunch, Payment: opt("nequi ")},                          // 12000
		{Kind: models.KindLunch},                                                  // 12000, unspecified
	}

	breakdown := BreakdownByPayment(items, Context{})

	if got := breakdown["Efectivo"]; got != 13000 {
		t.Errorf("Efectivo = %d, want 13000", got)
	}
	if got := breakdown["Nequi"]; got != 24000 {
		t.Errorf("Nequi = %d, want 24000", got)
	}
	if got := breakdown[PaymentUnspecified]; got != 12000 {
		t.Errorf("%s = %d, want 12000", PaymentUnspecified, got)
	}

	// Breakdown must always reconcile with the order total.
	total := 0
	for _, amount := range breakdown {
		total += amount
	}
	if want := PriceOrder(items, Context{}).Total; total != want {
		t.Errorf("breakdown sums to %d, order total is %d", total, want)
	}

	payable := PayableBreakdown(breakdown)
	if _, ok := payable[PaymentUnspecified]; ok {
		t.Errorf("payable breakdown must not contain %q", PaymentUnspecified)
	}
	if len(payable) != 2 {
		t.Errorf("payable breakdown has %d methods, want 2", len(payable))
	}
}

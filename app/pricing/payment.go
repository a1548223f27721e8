package pricing

import (
	"strings"

	"ComandaApp/app/models"
)

// PaymentUnspecified buckets items whose payment method was never
// chosen. These stay in the breakdown map but are excluded from payable
// instruction displays.
const PaymentUnspecified = "No especificado"

// NormalizePayment canonicalizes a payment method name. Users type these
// free-form on the tablets, so well-known methods are matched by
// substring; anything unrecognized passes through trimmed.
func NormalizePayment(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return PaymentUnspecified
	}
	lower := strings.ToLower(trimmed)
	switch {
	case strings.Contains(lower, "efect"):
		return "Efectivo"
	case strings.Contains(lower, "nequi"):
		return "Nequi"
	case strings.Contains(lower, "davi"):
		return "Daviplata"
	}
	return trimmed
}

// ResolvePayment returns the normalized payment method of a line item.
func ResolvePayment(item *models.LineItem) string {
	if item == nil || item.Payment == nil {
		return PaymentUnspecified
	}
	return NormalizePayment(models.CleanName(item.Payment.Name))
}

// BreakdownByPayment group-sums item prices by resolved payment method.
func BreakdownByPayment(items []models.LineItem, ctx Context) map[string]int {
	return PriceOrder(items, ctx).Breakdown
}

// PayableBreakdown filters the breakdown down to the methods shown in
// payment instructions, dropping the unspecified bucket.
func PayableBreakdown(breakdown map[string]int) map[string]int {
	out := make(map[string]int, len(breakdown))
	for method, amount := range breakdown {
		if method == PaymentUnspecified {
			continue
		}
		out[method] = amount
	}
	return out
}

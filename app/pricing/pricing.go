// Package pricing computes line item and order prices. Every function in
// this package is total: items under construction in the wizard are priced
// on every keystroke, so missing slots always resolve to the "no selection"
// branch of the price tables instead of an error.
package pricing

import (
	"ComandaApp/app/models"
)

// Role selects which price rules apply to the caller.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
	RoleWaiter   Role = "waiter"
)

// Context carries the pricing context for one call. The zero value is a
// customer-channel context.
type Context struct {
	Role Role
}

// staff reports whether staff-only surcharges apply.
func (c Context) staff() bool {
	return c.Role == RoleStaff || c.Role == RoleWaiter
}

// OrderTotal is the aggregate result for a list of line items.
type OrderTotal struct {
	Total     int            `json:"total"`
	Breakdown map[string]int `json:"breakdown"` // normalized payment method -> amount
}

// PriceLineItem prices a single line item. Unknown kinds price their
// additions only; grouping is where malformed items get rejected.
func PriceLineItem(item *models.LineItem, ctx Context) int {
	if item == nil {
		return 0
	}
	switch item.Kind {
	case models.KindLunch:
		return PriceLunch(item, ctx)
	case models.KindBreakfast:
		return PriceBreakfast(item)
	}
	return item.AdditionsTotal()
}

// SumPrices totals a list of line items. An empty list is 0.
func SumPrices(items []models.LineItem, ctx Context) int {
	total := 0
	for i := range items {
		total += PriceLineItem(&items[i], ctx)
	}
	return total
}

// PriceOrder prices every item and groups the amounts by resolved
// payment method.
func PriceOrder(items []models.LineItem, ctx Context) OrderTotal {
	result := OrderTotal{Breakdown: make(map[string]int)}
	for i := range items {
		price := PriceLineItem(&items[i], ctx)
		result.Total += price
		result.Breakdown[ResolvePayment(&items[i])] += price
	}
	return result
}

package pricing

import (
	"strings"

	"ComandaApp/app/models"
)

// Lunch base prices in Colombian pesos. A soup-equivalent course (a real
// soup or a soup replacement) moves the plate to the full price.
const (
	lunchBase     = 12000
	lunchWithSoup = 13000
)

// ProteinSurcharge is one row of the staff surcharge table.
type ProteinSurcharge struct {
	Protein string
	Amount  int
}

// StaffSurcharges lists proteins that carry an extra charge when the
// order is placed through a staff channel (waiter tablet, POS). Matched
// against the cleaned protein name.
var StaffSurcharges = []ProteinSurcharge{
	{Protein: "Pechuga gratinada", Amount: 3000},
	{Protein: "Carne gratinada", Amount: 3000},
}

// PriceLunch prices a lunch plate: base price by soup course, staff
// surcharges for special proteins, plus additions.
func PriceLunch(item *models.LineItem, ctx Context) int {
	price := lunchBase
	if item.HasSoupCourse() {
		price = lunchWithSoup
	}

	// Combo rices are self-contained: the protein slot is ignored, so its
	// surcharges are too.
	if ctx.staff() && item.Protein != nil && !item.HasComboPrinciple() {
		name := models.CleanName(item.Protein.Name)
		for _, s := range StaffSurcharges {
			if strings.EqualFold(name, s.Protein) {
				price += s.Amount
				break
			}
		}
	}

	return price + item.AdditionsTotal()
}

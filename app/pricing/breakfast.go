package pricing

import (
	"strings"

	"ComandaApp/app/models"
)

// Takeaway breakfasts cost a flat 1000 more than table service, across
// every cell of the price table.
const takeawaySurcharge = 1000

// PriceBreakfast prices a breakfast from the (type, broth, channel)
// table plus additions. Unrecognized types fall back to the cheapest row
// so half-built items always price.
func PriceBreakfast(item *models.LineItem) int {
	price := breakfastBase(item)
	if item.Channel() == models.ChannelTakeaway {
		price += takeawaySurcharge
	}
	return price + item.AdditionsTotal()
}

// breakfastBase returns the table-service price for the selected type
// and broth.
func breakfastBase(item *models.LineItem) int {
	typeName := ""
	if item.BreakfastType != nil {
		typeName = strings.ToLower(models.CleanName(item.BreakfastType.Name))
	}
	broth := ""
	if item.Broth != nil {
		broth = strings.ToLower(models.CleanName(item.Broth.Name))
	}

	switch typeName {
	case "solo huevos":
		return 7000
	case "solo caldo":
		switch {
		case strings.Contains(broth, "pata"):
			return 8000
		case strings.Contains(broth, "pajarilla"):
			return 9000
		default: // costilla, pescado and anything else
			return 7000
		}
	case "desayuno completo":
		switch {
		case strings.Contains(broth, "pata"):
			return 12000
		case strings.Contains(broth, "pajarilla"):
			return 13000
		default:
			return 11000
		}
	case "moñona":
		return 13000
	}
	return 7000
}

package ordering

import (
	"errors"
	"testing"

	"ComandaApp/app/models"
	"ComandaApp/app/pricing"
)

func opt(name string) *models.OptionRef {
	return &models.OptionRef{Name: name, Kind: models.ClassifyOptionKind(name)}
}

func completeLunch() models.LineItem {
	return models.LineItem{
		Kind:       models.KindLunch,
		Soup:       opt("Sancocho"),
		Principles: []models.OptionRef{*opt("Frijoles")},
		Protein:    opt("Carne asada"),
		OrderType:  models.ChannelTakeaway,
	}
}

func TestValidateOrderMissingFields(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*models.LineItem)
		wantField string
	}{
		{
			name:      "missingSoupDecision",
			mutate:    func(it *models.LineItem) { it.Soup = nil },
			wantField: "soup",
		},
		{
			name:      "missingPrinciple",
			mutate:    func(it *models.LineItem) { it.Principles = nil },
			wantField: "principle",
		},
		{
			name:      "missingProtein",
			mutate:    func(it *models.LineItem) { it.Protein = nil },
			wantField: "protein",
		},
		{
			name:      "missingChannel",
			mutate:    func(it *models.LineItem) { it.OrderType = "" },
			wantField: "order_type",
		},
		{
			name: "tableOrderNeedsTableNumber",
			mutate: func(it *models.LineItem) {
				it.OrderType = models.ChannelTable
				it.TableNumber = ""
			},
			wantField: "table_number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := completeLunch()
			tt.mutate(&item)
			err := ValidateOrder([]models.LineItem{item}, DefaultConfig())
			var missing *MissingFieldError
			if !errors.As(err, &missing) {
				t.Fatalf("err = %v, want MissingFieldError", err)
			}
			if missing.Field != tt.wantField {
				t.Errorf("field = %q, want %q", missing.Field, tt.wantField)
			}
			if missing.ItemIndex != 1 {
				t.Errorf("item index = %d, want 1", missing.ItemIndex)
			}
		})
	}
}

func TestValidateOrderComboRiceSkipsProtein(t *testing.T) {
	item := completeLunch()
	item.Principles = []models.OptionRef{*opt("Arroz con pollo")}
	item.Protein = nil

	if err := ValidateOrder([]models.LineItem{item}, DefaultConfig()); err != nil {
		t.Fatalf("combo rice lunch should validate without protein, got %v", err)
	}
}

func TestValidateOrderSoupAlternativesAccepted(t *testing.T) {
	t.Run("noSoupMarker", func(t *testing.T) {
		item := completeLunch()
		item.Soup = opt("Sin sopa")
		if err := ValidateOrder([]models.LineItem{item}, DefaultConfig()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
	t.Run("soupReplacement", func(t *testing.T) {
		item := completeLunch()
		item.Soup = nil
		item.SoupReplacement = &models.Replacement{Replacement: "Frijoles"}
		if err := ValidateOrder([]models.LineItem{item}, DefaultConfig()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestValidateOrderUnconfiguredAddition(t *testing.T) {
	item := completeLunch()
	item.Additions = []models.Addition{
		{Name: "Proteína adicional", Price: 5000, Quantity: 1},
	}

	err := ValidateOrder([]models.LineItem{item}, DefaultConfig())
	var unconfigured *UnconfiguredAdditionError
	if !errors.As(err, &unconfigured) {
		t.Fatalf("err = %v, want UnconfiguredAdditionError", err)
	}
	if unconfigured.Addition != "Proteína adicional" {
		t.Errorf("addition = %q", unconfigured.Addition)
	}

	// The same item still prices: the addition charges its own price and
	// nothing extra for the unset modifier.
	if got := pricing.PriceLineItem(&item, pricing.Context{}); got != 18000 {
		t.Errorf("price = %d, want 18000", got)
	}

	// Once configured, validation passes.
	item.Additions[0].Protein = "Carne asada"
	if err := ValidateOrder([]models.LineItem{item}, DefaultConfig()); err != nil {
		t.Fatalf("configured addition should validate, got %v", err)
	}
}

func TestValidateOrderFailsFastOnEarliestItem(t *testing.T) {
	bad1 := completeLunch()
	bad1.Protein = nil
	bad2 := completeLunch()
	bad2.Soup = nil

	err := ValidateOrder([]models.LineItem{completeLunch(), bad1, bad2}, DefaultConfig())
	var missing *MissingFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("err = %v, want MissingFieldError", err)
	}
	if missing.ItemIndex != 2 {
		t.Errorf("item index = %d, want 2 (earliest incomplete item)", missing.ItemIndex)
	}
	if missing.Field != "protein" {
		t.Errorf("field = %q, want %q", missing.Field, "protein")
	}
}

func TestValidateBreakfastSteps(t *testing.T) {
	item := models.LineItem{
		Kind:          models.KindBreakfast,
		BreakfastType: opt("Desayuno completo"),
		Broth:         opt("Caldo de costilla"),
		Eggs:          opt("Revueltos"),
		OrderType:     models.ChannelTakeaway,
	}

	// rice_bread comes before drink in the completo step list.
	err := ValidateOrder([]models.LineItem{item}, DefaultConfig())
	var missing *MissingFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("err = %v, want MissingFieldError", err)
	}
	if missing.Field != "rice_bread" {
		t.Errorf("field = %q, want %q", missing.Field, "rice_bread")
	}

	item.RiceBread = opt("Arroz")
	item.Drink = opt("Chocolate")
	if err := ValidateOrder([]models.LineItem{item}, DefaultConfig()); err != nil {
		t.Fatalf("complete breakfast should validate, got %v", err)
	}
}

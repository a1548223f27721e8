package pricing

import (
	"testing"

	"ComandaApp/app/models"
)

func opt(name string) *models.OptionRef {
	return &models.OptionRef{Name: name, Kind: models.ClassifyOptionKind(name)}
}

func TestPriceLunch(t *testing.T) {
	tests := []struct {
		name string
		item *models.LineItem
		ctx  Context
		want int
	}{
		{
			name: "noSoupNoReplacement",
			item: &models.LineItem{Kind: models.KindLunch},
			want: 12000,
		},
		{
			name: "withSoup",
			item: &models.LineItem{Kind: models.KindLunch, Soup: opt("Sancocho")},
			want: 13000,
		},
		{
			name: "soupReplacementAnyName",
			item: &models.LineItem{
				Kind:            models.KindLunch,
				SoupReplacement: &models.Replacement{Replacement: "Frijoles"},
			},
			want: 13000,
		},
		{
			name: "soloBandejaIsNotSoup",
			item: &models.LineItem{Kind: models.KindLunch, Soup: opt("Solo bandeja")},
			want: 12000,
		},
		{
			name: "sinSopaIsNotSoup",
			item: &models.LineItem{Kind: models.KindLunch, Soup: opt("Sin sopa")},
			want: 12000,
		},
		{
			name: "additionsMultiplyByQuantity",
			item: &models.LineItem{
				Kind: models.KindLunch,
				Soup: opt("Sancocho"),
				Additions: []models.Addition{
					{Name: "Proteína adicional", Price: 5000, Quantity: 2},
					{Name: "Arroz", Price: 2000}, // quantity defaults to 1
				},
			},
			want: 13000 + 10000 + 2000,
		},
		{
			name: "staffSurchargeForGratinatedProtein",
			item: &models.LineItem{
				Kind:    models.KindLunch,
				Soup:    opt("Sancocho"),
				Protein: opt("Pechuga gratinada"),
			},
			ctx:  Context{Role: RoleWaiter},
			want: 16000,
		},
		{
			name: "customerPaysNoSurcharge",
			item: &models.LineItem{
				Kind:    models.KindLunch,
				Soup:    opt("Sancocho"),
				Protein: opt("Pechuga gratinada"),
			},
			want: 13000,
		},
		{
			name: "comboRiceSuppressesProteinSurcharge",
			item: &models.LineItem{
				Kind:       models.KindLunch,
				Principles: []models.OptionRef{*opt("Arroz con pollo")},
				Protein:    opt("Pechuga gratinada"),
			},
			ctx:  Context{Role: RoleStaff},
			want: 12000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PriceLunch(tt.item, tt.ctx)
			if got != tt.want {
				t.Errorf("PriceLunch() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPriceBreakfast(t *testing.T) {
	tests := []struct {
		name string
		item *models.LineItem
		want int
	}{
		{
			name: "soloHuevosTakeaway",
			item: &models.LineItem{
				Kind:          models.KindBreakfast,
				BreakfastType: opt("Solo huevos"),
				OrderType:     models.ChannelTakeaway,
			},
			want: 8000,
		},
		{
			name: "completoPajarillaTable",
			item: &models.LineItem{
				Kind:          models.KindBreakfast,
				BreakfastType: opt("Desayuno completo"),
				Broth:         opt("Caldo de pajarilla"),
				OrderType:     models.ChannelTable,
			},
			want: 13000,
		},
		{
			name: "mononaTakeawayWithAddition",
			item: &models.LineItem{
				Kind:          models.KindBreakfast,
				BreakfastType: opt("Moñona"),
				OrderType:     models.ChannelTakeaway,
				Additions:     []models.Addition{{Name: "Huevo extra", Price: 2000, Quantity: 2}},
			},
			want: 18000,
		},
		{
			name: "soloCaldoPataTable",
			item: &models.LineItem{
				Kind:          models.KindBreakfast,
				BreakfastType: opt("Solo caldo"),
				Broth:         opt("Caldo de pata"),
				OrderType:     models.ChannelTable,
			},
			want: 8000,
		},
		{
			name: "soloCaldoCostillaDefaultsToCheapRow",
			item: &models.LineItem{
				Kind:          models.KindBreakfast,
				BreakfastType: opt("Solo caldo"),
				Broth:         opt("Caldo de costilla"),
				OrderType:     models.ChannelTable,
			},
			want: 7000,
		},
		{
			name: "channelDefaultsToTakeaway",
			item: &models.LineItem{
				Kind:          models.KindBreakfast,
				BreakfastType: opt("Solo huevos"),
			},
			want: 8000,
		},
		{
			name: "unrecognizedTypePricesAsBase",
			item: &models.LineItem{
				Kind:          models.KindBreakfast,
				BreakfastType: opt("Algo raro"),
				OrderType:     models.ChannelTable,
			},
			want: 7000,
		},
		{
			name: "emptyBreakfastStillPrices",
			item: &models.LineItem{Kind: models.KindBreakfast},
			want: 8000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PriceBreakfast(tt.item)
			if got != tt.want {
				t.Errorf("PriceBreakfast() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPriceLineItemDeterminism(t *testing.T) {
	item := &models.LineItem{
		Kind:      models.KindLunch,
		Soup:      opt("Sancocho"),
		Additions: []models.Addition{{Name: "Arroz", Price: 2000, Quantity: 3}},
	}
	first := PriceLineItem(item, Context{})
	for i := 0; i < 10; i++ {
		if got := PriceLineItem(item, Context{}); got != first {
			t.Fatalf("call %d returned %d, first call returned %d", i, got, first)
		}
	}
}

func TestPriceOrderAdditivity(t *testing.T) {
	items := []models.LineItem{
		{Kind: models.KindLunch, Soup: opt("Sancocho")},
		{Kind: models.KindLunch},
		{Kind: models.KindBreakfast, BreakfastType: opt("Moñona")},
	}

	result := PriceOrder(items, Context{})

	sum := 0
	for i := range items {
		sum += PriceLineItem(&items[i], Context{})
	}
	if result.Total != sum {
		t.Errorf("PriceOrder total = %d, sum of items = %d", result.Total, sum)
	}
	if result.Total != SumPrices(items, Context{}) {
		t.Errorf("SumPrices disagrees with PriceOrder: %d vs %d", SumPrices(items, Context{}), result.Total)
	}
}

func TestPriceOrderEmpty(t *testing.T) {
	result := PriceOrder(nil, Context{})
	if result.Total != 0 {
		t.Errorf("empty order total = %d, want 0", result.Total)
	}
	if SumPrices(nil, Context{}) != 0 {
		t.Errorf("SumPrices(nil) != 0")
	}
}

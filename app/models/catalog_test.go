package models

import (
	"reflect"
	"testing"
)

func TestClassifyOptionKind(t *testing.T) {
	tests := []struct {
		name   string
		option string
		want   OptionKind
	}{
		{name: "regularSoup", option: "Sancocho", want: OptionRegular},
		{name: "noSoupMarker", option: "Sin sopa", want: OptionNoSoup},
		{name: "trayOnlyMarker", option: "Solo bandeja", want: OptionNoSoup},
		{name: "caseInsensitive", option: "sin SOPA", want: OptionNoSoup},
		{name: "soupReplacement", option: "Remplazo por Sopa", want: OptionReplacement},
		{name: "principleReplacement", option: "Remplazo por Principio", want: OptionReplacement},
		{name: "comboRice", option: "Arroz con pollo", want: OptionCombo},
		{name: "comboRicePaisa", option: "Arroz paisa", want: OptionCombo},
		{name: "promotedNameStillClassified", option: "Arroz con pollo NUEVO", want: OptionCombo},
		{name: "plainRiceIsRegular", option: "Arroz blanco", want: OptionRegular},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyOptionKind(tt.option); got != tt.want {
				t.Errorf("ClassifyOptionKind(%q) = %q, want %q", tt.option, got, tt.want)
			}
		})
	}
}

func TestCleanName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "Sancocho", want: "Sancocho"},
		{name: "promotionTag", input: "Ajiaco NUEVO", want: "Ajiaco"},
		{name: "surroundingSpace", input: "  Frijoles  ", want: "Frijoles"},
		{name: "tagWithSpace", input: " Lentejas NUEVO ", want: "Lentejas"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanName(tt.input); got != tt.want {
				t.Errorf("CleanName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestBreakfastSteps(t *testing.T) {
	tests := []struct {
		name          string
		breakfastType string
		want          []string
	}{
		{name: "eggsOnly", breakfastType: "solo huevos", want: []string{"eggs", "drink"}},
		{name: "brothOnly", breakfastType: "solo caldo", want: []string{"broth", "drink"}},
		{name: "complete", breakfastType: "desayuno completo", want: []string{"broth", "eggs", "rice_bread", "drink"}},
		{name: "monona", breakfastType: "moñona", want: []string{"broth", "eggs", "rice_bread", "drink", "protein"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := BreakfastSteps[tt.breakfastType]
			if !ok {
				t.Fatalf("no steps registered for %q", tt.breakfastType)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("steps = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAdditionTotals(t *testing.T) {
	tests := []struct {
		name     string
		addition Addition
		want     int
	}{
		{name: "explicitQuantity", addition: Addition{Price: 3000, Quantity: 2}, want: 6000},
		{name: "legacyZeroQuantity", addition: Addition{Price: 3000}, want: 3000},
		{name: "negativeQuantityDefaultsToOne", addition: Addition{Price: 2000, Quantity: -1}, want: 2000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.addition.Total(); got != tt.want {
				t.Errorf("Total() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCatalogSnapshotResolve(t *testing.T) {
	snap := NewCatalogSnapshot([]CatalogOption{
		{ID: 1, Slot: SlotSoup, Name: "Sancocho NUEVO", Kind: OptionRegular, IsActive: true},
		{ID: 2, Slot: SlotSoup, Name: "Sin sopa", Kind: OptionNoSoup, IsActive: true},
		{ID: 3, Slot: SlotSoup, Name: "Ajiaco", Kind: OptionRegular, IsActive: false},
	})

	ref := snap.Resolve(1)
	if ref == nil {
		t.Fatal("expected option 1 to resolve")
	}
	if ref.Name != "Sancocho" {
		t.Errorf("resolved name = %q, want promotion tag stripped", ref.Name)
	}

	if got := snap.Resolve(99); got != nil {
		t.Errorf("Resolve(99) = %+v, want nil for unknown id", got)
	}

	active := snap.BySlot(SlotSoup)
	if len(active) != 2 {
		t.Fatalf("BySlot returned %d options, want 2 active", len(active))
	}
	for _, o := range active {
		if !o.IsActive {
			t.Errorf("inactive option %q returned by BySlot", o.Name)
		}
	}
}

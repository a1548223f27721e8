package grouping

import (
	"errors"
	"reflect"
	"testing"

	"ComandaApp/app/models"
)

func opt(name string) *models.OptionRef {
	return &models.OptionRef{Name: name, Kind: models.ClassifyOptionKind(name)}
}

// lunch builds a fully specified lunch so tests can tweak single fields.
func lunch() models.LineItem {
	return models.LineItem{
		Kind:       models.KindLunch,
		Soup:       opt("Sancocho"),
		Principles: []models.OptionRef{*opt("Frijoles")},
		Protein:    opt("Carne asada"),
		Drink:      opt("Limonada"),
		Sides:      []models.OptionRef{*opt("Ensalada"), *opt("Patacón")},
		CutleryOpt: models.CutleryYes,
		Payment:    opt("Efectivo"),
	}
}

func TestGroupLineItemsThreshold(t *testing.T) {
	t.Run("oneFieldDiffGroupsTogether", func(t *testing.T) {
		a := lunch()
		b := lunch()
		b.Protein = opt("Pollo")

		groups, err := GroupLineItems([]models.LineItem{a, b})
		if err != nil {
			t.Fatalf("GroupLineItems: %v", err)
		}
		if len(groups) != 1 {
			t.Fatalf("got %d groups, want 1", len(groups))
		}
		if len(groups[0].Members) != 2 {
			t.Errorf("got %d members, want 2", len(groups[0].Members))
		}
		if len(groups[0].MemberDiffs) != 1 {
			t.Fatalf("got %d member diffs, want 1", len(groups[0].MemberDiffs))
		}
		diffs := groups[0].MemberDiffs[0].Diffs
		if len(diffs) != 1 || diffs[0].Field != FieldProtein {
			t.Errorf("unexpected diffs: %+v", diffs)
		}
	})

	t.Run("fourFieldDiffSplits", func(t *testing.T) {
		a := lunch()
		b := lunch()
		b.Protein = opt("Pollo")
		b.Drink = opt("Jugo de mora")
		b.Sides = []models.OptionRef{*opt("Aguacate")}
		b.Notes = "sin cebolla"

		groups, err := GroupLineItems([]models.LineItem{a, b})
		if err != nil {
			t.Fatalf("GroupLineItems: %v", err)
		}
		if len(groups) != 2 {
			t.Fatalf("got %d groups, want 2", len(groups))
		}
	})

	t.Run("exactlyThreeDiffsStillGroups", func(t *testing.T) {
		a := lunch()
		b := lunch()
		b.Protein = opt("Pollo")
		b.Drink = opt("Jugo de mora")
		b.Notes = "sin cebolla"

		groups, err := GroupLineItems([]models.LineItem{a, b})
		if err != nil {
			t.Fatalf("GroupLineItems: %v", err)
		}
		if len(groups) != 1 {
			t.Fatalf("got %d groups, want 1", len(groups))
		}
	})
}

// Clustering is greedy against the representative only: B and C both sit
// within the threshold of A while differing from each other in more
// fields, and all three still land in one group.
func TestGroupLineItemsOrderDependence(t *testing.T) {
	a := lunch()

	b := lunch()
	b.Protein = opt("Pollo")
	b.Drink = opt("Jugo de mora")
	b.Notes = "sin cebolla"

	c := lunch()
	c.Soup = opt("Ajiaco")
	c.Sides = []models.OptionRef{*opt("Aguacate")}
	c.CutleryOpt = models.CutleryNo

	// diff(A,B) = 3, diff(A,C) = 3, diff(B,C) = 6.
	groups, err := GroupLineItems([]models.LineItem{a, b, c})
	if err != nil {
		t.Fatalf("GroupLineItems: %v", err)
	}
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1 (all compared against A)", len(groups))
	}
	if got := groups[0].Indexes; !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Errorf("indexes = %v, want [1 2 3]", got)
	}

	// With B first, C no longer fits anywhere near B.
	groups, err = GroupLineItems([]models.LineItem{b, c, a})
	if err != nil {
		t.Fatalf("GroupLineItems: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("reordered input: got %d groups, want 2", len(groups))
	}
}

func TestGroupLineItemsIdempotence(t *testing.T) {
	items := []models.LineItem{lunch(), lunch(), lunch()}
	items[1].Protein = opt("Pollo")
	items[2].Soup = opt("Ajiaco")

	first, err := GroupLineItems(items)
	if err != nil {
		t.Fatalf("GroupLineItems: %v", err)
	}
	second, err := GroupLineItems(items)
	if err != nil {
		t.Fatalf("GroupLineItems: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("group counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if !reflect.DeepEqual(first[i].Indexes, second[i].Indexes) {
			t.Errorf("group %d membership differs: %v vs %v", i, first[i].Indexes, second[i].Indexes)
		}
	}
}

func TestGroupLineItemsRejectsUnknownKind(t *testing.T) {
	items := []models.LineItem{lunch(), {Kind: "postre"}}
	_, err := GroupLineItems(items)
	if !errors.Is(err, ErrInvalidLineItemKind) {
		t.Fatalf("err = %v, want ErrInvalidLineItemKind", err)
	}
}

func TestGroupLineItemsKindsNeverMix(t *testing.T) {
	breakfastItem := models.LineItem{
		Kind:          models.KindBreakfast,
		BreakfastType: opt("Solo huevos"),
	}
	groups, err := GroupLineItems([]models.LineItem{lunch(), breakfastItem})
	if err != nil {
		t.Fatalf("GroupLineItems: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
}

func TestExtractNormalization(t *testing.T) {
	t.Run("sideOrderDoesNotMatter", func(t *testing.T) {
		a := lunch()
		a.Sides = []models.OptionRef{*opt("Ensalada"), *opt("Patacón")}
		b := lunch()
		b.Sides = []models.OptionRef{*opt("Patacón"), *opt("Ensalada")}
		if extract(&a, FieldSides) != extract(&b, FieldSides) {
			t.Errorf("side selection order affected equality")
		}
	})

	t.Run("newTagStripped", func(t *testing.T) {
		a := lunch()
		a.Protein = &models.OptionRef{Name: "Carne asada NUEVO"}
		b := lunch()
		if extract(&a, FieldProtein) != extract(&b, FieldProtein) {
			t.Errorf("NUEVO tag affected equality")
		}
	})

	t.Run("cutleryTriState", func(t *testing.T) {
		unset := lunch()
		unset.CutleryOpt = models.CutleryUnset
		no := lunch()
		no.CutleryOpt = models.CutleryNo
		if extract(&unset, FieldCutlery) == extract(&no, FieldCutlery) {
			t.Errorf("unset cutlery must not equal explicit no")
		}
	})

	t.Run("comboSuppressesSides", func(t *testing.T) {
		a := lunch()
		a.Principles = []models.OptionRef{*opt("Arroz con pollo")}
		a.Sides = []models.OptionRef{*opt("Ensalada")}
		b := lunch()
		b.Principles = []models.OptionRef{*opt("Arroz con pollo")}
		b.Sides = nil
		if extract(&a, FieldSides) != extract(&b, FieldSides) {
			t.Errorf("sides must be ignored when a combo rice is selected")
		}
	})

	t.Run("paymentNormalized", func(t *testing.T) {
		a := lunch()
		a.Payment = opt("efectivo")
		b := lunch()
		b.Payment = opt("Efectivo ")
		if extract(&a, FieldPayment) != extract(&b, FieldPayment) {
			t.Errorf("payment spelling affected equality")
		}
	})
}

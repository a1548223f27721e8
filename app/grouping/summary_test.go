package grouping

import (
	"strings"
	"testing"

	"ComandaApp/app/models"
	"ComandaApp/app/pricing"
)

func mustGroup(t *testing.T, items []models.LineItem) []Group {
	t.Helper()
	groups, err := GroupLineItems(items)
	if err != nil {
		t.Fatalf("GroupLineItems: %v", err)
	}
	return groups
}

func findLine(lines []SummaryLine, f Field) (string, bool) {
	for _, l := range lines {
		if l.Field == f {
			return l.Value, true
		}
	}
	return "", false
}

func TestRenderGroupSummaryCommonFields(t *testing.T) {
	a := lunch()
	b := lunch()
	b.Protein = opt("Pollo")

	summary := RenderGroupSummary(mustGroup(t, []models.LineItem{a, b}), pricing.Context{})

	if len(summary.Sections) != 1 {
		t.Fatalf("got %d sections, want 1", len(summary.Sections))
	}
	section := summary.Sections[0]

	if section.Count != 2 {
		t.Errorf("count = %d, want 2", section.Count)
	}
	if section.Subtotal != 26000 {
		t.Errorf("subtotal = %d, want 26000", section.Subtotal)
	}

	// Protein deviates on member 2, so it is not common even though the
	// representative has one.
	if _, ok := findLine(section.Common, FieldProtein); ok {
		t.Errorf("protein should not be a common field")
	}
	if got, ok := findLine(section.Common, FieldSoup); !ok || got != "Sancocho" {
		t.Errorf("soup common line = %q, %v", got, ok)
	}

	if len(section.Differences) != 1 {
		t.Fatalf("got %d difference sections, want 1", len(section.Differences))
	}
	member := section.Differences[0]
	if member.Index != 2 {
		t.Errorf("member index = %d, want 2", member.Index)
	}
	if got, ok := findLine(member.Lines, FieldProtein); !ok || got != "Pollo" {
		t.Errorf("member protein line = %q, %v", got, ok)
	}
}

func TestRenderGroupSummaryFieldFormatting(t *testing.T) {
	tests := []struct {
		name  string
		item  models.LineItem
		field Field
		want  string
	}{
		{
			name: "soupReplacementLabeled",
			item: func() models.LineItem {
				it := lunch()
				it.Soup = nil
				it.SoupReplacement = &models.Replacement{Replacement: "Frijoles"}
				return it
			}(),
			field: FieldSoup,
			want:  "Frijoles (por sopa)",
		},
		{
			name: "soloBandejaLowercased",
			item: func() models.LineItem {
				it := lunch()
				it.Soup = opt("Solo bandeja")
				return it
			}(),
			field: FieldSoup,
			want:  "solo bandeja",
		},
		{
			name: "absentSoup",
			item: func() models.LineItem {
				it := lunch()
				it.Soup = nil
				return it
			}(),
			field: FieldSoup,
			want:  "Sin sopa",
		},
		{
			name: "mixedPrinciples",
			item: func() models.LineItem {
				it := lunch()
				it.Principles = []models.OptionRef{*opt("Frijoles"), *opt("Lentejas")}
				return it
			}(),
			field: FieldPrinciple,
			want:  "Frijoles, Lentejas (mixto)",
		},
		{
			name: "principleReplacementLabeled",
			item: func() models.LineItem {
				it := lunch()
				it.PrincipleReplacement = &models.Replacement{Replacement: "Más arroz"}
				return it
			}(),
			field: FieldPrinciple,
			want:  "Más arroz (por principio)",
		},
		{
			name: "comboRiceSidesIncluded",
			item: func() models.LineItem {
				it := lunch()
				it.Principles = []models.OptionRef{*opt("Arroz paisa")}
				it.Sides = []models.OptionRef{*opt("Ensalada")}
				return it
			}(),
			field: FieldSides,
			want:  "ya incluidos",
		},
		{
			name: "additionWithModifierAndQuantity",
			item: func() models.LineItem {
				it := lunch()
				it.Additions = []models.Addition{
					{Name: "Proteína adicional", Protein: "Carne asada", Quantity: 2, Price: 5000},
				}
				return it
			}(),
			field: FieldAdditions,
			want:  "Proteína adicional (Carne asada) (x2)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := displayValue(&tt.item, tt.field); got != tt.want {
				t.Errorf("displayValue(%s) = %q, want %q", tt.field, got, tt.want)
			}
		})
	}
}

func TestRenderGroupSummarySharedAddress(t *testing.T) {
	addr := &models.Address{Address: "Calle 10 #4-32", AddressType: "Apartamento", PhoneNumber: "3001234567"}
	a := lunch()
	a.Address = addr
	b := lunch()
	b.Address = &models.Address{Address: "Calle 10 #4-32", AddressType: "Apartamento", PhoneNumber: "3001234567"}

	summary := RenderGroupSummary(mustGroup(t, []models.LineItem{a, b}), pricing.Context{})
	section := summary.Sections[0]

	if section.SharedAddress == "" {
		t.Fatalf("expected a group-level shared address")
	}
	if _, ok := findLine(section.Common, FieldAddress); ok {
		t.Errorf("shared address must not also appear as a common field line")
	}
}

func TestRenderGroupSummaryAddressSubfieldDiff(t *testing.T) {
	a := lunch()
	a.Address = &models.Address{Address: "Calle 10 #4-32", AddressType: "Casa", PhoneNumber: "3001234567"}
	b := lunch()
	b.Address = &models.Address{Address: "Carrera 7 #12-08", AddressType: "Casa", PhoneNumber: "3001234567"}

	summary := RenderGroupSummary(mustGroup(t, []models.LineItem{a, b}), pricing.Context{})
	section := summary.Sections[0]

	if len(section.Differences) != 1 {
		t.Fatalf("got %d difference sections, want 1", len(section.Differences))
	}
	got, ok := findLine(section.Differences[0].Lines, FieldAddress)
	if !ok {
		t.Fatalf("expected an address diff line")
	}
	if !strings.Contains(got, "Carrera 7 #12-08") {
		t.Errorf("diff %q should contain the differing street", got)
	}
	if strings.Contains(got, "3001234567") {
		t.Errorf("diff %q should not repeat the shared phone number", got)
	}
}

func TestRenderGroupSummaryBreakdownInvariant(t *testing.T) {
	items := []models.LineItem{lunch(), lunch(), lunch()}
	items[1].Payment = opt("Nequi")
	items[2].Payment = nil

	summary := RenderGroupSummary(mustGroup(t, items), pricing.Context{})

	total := 0
	for _, amount := range summary.Breakdown {
		total += amount
	}
	if total != summary.Total {
		t.Errorf("breakdown sums to %d, total is %d", total, summary.Total)
	}
	if _, ok := summary.Breakdown[pricing.PaymentUnspecified]; !ok {
		t.Errorf("raw breakdown must keep the unspecified bucket")
	}
}

func TestBuildMessage(t *testing.T) {
	a := lunch()
	b := lunch()
	b.Protein = opt("Pollo")

	summary := RenderGroupSummary(mustGroup(t, []models.LineItem{a, b}), pricing.Context{})
	msg := BuildMessage(summary)

	for _, want := range []string{
		"*2 almuerzos* - $26.000",
		"Sopa: Sancocho",
		"Diferencias:",
		"#2:",
		"Proteína: Pollo",
		"Efectivo: $26.000",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		amount int
		want   string
	}{
		{0, "$0"},
		{900, "$900"},
		{13000, "$13.000"},
		{1234567, "$1.234.567"},
	}
	for _, tt := range tests {
		if got := FormatMoney(tt.amount); got != tt.want {
			t.Errorf("FormatMoney(%d) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

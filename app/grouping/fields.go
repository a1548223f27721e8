// Package grouping clusters order line items into "identical enough"
// groups and computes the per-field differences used by the order
// summary, the WhatsApp message and the printed ticket.
package grouping

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"ComandaApp/app/models"
	"ComandaApp/app/pricing"
)

// ErrInvalidLineItemKind is returned when an item is neither a lunch nor
// a breakfast. Unlike pricing, grouping cannot pick permissive defaults:
// it would not know which field list to compare.
var ErrInvalidLineItemKind = errors.New("line item has no recognizable kind")

// Field is a comparable line item field, named as it is displayed.
type Field string

const (
	FieldSoup      Field = "Sopa"
	FieldPrinciple Field = "Principio"
	FieldProtein   Field = "Proteína"
	FieldDrink     Field = "Bebida"
	FieldCutlery   Field = "Cubiertos"
	FieldSides     Field = "Acompañamientos"
	FieldAdditions Field = "Adiciones"
	FieldNotes     Field = "Notas"
	FieldDelivery  Field = "Entrega"
	FieldAddress   Field = "Dirección"
	FieldPayment   Field = "Pago"
	FieldType      Field = "Tipo"
	FieldBroth     Field = "Caldo"
	FieldEggs      Field = "Huevos"
	FieldRiceBread Field = "Arroz/Pan"
	FieldTable     Field = "Mesa"
)

// Field lists in display priority order. The order is user-visible: the
// summary and the differences section both follow it.
var (
	lunchFields = []Field{
		FieldSoup, FieldPrinciple, FieldProtein, FieldDrink, FieldCutlery,
		FieldSides, FieldAdditions, FieldNotes, FieldDelivery, FieldAddress,
		FieldPayment,
	}
	breakfastFields = []Field{
		FieldType, FieldBroth, FieldEggs, FieldRiceBread, FieldDrink,
		FieldProtein, FieldCutlery, FieldAdditions, FieldTable, FieldAddress,
	}
)

// comparableFields returns the ordered field list for an item's kind.
func comparableFields(item *models.LineItem) ([]Field, error) {
	switch item.Kind {
	case models.KindLunch:
		return lunchFields, nil
	case models.KindBreakfast:
		return breakfastFields, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidLineItemKind, item.Kind)
}

// extract returns the canonical comparable value of one field. Values are
// normalized so selection order never affects equality: multi-selects are
// sorted, names are cleaned of display tags, payments are canonicalized.
func extract(item *models.LineItem, f Field) string {
	switch f {
	case FieldSoup:
		if item.SoupReplacement != nil {
			return "repl:" + strings.TrimSpace(item.SoupReplacement.Replacement)
		}
		return refName(item.Soup)
	case FieldPrinciple:
		if item.PrincipleReplacement != nil {
			return "repl:" + strings.TrimSpace(item.PrincipleReplacement.Replacement)
		}
		return joinSorted(item.Principles)
	case FieldProtein:
		return refName(item.Protein)
	case FieldDrink:
		return refName(item.Drink)
	case FieldCutlery:
		switch item.CutleryOpt {
		case models.CutleryYes:
			return "si"
		case models.CutleryNo:
			return "no"
		}
		return ""
	case FieldSides:
		// Combo rices bundle their own sides; whatever was clicked before
		// switching to the combo is ignored.
		if item.HasComboPrinciple() {
			return "incluidos"
		}
		return joinSorted(item.Sides)
	case FieldAdditions:
		return encodeAdditions(item.Additions)
	case FieldNotes:
		return strings.TrimSpace(item.Notes)
	case FieldDelivery:
		return refName(item.Time)
	case FieldAddress:
		return encodeAddress(item.Address)
	case FieldPayment:
		return pricing.ResolvePayment(item)
	case FieldType:
		return refName(item.BreakfastType)
	case FieldBroth:
		return refName(item.Broth)
	case FieldEggs:
		return refName(item.Eggs)
	case FieldRiceBread:
		return refName(item.RiceBread)
	case FieldTable:
		return strings.TrimSpace(item.TableNumber)
	}
	return ""
}

func refName(ref *models.OptionRef) string {
	if ref == nil {
		return ""
	}
	return models.CleanName(ref.Name)
}

// joinSorted encodes a multi-select slot independent of selection order.
func joinSorted(refs []models.OptionRef) string {
	names := make([]string, 0, len(refs))
	for i := range refs {
		names = append(names, models.CleanName(refs[i].Name))
	}
	sort.Strings(names)
	return strings.Join(names, "|")
}

// encodeAdditions produces a stable encoding of the additions list.
func encodeAdditions(additions []models.Addition) string {
	parts := make([]string, 0, len(additions))
	for _, a := range additions {
		parts = append(parts, fmt.Sprintf("%s(%s)x%d@%d",
			models.CleanName(a.Name), strings.TrimSpace(a.Protein), a.Qty(), a.Price))
	}
	sort.Strings(parts)
	return strings.Join(parts, "|")
}

// addressParts returns the independently comparable address sub-fields
// in a fixed order, paired with their display labels.
func addressParts(a *models.Address) [][2]string {
	if a == nil {
		return nil
	}
	return [][2]string{
		{"Dirección", strings.TrimSpace(a.Address)},
		{"Tipo", strings.TrimSpace(a.AddressType)},
		{"Teléfono", strings.TrimSpace(a.PhoneNumber)},
		{"Detalle", strings.TrimSpace(a.UnitDetails)},
		{"Local", strings.TrimSpace(a.LocalName)},
		{"Recibe", strings.TrimSpace(a.RecipientName)},
	}
}

func encodeAddress(a *models.Address) string {
	if a == nil {
		return ""
	}
	parts := addressParts(a)
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		values = append(values, p[1])
	}
	return strings.Join(values, "|")
}

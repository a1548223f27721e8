package grouping

import (
	"fmt"
	"strings"

	"ComandaApp/app/models"
	"ComandaApp/app/pricing"
)

// SummaryLine is one rendered field of a summary section.
type SummaryLine struct {
	Field Field  `json:"field"`
	Value string `json:"value"`
}

// MemberSection lists one member's deviating fields, identified by its
// 1-based position in the original order.
type MemberSection struct {
	Index int           `json:"index"`
	Lines []SummaryLine `json:"lines"`
}

// GroupSection is the display-ready rendering of one group.
type GroupSection struct {
	Count         int             `json:"count"`
	Kind          models.MealKind `json:"kind"`
	Subtotal      int             `json:"subtotal"`
	Payments      []string        `json:"payments"`
	Common        []SummaryLine   `json:"common"`
	SharedAddress string          `json:"shared_address,omitempty"`
	Differences   []MemberSection `json:"differences,omitempty"`
}

// Summary is the structured order summary consumed by the on-screen
// view, the WhatsApp composer and the ticket printer.
type Summary struct {
	Sections  []GroupSection `json:"sections"`
	Total     int            `json:"total"`
	Breakdown map[string]int `json:"breakdown"`
}

// RenderGroupSummary turns groups into ordered display sections: group
// header, common fields in priority order, then each deviating member
// with only its differing fields, in the same order.
func RenderGroupSummary(groups []Group, ctx pricing.Context) Summary {
	summary := Summary{Breakdown: make(map[string]int)}

	for gi := range groups {
		g := &groups[gi]
		section := GroupSection{
			Count:    len(g.Members),
			Kind:     g.Representative.Kind,
			Subtotal: g.Subtotal(ctx),
			Payments: g.Payments(),
		}

		common := g.CommonFields()
		commonSet := make(map[Field]bool, len(common))
		for _, f := range common {
			commonSet[f] = true
		}

		for _, f := range common {
			// A fully shared address renders once at group level instead of
			// as a regular field line.
			if f == FieldAddress {
				section.SharedAddress = formatAddress(g.Representative.Address)
				continue
			}
			value := displayValue(g.Representative, f)
			if value == "" {
				continue
			}
			section.Common = append(section.Common, SummaryLine{Field: f, Value: value})
		}

		for _, md := range g.MemberDiffs {
			member := memberByIndex(g, md.Index)
			ms := MemberSection{Index: md.Index}
			fields, _ := comparableFields(g.Representative)
			for _, f := range fields {
				if !diffHasField(md.Diffs, f) {
					continue
				}
				var value string
				if f == FieldAddress {
					value = formatAddressDiff(g.Representative.Address, member.Address)
				} else {
					value = displayValue(member, f)
				}
				if value == "" {
					value = "—"
				}
				ms.Lines = append(ms.Lines, SummaryLine{Field: f, Value: value})
			}
			section.Differences = append(section.Differences, ms)
		}

		summary.Sections = append(summary.Sections, section)
		summary.Total += section.Subtotal
		for _, m := range g.Members {
			summary.Breakdown[pricing.ResolvePayment(m)] += pricing.PriceLineItem(m, ctx)
		}
	}

	return summary
}

func memberByIndex(g *Group, index int) *models.LineItem {
	for i, idx := range g.Indexes {
		if idx == index {
			return g.Members[i]
		}
	}
	return g.Representative
}

func diffHasField(diffs []FieldDiff, f Field) bool {
	for _, d := range diffs {
		if d.Field == f {
			return true
		}
	}
	return false
}

// displayValue renders one field of one item for humans. These rules are
// what the kitchen and the delivery staff actually read, so wording is
// load-bearing: "solo bandeja", "(por sopa)", "(mixto)" and "ya
// incluidos" are established vocabulary.
func displayValue(item *models.LineItem, f Field) string {
	switch f {
	case FieldSoup:
		if item.SoupReplacement != nil {
			return strings.TrimSpace(item.SoupReplacement.Replacement) + " (por sopa)"
		}
		if item.Soup == nil {
			return "Sin sopa"
		}
		name := models.CleanName(item.Soup.Name)
		if strings.EqualFold(name, "Solo bandeja") {
			return "solo bandeja"
		}
		if item.Soup.Kind == models.OptionNoSoup {
			return "Sin sopa"
		}
		return name
	case FieldPrinciple:
		if item.PrincipleReplacement != nil {
			return strings.TrimSpace(item.PrincipleReplacement.Replacement) + " (por principio)"
		}
		if len(item.Principles) == 0 {
			return ""
		}
		names := make([]string, 0, len(item.Principles))
		for i := range item.Principles {
			names = append(names, models.CleanName(item.Principles[i].Name))
		}
		joined := strings.Join(names, ", ")
		if len(names) > 1 {
			joined += " (mixto)"
		}
		return joined
	case FieldProtein:
		return refName(item.Protein)
	case FieldDrink:
		return refName(item.Drink)
	case FieldCutlery:
		switch item.CutleryOpt {
		case models.CutleryYes:
			return "Sí"
		case models.CutleryNo:
			return "No"
		}
		return ""
	case FieldSides:
		if item.HasComboPrinciple() {
			return "ya incluidos"
		}
		if len(item.Sides) == 0 {
			return ""
		}
		names := make([]string, 0, len(item.Sides))
		for i := range item.Sides {
			names = append(names, models.CleanName(item.Sides[i].Name))
		}
		return strings.Join(names, ", ")
	case FieldAdditions:
		return formatAdditions(item.Additions)
	case FieldNotes:
		return strings.TrimSpace(item.Notes)
	case FieldDelivery:
		return refName(item.Time)
	case FieldAddress:
		return formatAddress(item.Address)
	case FieldPayment:
		p := pricing.ResolvePayment(item)
		if p == pricing.PaymentUnspecified {
			return ""
		}
		return p
	case FieldType:
		return refName(item.BreakfastType)
	case FieldBroth:
		return refName(item.Broth)
	case FieldEggs:
		return refName(item.Eggs)
	case FieldRiceBread:
		return refName(item.RiceBread)
	case FieldTable:
		if item.TableNumber == "" {
			return ""
		}
		return "Mesa " + strings.TrimSpace(item.TableNumber)
	}
	return ""
}

// formatAdditions renders additions as "name (modifier) (xN)".
func formatAdditions(additions []models.Addition) string {
	if len(additions) == 0 {
		return ""
	}
	parts := make([]string, 0, len(additions))
	for _, a := range additions {
		part := models.CleanName(a.Name)
		if mod := strings.TrimSpace(a.Protein); mod != "" {
			part += " (" + mod + ")"
		}
		if a.Qty() > 1 {
			part += fmt.Sprintf(" (x%d)", a.Qty())
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, ", ")
}

// formatAddress renders a full address on one line.
func formatAddress(a *models.Address) string {
	if a == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(strings.TrimSpace(a.Address))
	if t := strings.TrimSpace(a.AddressType); t != "" {
		sb.WriteString(" (" + t + ")")
	}
	if u := strings.TrimSpace(a.UnitDetails); u != "" {
		sb.WriteString(", " + u)
	}
	if l := strings.TrimSpace(a.LocalName); l != "" {
		sb.WriteString(", " + l)
	}
	if r := strings.TrimSpace(a.RecipientName); r != "" {
		sb.WriteString(" - Recibe: " + r)
	}
	if p := strings.TrimSpace(a.PhoneNumber); p != "" {
		sb.WriteString(" - Tel: " + p)
	}
	return strings.TrimPrefix(sb.String(), ", ")
}

// formatAddressDiff renders only the address sub-fields that deviate
// from the representative, so a member sharing the phone and type but
// living on a different street shows just the street.
func formatAddressDiff(rep, member *models.Address) string {
	if member == nil {
		return "Sin dirección"
	}
	if rep == nil {
		return formatAddress(member)
	}
	repParts := addressParts(rep)
	memberParts := addressParts(member)
	var out []string
	for i := range memberParts {
		if memberParts[i][1] != repParts[i][1] {
			out = append(out, memberParts[i][0]+": "+memberParts[i][1])
		}
	}
	return strings.Join(out, ", ")
}

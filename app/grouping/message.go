package grouping

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"ComandaApp/app/models"
	"ComandaApp/app/pricing"
)

// FormatMoney renders Colombian pesos without decimals, with dots as
// thousands separators: 13000 -> "$13.000".
func FormatMoney(amount int) string {
	digits := strconv.Itoa(amount)
	negative := false
	if strings.HasPrefix(digits, "-") {
		negative = true
		digits = digits[1:]
	}
	var sb strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			sb.WriteByte('.')
		}
		sb.WriteRune(d)
	}
	out := "$" + sb.String()
	if negative {
		out = "-" + out
	}
	return out
}

func kindLabel(kind models.MealKind, count int) string {
	label := "pedido"
	switch kind {
	case models.KindLunch:
		label = "almuerzo"
	case models.KindBreakfast:
		label = "desayuno"
	}
	if count != 1 {
		label += "s"
	}
	return label
}

// BuildMessage renders a summary as the WhatsApp order text. Sections
// follow the group order; each section prints its header, the common
// fields, then the deviating members by their original position.
func BuildMessage(summary Summary) string {
	var sb strings.Builder

	itemCount := 0
	for _, s := range summary.Sections {
		itemCount += s.Count
	}
	sb.WriteString(fmt.Sprintf("*Pedido* (%d) - Total: %s\n", itemCount, FormatMoney(summary.Total)))

	for _, section := range summary.Sections {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("*%d %s* - %s", section.Count,
			kindLabel(section.Kind, section.Count), FormatMoney(section.Subtotal)))
		if payments := payableList(section.Payments); payments != "" {
			sb.WriteString(" (" + payments + ")")
		}
		sb.WriteString("\n")

		for _, line := range section.Common {
			sb.WriteString(fmt.Sprintf("%s: %s\n", line.Field, line.Value))
		}
		if section.SharedAddress != "" {
			sb.WriteString(fmt.Sprintf("%s: %s\n", FieldAddress, section.SharedAddress))
		}

		if len(section.Differences) > 0 {
			sb.WriteString("Diferencias:\n")
			for _, member := range section.Differences {
				sb.WriteString(fmt.Sprintf("  #%d:\n", member.Index))
				for _, line := range member.Lines {
					sb.WriteString(fmt.Sprintf("    %s: %s\n", line.Field, line.Value))
				}
			}
		}
	}

	if payable := pricing.PayableBreakdown(summary.Breakdown); len(payable) > 0 {
		sb.WriteString("\nPagos:\n")
		// Stable output: follow the well-known method order, then the rest
		// alphabetically.
		for _, method := range orderedMethods(payable) {
			sb.WriteString(fmt.Sprintf("  %s: %s\n", method, FormatMoney(payable[method])))
		}
	}

	return sb.String()
}

func payableList(payments []string) string {
	var out []string
	for _, p := range payments {
		if p != pricing.PaymentUnspecified {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}

var knownMethodOrder = []string{"Efectivo", "Nequi", "Daviplata"}

func orderedMethods(breakdown map[string]int) []string {
	var methods []string
	seen := make(map[string]bool)
	for _, m := range knownMethodOrder {
		if _, ok := breakdown[m]; ok {
			methods = append(methods, m)
			seen[m] = true
		}
	}
	var rest []string
	for m := range breakdown {
		if !seen[m] {
			rest = append(rest, m)
		}
	}
	sort.Strings(rest)
	return append(methods, rest...)
}

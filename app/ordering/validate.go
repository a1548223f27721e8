// Package ordering validates line items at checkout. Pricing stays
// permissive while the customer is mid-wizard; this package is the only
// source of blocking errors, and it fails fast on the earliest incomplete
// item so the UI can focus the right step.
package ordering

import (
	"fmt"
	"strings"

	"ComandaApp/app/models"
)

// MissingFieldError reports a mandatory slot left empty, with enough
// identification for the caller to scroll to the offending step.
type MissingFieldError struct {
	ItemIndex int    // 1-based position in the order
	Field     string // slot name, e.g. "soup", "broth"
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("item %d: missing %s", e.ItemIndex, e.Field)
}

// UnconfiguredAdditionError reports an addition that needs a
// replacement/protein sub-selection but has none. The item still prices;
// it just cannot be submitted.
type UnconfiguredAdditionError struct {
	ItemIndex int
	Addition  string
}

func (e *UnconfiguredAdditionError) Error() string {
	return fmt.Sprintf("item %d: addition %q needs a selection", e.ItemIndex, e.Addition)
}

// Config carries the table-driven validation rules. Additions listed in
// ReplacementRequired must carry a non-empty sub-selection.
type Config struct {
	ReplacementRequired []string
}

// DefaultConfig matches the restaurant's current catalog.
func DefaultConfig() Config {
	return Config{
		ReplacementRequired: []string{
			"Proteína adicional",
			"Sopa adicional",
			"Principio adicional",
			"Bebida adicional",
		},
	}
}

func (c Config) requiresReplacement(name string) bool {
	clean := models.CleanName(name)
	for _, n := range c.ReplacementRequired {
		if strings.EqualFold(clean, n) {
			return true
		}
	}
	return false
}

// ValidateOrder checks every item in list order and returns the first
// blocking problem found, or nil when the order can be submitted.
func ValidateOrder(items []models.LineItem, cfg Config) error {
	for i := range items {
		if err := validateItem(&items[i], i+1, cfg); err != nil {
			return err
		}
	}
	return nil
}

func validateItem(item *models.LineItem, index int, cfg Config) error {
	switch item.Kind {
	case models.KindLunch:
		if err := validateLunch(item, index); err != nil {
			return err
		}
	case models.KindBreakfast:
		if err := validateBreakfast(item, index); err != nil {
			return err
		}
	default:
		return fmt.Errorf("item %d: unknown line item kind %q", index, item.Kind)
	}

	for _, a := range item.Additions {
		if cfg.requiresReplacement(a.Name) && strings.TrimSpace(a.Protein) == "" {
			return &UnconfiguredAdditionError{ItemIndex: index, Addition: models.CleanName(a.Name)}
		}
	}

	if item.OrderType == "" {
		return &MissingFieldError{ItemIndex: index, Field: "order_type"}
	}
	if item.OrderType == models.ChannelTable && strings.TrimSpace(item.TableNumber) == "" {
		return &MissingFieldError{ItemIndex: index, Field: "table_number"}
	}
	return nil
}

func validateLunch(item *models.LineItem, index int) error {
	// A lunch needs an explicit soup decision: a soup, a no-soup marker or
	// a replacement.
	if item.Soup == nil && item.SoupReplacement == nil {
		return &MissingFieldError{ItemIndex: index, Field: "soup"}
	}
	if len(item.Principles) == 0 && item.PrincipleReplacement == nil {
		return &MissingFieldError{ItemIndex: index, Field: "principle"}
	}
	// Combo rices bundle protein and sides.
	if !item.HasComboPrinciple() && item.Protein == nil {
		return &MissingFieldError{ItemIndex: index, Field: "protein"}
	}
	return nil
}

func validateBreakfast(item *models.LineItem, index int) error {
	if item.BreakfastType == nil {
		return &MissingFieldError{ItemIndex: index, Field: "breakfast_type"}
	}
	typeName := strings.ToLower(models.CleanName(item.BreakfastType.Name))
	for _, step := range models.BreakfastSteps[typeName] {
		if !breakfastStepFilled(item, step) {
			return &MissingFieldError{ItemIndex: index, Field: step}
		}
	}
	return nil
}

func breakfastStepFilled(item *models.LineItem, step string) bool {
	switch step {
	case "broth":
		return item.Broth != nil
	case "eggs":
		return item.Eggs != nil
	case "rice_bread":
		return item.RiceBread != nil
	case "drink":
		return item.Drink != nil
	case "protein":
		return item.Protein != nil
	}
	return true
}

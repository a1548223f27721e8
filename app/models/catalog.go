package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// OptionKind classifies catalog entries that used to be recognized by
// magic display names. Classification happens once, when the catalog row
// is loaded or saved; the pricing and grouping engines only look at the tag.
type OptionKind string

const (
	// OptionRegular is a normal menu entry.
	OptionRegular OptionKind = "regular"
	// OptionNoSoup marks entries that mean "no soup course" ("Sin sopa",
	// "Solo bandeja"). They do not count as a soup for pricing.
	OptionNoSoup OptionKind = "no-soup"
	// OptionReplacement marks entries that swap a course for something
	// else ("Remplazo por Sopa", "Remplazo por Principio").
	OptionReplacement OptionKind = "replacement"
	// OptionCombo marks self-contained combo rices ("Arroz con pollo").
	// Choosing one suppresses protein and sides.
	OptionCombo OptionKind = "combo"
)

// OptionSlot identifies which selection step a catalog entry belongs to.
type OptionSlot string

const (
	SlotSoup          OptionSlot = "soup"
	SlotPrinciple     OptionSlot = "principle"
	SlotProtein       OptionSlot = "protein"
	SlotDrink         OptionSlot = "drink"
	SlotSide          OptionSlot = "side"
	SlotBreakfastType OptionSlot = "breakfast_type"
	SlotBroth         OptionSlot = "broth"
	SlotEggs          OptionSlot = "eggs"
	SlotRiceBread     OptionSlot = "rice_bread"
	SlotTime          OptionSlot = "time"
	SlotPayment       OptionSlot = "payment"
	SlotAddition      OptionSlot = "addition"
)

// CatalogOption is a menu catalog entry (soup, protein, drink, etc.).
type CatalogOption struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Slot         OptionSlot     `gorm:"index;not null" json:"slot"`
	Name         string         `gorm:"not null" json:"name"`
	Price        int            `json:"price"`
	Kind         OptionKind     `gorm:"default:regular" json:"kind"`
	IsFinished   bool           `gorm:"default:false" json:"is_finished"` // agotado
	IsNew        bool           `gorm:"default:false" json:"is_new"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	DisplayOrder int            `gorm:"default:0" json:"display_order"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// newTag is appended to option names on screen while an item is promoted.
// It must never survive into comparisons or stored snapshots.
const newTag = " NUEVO"

// CleanName strips display-only tags from an option name.
func CleanName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimSuffix(name, newTag)
	return strings.TrimSpace(name)
}

// Legacy magic names. Kept in one place so a catalog data audit has a
// single table to review; everything downstream goes through the Kind tag.
var (
	noSoupNames = []string{"Sin sopa", "Solo bandeja"}
	comboNames  = []string{"Arroz con pollo", "Arroz paisa", "Arroz tres carnes"}
)

// ClassifyOptionKind maps a legacy display name to its option kind.
// Called when catalog rows are created or imported.
func ClassifyOptionKind(name string) OptionKind {
	clean := CleanName(name)
	for _, n := range noSoupNames {
		if strings.EqualFold(clean, n) {
			return OptionNoSoup
		}
	}
	if strings.HasPrefix(clean, "Remplazo por ") {
		return OptionReplacement
	}
	for _, n := range comboNames {
		if strings.EqualFold(clean, n) {
			return OptionCombo
		}
	}
	return OptionRegular
}

// BeforeSave classifies the option kind from the name when no explicit
// kind has been set.
func (o *CatalogOption) BeforeSave(tx *gorm.DB) error {
	if o.Kind == "" || o.Kind == OptionRegular {
		o.Kind = ClassifyOptionKind(o.Name)
	}
	return nil
}

// Ref returns the snapshot value stored inside line items.
func (o *CatalogOption) Ref() *OptionRef {
	return &OptionRef{
		ID:    o.ID,
		Name:  CleanName(o.Name),
		Kind:  o.Kind,
		Price: o.Price,
	}
}

// OptionRef is the resolved snapshot of a catalog option inside a line
// item. Orders persist these verbatim so later catalog edits never change
// what was sold.
type OptionRef struct {
	ID    uint       `json:"id"`
	Name  string     `json:"name"`
	Kind  OptionKind `json:"kind,omitempty"`
	Price int        `json:"price,omitempty"`
}

// Addition is an extra charge attached to a line item. Some additions
// ("Proteína adicional") need a sub-selection recorded in Protein before
// the item can be checked out.
type Addition struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    int    `json:"price"`
	Protein  string `json:"protein,omitempty"` // replacement / protein sub-selection
}

// Qty returns the effective quantity, defaulting to 1 for legacy rows
// stored without one.
func (a Addition) Qty() int {
	if a.Quantity < 1 {
		return 1
	}
	return a.Quantity
}

// Total is the addition's contribution to the item price.
func (a Addition) Total() int {
	return a.Price * a.Qty()
}

// CatalogSnapshot is the resolved catalog handed to order intake. The
// core engines never query the database; callers resolve ids against a
// snapshot and pass OptionRef values in.
type CatalogSnapshot struct {
	options map[uint]CatalogOption
	bySlot  map[OptionSlot][]CatalogOption
}

// NewCatalogSnapshot indexes the given options by id and slot.
func NewCatalogSnapshot(options []CatalogOption) *CatalogSnapshot {
	snap := &CatalogSnapshot{
		options: make(map[uint]CatalogOption, len(options)),
		bySlot:  make(map[OptionSlot][]CatalogOption),
	}
	for _, o := range options {
		snap.options[o.ID] = o
		snap.bySlot[o.Slot] = append(snap.bySlot[o.Slot], o)
	}
	return snap
}

// Resolve returns the snapshot ref for an option id, or nil if the
// option no longer exists in the catalog.
func (s *CatalogSnapshot) Resolve(id uint) *OptionRef {
	o, ok := s.options[id]
	if !ok {
		return nil
	}
	return o.Ref()
}

// BySlot returns the active options of one selection step, in display order.
func (s *CatalogSnapshot) BySlot(slot OptionSlot) []CatalogOption {
	out := make([]CatalogOption, 0, len(s.bySlot[slot]))
	for _, o := range s.bySlot[slot] {
		if o.IsActive {
			out = append(out, o)
		}
	}
	return out
}

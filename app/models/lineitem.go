package models

// MealKind distinguishes the two line item shapes.
type MealKind string

const (
	KindLunch     MealKind = "lunch"
	KindBreakfast MealKind = "breakfast"
)

// OrderChannel is where the meal is eaten. Takeaway is the default for
// pricing when nothing was selected.
type OrderChannel string

const (
	ChannelTable    OrderChannel = "table"
	ChannelTakeaway OrderChannel = "takeaway"
)

// Cutlery is a tri-state: the customer may not have answered yet, and
// "not answered" must compare differently from an explicit no.
type Cutlery int

const (
	CutleryUnset Cutlery = iota
	CutleryYes
	CutleryNo
)

// Address is the structured delivery address. Each sub-field is
// independently comparable for grouping.
type Address struct {
	Address       string `json:"address"`
	AddressType   string `json:"address_type,omitempty"` // casa, apartamento, oficina...
	PhoneNumber   string `json:"phone_number,omitempty"`
	UnitDetails   string `json:"unit_details,omitempty"`
	LocalName     string `json:"local_name,omitempty"`
	RecipientName string `json:"recipient_name,omitempty"`
}

// Replacement records a course swapped for something else, e.g. soup
// traded for an extra principle serving. Option is the catalog entry
// ("Remplazo por Sopa"); Replacement is the free text of what was chosen.
type Replacement struct {
	Option      *OptionRef `json:"option,omitempty"`
	Replacement string     `json:"replacement"`
}

// LineItem is one meal or breakfast unit in an order. Which slots apply
// depends on Kind; unset slots stay nil while the customer walks through
// the wizard, so every consumer has to tolerate partial items.
type LineItem struct {
	Kind MealKind `json:"kind"`

	// Lunch slots.
	Soup                 *OptionRef   `json:"soup,omitempty"`
	SoupReplacement      *Replacement `json:"soup_replacement,omitempty"`
	Principles           []OptionRef  `json:"principles,omitempty"` // selection order preserved
	PrincipleReplacement *Replacement `json:"principle_replacement,omitempty"`
	Sides                []OptionRef  `json:"sides,omitempty"`

	// Breakfast slots.
	BreakfastType *OptionRef `json:"breakfast_type,omitempty"`
	Broth         *OptionRef `json:"broth,omitempty"`
	Eggs          *OptionRef `json:"eggs,omitempty"`
	RiceBread     *OptionRef `json:"rice_bread,omitempty"`

	// Shared slots.
	Protein     *OptionRef   `json:"protein,omitempty"`
	Drink       *OptionRef   `json:"drink,omitempty"`
	Additions   []Addition   `json:"additions,omitempty"`
	CutleryOpt  Cutlery      `json:"cutlery"`
	Time        *OptionRef   `json:"time,omitempty"` // ID 0 means free text in Name
	Address     *Address     `json:"address,omitempty"`
	Payment     *OptionRef   `json:"payment,omitempty"`
	TableNumber string       `json:"table_number,omitempty"`
	OrderType   OrderChannel `json:"order_type,omitempty"`
	Notes       string       `json:"notes,omitempty"`
}

// NewLunchItem returns a lunch line item with wizard defaults: nothing
// selected yet, channel unset (priced as takeaway until chosen).
func NewLunchItem() *LineItem {
	return &LineItem{Kind: KindLunch}
}

// NewBreakfastItem returns an empty breakfast line item.
func NewBreakfastItem() *LineItem {
	return &LineItem{Kind: KindBreakfast}
}

// Channel resolves the pricing channel. Only an explicit table order
// counts as table service.
func (li *LineItem) Channel() OrderChannel {
	if li.OrderType == ChannelTable {
		return ChannelTable
	}
	return ChannelTakeaway
}

// HasSoupCourse reports whether the item carries a soup-equivalent
// course: a real soup (not a no-soup marker) or a soup replacement.
func (li *LineItem) HasSoupCourse() bool {
	if li.SoupReplacement != nil {
		return true
	}
	return li.Soup != nil && li.Soup.Kind != OptionNoSoup
}

// HasComboPrinciple reports whether any selected principle is a
// self-contained combo rice, which suppresses protein and sides.
func (li *LineItem) HasComboPrinciple() bool {
	for _, p := range li.Principles {
		if p.Kind == OptionCombo {
			return true
		}
	}
	return false
}

// AdditionsTotal sums the additions' price contributions.
func (li *LineItem) AdditionsTotal() int {
	total := 0
	for _, a := range li.Additions {
		total += a.Total()
	}
	return total
}

// BreakfastSteps lists, per breakfast type, the slots the customer must
// fill before checkout. Types not listed only require the type itself.
var BreakfastSteps = map[string][]string{
	"solo huevos":        {"eggs", "drink"},
	"solo caldo":         {"broth", "drink"},
	"desayuno completo":  {"broth", "eggs", "rice_bread", "drink"},
	"moñona":            {"broth", "eggs", "rice_bread", "drink", "protein"},
}

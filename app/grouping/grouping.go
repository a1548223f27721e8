package grouping

import (
	"fmt"

	"ComandaApp/app/models"
	"ComandaApp/app/pricing"
)

// DiffThreshold is the maximum number of differing fields for two items
// to land in the same group.
const DiffThreshold = 3

// FieldDiff is one field where a member deviates from its group's
// representative. Values are the canonical extracted forms; display
// formatting happens at render time.
type FieldDiff struct {
	Field          Field  `json:"field"`
	Representative string `json:"representative"`
	Member         string `json:"member"`
}

// MemberDiff collects one member's deviations from the representative.
type MemberDiff struct {
	Index int         `json:"index"` // 1-based position in the original item list
	Diffs []FieldDiff `json:"diffs"`
}

// Group is a cluster of line items treated as "the same" for display.
// The representative is always the first item that opened the group;
// every diff is relative to it, never re-based onto later members.
type Group struct {
	Representative *models.LineItem   `json:"representative"`
	Members        []*models.LineItem `json:"members"` // representative included, original order
	Indexes        []int              `json:"indexes"` // 1-based original positions, parallel to Members
	MemberDiffs    []MemberDiff       `json:"member_diffs"`
}

// GroupLineItems partitions items into groups with a single greedy
// left-to-right pass: the first unassigned item opens a group and every
// later unassigned item joins it when its field diff count against the
// representative is within the threshold. The pass is deliberately
// order-dependent; reordering logically identical input can change which
// item becomes the representative, and downstream rendering relies on
// exactly this behavior.
func GroupLineItems(items []models.LineItem) ([]Group, error) {
	// Reject malformed items up front so a bad item cannot end up silently
	// ungrouped halfway through the pass.
	for i := range items {
		if _, err := comparableFields(&items[i]); err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
	}

	assigned := make([]bool, len(items))
	groups := make([]Group, 0, len(items))

	for i := range items {
		if assigned[i] {
			continue
		}
		rep := &items[i]
		assigned[i] = true
		fields, _ := comparableFields(rep)

		g := Group{
			Representative: rep,
			Members:        []*models.LineItem{rep},
			Indexes:        []int{i + 1},
		}

		for j := i + 1; j < len(items); j++ {
			if assigned[j] {
				continue
			}
			member := &items[j]
			// Different kinds use different field lists and never cluster.
			if member.Kind != rep.Kind {
				continue
			}
			diffs := fieldDiffs(rep, member, fields)
			if len(diffs) > DiffThreshold {
				continue
			}
			assigned[j] = true
			g.Members = append(g.Members, member)
			g.Indexes = append(g.Indexes, j+1)
			g.MemberDiffs = append(g.MemberDiffs, MemberDiff{Index: j + 1, Diffs: diffs})
		}

		groups = append(groups, g)
	}

	return groups, nil
}

// fieldDiffs lists the fields whose extracted values differ between the
// representative and a candidate member, in field priority order.
func fieldDiffs(rep, member *models.LineItem, fields []Field) []FieldDiff {
	var diffs []FieldDiff
	for _, f := range fields {
		rv := extract(rep, f)
		mv := extract(member, f)
		if rv != mv {
			diffs = append(diffs, FieldDiff{Field: f, Representative: rv, Member: mv})
		}
	}
	return diffs
}

// CommonFields returns the fields every member shares with the
// representative, recomputed over the full member set: a field a later
// member deviates on is not common even if the pairwise diff that
// admitted an earlier member never touched it.
func (g *Group) CommonFields() []Field {
	fields, err := comparableFields(g.Representative)
	if err != nil {
		return nil
	}
	common := make([]Field, 0, len(fields))
	for _, f := range fields {
		rv := extract(g.Representative, f)
		shared := true
		for _, m := range g.Members[1:] {
			if extract(m, f) != rv {
				shared = false
				break
			}
		}
		if shared {
			common = append(common, f)
		}
	}
	return common
}

// Payments returns the distinct resolved payment methods used by the
// group's members, in first-seen order.
func (g *Group) Payments() []string {
	seen := make(map[string]bool)
	var methods []string
	for _, m := range g.Members {
		p := pricing.ResolvePayment(m)
		if !seen[p] {
			seen[p] = true
			methods = append(methods, p)
		}
	}
	return methods
}

// Subtotal prices the group's members.
func (g *Group) Subtotal(ctx pricing.Context) int {
	total := 0
	for _, m := range g.Members {
		total += pricing.PriceLineItem(m, ctx)
	}
	return total
}

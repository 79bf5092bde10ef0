// =============================================================================
// Pick List Generator - Filter Evaluator
// =============================================================================
//
// This module restricts a normalized row set by customer / order number /
// category selections and computes the cascading candidate lists behind the
// caller's pick controls: each dimension's choices depend on the dimensions
// already chosen (orders narrow once customers are selected, categories
// narrow once customers or orders are).
//
// MATCHING RULE:
//   A row survives Apply iff it matches every non-empty dimension -- a
//   conjunction (AND) across dimensions, set membership (OR) within one.
//   An empty dimension imposes no constraint.
//
// =============================================================================

package filter

import (
	"sort"
	"strings"

	"github.com/cboldwyn/pick-list/internal/types"
)

// Criteria holds the selected values per dimension. Empty slices mean "no
// restriction on this dimension".
type Criteria struct {
	Customers  []string
	Orders     []string
	Categories []string
}

// IsEmpty reports whether no dimension carries a selection.
func (c Criteria) IsEmpty() bool {
	return len(c.Customers) == 0 && len(c.Orders) == 0 && len(c.Categories) == 0
}

// Summary renders the applied selections for the report header: every
// non-empty dimension in order, values comma-joined, dimensions separated
// by " | ". Returns "" when nothing is selected.
func (c Criteria) Summary() string {
	var parts []string
	if len(c.Customers) > 0 {
		parts = append(parts, "Customers: "+strings.Join(c.Customers, ", "))
	}
	if len(c.Orders) > 0 {
		parts = append(parts, "Order Numbers: "+strings.Join(c.Orders, ", "))
	}
	if len(c.Categories) > 0 {
		parts = append(parts, "Categories: "+strings.Join(c.Categories, ", "))
	}
	return strings.Join(parts, " | ")
}

// Apply returns the subset of rows matching every non-empty dimension.
func Apply(rows []types.NormalizedRow, criteria Criteria) []types.NormalizedRow {
	customers := toSet(criteria.Customers)
	orders := toSet(criteria.Orders)
	categories := toSet(criteria.Categories)

	out := make([]types.NormalizedRow, 0, len(rows))
	for _, row := range rows {
		if customers != nil && !customers[row.Customer] {
			continue
		}
		if orders != nil && !orders[row.OrderNumber] {
			continue
		}
		if categories != nil && !categories[row.Category] {
			continue
		}
		out = append(out, row)
	}
	return out
}

// =============================================================================
// CASCADING CANDIDATE LISTS
// =============================================================================

// Customers returns the sorted distinct customers of the whole table. The
// customer dimension is the cascade root and is never restricted.
func Customers(rows []types.NormalizedRow) []string {
	return distinctSorted(rows, func(r types.NormalizedRow) string { return r.Customer })
}

// Orders returns the sorted distinct order numbers available given the
// current customer selection: restricted to the selected customers when any
// are chosen, the whole table otherwise.
func Orders(rows []types.NormalizedRow, selectedCustomers []string) []string {
	if len(selectedCustomers) > 0 {
		rows = Apply(rows, Criteria{Customers: selectedCustomers})
	}
	return distinctSorted(rows, func(r types.NormalizedRow) string { return r.OrderNumber })
}

// Categories returns the sorted distinct categories available given the
// current selections. Customers take precedence in the cascade: when any
// are selected the orders selection is ignored, matching the order the
// caller's controls narrow in.
func Categories(rows []types.NormalizedRow, selectedCustomers, selectedOrders []string) []string {
	switch {
	case len(selectedCustomers) > 0:
		rows = Apply(rows, Criteria{Customers: selectedCustomers})
	case len(selectedOrders) > 0:
		rows = Apply(rows, Criteria{Orders: selectedOrders})
	}
	return distinctSorted(rows, func(r types.NormalizedRow) string { return r.Category })
}

// =============================================================================
// HELPERS
// =============================================================================

// toSet converts a selection slice to a membership set; nil means
// unrestricted, which is distinct from an empty set.
func toSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

// distinctSorted extracts a key from every row, de-duplicates and sorts.
func distinctSorted(rows []types.NormalizedRow, key func(types.NormalizedRow) string) []string {
	seen := make(map[string]bool, len(rows))
	var out []string
	for _, row := range rows {
		k := key(row)
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

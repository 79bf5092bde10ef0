// =============================================================================
// Pick List Generator - Join/Transform Engine
// =============================================================================
//
// This module combines sales-order rows with the resolved assembly lookups
// and the optional case-quantity computation into the pipeline's canonical
// normalized row set.
//
// PER-ROW ALGORITHM:
//   1. Resolve the two-hop chained lookup for the row's package label; any
//      break in the chain yields an empty input package number, never an
//      error.
//   2. If a product index was supplied, compute cases = quantity / units
//      per case, rounded to 2 decimals -- but only when units per case is
//      present, numeric and strictly positive AND quantity is present and
//      numeric. Everything else degrades to an explicit blank (not zero).
//   3. Drop rows whose customer is missing or empty.
//   4. Stable-sort survivors by (customer, order number, category, product)
//      ascending, case-sensitive; ties keep their original input order.
//
// The asymmetry is deliberate: structural problems (a missing column) are a
// hard *types.SchemaError that aborts the batch; per-row data quality
// problems degrade silently to blank values.
//
// =============================================================================

package transform

import (
	"math"
	"sort"
	"strconv"

	"github.com/cboldwyn/pick-list/internal/config"
	"github.com/cboldwyn/pick-list/internal/lookup"
	"github.com/cboldwyn/pick-list/internal/types"
)

// Transform produces the normalized row set from a sales-order table.
//
// PARAMETERS:
//   - sales: The parsed sales-order table.
//   - assemblies: The assembly lookup index.
//   - products: The product index, or nil when no catalog was supplied.
//     With a nil index every row's cases value is blank.
//   - cols: The configured sales-order column names.
//
// RETURNS:
//   - The normalized rows, filtered and sorted per the rules above.
//   - A *types.SchemaError naming the missing column(s) and listing the
//     columns actually present when the table is structurally unusable.
func Transform(sales *types.Table, assemblies *lookup.AssemblyIndex, products *lookup.ProductIndex, cols config.SalesColumns) ([]types.NormalizedRow, error) {
	required := []string{
		cols.Customer,
		cols.OrderNumber,
		cols.Category,
		cols.Product,
		cols.BatchNumber,
		cols.PackageLabel,
		cols.Quantity,
	}
	// The product ID column only matters when there is a catalog to join.
	if products != nil {
		required = append(required, cols.ProductID)
	}

	if missing := sales.MissingColumns(required); len(missing) > 0 {
		return nil, &types.SchemaError{
			Table:   "sales orders",
			Missing: missing,
			Found:   sales.Headers,
		}
	}

	rows := make([]types.NormalizedRow, 0, len(sales.Rows))

	for _, src := range sales.Rows {
		// Rows without a customer never reach the pick list.
		if src[cols.Customer] == "" {
			continue
		}

		row := types.NormalizedRow{
			Customer:           src[cols.Customer],
			OrderNumber:        src[cols.OrderNumber],
			Category:           src[cols.Category],
			Product:            src[cols.Product],
			BatchNumber:        cleanBatchNumber(src[cols.BatchNumber]),
			InputPackageNumber: assemblies.ResolveInputPackage(src[cols.PackageLabel]),
			Quantity:           src[cols.Quantity],
		}

		if products != nil {
			if units, ok := products.UnitsPerCase(src[cols.ProductID]); ok {
				row.Cases, row.HasCases = Cases(src[cols.Quantity], units)
			}
		}

		rows = append(rows, row)
	}

	// Stable sort keeps the relative input order of rows that compare equal
	// on all four keys.
	sort.SliceStable(rows, func(i, j int) bool {
		return lessByPickOrder(rows[i], rows[j])
	})

	return rows, nil
}

// Cases computes quantity / unitsPerCase rounded to 2 decimal places.
//
// The boolean result is false -- an explicit blank, distinct from zero --
// whenever unitsPerCase is absent, non-numeric or not strictly positive, or
// quantity is absent or non-numeric. Division by zero and malformed inputs
// never raise; they degrade to blank.
//
// Rounding is half away from zero (math.Round on the scaled value), so
// 0.125 cases rounds to 0.13. Quantities are non-negative in practice,
// making this plain half-up; the choice is fixed for test reproducibility.
func Cases(quantity, unitsPerCase string) (float64, bool) {
	q, err := strconv.ParseFloat(quantity, 64)
	if err != nil {
		return 0, false
	}

	u, err := strconv.ParseFloat(unitsPerCase, 64)
	if err != nil || u <= 0 {
		return 0, false
	}

	return math.Round(q/u*100) / 100, true
}

// lessByPickOrder orders rows by (customer, order number, category, product)
// ascending with case-sensitive lexical comparison.
func lessByPickOrder(a, b types.NormalizedRow) bool {
	if a.Customer != b.Customer {
		return a.Customer < b.Customer
	}
	if a.OrderNumber != b.OrderNumber {
		return a.OrderNumber < b.OrderNumber
	}
	if a.Category != b.Category {
		return a.Category < b.Category
	}
	return a.Product < b.Product
}

// cleanBatchNumber normalizes the batch column's missing-value markers.
// Spreadsheet round-trips leave literal "None"/"nan" strings behind where
// the export had no batch; those render as empty.
func cleanBatchNumber(s string) string {
	switch s {
	case "None", "none", "NONE", "nan", "NaN":
		return ""
	}
	return s
}

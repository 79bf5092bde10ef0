// =============================================================================
// Pick List Generator - Normalized Table Export
// =============================================================================
//
// Writes the normalized row set back out as plain delimited text: header
// included, no metadata preamble, one record per row, columns in the
// canonical order. Blank cases values stay blank -- never "0".
//
// =============================================================================

package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/cboldwyn/pick-list/internal/types"
)

// Header is the canonical export column order.
var Header = []string{
	"Customer",
	"Order Number",
	"Category",
	"Product",
	"Batch Number",
	"Input Package Number",
	"Quantity",
	"Cases",
}

// WriteCSV writes the normalized rows as comma-delimited text.
func WriteCSV(w io.Writer, rows []types.NormalizedRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			row.Customer,
			row.OrderNumber,
			row.Category,
			row.Product,
			row.BatchNumber,
			row.InputPackageNumber,
			row.Quantity,
			row.CasesString(),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

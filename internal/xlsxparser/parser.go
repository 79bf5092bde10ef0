// =============================================================================
// Pick List Generator - XLSX Parser Module
// =============================================================================
//
// This module is the second loader path: the inventory system can export the
// same sales-order, assembly and product tables as XLSX workbooks. The data
// lives on the first sheet, with the same fixed metadata preamble convention
// as the delimited-text exports (3 rows for sales/assembly, none for the
// product catalog).
//
// The sheet rows feed into the same rectangular-table step as the CSV path
// (csvparser.FromRows), so downstream code never knows which format a table
// came from.
//
// =============================================================================

package xlsxparser

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/cboldwyn/pick-list/internal/csvparser"
	"github.com/cboldwyn/pick-list/internal/types"
)

// Parse reads a tabular export from an XLSX workbook.
//
// PARAMETERS:
//   - filePath: The path to the workbook.
//   - metadataRows: The number of leading metadata rows to discard before
//     the header row (positional, never content-sniffed).
//
// RETURNS:
//   - A pointer to the parsed Table.
//   - A *types.LoadError if the workbook cannot be read or the sheet cannot
//     be parsed into a rectangular table.
func Parse(filePath string, metadataRows int) (*types.Table, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, &types.LoadError{Source: filePath, Reason: "cannot open workbook", Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &types.LoadError{Source: filePath, Reason: "workbook has no sheets"}
	}

	// Export workbooks carry a single data sheet; always take the first.
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &types.LoadError{Source: filePath, Reason: fmt.Sprintf("cannot read sheet %q", sheets[0]), Err: err}
	}

	if len(rows) < metadataRows+1 {
		return nil, &types.LoadError{
			Source: filePath,
			Reason: fmt.Sprintf("sheet has no header row after skipping %d metadata row(s)", metadataRows),
		}
	}

	table, err := csvparser.FromRows(rows[metadataRows:])
	if err != nil {
		if le, ok := err.(*types.LoadError); ok {
			le.Source = filePath
		}
		return nil, err
	}

	table.SourceFile = filePath
	return table, nil
}

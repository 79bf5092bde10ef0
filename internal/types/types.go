// =============================================================================
// Pick List Generator - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - csvparser / xlsxparser (both loaders produce a Table)
//   - lookup
//   - transform
//   - filter
//   - export / report
//
// It also defines the two hard-failure error kinds of the pipeline. Per-row
// data quality problems (a broken lookup chain, a non-numeric quantity) are
// NOT errors: they degrade to blank values and never surface here.
//
// =============================================================================

package types

import (
	"fmt"
	"strings"
)

// =============================================================================
// TABLE TYPES
// =============================================================================

// Table represents a parsed tabular export. Both the CSV and the XLSX loader
// produce this structure, so everything downstream is format-agnostic.
type Table struct {
	// Headers contains the column headers in source order.
	Headers []string

	// Rows contains the data rows as maps of header -> value.
	// Using maps allows for easy field access by name.
	Rows []map[string]string

	// RawRows contains the raw row data as string slices.
	// This is useful for debugging and error reporting.
	RawRows [][]string

	// SourceFile is the path to the source file ("" for in-memory tables).
	SourceFile string

	// RowCount is the total number of data rows (excluding headers).
	RowCount int

	// ColumnCount is the number of columns in the table.
	ColumnCount int
}

// HasColumn reports whether the table carries the named column.
func (t *Table) HasColumn(name string) bool {
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// MissingColumns returns the subset of required that is absent from the
// table's headers, in the order given.
func (t *Table) MissingColumns(required []string) []string {
	var missing []string
	for _, name := range required {
		if !t.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// =============================================================================
// NORMALIZED ROW
// =============================================================================

// NormalizedRow is the canonical output unit of the transform engine: one
// sales-order line with its resolved input package and optional case count.
// Rows are immutable once produced.
type NormalizedRow struct {
	Customer    string
	OrderNumber string
	Category    string
	Product     string

	// BatchNumber is the package batch number, "" when the export had none.
	BatchNumber string

	// InputPackageNumber is the result of the two-hop chained lookup
	// (Package Label -> Assembly Number -> Package Number). Any break in
	// the chain leaves it empty.
	InputPackageNumber string

	// Quantity keeps the raw export value so display and CSV export match
	// the source exactly (exports disagree on "10" vs "10.0"). The cases
	// computation parses it independently.
	Quantity string

	// Cases is Quantity divided by units-per-case, rounded to 2 decimals.
	// It is only meaningful when HasCases is true; a false HasCases renders
	// as an explicit blank, never as zero.
	Cases    float64
	HasCases bool
}

// CasesString returns the display form of the cases value: a 2-decimal
// number, or "" when the computation degraded to blank.
func (r NormalizedRow) CasesString() string {
	if !r.HasCases {
		return ""
	}
	return fmt.Sprintf("%.2f", r.Cases)
}

// =============================================================================
// ERROR KINDS
// =============================================================================

// LoadError indicates that a source file could not be turned into a Table:
// undecodable text, too few lines to contain a header after the fixed
// metadata skip, or a non-rectangular body. A LoadError aborts the pipeline
// invocation for that file.
type LoadError struct {
	// Source identifies the offending file or table.
	Source string

	// Reason is a human-readable description of the failure.
	Reason string

	// Err is the underlying error, if any.
	Err error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to load %s: %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("failed to load %s: %s", e.Source, e.Reason)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// SchemaError indicates that a required column is absent from one of the
// three source tables. The message enumerates every column actually found --
// this is the primary debugging aid for users supplying malformed exports
// and must be preserved verbatim in whatever the caller surfaces.
type SchemaError struct {
	// Table names the offending table ("sales orders", "assembly", "products").
	Table string

	// Missing lists the required columns that were not found.
	Missing []string

	// Found lists every column the table actually has, in source order.
	Found []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s table is missing required column(s) %s; available columns: [%s]",
		e.Table,
		strings.Join(e.Missing, ", "),
		strings.Join(e.Found, ", "))
}

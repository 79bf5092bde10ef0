// =============================================================================
// Pick List Generator - Lookup Index Builder
// =============================================================================
//
// This module builds the key->value maps that drive the chained lookup:
//
//   outputPackageToAssembly : Package Number -> Assembly Number
//                             (built only from Output-direction records)
//   assemblyToInputPackage  : Assembly Number -> Package Number
//                             (built only from Input-direction records)
//
// plus the optional product index (product ID -> units per case).
//
// DUPLICATE-KEY SEMANTICS:
//   When a key appears more than once within a direction, the last-seen
//   record wins. This mirrors the spreadsheet lookup the pipeline replaces,
//   where the resolved match is deterministic by source order. It is a
//   contract, not a bug: input row order must be preserved end-to-end
//   through index construction.
//
// Direction values other than the exact literals "Output" and "Input" are
// silently excluded. A missing required column is a *types.SchemaError.
//
// =============================================================================

package lookup

import (
	"github.com/cboldwyn/pick-list/internal/config"
	"github.com/cboldwyn/pick-list/internal/types"
)

// Direction literals matched exactly against the assembly export's
// Input/Output column.
const (
	DirectionOutput = "Output"
	DirectionInput  = "Input"
)

// =============================================================================
// ASSEMBLY INDEX
// =============================================================================

// AssemblyIndex holds the two maps used for chained resolution.
type AssemblyIndex struct {
	outputPackageToAssembly map[string]string
	assemblyToInputPackage  map[string]string
}

// BuildAssemblyIndex partitions the assembly table by direction and builds
// both maps in a single pass with overwrite-on-duplicate-key semantics.
func BuildAssemblyIndex(table *types.Table, cols config.AssemblyColumns) (*AssemblyIndex, error) {
	required := []string{cols.Direction, cols.PackageNumber, cols.AssemblyNum}
	if missing := table.MissingColumns(required); len(missing) > 0 {
		return nil, &types.SchemaError{
			Table:   "assembly",
			Missing: missing,
			Found:   table.Headers,
		}
	}

	idx := &AssemblyIndex{
		outputPackageToAssembly: make(map[string]string),
		assemblyToInputPackage:  make(map[string]string),
	}

	for _, row := range table.Rows {
		switch row[cols.Direction] {
		case DirectionOutput:
			idx.outputPackageToAssembly[row[cols.PackageNumber]] = row[cols.AssemblyNum]
		case DirectionInput:
			idx.assemblyToInputPackage[row[cols.AssemblyNum]] = row[cols.PackageNumber]
		default:
			// Not an error: rows with any other direction value are ignored.
		}
	}

	return idx, nil
}

// AssemblyForOutputPackage resolves the first hop: a sales row's package
// label against the Output-direction records.
func (i *AssemblyIndex) AssemblyForOutputPackage(packageLabel string) (string, bool) {
	v, ok := i.outputPackageToAssembly[packageLabel]
	return v, ok
}

// InputPackageForAssembly resolves the second hop: an assembly number
// against the Input-direction records.
func (i *AssemblyIndex) InputPackageForAssembly(assemblyNumber string) (string, bool) {
	v, ok := i.assemblyToInputPackage[assemblyNumber]
	return v, ok
}

// ResolveInputPackage performs the full two-hop chained lookup:
// Package Label -> Assembly Number -> Input Package Number.
// Any break in the chain yields the empty string, never an error.
func (i *AssemblyIndex) ResolveInputPackage(packageLabel string) string {
	assemblyNumber, ok := i.AssemblyForOutputPackage(packageLabel)
	if !ok {
		return ""
	}
	inputPackage, ok := i.InputPackageForAssembly(assemblyNumber)
	if !ok {
		return ""
	}
	return inputPackage
}

// OutputCount returns the number of distinct Output-direction keys.
func (i *AssemblyIndex) OutputCount() int { return len(i.outputPackageToAssembly) }

// InputCount returns the number of distinct Input-direction keys.
func (i *AssemblyIndex) InputCount() int { return len(i.assemblyToInputPackage) }

// =============================================================================
// PRODUCT INDEX
// =============================================================================

// ProductIndex maps product IDs to their raw units-per-case values. Values
// stay as strings here; the transform engine owns the numeric interpretation
// and its degrade-to-blank rules.
type ProductIndex struct {
	unitsPerCase map[string]string
}

// BuildProductIndex builds the product index with the same last-wins
// duplicate-key semantics as the assembly index.
func BuildProductIndex(table *types.Table, cols config.ProductColumns) (*ProductIndex, error) {
	required := []string{cols.ID, cols.UnitsPerCase}
	if missing := table.MissingColumns(required); len(missing) > 0 {
		return nil, &types.SchemaError{
			Table:   "products",
			Missing: missing,
			Found:   table.Headers,
		}
	}

	idx := &ProductIndex{unitsPerCase: make(map[string]string, len(table.Rows))}

	for _, row := range table.Rows {
		idx.unitsPerCase[row[cols.ID]] = row[cols.UnitsPerCase]
	}

	return idx, nil
}

// UnitsPerCase returns the raw units-per-case value for a product ID.
func (i *ProductIndex) UnitsPerCase(productID string) (string, bool) {
	v, ok := i.unitsPerCase[productID]
	return v, ok
}

// Len returns the number of indexed products.
func (i *ProductIndex) Len() int { return len(i.unitsPerCase) }

// =============================================================================
// Pick List Generator - Main Entry Point
// =============================================================================
//
// This is the main entry point for the pick-list CLI. It initializes the
// Cobra CLI framework and delegates command execution to the cmd package.
//
// USAGE:
//   picklist process   - Generate pick-list artifacts from inventory exports
//   picklist filters   - List the available filter values for the exports
//   picklist version   - Display the application version
//
// ARCHITECTURE:
//   - cmd/        : CLI command definitions (Cobra)
//   - internal/   : core pipeline (loaders, lookup, transform, filter,
//                   report layout, export, orchestrator)
//   - pkg/        : shared utilities (artifact naming, archival)
//
// =============================================================================

package main

import (
	"github.com/cboldwyn/pick-list/cmd"
)

// main simply calls Execute from the cmd package, which initializes and
// runs the Cobra CLI.
func main() {
	cmd.Execute()
}

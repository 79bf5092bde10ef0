// =============================================================================
// Pick List Generator - Process Command
// =============================================================================
//
// This file defines the 'process' command, which runs the full pipeline:
//
//   1. Load the sales-order and assembly exports (and the optional product
//      catalog)
//   2. Build the package/assembly lookup indexes
//   3. Transform to the normalized pick-list rows
//   4. Apply the customer / order / category selections
//   5. Write the CSV artifact and render the PDF report
//   6. Archive the processed exports and record the run summary
//
// COMMAND USAGE:
//   picklist process --sales <file> --assembly <file> [flags]
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cboldwyn/pick-list/internal/config"
	"github.com/cboldwyn/pick-list/internal/filter"
	"github.com/cboldwyn/pick-list/internal/pipeline"
	"github.com/cboldwyn/pick-list/internal/report"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	// Input files.
	salesPath    string
	assemblyPath string
	productsPath string

	// Filter selections, repeatable.
	selectedCustomers  []string
	selectedOrders     []string
	selectedCategories []string

	// Layout overrides.
	orientationFlag string
	hideCustomer    bool
	hideOrder       bool

	// Artifact selection and behavior.
	noCSV        bool
	noPDF        bool
	archiveInput bool
	dryRun       bool
)

// =============================================================================
// PROCESS COMMAND DEFINITION
// =============================================================================

// processCmd represents the 'process' command.
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Generate pick-list artifacts from the inventory exports",
	Long: `The process command loads the sales-order and assembly exports, resolves
each sales row's input package through the two-hop assembly lookup, and
writes the resulting pick list as a CSV table and a paginated PDF report.

Structural problems (an unreadable file, a missing required column) abort
the run with a message listing the columns that were actually found. Per-row
problems -- a package label with no matching assembly record, a non-numeric
quantity -- never abort: the affected values are left blank.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess()
	},
}

// init registers the process command and its flags.
func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVar(&salesPath, "sales", "", "Path to the sales-order export (CSV or XLSX)")
	processCmd.Flags().StringVar(&assemblyPath, "assembly", "", "Path to the assembly export (CSV or XLSX)")
	processCmd.Flags().StringVar(&productsPath, "products", "", "Path to the product catalog (optional, enables the cases column)")
	processCmd.MarkFlagRequired("sales")
	processCmd.MarkFlagRequired("assembly")

	processCmd.Flags().StringSliceVar(&selectedCustomers, "customers", nil, "Restrict to these customers")
	processCmd.Flags().StringSliceVar(&selectedOrders, "orders", nil, "Restrict to these order numbers")
	processCmd.Flags().StringSliceVar(&selectedCategories, "categories", nil, "Restrict to these categories")

	processCmd.Flags().StringVar(&orientationFlag, "orientation", "", "Page orientation: landscape or portrait (default from config)")
	processCmd.Flags().BoolVar(&hideCustomer, "hide-customer", false, "Omit the Customer column from the report")
	processCmd.Flags().BoolVar(&hideOrder, "hide-order", false, "Omit the Order Number column from the report")

	processCmd.Flags().BoolVar(&noCSV, "no-csv", false, "Skip the CSV artifact")
	processCmd.Flags().BoolVar(&noPDF, "no-pdf", false, "Skip the PDF artifact")
	processCmd.Flags().BoolVar(&archiveInput, "archive", false, "Move the source exports to the archive directory on success")
	processCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Run the pipeline without writing any files")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runProcess loads configuration and drives one pipeline run.
func runProcess() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, flush, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer flush()

	reportOpts, err := buildReportOptions(cfg)
	if err != nil {
		return err
	}

	p := pipeline.New(cfg, log)

	result := p.Run(
		pipeline.Inputs{
			SalesPath:    salesPath,
			AssemblyPath: assemblyPath,
			ProductsPath: productsPath,
		},
		pipeline.Options{
			Criteria: filter.Criteria{
				Customers:  selectedCustomers,
				Orders:     selectedOrders,
				Categories: selectedCategories,
			},
			Report:   reportOpts,
			WriteCSV: !noCSV,
			WritePDF: !noPDF,
			Archive:  archiveInput,
			DryRun:   dryRun,
		},
	)

	if !result.Success {
		return result.Error
	}

	fmt.Println("=== Pick List Generated ===")
	fmt.Printf("Sales rows:      %d\n", result.Stats.SalesRows)
	fmt.Printf("Pick-list rows:  %d", result.Stats.NormalizedRows)
	if result.Stats.FilteredRows != result.Stats.NormalizedRows {
		fmt.Printf(" (%d after filters)", result.Stats.FilteredRows)
	}
	fmt.Println()
	if result.Stats.Pages > 0 {
		fmt.Printf("Report pages:    %d\n", result.Stats.Pages)
	}
	for _, path := range result.OutputFiles {
		fmt.Printf("  ✓ %s\n", path)
	}
	fmt.Printf("Time elapsed:    %s\n", result.Stats.Elapsed)

	return nil
}

// buildReportOptions merges the config's report settings with the command
// flags (flags win).
func buildReportOptions(cfg *config.Config) (report.Options, error) {
	orientationValue := cfg.Report.Orientation
	if orientationFlag != "" {
		orientationValue = orientationFlag
	}

	orientation, err := report.ParseOrientation(orientationValue)
	if err != nil {
		return report.Options{}, err
	}

	return report.Options{
		Orientation:         orientation,
		HideCustomer:        hideCustomer || cfg.Report.HideCustomer,
		HideOrder:           hideOrder || cfg.Report.HideOrder,
		Title:               cfg.Report.Title,
		FontSize:            cfg.Report.FontSize,
		FooterCustomerLimit: cfg.Report.FooterCustomerLimit,
		FooterOrderLimit:    cfg.Report.FooterOrderLimit,
	}, nil
}

// =============================================================================
// Pick List Generator - Filters Command
// =============================================================================
//
// This file defines the 'filters' command, the CLI analog of interactive
// filter controls: it prints the candidate values for each filter dimension
// given the selections made so far.
//
// The lists cascade: selecting customers narrows the available order
// numbers, and selecting customers or orders narrows the available
// categories. Run it repeatedly while narrowing a pick list.
//
// COMMAND USAGE:
//   picklist filters --sales <file> --assembly <file> [--customers ...]
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cboldwyn/pick-list/internal/filter"
	"github.com/cboldwyn/pick-list/internal/pipeline"
)

var (
	filtersSalesPath    string
	filtersAssemblyPath string

	filtersCustomers []string
	filtersOrders    []string
)

// filtersCmd represents the 'filters' command.
var filtersCmd = &cobra.Command{
	Use:   "filters",
	Short: "List the available filter values for the given exports",
	Long: `The filters command transforms the exports and prints the distinct
customers, order numbers and categories available for filtering. Selections
passed via flags narrow the downstream lists the same way the process
command's filters would.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runFilters()
	},
}

func init() {
	rootCmd.AddCommand(filtersCmd)

	filtersCmd.Flags().StringVar(&filtersSalesPath, "sales", "", "Path to the sales-order export (CSV or XLSX)")
	filtersCmd.Flags().StringVar(&filtersAssemblyPath, "assembly", "", "Path to the assembly export (CSV or XLSX)")
	filtersCmd.MarkFlagRequired("sales")
	filtersCmd.MarkFlagRequired("assembly")

	filtersCmd.Flags().StringSliceVar(&filtersCustomers, "customers", nil, "Customers already selected")
	filtersCmd.Flags().StringSliceVar(&filtersOrders, "orders", nil, "Order numbers already selected")
}

// runFilters prints the cascading candidate lists.
func runFilters() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, flush, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer flush()

	p := pipeline.New(cfg, log)

	customers, orders, categories, err := p.AvailableFilters(
		pipeline.Inputs{SalesPath: filtersSalesPath, AssemblyPath: filtersAssemblyPath},
		filter.Criteria{Customers: filtersCustomers, Orders: filtersOrders},
	)
	if err != nil {
		return err
	}

	printList("Customers", customers)
	printList("Order Numbers", orders)
	printList("Categories", categories)
	return nil
}

// printList prints one dimension's candidates.
func printList(title string, values []string) {
	fmt.Printf("%s (%d):\n", title, len(values))
	for _, v := range values {
		fmt.Printf("  %s\n", v)
	}
	fmt.Println()
}

package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cboldwyn/pick-list/internal/config"
	"github.com/cboldwyn/pick-list/internal/filter"
	"github.com/cboldwyn/pick-list/internal/types"
)

// =============================================================================
// IN-MEMORY CORE
// =============================================================================

func table(headers []string, records ...[]string) *types.Table {
	t := &types.Table{Headers: headers, ColumnCount: len(headers)}
	for _, rec := range records {
		row := make(map[string]string, len(headers))
		for i, h := range headers {
			row[h] = rec[i]
		}
		t.Rows = append(t.Rows, row)
	}
	t.RowCount = len(t.Rows)
	return t
}

var salesHeaders = []string{
	"Customer", "Order Number", "Category", "Product",
	"Product Id", "Package Batch Number", "Package Label", "Quantity",
}

var assemblyHeaders = []string{"Input/Output", "Package Number", "Assembly Number"}

func TestProcess_HappyPath(t *testing.T) {
	sales := table(salesHeaders,
		[]string{"Acme", "SO1", "Flower", "OG Kush", "P1", "B-100-1", "PKG-OUT-1", "10"})
	assemblies := table(assemblyHeaders,
		[]string{"Output", "PKG-OUT-1", "ASM-1"},
		[]string{"Input", "PKG-IN-99", "ASM-1"})
	products := table([]string{"ID", "Units Per Case"}, []string{"P1", "4"})

	rows, err := Process(sales, assemblies, products, config.Default().Columns)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	got := rows[0]
	assert.Equal(t, "Acme", got.Customer)
	assert.Equal(t, "SO1", got.OrderNumber)
	assert.Equal(t, "Flower", got.Category)
	assert.Equal(t, "OG Kush", got.Product)
	assert.Equal(t, "B-100-1", got.BatchNumber)
	assert.Equal(t, "PKG-IN-99", got.InputPackageNumber)
	assert.Equal(t, "10", got.Quantity)
	assert.Equal(t, "2.50", got.CasesString())
}

func TestProcess_MissingOutputRecordDegradesPackageOnly(t *testing.T) {
	sales := table(salesHeaders,
		[]string{"Acme", "SO1", "Flower", "OG Kush", "P1", "B-100-1", "PKG-UNKNOWN", "10"})
	assemblies := table(assemblyHeaders,
		[]string{"Input", "PKG-IN-99", "ASM-1"})
	products := table([]string{"ID", "Units Per Case"}, []string{"P1", "4"})

	rows, err := Process(sales, assemblies, products, config.Default().Columns)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "", rows[0].InputPackageNumber)
	assert.Equal(t, "2.50", rows[0].CasesString()) // case computation unaffected
}

func TestProcess_ZeroUnitsPerCaseDegradesCasesOnly(t *testing.T) {
	sales := table(salesHeaders,
		[]string{"Acme", "SO1", "Flower", "OG Kush", "P1", "B-100-1", "PKG-OUT-1", "10"})
	assemblies := table(assemblyHeaders,
		[]string{"Output", "PKG-OUT-1", "ASM-1"},
		[]string{"Input", "PKG-IN-99", "ASM-1"})
	products := table([]string{"ID", "Units Per Case"}, []string{"P1", "0"})

	rows, err := Process(sales, assemblies, products, config.Default().Columns)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "PKG-IN-99", rows[0].InputPackageNumber) // lookup unaffected
	assert.False(t, rows[0].HasCases)
	assert.Equal(t, "", rows[0].CasesString())
}

func TestProcess_SchemaErrorAborts(t *testing.T) {
	sales := table([]string{"Customer", "Quantity"}, []string{"Acme", "10"})
	assemblies := table(assemblyHeaders)

	_, err := Process(sales, assemblies, nil, config.Default().Columns)

	var schemaErr *types.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "sales orders", schemaErr.Table)
}

// =============================================================================
// FILE-BASED RUNS
// =============================================================================

const salesCSV = `Sales Order Export
Generated 08/26/2026
Inventory System v4

Customer,Order Number,Category,Product,Product Id,Package Batch Number,Package Label,Quantity
Acme,SO1,Flower,OG Kush,P1,B-100-1,PKG-OUT-1,10
Acme,SO1,Edibles,Gummies,P2,None,PKG-OUT-2,24
Beta Dispensary,SO2,Flower,OG Kush,P1,B-100-2,PKG-OUT-3,5
`

const assemblyCSV = `Assembly Export
Generated 08/26/2026
Inventory System v4

Input/Output,Package Number,Assembly Number
Output,PKG-OUT-1,ASM-1
Input,PKG-IN-99,ASM-1
Output,PKG-OUT-2,ASM-2
Input,PKG-IN-55,ASM-2
`

const productsCSV = `ID,Units Per Case
P1,4
P2,12
`

// testEnv writes the fixture exports and returns a pipeline wired to
// temporary output/archive directories.
func testEnv(t *testing.T) (*Pipeline, Inputs, *config.Config) {
	t.Helper()
	root := t.TempDir()

	write := func(name, content string) string {
		path := filepath.Join(root, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	// The fixtures carry the three-line metadata preamble plus a blank line,
	// matching the default skip of 3: the blank line is dropped as an empty
	// record, not counted as metadata.
	cfg := config.Default()
	cfg.OutputDir = filepath.Join(root, "output")
	cfg.ArchiveDir = filepath.Join(root, "archive")

	in := Inputs{
		SalesPath:    write("sales.csv", salesCSV),
		AssemblyPath: write("assemblies.csv", assemblyCSV),
		ProductsPath: write("products.csv", productsCSV),
	}

	return New(cfg, nil), in, cfg
}

func TestRun_GeneratesBothArtifacts(t *testing.T) {
	p, in, cfg := testEnv(t)

	result := p.Run(in, Options{WriteCSV: true, WritePDF: true})
	require.True(t, result.Success, "run failed: %v", result.Error)

	assert.Equal(t, 3, result.Stats.SalesRows)
	assert.Equal(t, 4, result.Stats.AssemblyRows)
	assert.Equal(t, 2, result.Stats.ProductRows)
	assert.Equal(t, 3, result.Stats.NormalizedRows)
	assert.Equal(t, 3, result.Stats.FilteredRows)
	assert.Equal(t, 1, result.Stats.Pages)
	require.Len(t, result.OutputFiles, 2)

	var csvPath, pdfPath string
	for _, path := range result.OutputFiles {
		switch filepath.Ext(path) {
		case ".csv":
			csvPath = path
		case ".pdf":
			pdfPath = path
		}
	}
	require.NotEmpty(t, csvPath)
	require.NotEmpty(t, pdfPath)

	csvData, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	content := string(csvData)
	assert.Contains(t, content, "PKG-IN-99")
	assert.Contains(t, content, "PKG-IN-55")
	assert.Contains(t, content, "2.50")
	assert.Contains(t, content, "2.00") // 24 / 12

	pdfData, err := os.ReadFile(pdfPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(pdfData), "%PDF"), "not a PDF header")

	// The run summary log accumulates in the output directory.
	assert.FileExists(t, filepath.Join(cfg.OutputDir, "picklist_runs.log"))
}

func TestRun_FilterCriteriaRestrictArtifacts(t *testing.T) {
	p, in, _ := testEnv(t)

	result := p.Run(in, Options{
		WriteCSV: true,
		Criteria: filter.Criteria{Customers: []string{"Beta Dispensary"}},
	})
	require.True(t, result.Success, "run failed: %v", result.Error)

	assert.Equal(t, 3, result.Stats.NormalizedRows)
	assert.Equal(t, 1, result.Stats.FilteredRows)

	csvData, err := os.ReadFile(result.OutputFiles[0])
	require.NoError(t, err)
	assert.Contains(t, string(csvData), "Beta Dispensary")
	assert.NotContains(t, string(csvData), "Acme")
}

func TestRun_DryRunWritesNothing(t *testing.T) {
	p, in, cfg := testEnv(t)

	result := p.Run(in, Options{WriteCSV: true, WritePDF: true, DryRun: true})
	require.True(t, result.Success, "run failed: %v", result.Error)

	assert.Empty(t, result.OutputFiles)
	assert.NoDirExists(t, cfg.OutputDir)
}

func TestRun_ArchivesSourceFiles(t *testing.T) {
	p, in, cfg := testEnv(t)

	result := p.Run(in, Options{WriteCSV: true, Archive: true})
	require.True(t, result.Success, "run failed: %v", result.Error)

	assert.NoFileExists(t, in.SalesPath)
	assert.NoFileExists(t, in.AssemblyPath)
	assert.NoFileExists(t, in.ProductsPath)
	assert.FileExists(t, filepath.Join(cfg.ArchiveDir, "sales.csv"))
	assert.FileExists(t, filepath.Join(cfg.ArchiveDir, "assemblies.csv"))
	assert.FileExists(t, filepath.Join(cfg.ArchiveDir, "products.csv"))
}

func TestRun_MissingSalesFileFails(t *testing.T) {
	p, in, _ := testEnv(t)
	in.SalesPath = filepath.Join(t.TempDir(), "nope.csv")

	result := p.Run(in, Options{WriteCSV: true})

	assert.False(t, result.Success)
	require.Error(t, result.Error)
	var loadErr *types.LoadError
	assert.ErrorAs(t, result.Error, &loadErr)
}

func TestRun_WithoutProductCatalog(t *testing.T) {
	p, in, _ := testEnv(t)
	in.ProductsPath = ""

	result := p.Run(in, Options{WriteCSV: true})
	require.True(t, result.Success, "run failed: %v", result.Error)

	csvData, err := os.ReadFile(result.OutputFiles[0])
	require.NoError(t, err)

	// Every cases cell is blank: each record ends with the quantity column
	// followed by an empty final field.
	for _, line := range strings.Split(strings.TrimSpace(string(csvData)), "\n")[1:] {
		assert.True(t, strings.HasSuffix(line, ","), "expected blank cases in %q", line)
	}
}

func TestAvailableFilters(t *testing.T) {
	p, in, _ := testEnv(t)

	customers, orders, categories, err := p.AvailableFilters(in, filter.Criteria{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme", "Beta Dispensary"}, customers)
	assert.Equal(t, []string{"SO1", "SO2"}, orders)
	assert.Equal(t, []string{"Edibles", "Flower"}, categories)

	_, orders, categories, err = p.AvailableFilters(in, filter.Criteria{Customers: []string{"Acme"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"SO1"}, orders)
	assert.Equal(t, []string{"Edibles", "Flower"}, categories)
}

func TestResult_Describe(t *testing.T) {
	ok := Result{
		Success: true,
		Stats:   ProcessingStats{NormalizedRows: 8, FilteredRows: 5},
	}
	assert.Equal(t, "8 rows (5 after filters), 0 artifact(s), 0s", ok.Describe())

	failed := Result{Error: os.ErrNotExist}
	assert.Equal(t, "failed: file does not exist", failed.Describe())
}

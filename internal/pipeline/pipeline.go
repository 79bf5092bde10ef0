// =============================================================================
// Pick List Generator - Pipeline Orchestrator
// =============================================================================
//
// This module wires the stages together:
//
//   load (sales, assembly, optional products)
//     -> build lookup indexes
//     -> transform to the normalized row set
//     -> apply filter criteria
//     -> export CSV artifact + render PDF artifact
//     -> archive source exports, write run summary
//
// Each invocation is a pure function of its inputs: no shared mutable state
// survives between runs, so the pipeline is reentrant. Failure policy is
// the pipeline's central asymmetry: loader and schema failures abort the
// whole invocation, per-row data quality problems degrade to blank values
// inside the transform and never fail a run.
//
// =============================================================================

package pipeline

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/cboldwyn/pick-list/internal/config"
	"github.com/cboldwyn/pick-list/internal/csvparser"
	"github.com/cboldwyn/pick-list/internal/export"
	"github.com/cboldwyn/pick-list/internal/filter"
	"github.com/cboldwyn/pick-list/internal/lookup"
	"github.com/cboldwyn/pick-list/internal/report"
	"github.com/cboldwyn/pick-list/internal/transform"
	"github.com/cboldwyn/pick-list/internal/types"
	"github.com/cboldwyn/pick-list/internal/xlsxparser"
	"github.com/cboldwyn/pick-list/pkg/utils"
)

// =============================================================================
// LOGGING
// =============================================================================

// Logger is the pipeline's logging interface. The CLI provides a zap-backed
// implementation; tests use NopLogger.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string, ...interface{}) {}
func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}

// =============================================================================
// INPUTS, OPTIONS, RESULTS
// =============================================================================

// Inputs names the source export files for one run.
type Inputs struct {
	SalesPath    string
	AssemblyPath string

	// ProductsPath is optional; "" disables the case computation.
	ProductsPath string
}

// Options controls one pipeline run.
type Options struct {
	// Criteria restricts the normalized rows; the zero value keeps all.
	Criteria filter.Criteria

	// Report holds the document layout options. FilterSummary is filled in
	// from Criteria by the pipeline.
	Report report.Options

	// WriteCSV / WritePDF select which artifacts to generate.
	WriteCSV bool
	WritePDF bool

	// Archive moves the source exports to the archive directory after a
	// successful run.
	Archive bool

	// DryRun runs every stage but writes and archives nothing.
	DryRun bool
}

// ProcessingStats carries row counts through the stages.
type ProcessingStats struct {
	SalesRows      int
	AssemblyRows   int
	ProductRows    int
	NormalizedRows int
	FilteredRows   int
	Pages          int
	Elapsed        time.Duration
}

// Result is the outcome of one pipeline run.
type Result struct {
	Success     bool
	OutputFiles []string
	Stats       ProcessingStats
	Error       error
}

// =============================================================================
// PIPELINE
// =============================================================================

// Pipeline runs the load -> transform -> filter -> render chain.
type Pipeline struct {
	cfg *config.Config
	fm  *utils.FileManager
	log Logger
}

// New creates a pipeline. A nil logger is replaced with NopLogger.
func New(cfg *config.Config, log Logger) *Pipeline {
	if log == nil {
		log = NopLogger{}
	}
	return &Pipeline{
		cfg: cfg,
		fm:  utils.NewFileManager(cfg.OutputDir, cfg.ArchiveDir),
		log: log,
	}
}

// Run executes the full pipeline over the given source files.
func (p *Pipeline) Run(in Inputs, opts Options) Result {
	summary := utils.NewRunSummary()
	start := time.Now()

	fail := func(err error) Result {
		p.log.Error("pipeline run failed", "error", err)
		return Result{Success: false, Error: err, Stats: ProcessingStats{Elapsed: time.Since(start)}}
	}

	// -------------------------------------------------------------------------
	// STAGE 1: LOAD
	// -------------------------------------------------------------------------

	salesTable, err := p.loadTable(in.SalesPath, p.cfg.CSV.MetadataRows)
	if err != nil {
		return fail(err)
	}
	p.log.Info("loaded sales orders", "file", in.SalesPath, "rows", salesTable.RowCount)

	assemblyTable, err := p.loadTable(in.AssemblyPath, p.cfg.CSV.MetadataRows)
	if err != nil {
		return fail(err)
	}
	p.log.Info("loaded assembly records", "file", in.AssemblyPath, "rows", assemblyTable.RowCount)

	// The product catalog is optional and carries no metadata preamble.
	var productsTable *types.Table
	if in.ProductsPath != "" {
		productsTable, err = p.loadTable(in.ProductsPath, 0)
		if err != nil {
			return fail(err)
		}
		p.log.Info("loaded product catalog", "file", in.ProductsPath, "rows", productsTable.RowCount)
	}

	summary.SourceFiles = sourceList(in)

	// -------------------------------------------------------------------------
	// STAGE 2-4: INDEX, TRANSFORM, FILTER
	// -------------------------------------------------------------------------

	normalized, err := Process(salesTable, assemblyTable, productsTable, p.cfg.Columns)
	if err != nil {
		return fail(err)
	}

	filtered := filter.Apply(normalized, opts.Criteria)
	p.log.Info("transform complete",
		"normalized", len(normalized),
		"filtered", len(filtered))

	stats := ProcessingStats{
		SalesRows:      salesTable.RowCount,
		AssemblyRows:   assemblyTable.RowCount,
		NormalizedRows: len(normalized),
		FilteredRows:   len(filtered),
	}
	if productsTable != nil {
		stats.ProductRows = productsTable.RowCount
	}

	// -------------------------------------------------------------------------
	// STAGE 5: ARTIFACTS
	// -------------------------------------------------------------------------

	now := time.Now()
	var outputs []string

	if !opts.DryRun {
		if err := p.fm.EnsureDirectories(); err != nil {
			return fail(err)
		}
	}

	if opts.WriteCSV {
		var buf bytes.Buffer
		if err := export.WriteCSV(&buf, filtered); err != nil {
			return fail(err)
		}

		name := utils.GenerateArtifactName(p.cfg.Artifacts.CSVNameFormat, now)
		if opts.DryRun {
			p.log.Info("dry run: skipping CSV artifact", "name", name)
		} else {
			path, err := p.fm.WriteArtifact(name, buf.Bytes())
			if err != nil {
				return fail(err)
			}
			outputs = append(outputs, path)
			p.log.Info("wrote CSV artifact", "path", path)
		}
	}

	if opts.WritePDF {
		reportOpts := opts.Report
		reportOpts.FilterSummary = opts.Criteria.Summary()

		doc := report.Layout(filtered, reportOpts)
		stats.Pages = doc.PageCount()

		pdfBytes, err := report.RenderPDF(doc)
		if err != nil {
			return fail(err)
		}

		name := utils.GenerateArtifactName(p.cfg.Artifacts.PDFNameFormat, now)
		if opts.DryRun {
			p.log.Info("dry run: skipping PDF artifact", "name", name, "pages", doc.PageCount())
		} else {
			path, err := p.fm.WriteArtifact(name, pdfBytes)
			if err != nil {
				return fail(err)
			}
			outputs = append(outputs, path)
			p.log.Info("wrote PDF artifact", "path", path, "pages", doc.PageCount())
		}
	}

	// -------------------------------------------------------------------------
	// STAGE 6: ARCHIVE AND SUMMARY
	// -------------------------------------------------------------------------

	if opts.Archive && !opts.DryRun {
		for _, src := range sourceList(in) {
			archived, err := p.fm.ArchiveInputFile(src)
			if err != nil {
				// Archival is best-effort: the artifacts already exist.
				p.log.Warn("failed to archive source file", "file", src, "error", err)
				continue
			}
			p.log.Debug("archived source file", "from", src, "to", archived)
		}
	}

	stats.Elapsed = time.Since(start)

	if !opts.DryRun {
		summary.EndTime = time.Now()
		summary.SalesRows = stats.SalesRows
		summary.NormalizedRows = stats.NormalizedRows
		summary.FilteredRows = stats.FilteredRows
		summary.Artifacts = outputs
		summary.FilterSummary = opts.Criteria.Summary()
		if _, err := p.fm.WriteSummaryLog(summary); err != nil {
			p.log.Warn("failed to write run summary", "error", err)
		}
	}

	return Result{Success: true, OutputFiles: outputs, Stats: stats}
}

// AvailableFilters computes the cascading candidate lists for the given
// selections without generating artifacts.
func (p *Pipeline) AvailableFilters(in Inputs, criteria filter.Criteria) (customers, orders, categories []string, err error) {
	salesTable, err := p.loadTable(in.SalesPath, p.cfg.CSV.MetadataRows)
	if err != nil {
		return nil, nil, nil, err
	}
	assemblyTable, err := p.loadTable(in.AssemblyPath, p.cfg.CSV.MetadataRows)
	if err != nil {
		return nil, nil, nil, err
	}

	rows, err := Process(salesTable, assemblyTable, nil, p.cfg.Columns)
	if err != nil {
		return nil, nil, nil, err
	}

	customers = filter.Customers(rows)
	orders = filter.Orders(rows, criteria.Customers)
	categories = filter.Categories(rows, criteria.Customers, criteria.Orders)
	return customers, orders, categories, nil
}

// =============================================================================
// CORE (in-memory, I/O free)
// =============================================================================

// Process runs index building and the transform over already-loaded tables.
// productsTable may be nil. This is the pipeline's pure core: callers with
// their own table cache (or tests) invoke it directly.
func Process(salesTable, assemblyTable, productsTable *types.Table, cols config.ColumnMappings) ([]types.NormalizedRow, error) {
	assemblyIndex, err := lookup.BuildAssemblyIndex(assemblyTable, cols.Assembly)
	if err != nil {
		return nil, err
	}

	var productIndex *lookup.ProductIndex
	if productsTable != nil {
		productIndex, err = lookup.BuildProductIndex(productsTable, cols.Products)
		if err != nil {
			return nil, err
		}
	}

	return transform.Transform(salesTable, assemblyIndex, productIndex, cols.Sales)
}

// =============================================================================
// HELPERS
// =============================================================================

// loadTable picks the loader by file extension. XLSX workbooks follow the
// same metadata-skip convention as the delimited exports.
func (p *Pipeline) loadTable(path string, metadataRows int) (*types.Table, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return xlsxparser.Parse(path, metadataRows)
	}
	return csvparser.Parse(path, p.cfg.CSV.WithMetadataRows(metadataRows))
}

// sourceList returns the non-empty input paths in load order.
func sourceList(in Inputs) []string {
	sources := []string{in.SalesPath, in.AssemblyPath}
	if in.ProductsPath != "" {
		sources = append(sources, in.ProductsPath)
	}
	return sources
}

// Describe renders a one-line human summary of a result for CLI output.
func (r Result) Describe() string {
	if !r.Success {
		return fmt.Sprintf("failed: %v", r.Error)
	}
	return fmt.Sprintf("%d rows (%d after filters), %d artifact(s), %s",
		r.Stats.NormalizedRows, r.Stats.FilteredRows, len(r.OutputFiles), r.Stats.Elapsed.Round(time.Millisecond))
}

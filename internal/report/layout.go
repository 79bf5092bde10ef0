// =============================================================================
// Pick List Generator - Report Layout Engine (layout stage)
// =============================================================================
//
// This module computes the printable pick-list document: which columns are
// visible, how wide they are, how cell text wraps, and where the page breaks
// fall. The result is a fully resolved Document that the PDF backend only
// has to draw -- page-break decisions are made here and nowhere else, and
// are not exposed to callers.
//
// LAYOUT RULES:
//   - The column set is fixed except that the Customer and Order Number
//     columns can be hidden. Category, Product, Batch, Package, Quantity,
//     Cases and a blank Picked column (for marking rows off by hand) are
//     always present.
//   - Column widths come from a preset table keyed by orientation and the
//     two hide flags, NOT from content measurement. Deterministic layout
//     beats per-renderer font-metric quirks.
//   - Cell text wraps by scanning backward from the character budget for a
//     break character, hyphen preferred over space. If the only break
//     points sit in the first third of the budget, the token straddling the
//     budget overflows its line unbroken and wrapping resumes after it; a
//     line never overflows by more than that one token.
//   - The package-number column shows the last 14 characters of the
//     resolved input package number (the fixed-width suffix convention for
//     these identifiers).
//
// =============================================================================

package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/cboldwyn/pick-list/internal/types"
)

// =============================================================================
// ORIENTATION AND OPTIONS
// =============================================================================

// Orientation selects one of the two supported A4 page presets.
type Orientation int

const (
	Landscape Orientation = iota
	Portrait
)

// ParseOrientation maps the configuration value to an Orientation.
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(s) {
	case "landscape", "":
		return Landscape, nil
	case "portrait":
		return Portrait, nil
	}
	return Landscape, fmt.Errorf("unknown orientation %q", s)
}

func (o Orientation) String() string {
	if o == Portrait {
		return "portrait"
	}
	return "landscape"
}

// Options controls the rendered document.
type Options struct {
	Orientation  Orientation
	HideCustomer bool
	HideOrder    bool

	// Title is printed centered at the top of the first page.
	Title string

	// FilterSummary is the applied-filters line under the title; "" when
	// no filters were applied.
	FilterSummary string

	// FontSize is the data-row font size in points.
	FontSize float64

	// FooterCustomerLimit / FooterOrderLimit cap how many distinct values
	// the footer summary names before collapsing to "+k more".
	FooterCustomerLimit int
	FooterOrderLimit    int

	// GeneratedAt stamps the footer and is injectable for reproducible
	// output; the zero value means time.Now().
	GeneratedAt time.Time
}

// =============================================================================
// PAGE GEOMETRY
// =============================================================================

// A4 page size in points.
const (
	a4Short = 595.28
	a4Long  = 841.89
)

// Fixed page margins in points (content region excludes the footer band).
const (
	marginLeft   = 36.0
	marginRight  = 36.0
	marginTop    = 36.0
	marginBottom = 54.0
)

// Vertical metrics in points.
const (
	titleHeight       = 24.0
	summaryLineHeight = 14.0
	headerRowHeight   = 20.0
	cellPaddingX      = 4.0
	cellPaddingY      = 3.0
)

// PageSize returns the page width and height in points.
func (o Orientation) PageSize() (w, h float64) {
	if o == Portrait {
		return a4Short, a4Long
	}
	return a4Long, a4Short
}

// lineHeight is the height of one wrapped text line at the given font size.
func lineHeight(fontSize float64) float64 {
	return fontSize + 3
}

// =============================================================================
// COLUMNS AND WIDTH PRESETS
// =============================================================================

// Column identifies one table column of the rendered document.
type Column struct {
	Key   string
	Title string
}

// Column keys, in fixed rendering order.
const (
	ColCustomer = "customer"
	ColOrder    = "order"
	ColCategory = "category"
	ColProduct  = "product"
	ColBatch    = "batch"
	ColPackage  = "package"
	ColQuantity = "quantity"
	ColCases    = "cases"
	ColPicked   = "picked"
)

var allColumns = []Column{
	{ColCustomer, "Customer"},
	{ColOrder, "Order Number"},
	{ColCategory, "Category"},
	{ColProduct, "Product"},
	{ColBatch, "Batch Number"},
	{ColPackage, "Input Package Number"},
	{ColQuantity, "Quantity"},
	{ColCases, "Cases"},
	{ColPicked, "Picked"},
}

// VisibleColumns returns the column set after applying the hide flags.
func VisibleColumns(opts Options) []Column {
	cols := make([]Column, 0, len(allColumns))
	for _, c := range allColumns {
		if c.Key == ColCustomer && opts.HideCustomer {
			continue
		}
		if c.Key == ColOrder && opts.HideOrder {
			continue
		}
		cols = append(cols, c)
	}
	return cols
}

// presetKey indexes the width preset table.
type presetKey struct {
	Orientation  Orientation
	HideCustomer bool
	HideOrder    bool
}

// widthPresets is the precomputed column-width table, one entry per
// orientation x visible-column combination, widths in points and in
// VisibleColumns order. Widths are presets rather than content-derived so
// the same rows always paginate the same way.
var widthPresets = map[presetKey][]float64{
	{Landscape, false, false}: {86, 72, 58, 151, 72, 72, 43, 43, 58},
	{Landscape, true, false}:  {72, 58, 187, 86, 86, 50, 43, 58},
	{Landscape, false, true}:  {86, 58, 187, 86, 86, 50, 43, 58},
	{Landscape, true, true}:   {65, 209, 94, 94, 58, 43, 65},
	{Portrait, false, false}:  {65, 54, 47, 104, 58, 62, 36, 36, 43},
	{Portrait, true, false}:   {61, 50, 130, 65, 65, 38, 36, 47},
	{Portrait, false, true}:   {65, 50, 130, 65, 65, 38, 36, 47},
	{Portrait, true, true}:    {54, 151, 72, 72, 40, 36, 50},
}

// ColumnWidths returns the preset widths for the options' column set.
func ColumnWidths(opts Options) []float64 {
	return widthPresets[presetKey{opts.Orientation, opts.HideCustomer, opts.HideOrder}]
}

// =============================================================================
// TEXT WRAPPING AND TRUNCATION
// =============================================================================

// Wrap splits text into lines of at most budget characters, breaking at
// hyphens (kept at the end of the line) or spaces (dropped).
//
// BREAK SEARCH:
//
//	Scanning runs backward from the budget boundary; hyphens are searched
//	first, spaces only when no hyphen qualifies. Break positions in the
//	first third of the budget are rejected -- wrapping there would strand a
//	tiny fragment. When no break qualifies within the budget, the line
//	overflows only as far as the first break character beyond it: the
//	straddling token stays unbroken, and everything after it keeps wrapping
//	normally. A line never overflows by more than one unbroken token.
func Wrap(text string, budget int) []string {
	if budget < 1 {
		return []string{text}
	}

	var lines []string
	rest := []rune(text)

	for len(rest) > budget {
		cut := breakPoint(rest, budget)
		if cut < 0 {
			cut = overflowCut(rest, budget)
		}
		if cut < 0 {
			// No break character anywhere: the remainder is one token.
			break
		}

		line := rest[:cut]
		next := cut
		if rest[cut-1] == ' ' {
			line = rest[:cut-1] // spaces are consumed by the break
		}

		lines = append(lines, string(line))
		rest = rest[next:]
	}

	return append(lines, string(rest))
}

// breakPoint finds the rune index to break rest at, or -1 when no break
// character sits in the acceptable window (budget/3, budget].
func breakPoint(rest []rune, budget int) int {
	low := budget / 3
	if low < 1 {
		low = 1
	}

	// Hyphen preferred over space, each searched backward from the budget.
	for _, breakChar := range []rune{'-', ' '} {
		for i := budget; i > low; i-- {
			if rest[i-1] == breakChar {
				return i
			}
		}
	}
	return -1
}

// overflowCut finds the first break character at or past the budget, so an
// unbreakable token overflows alone instead of dragging the rest of the
// text onto its line. Returns -1 when the remainder has no break at all.
func overflowCut(rest []rune, budget int) int {
	for i := budget; i < len(rest); i++ {
		if rest[i] == '-' || rest[i] == ' ' {
			return i + 1
		}
	}
	return -1
}

// WrapToWidth is the budget-aware variant: it estimates the character
// budget from the physical column width and font size, then applies the
// same break-search rule. The 0.55 average-glyph-width factor is tuned for
// Helvetica at report sizes; a different face needs re-tuning, not a
// different rule.
func WrapToWidth(text string, widthPt, fontSize float64) []string {
	budget := int((widthPt - 2*cellPaddingX) / (0.55 * fontSize))
	if budget < 1 {
		budget = 1
	}
	return Wrap(text, budget)
}

// TruncatePackage returns the last 14 characters of a package number.
// These identifiers carry a fixed-width suffix that is the part anyone
// picking reads; longer values lose their left side, shorter values pass
// through unchanged.
func TruncatePackage(s string) string {
	const keep = 14
	runes := []rune(s)
	if len(runes) <= keep {
		return s
	}
	return string(runes[len(runes)-keep:])
}

// =============================================================================
// DOCUMENT MODEL
// =============================================================================

// Cell is one wrapped table cell.
type Cell struct {
	Lines []string
}

// Row is one data row with its resolved height.
type Row struct {
	Cells  []Cell
	Height float64
}

// Page is one laid-out page: the repeated header row plus the data rows
// that fit.
type Page struct {
	Number int
	Rows   []Row
}

// Document is the fully laid-out report, ready for a drawing backend.
type Document struct {
	Orientation Orientation
	Title       string

	// FilterSummary appears under the title on the first page only.
	FilterSummary string

	Columns []Column
	Widths  []float64

	Pages []Page

	// FooterGenerated / FooterSummary repeat on every page; the page number
	// comes from Page.Number.
	FooterGenerated string
	FooterSummary   string

	FontSize    float64
	GeneratedAt time.Time
}

// PageCount returns the number of laid-out pages.
func (d *Document) PageCount() int { return len(d.Pages) }

// =============================================================================
// LAYOUT
// =============================================================================

// Layout computes the paginated document for a filtered row set.
//
// Rows flow onto successive fixed-size pages; the header row repeats at the
// top of every page, and the footer content (generation timestamp, page
// number, distinct customer/order summary over the FULL row set, not the
// page) repeats on all pages.
func Layout(rows []types.NormalizedRow, opts Options) *Document {
	if opts.FontSize <= 0 {
		opts.FontSize = 7
	}
	if opts.FooterCustomerLimit <= 0 {
		opts.FooterCustomerLimit = 3
	}
	if opts.FooterOrderLimit <= 0 {
		opts.FooterOrderLimit = 5
	}
	generatedAt := opts.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now()
	}

	doc := &Document{
		Orientation:     opts.Orientation,
		Title:           opts.Title,
		FilterSummary:   opts.FilterSummary,
		Columns:         VisibleColumns(opts),
		Widths:          ColumnWidths(opts),
		FooterGenerated: "Generated: " + generatedAt.Format("01/02/2006 03:04 PM"),
		FooterSummary:   footerSummary(rows, opts.FooterCustomerLimit, opts.FooterOrderLimit),
		FontSize:        opts.FontSize,
		GeneratedAt:     generatedAt,
	}

	laid := make([]Row, len(rows))
	for i, r := range rows {
		laid[i] = layoutRow(r, doc.Columns, doc.Widths, opts.FontSize)
	}

	doc.Pages = paginate(laid, opts)
	return doc
}

// layoutRow wraps every cell of one normalized row and fixes its height.
func layoutRow(r types.NormalizedRow, cols []Column, widths []float64, fontSize float64) Row {
	cells := make([]Cell, len(cols))
	maxLines := 1

	for i, col := range cols {
		value := cellValue(r, col.Key)
		lines := WrapToWidth(value, widths[i], fontSize)
		cells[i] = Cell{Lines: lines}
		if len(lines) > maxLines {
			maxLines = len(lines)
		}
	}

	return Row{
		Cells:  cells,
		Height: float64(maxLines)*lineHeight(fontSize) + 2*cellPaddingY,
	}
}

// cellValue maps a column key to the row's display value.
func cellValue(r types.NormalizedRow, key string) string {
	switch key {
	case ColCustomer:
		return r.Customer
	case ColOrder:
		return r.OrderNumber
	case ColCategory:
		return r.Category
	case ColProduct:
		return r.Product
	case ColBatch:
		return r.BatchNumber
	case ColPackage:
		return TruncatePackage(r.InputPackageNumber)
	case ColQuantity:
		return r.Quantity
	case ColCases:
		return r.CasesString()
	case ColPicked:
		return "" // blank, marked off by hand
	}
	return ""
}

// paginate flows laid-out rows onto pages.
func paginate(rows []Row, opts Options) []Page {
	_, pageH := opts.Orientation.PageSize()
	usable := pageH - marginTop - marginBottom

	// The first page also carries the title block.
	firstOverhead := headerRowHeight + titleHeight
	if opts.FilterSummary != "" {
		firstOverhead += summaryLineHeight
	}
	laterOverhead := headerRowHeight

	pages := []Page{{Number: 1}}
	remaining := usable - firstOverhead

	for _, row := range rows {
		current := &pages[len(pages)-1]

		// A row taller than an empty page still gets placed alone rather
		// than looping forever.
		if row.Height > remaining && len(current.Rows) > 0 {
			pages = append(pages, Page{Number: len(pages) + 1})
			current = &pages[len(pages)-1]
			remaining = usable - laterOverhead
		}

		current.Rows = append(current.Rows, row)
		remaining -= row.Height
	}

	return pages
}

// =============================================================================
// FOOTER SUMMARY
// =============================================================================

// footerSummary builds the center footer line from the full filtered set:
// up to customerLimit distinct customers and orderLimit distinct order
// numbers, each list collapsing to "+k more" past its limit. Distinct
// values keep their first-appearance order, which for transformed rows is
// the pick-list sort order.
func footerSummary(rows []types.NormalizedRow, customerLimit, orderLimit int) string {
	customers := distinctInOrder(rows, func(r types.NormalizedRow) string { return r.Customer })
	orders := distinctInOrder(rows, func(r types.NormalizedRow) string { return r.OrderNumber })

	var parts []string
	if len(customers) > 0 {
		parts = append(parts, "Customers: "+collapseList(customers, customerLimit))
	}
	if len(orders) > 0 {
		parts = append(parts, "Orders: "+collapseList(orders, orderLimit))
	}
	return strings.Join(parts, "  |  ")
}

// collapseList joins up to limit values, suffixing "+k more" for the rest.
func collapseList(values []string, limit int) string {
	if len(values) <= limit {
		return strings.Join(values, ", ")
	}
	return fmt.Sprintf("%s +%d more", strings.Join(values[:limit], ", "), len(values)-limit)
}

// distinctInOrder returns the distinct keys in first-appearance order.
func distinctInOrder(rows []types.NormalizedRow, key func(types.NormalizedRow) string) []string {
	seen := make(map[string]bool, len(rows))
	var out []string
	for _, row := range rows {
		k := key(row)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

// =============================================================================
// Pick List Generator - Report Layout Engine (PDF backend)
// =============================================================================
//
// This module draws a laid-out Document with go-pdf/fpdf into an in-memory
// buffer. It makes no layout decisions of its own: pages, wrapping and
// widths all come resolved from the layout stage, so the drawing code is a
// straight walk over the document.
//
// STYLING:
//   Dark green header band with white bold text, very light green
//   alternating row fill, medium green grid, gray footer. Helvetica
//   throughout.
//
// =============================================================================

package report

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/cboldwyn/pick-list/internal/types"
)

// Font sizes in points.
const (
	titleFontSize   = 14.0
	summaryFontSize = 9.0
	headerFontSize  = 7.0
	footerFontSize  = 8.0
)

// Render lays out the rows and draws them in one step.
func Render(rows []types.NormalizedRow, opts Options) ([]byte, error) {
	return RenderPDF(Layout(rows, opts))
}

// RenderPDF draws a laid-out document and returns the PDF bytes.
func RenderPDF(doc *Document) ([]byte, error) {
	orient := "L"
	if doc.Orientation == Portrait {
		orient = "P"
	}

	pdf := fpdf.New(orient, "pt", "A4", "")
	pdf.SetMargins(marginLeft, marginTop, marginRight)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetLineWidth(0.5)

	pageW, pageH := doc.Orientation.PageSize()

	for _, page := range doc.Pages {
		pdf.AddPage()

		y := marginTop

		// Title block on the first page only.
		if page.Number == 1 {
			pdf.SetFont("Helvetica", "B", titleFontSize)
			pdf.SetTextColor(51, 102, 51)
			drawCentered(pdf, pageW/2, y+titleFontSize, doc.Title)
			y += titleHeight

			if doc.FilterSummary != "" {
				pdf.SetFont("Helvetica", "I", summaryFontSize)
				pdf.SetTextColor(80, 80, 80)
				pdf.Text(marginLeft, y+summaryFontSize, doc.FilterSummary)
				y += summaryLineHeight
			}
		}

		y = drawHeaderRow(pdf, doc, y)

		for i, row := range page.Rows {
			drawDataRow(pdf, doc, row, y, i%2 == 1)
			y += row.Height
		}

		drawFooter(pdf, doc, page.Number, pageW, pageH)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// drawHeaderRow paints the repeated column-header band and returns the y
// coordinate below it.
func drawHeaderRow(pdf *fpdf.Fpdf, doc *Document, y float64) float64 {
	pdf.SetFillColor(64, 115, 64)
	pdf.SetDrawColor(102, 153, 102)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", headerFontSize)

	x := marginLeft
	for i, col := range doc.Columns {
		w := doc.Widths[i]
		pdf.Rect(x, y, w, headerRowHeight, "FD")

		lines := WrapToWidth(col.Title, w, headerFontSize)
		ty := y + cellPaddingY + headerFontSize
		for _, line := range lines {
			drawCentered(pdf, x+w/2, ty, line)
			ty += lineHeight(headerFontSize)
		}

		x += w
	}

	return y + headerRowHeight
}

// drawDataRow paints one data row's fill, grid and wrapped text.
func drawDataRow(pdf *fpdf.Fpdf, doc *Document, row Row, y float64, shaded bool) {
	pdf.SetDrawColor(102, 153, 102)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", doc.FontSize)

	x := marginLeft
	for i, cell := range row.Cells {
		w := doc.Widths[i]

		if shaded {
			pdf.SetFillColor(242, 247, 242)
			pdf.Rect(x, y, w, row.Height, "FD")
		} else {
			pdf.Rect(x, y, w, row.Height, "D")
		}

		// Text is top-aligned so wrapped cells read naturally.
		ty := y + cellPaddingY + doc.FontSize
		for _, line := range cell.Lines {
			pdf.Text(x+cellPaddingX, ty, line)
			ty += lineHeight(doc.FontSize)
		}

		x += w
	}
}

// drawFooter paints the per-page footer: generation timestamp left, page
// number right, distinct customer/order summary centered.
func drawFooter(pdf *fpdf.Fpdf, doc *Document, pageNumber int, pageW, pageH float64) {
	pdf.SetFont("Helvetica", "", footerFontSize)
	pdf.SetTextColor(102, 102, 102)

	y := pageH - marginBottom + 24

	pdf.Text(marginLeft, y, doc.FooterGenerated)

	pageText := fmt.Sprintf("Page %d", pageNumber)
	pdf.Text(pageW-marginRight-pdf.GetStringWidth(pageText), y, pageText)

	if doc.FooterSummary != "" {
		drawCentered(pdf, pageW/2, y, doc.FooterSummary)
	}
}

// drawCentered draws text centered horizontally on cx with baseline y.
func drawCentered(pdf *fpdf.Fpdf, cx, y float64, text string) {
	pdf.Text(cx-pdf.GetStringWidth(text)/2, y, text)
}

// =============================================================================
// Pick List Generator - CSV Parser Module
// =============================================================================
//
// This module is responsible for parsing the delimited-text exports that feed
// the pipeline. The inventory system prepends a fixed 3-line metadata block
// to its sales-order and assembly exports; the product catalog export carries
// no such block. Both cases go through the same rectangular-table parsing,
// differing only in the configured number of metadata rows to skip.
//
// PARSING CONVENTIONS:
//   - The metadata block is skipped unconditionally by line count, never
//     content-sniffed.
//   - The first retained line is the header row.
//   - Data rows with fewer fields than the header are padded with empty
//     strings; rows with more fields than the header make the table
//     non-rectangular and fail the load.
//   - Fully empty rows are dropped.
//
// All failures are reported as *types.LoadError and abort the pipeline for
// that file. There is no partial-success mode.
//
// =============================================================================

package csvparser

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/cboldwyn/pick-list/internal/config"
	"github.com/cboldwyn/pick-list/internal/types"
)

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a delimited-text export from disk and returns the parsed table.
//
// PARAMETERS:
//   - filePath: The path to the export file.
//   - settings: Delimiter and metadata-skip settings from the configuration.
//
// RETURNS:
//   - A pointer to the parsed Table.
//   - A *types.LoadError if the file cannot be read or parsed.
func Parse(filePath string, settings config.CSVSettings) (*types.Table, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, &types.LoadError{Source: filePath, Reason: "cannot read file", Err: err}
	}

	table, err := ParseBytes(data, settings)
	if err != nil {
		if le, ok := err.(*types.LoadError); ok {
			le.Source = filePath
		}
		return nil, err
	}

	table.SourceFile = filePath
	return table, nil
}

// ParseBytes parses raw export bytes into a table.
//
// PROCESS:
//  1. Decode the bytes as UTF-8 text.
//  2. Split on newline and discard exactly settings.MetadataRows leading lines.
//  3. Parse the remainder as a delimited table; the first retained line is
//     the header row.
//  4. Convert each data row to a map of header -> value.
func ParseBytes(data []byte, settings config.CSVSettings) (*types.Table, error) {
	if !utf8.Valid(data) {
		return nil, &types.LoadError{Source: "input", Reason: "content is not valid UTF-8"}
	}

	content := string(data)
	lines := strings.Split(content, "\n")

	// The skip is strictly positional: MetadataRows lines go, whatever they
	// contain. A file without enough lines left over has no header to parse.
	if countNonTrailingLines(lines) < settings.MetadataRows+1 {
		return nil, &types.LoadError{
			Source: "input",
			Reason: fmt.Sprintf("file has no header row after skipping %d metadata line(s)", settings.MetadataRows),
		}
	}

	body := strings.Join(lines[settings.MetadataRows:], "\n")

	reader := csv.NewReader(strings.NewReader(body))
	configureReader(reader, settings)

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, &types.LoadError{Source: "input", Reason: "malformed delimited text", Err: err}
	}

	return FromRows(allRows)
}

// FromRows builds a table from already-split rows where the first row is the
// header. This is the rectangular-table step shared by the CSV and XLSX
// loader paths.
func FromRows(allRows [][]string) (*types.Table, error) {
	if len(allRows) == 0 {
		return nil, &types.LoadError{Source: "input", Reason: "no header row found after metadata skip"}
	}

	headers := cleanHeaders(allRows[0])

	dataRows, rawRows, err := extractDataRows(allRows[1:], headers)
	if err != nil {
		return nil, err
	}

	return &types.Table{
		Headers:     headers,
		Rows:        dataRows,
		RawRows:     rawRows,
		RowCount:    len(dataRows),
		ColumnCount: len(headers),
	}, nil
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings config.CSVSettings) {
	switch settings.Delimiter {
	case "\\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	default:
		if len(settings.Delimiter) > 0 {
			reader.Comma = rune(settings.Delimiter[0])
		} else {
			reader.Comma = ','
		}
	}

	// Field-count consistency is checked against the header in
	// extractDataRows, where short rows are tolerated and padded.
	reader.FieldsPerRecord = -1

	// Allow lazy quotes (quotes that don't follow strict CSV rules).
	reader.LazyQuotes = true

	// Trim leading space from fields.
	reader.TrimLeadingSpace = true
}

// cleanHeaders trims header values and names any empty headers by position.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))

	for i, header := range headers {
		header = strings.TrimSpace(header)
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}
		cleaned[i] = header
	}

	return cleaned
}

// extractDataRows converts raw rows to header-keyed maps.
//
// Rows shorter than the header are padded with empty strings (the export
// occasionally drops trailing delimiters on sparse rows). Rows longer than
// the header have no column to land in and fail the load -- the table is
// not rectangular.
func extractDataRows(raw [][]string, headers []string) ([]map[string]string, [][]string, error) {
	dataRows := make([]map[string]string, 0, len(raw))
	rawRows := make([][]string, 0, len(raw))

	for i, row := range raw {
		if isRowEmpty(row) {
			continue
		}

		if len(row) > len(headers) {
			return nil, nil, &types.LoadError{
				Source: "input",
				Reason: fmt.Sprintf("row %d has %d fields but the header has %d columns", i+1, len(row), len(headers)),
			}
		}

		rowMap := make(map[string]string, len(headers))
		for colIndex, header := range headers {
			if colIndex < len(row) {
				rowMap[header] = strings.TrimSpace(row[colIndex])
			} else {
				rowMap[header] = ""
			}
		}

		dataRows = append(dataRows, rowMap)
		rawRows = append(rawRows, row)
	}

	return dataRows, rawRows, nil
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// countNonTrailingLines counts lines, ignoring a single trailing empty line
// left behind by a final newline. strings.Split turns "a\nb\n" into three
// elements; the export convention counts that as two lines.
func countNonTrailingLines(lines []string) int {
	n := len(lines)
	if n > 0 && lines[n-1] == "" {
		n--
	}
	return n
}

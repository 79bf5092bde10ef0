package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "./output", cfg.OutputDir)
	assert.Equal(t, "./archive", cfg.ArchiveDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ",", cfg.CSV.Delimiter)
	assert.Equal(t, 3, cfg.CSV.MetadataRows)
	assert.Equal(t, "Customer", cfg.Columns.Sales.Customer)
	assert.Equal(t, "Package Label", cfg.Columns.Sales.PackageLabel)
	assert.Equal(t, "Input/Output", cfg.Columns.Assembly.Direction)
	assert.Equal(t, "Units Per Case", cfg.Columns.Products.UnitsPerCase)
	assert.Equal(t, "Sales Order Pick List", cfg.Report.Title)
	assert.Equal(t, "landscape", cfg.Report.Orientation)
	assert.Equal(t, 7.0, cfg.Report.FontSize)
	assert.Equal(t, 3, cfg.Report.FooterCustomerLimit)
	assert.Equal(t, 5, cfg.Report.FooterOrderLimit)
	assert.Equal(t, "pick_list_{timestamp}.csv", cfg.Artifacts.CSVNameFormat)
	assert.Equal(t, "pick_list_report_{timestamp}.pdf", cfg.Artifacts.PDFNameFormat)
}

func TestLoad_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	cfg, err := Load(missing, true)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = Load(missing, false)
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestLoad_OverridesMergeWithDefaults(t *testing.T) {
	path := writeConfig(t, `
output_dir: /tmp/picklists
csv_settings:
  delimiter: "|"
columns:
  sales:
    customer: "Client Name"
report:
  orientation: portrait
  hide_customer: true
`)

	cfg, err := Load(path, false)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/picklists", cfg.OutputDir)
	assert.Equal(t, "|", cfg.CSV.Delimiter)
	assert.Equal(t, "Client Name", cfg.Columns.Sales.Customer)
	assert.Equal(t, "portrait", cfg.Report.Orientation)
	assert.True(t, cfg.Report.HideCustomer)

	// Untouched fields keep their defaults.
	assert.Equal(t, 3, cfg.CSV.MetadataRows)
	assert.Equal(t, "Order Number", cfg.Columns.Sales.OrderNumber)
	assert.Equal(t, "Sales Order Pick List", cfg.Report.Title)
}

func TestLoad_ExplicitZeroMetadataRowsSurvives(t *testing.T) {
	path := writeConfig(t, `
csv_settings:
  metadata_rows: 0
`)

	cfg, err := Load(path, false)
	require.NoError(t, err)

	// A preamble-free export is a valid configuration: the explicit zero is
	// not mistaken for "unset" and promoted back to the default of 3.
	assert.Equal(t, 0, cfg.CSV.MetadataRows)
	assert.Equal(t, ",", cfg.CSV.Delimiter) // sibling default untouched
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "output_dir: [unclosed")

	_, err := Load(path, false)
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"bad orientation", "report:\n  orientation: diagonal\n", "report.orientation"},
		{"bad log level", "log_level: trace\n", "log_level"},
		{"negative metadata rows", "csv_settings:\n  metadata_rows: -1\n", "metadata_rows"},
		{"negative font size", "report:\n  font_size: -2\n", "font_size"},
		{"explicit zero font size", "report:\n  font_size: 0\n", "font_size"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.yaml), false)
			require.Error(t, err)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestCSVSettings_WithMetadataRows(t *testing.T) {
	base := CSVSettings{Delimiter: "|", MetadataRows: 3}
	got := base.WithMetadataRows(0)

	assert.Equal(t, 0, got.MetadataRows)
	assert.Equal(t, "|", got.Delimiter)
	assert.Equal(t, 3, base.MetadataRows) // original untouched
}

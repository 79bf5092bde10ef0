// =============================================================================
// Pick List Generator - Configuration Module
// =============================================================================
//
// This module is responsible for loading and managing the application
// configuration. Everything lives in a single YAML file (config.yaml by
// default) with sensible defaults applied in code, so the tool works with no
// configuration file at all.
//
// CONFIGURATION SECTIONS:
//   1. Directories: where generated artifacts and archived inputs go
//   2. CSV settings: delimiter and the fixed metadata-header skip
//   3. Column mappings: the exact header names in the three exports
//   4. Report settings: orientation, hidden columns, fonts, footer limits
//   5. Artifact naming: format strings with {timestamp}/{uuid} placeholders
//
// =============================================================================

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// CONFIGURATION STRUCTURES
// =============================================================================

// Config holds the full application configuration.
type Config struct {
	// OutputDir is the directory where generated artifacts are placed.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// ArchiveDir is the directory where source exports are moved after
	// successful processing. Default: "./archive"
	ArchiveDir string `yaml:"archive_dir"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error". Default: "info"
	LogLevel string `yaml:"log_level"`

	// CSV contains the delimited-text parsing settings shared by the
	// sales-order and assembly loaders. The product catalog uses the same
	// delimiter but carries no metadata preamble.
	CSV CSVSettings `yaml:"csv_settings"`

	// Columns maps the pipeline's logical fields to the exact column
	// headers used by the exports.
	Columns ColumnMappings `yaml:"columns"`

	// Report contains the layout settings for the rendered document.
	Report ReportSettings `yaml:"report"`

	// Artifacts contains the naming formats for generated files.
	Artifacts ArtifactSettings `yaml:"artifacts"`
}

// CSVSettings contains settings for parsing delimited-text exports.
type CSVSettings struct {
	// Delimiter is the character used to separate fields.
	// Common values: "," (comma), "|" (pipe), "\t" (tab). Default: ","
	Delimiter string `yaml:"delimiter"`

	// MetadataRows is the number of non-tabular metadata lines the export
	// prepends before the header row. The skip is strictly positional.
	// Default: 3 for sales/assembly exports; the product loader passes 0.
	MetadataRows int `yaml:"metadata_rows"`
}

// WithMetadataRows returns a copy of the settings with the skip overridden.
// The product catalog path uses this to share the delimiter configuration.
func (s CSVSettings) WithMetadataRows(n int) CSVSettings {
	s.MetadataRows = n
	return s
}

// ColumnMappings names the expected column headers per source table.
type ColumnMappings struct {
	Sales    SalesColumns    `yaml:"sales"`
	Assembly AssemblyColumns `yaml:"assembly"`
	Products ProductColumns  `yaml:"products"`
}

// SalesColumns names the required sales-order export columns.
type SalesColumns struct {
	Customer    string `yaml:"customer"`
	OrderNumber string `yaml:"order_number"`
	Category    string `yaml:"category"`
	Product     string `yaml:"product"`

	// ProductID is only required when a product catalog is supplied.
	ProductID string `yaml:"product_id"`

	BatchNumber  string `yaml:"batch_number"`
	PackageLabel string `yaml:"package_label"`
	Quantity     string `yaml:"quantity"`
}

// AssemblyColumns names the required assembly export columns.
type AssemblyColumns struct {
	// Direction is the Input/Output column; its values are matched exactly
	// against the literals "Input" and "Output".
	Direction     string `yaml:"direction"`
	PackageNumber string `yaml:"package_number"`
	AssemblyNum   string `yaml:"assembly_number"`
}

// ProductColumns names the required product catalog columns.
type ProductColumns struct {
	ID           string `yaml:"id"`
	UnitsPerCase string `yaml:"units_per_case"`
}

// ReportSettings controls the rendered document's layout.
type ReportSettings struct {
	// Title is printed centered at the top of the first page.
	// Default: "Sales Order Pick List"
	Title string `yaml:"title"`

	// Orientation is "landscape" or "portrait". Default: "landscape"
	Orientation string `yaml:"orientation"`

	// HideCustomer omits the Customer column from the rendered table.
	HideCustomer bool `yaml:"hide_customer"`

	// HideOrder omits the Order Number column from the rendered table.
	HideOrder bool `yaml:"hide_order"`

	// FontSize is the data-row font size in points. Default: 7
	FontSize float64 `yaml:"font_size"`

	// FooterCustomerLimit is the maximum number of distinct customers named
	// in the footer summary before collapsing to "+k more". Default: 3
	FooterCustomerLimit int `yaml:"footer_customer_limit"`

	// FooterOrderLimit is the corresponding limit for order numbers.
	// Default: 5
	FooterOrderLimit int `yaml:"footer_order_limit"`
}

// ArtifactSettings controls generated file names.
//
// Placeholders:
//
//	{timestamp} - compact generation time (YYYYMMDD_HHMMSS)
//	{uuid}      - a random UUID
type ArtifactSettings struct {
	// CSVNameFormat is the name format for the normalized-table export.
	// Default: "pick_list_{timestamp}.csv"
	CSVNameFormat string `yaml:"csv_name_format"`

	// PDFNameFormat is the name format for the rendered document.
	// Default: "pick_list_report_{timestamp}.pdf"
	PDFNameFormat string `yaml:"pdf_name_format"`
}

// =============================================================================
// CONFIGURATION LOADING
// =============================================================================

// Load reads the configuration from a YAML file and validates it. The file
// is unmarshalled OVER the built-in defaults: keys absent from the file keep
// their default, while explicit values -- including explicit zeros like
// metadata_rows: 0 for a preamble-free export -- always win. A missing file
// is not an error when allowMissing is set: the defaults are used as-is, so
// the tool runs without any config file.
func Load(configPath string, allowMissing bool) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) && allowMissing {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

// applyDefaults fills in the built-in default values. Load unmarshals the
// file over the result, so this only ever runs on a zero Config.
func applyDefaults(cfg *Config) {
	if cfg.OutputDir == "" {
		cfg.OutputDir = "./output"
	}
	if cfg.ArchiveDir == "" {
		cfg.ArchiveDir = "./archive"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	// CSV settings defaults.
	if cfg.CSV.Delimiter == "" {
		cfg.CSV.Delimiter = ","
	}
	if cfg.CSV.MetadataRows == 0 {
		cfg.CSV.MetadataRows = 3
	}

	// Column mapping defaults match the inventory system's exports.
	sales := &cfg.Columns.Sales
	if sales.Customer == "" {
		sales.Customer = "Customer"
	}
	if sales.OrderNumber == "" {
		sales.OrderNumber = "Order Number"
	}
	if sales.Category == "" {
		sales.Category = "Category"
	}
	if sales.Product == "" {
		sales.Product = "Product"
	}
	if sales.ProductID == "" {
		sales.ProductID = "Product Id"
	}
	if sales.BatchNumber == "" {
		sales.BatchNumber = "Package Batch Number"
	}
	if sales.PackageLabel == "" {
		sales.PackageLabel = "Package Label"
	}
	if sales.Quantity == "" {
		sales.Quantity = "Quantity"
	}

	assembly := &cfg.Columns.Assembly
	if assembly.Direction == "" {
		assembly.Direction = "Input/Output"
	}
	if assembly.PackageNumber == "" {
		assembly.PackageNumber = "Package Number"
	}
	if assembly.AssemblyNum == "" {
		assembly.AssemblyNum = "Assembly Number"
	}

	products := &cfg.Columns.Products
	if products.ID == "" {
		products.ID = "ID"
	}
	if products.UnitsPerCase == "" {
		products.UnitsPerCase = "Units Per Case"
	}

	// Report defaults.
	if cfg.Report.Title == "" {
		cfg.Report.Title = "Sales Order Pick List"
	}
	if cfg.Report.Orientation == "" {
		cfg.Report.Orientation = "landscape"
	}
	if cfg.Report.FontSize == 0 {
		cfg.Report.FontSize = 7
	}
	if cfg.Report.FooterCustomerLimit == 0 {
		cfg.Report.FooterCustomerLimit = 3
	}
	if cfg.Report.FooterOrderLimit == 0 {
		cfg.Report.FooterOrderLimit = 5
	}

	// Artifact naming defaults.
	if cfg.Artifacts.CSVNameFormat == "" {
		cfg.Artifacts.CSVNameFormat = "pick_list_{timestamp}.csv"
	}
	if cfg.Artifacts.PDFNameFormat == "" {
		cfg.Artifacts.PDFNameFormat = "pick_list_report_{timestamp}.pdf"
	}
}

// validate checks the loaded configuration for values the pipeline cannot
// work with.
func validate(cfg *Config) error {
	if cfg.CSV.MetadataRows < 0 {
		return fmt.Errorf("csv_settings.metadata_rows must not be negative")
	}

	switch cfg.Report.Orientation {
	case "landscape", "portrait":
	default:
		return fmt.Errorf("report.orientation must be \"landscape\" or \"portrait\", got %q", cfg.Report.Orientation)
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error; got %q", cfg.LogLevel)
	}

	if cfg.Report.FontSize <= 0 {
		return fmt.Errorf("report.font_size must be positive")
	}

	return nil
}

// =============================================================================
// Pick List Generator - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands ('process', 'filters', 'version')
// are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (picklist)
//   ├── processCmd (picklist process)
//   ├── filtersCmd (picklist filters)
//   └── versionCmd (picklist version)
//
// The root command owns the global flags (--config, --verbose), loads the
// configuration, and builds the zap logger the pipeline logs through.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cboldwyn/pick-list/internal/config"
	"github.com/cboldwyn/pick-list/internal/pipeline"
)

// =============================================================================
// GLOBAL FLAGS
// =============================================================================

// cfgFile holds the path to the configuration file.
var cfgFile string

// verbose enables debug-level logging.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "picklist",
	Short: "Pick List Generator - Build fulfillment pick lists from inventory exports",
	Long: `Pick List Generator joins sales-order and assembly exports through the
package/assembly lookup chain and produces a filterable pick list as a CSV
table and a paginated PDF report.

The tool expects the inventory system's exports as delimited text (with the
fixed 3-line metadata preamble) or as XLSX workbooks. An optional product
catalog adds a cases column (quantity divided by units per case).

Example Usage:
  picklist process --sales so.csv --assembly asm.csv
  picklist process --sales so.csv --assembly asm.csv --products catalog.csv \
      --customers "Acme" --orientation portrait
  picklist filters --sales so.csv --assembly asm.csv --customers "Acme"`,

	Run: func(cmd *cobra.Command, args []string) {
		// If no subcommand is provided, print the help message.
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// init sets up the persistent flags shared by every subcommand.
func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)
}

// =============================================================================
// SHARED COMMAND SETUP
// =============================================================================

// loadConfig reads the configuration file named by --config. A missing file
// falls back to the built-in defaults; only an explicit --config value must
// exist.
func loadConfig() (*config.Config, error) {
	allowMissing := !rootCmd.PersistentFlags().Changed("config")
	return config.Load(cfgFile, allowMissing)
}

// newLogger builds the zap-backed pipeline logger. --verbose switches to
// the development config at debug level.
func newLogger(cfg *config.Config) (pipeline.Logger, func(), error) {
	var zc zap.Config
	if verbose {
		zc = zap.NewDevelopmentConfig()
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		zc = zap.NewProductionConfig()
		zc.Level = zap.NewAtomicLevelAt(parseLevel(cfg.LogLevel))
	}

	logger, err := zc.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}

	sugar := logger.Sugar()
	return zapAdapter{sugar}, func() { _ = logger.Sync() }, nil
}

// parseLevel maps the config log level to a zap level.
func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// zapAdapter bridges zap's sugared logger to the pipeline.Logger interface.
type zapAdapter struct {
	s *zap.SugaredLogger
}

func (a zapAdapter) Debug(msg string, kv ...interface{}) { a.s.Debugw(msg, kv...) }
func (a zapAdapter) Info(msg string, kv ...interface{})  { a.s.Infow(msg, kv...) }
func (a zapAdapter) Warn(msg string, kv ...interface{})  { a.s.Warnw(msg, kv...) }
func (a zapAdapter) Error(msg string, kv ...interface{}) { a.s.Errorw(msg, kv...) }

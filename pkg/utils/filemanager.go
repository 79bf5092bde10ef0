// =============================================================================
// Pick List Generator - File Manager Utilities
// =============================================================================
//
// This module handles everything that touches the filesystem around the
// pipeline: artifact naming, output/archive directory management, archival
// of processed source exports, and the per-run summary log.
//
// ARTIFACT NAMING:
//   Names come from format strings with placeholders:
//     {timestamp} - compact generation time (YYYYMMDD_HHMMSS)
//     {uuid}      - a random UUID
//   The defaults produce pick_list_<compact-datetime>.csv and
//   pick_list_report_<compact-datetime>.pdf.
//
// =============================================================================

package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager owns the output and archive directories.
type FileManager struct {
	// OutputDir is where generated artifacts are written.
	OutputDir string

	// ArchiveDir is where source exports are moved after successful
	// processing.
	ArchiveDir string
}

// NewFileManager creates a file manager for the given directories.
func NewFileManager(outputDir, archiveDir string) *FileManager {
	return &FileManager{
		OutputDir:  outputDir,
		ArchiveDir: archiveDir,
	}
}

// EnsureDirectories creates the managed directories if they don't exist.
func (fm *FileManager) EnsureDirectories() error {
	for _, dir := range []string{fm.OutputDir, fm.ArchiveDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// WriteArtifact writes data to a file in the output directory and returns
// its full path.
func (fm *FileManager) WriteArtifact(name string, data []byte) (string, error) {
	path := filepath.Join(fm.OutputDir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// ArchiveInputFile moves a processed source export into the archive
// directory. A timestamp suffix keeps repeated archives of the same export
// name from colliding.
func (fm *FileManager) ArchiveInputFile(filePath string) (string, error) {
	archivePath := fm.archivePath(filePath)

	// Rename first; fall back to copy+remove for cross-device moves.
	if err := os.Rename(filePath, archivePath); err != nil {
		if copyErr := copyFile(filePath, archivePath); copyErr != nil {
			return "", fmt.Errorf("failed to archive %s: %w", filePath, copyErr)
		}
		if rmErr := os.Remove(filePath); rmErr != nil {
			return "", fmt.Errorf("failed to remove %s after archiving: %w", filePath, rmErr)
		}
	}

	return archivePath, nil
}

// archivePath builds a collision-safe destination path for an archived file.
func (fm *FileManager) archivePath(filePath string) string {
	base := filepath.Base(filePath)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	candidate := filepath.Join(fm.ArchiveDir, base)
	if !FileExists(candidate) {
		return candidate
	}

	stamp := time.Now().Format("20060102_150405")
	return filepath.Join(fm.ArchiveDir, fmt.Sprintf("%s_%s%s", stem, stamp, ext))
}

// =============================================================================
// ARTIFACT NAMING
// =============================================================================

// GenerateArtifactName expands an artifact name format.
//
// PLACEHOLDERS:
//   - {timestamp}: now formatted as YYYYMMDD_HHMMSS
//   - {uuid}:      a random UUID
func GenerateArtifactName(format string, now time.Time) string {
	name := format
	name = strings.ReplaceAll(name, "{timestamp}", now.Format("20060102_150405"))
	if strings.Contains(name, "{uuid}") {
		name = strings.ReplaceAll(name, "{uuid}", uuid.New().String())
	}
	return name
}

// =============================================================================
// RUN SUMMARY LOG
// =============================================================================

// RunSummary describes one pipeline run for the summary log.
type RunSummary struct {
	// RunID uniquely identifies the run.
	RunID string

	StartTime time.Time
	EndTime   time.Time

	// Source files, in load order.
	SourceFiles []string

	// Row counts through the pipeline stages.
	SalesRows      int
	NormalizedRows int
	FilteredRows   int

	// Generated artifact paths.
	Artifacts []string

	// FilterSummary is the applied-filters line, "" when unfiltered.
	FilterSummary string
}

// NewRunSummary starts a summary with a fresh run ID.
func NewRunSummary() *RunSummary {
	return &RunSummary{
		RunID:     uuid.New().String(),
		StartTime: time.Now(),
	}
}

// WriteSummaryLog appends a human-readable run record to picklist_runs.log
// in the output directory and returns the log path.
func (fm *FileManager) WriteSummaryLog(summary *RunSummary) (string, error) {
	path := filepath.Join(fm.OutputDir, "picklist_runs.log")

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to open summary log: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	fmt.Fprintf(&b, "=== Run %s ===\n", summary.RunID)
	fmt.Fprintf(&b, "Started:    %s\n", summary.StartTime.Format(time.RFC3339))
	fmt.Fprintf(&b, "Finished:   %s (%s)\n", summary.EndTime.Format(time.RFC3339), summary.EndTime.Sub(summary.StartTime).Round(time.Millisecond))
	fmt.Fprintf(&b, "Sources:    %s\n", strings.Join(summary.SourceFiles, ", "))
	fmt.Fprintf(&b, "Rows:       %d sales -> %d normalized -> %d after filters\n",
		summary.SalesRows, summary.NormalizedRows, summary.FilteredRows)
	if summary.FilterSummary != "" {
		fmt.Fprintf(&b, "Filters:    %s\n", summary.FilterSummary)
	}
	for _, artifact := range summary.Artifacts {
		fmt.Fprintf(&b, "Artifact:   %s\n", artifact)
	}
	b.WriteString("\n")

	if _, err := f.WriteString(b.String()); err != nil {
		return "", fmt.Errorf("failed to write summary log: %w", err)
	}

	return path, nil
}

// =============================================================================
// SMALL HELPERS
// =============================================================================

// FileExists checks if a file exists at the given path.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// copyFile copies src to dst, creating or truncating dst.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}

	return out.Sync()
}

package home

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultDirName is the default name for the vitals home directory.
	DefaultDirName = ".vitals"

	// ReportsDirName is the subdirectory for lab report data.
	ReportsDirName = "reports"

	// WhoopDirName is the subdirectory for synced WHOOP data files.
	WhoopDirName = "whoop"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"

	// VocabularyFileName is the optional taxonomy vocabulary override file.
	VocabularyFileName = "taxonomy.yaml"
)

// Dir represents the vitals home directory structure.
type Dir struct {
	path string
}

// New creates a new Dir with the given path.
// If path is empty, uses the default (~/.vitals).
func New(path string) (*Dir, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(home, DefaultDirName)
	}

	return &Dir{path: path}, nil
}

// Path returns the root path of the home directory.
func (d *Dir) Path() string {
	return d.path
}

// ConfigPath returns the path to the default config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// VocabularyPath returns the path to the taxonomy vocabulary override file.
func (d *Dir) VocabularyPath() string {
	return filepath.Join(d.path, VocabularyFileName)
}

// ReportsPath returns the directory holding all consolidated reports.
func (d *Dir) ReportsPath() string {
	return filepath.Join(d.path, ReportsDirName)
}

// ReportDir returns the directory for a single report.
func (d *Dir) ReportDir(reportID string) string {
	return filepath.Join(d.ReportsPath(), reportID)
}

// ReportJSONPath returns the path to a report's consolidated JSON.
func (d *Dir) ReportJSONPath(reportID string) string {
	return filepath.Join(d.ReportDir(reportID), "report.json")
}

// ReportPDFPath returns the path where a report's original PDF is kept.
func (d *Dir) ReportPDFPath(reportID string) string {
	return filepath.Join(d.ReportDir(reportID), "original.pdf")
}

// WhoopPath returns the directory holding synced WHOOP data files.
func (d *Dir) WhoopPath() string {
	return filepath.Join(d.path, WhoopDirName)
}

// EnsureExists creates the home directory and subdirectories if they don't exist.
func (d *Dir) EnsureExists() error {
	for _, dir := range []string{d.ReportsPath(), d.WhoopPath()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// EnsureReportDir creates the directory for a single report.
func (d *Dir) EnsureReportDir(reportID string) error {
	return os.MkdirAll(d.ReportDir(reportID), 0o755)
}

// Exists returns true if the home directory exists.
func (d *Dir) Exists() bool {
	_, err := os.Stat(d.path)
	return err == nil
}

// ConfigExists returns true if the config file exists in the home directory.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}

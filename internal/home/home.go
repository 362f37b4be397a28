// Package home manages the rollscan work area on disk: rendered page images
// per run and raw dumps of pages that failed structured parsing.
package home

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultDirName is the default name for the rollscan home directory.
	DefaultDirName = ".rollscan"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"
)

// Dir represents the rollscan home directory structure.
type Dir struct {
	path string
}

// New creates a new Dir with the given path.
// If path is empty, uses the default (~/.rollscan).
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

// ConfigExists returns true if the config file exists in the home directory.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}

// EnsureExists creates the home directory if it doesn't exist.
func (d *Dir) EnsureExists() error {
	if err := os.MkdirAll(d.path, 0o755); err != nil {
		return fmt.Errorf("failed to create home directory: %w", err)
	}
	return nil
}

// PageImagesDir returns the directory for rendered page images of a run.
func (d *Dir) PageImagesDir(runID string) string {
	return filepath.Join(d.path, "pages", runID)
}

// PageImagePath returns the path to a specific rendered page image.
// Page numbers are 1-indexed.
func (d *Dir) PageImagePath(runID string, pageNum int) string {
	return filepath.Join(d.PageImagesDir(runID), fmt.Sprintf("page_%04d.png", pageNum))
}

// EnsurePageImagesDir creates the page image directory for a run.
func (d *Dir) EnsurePageImagesDir(runID string) error {
	return os.MkdirAll(d.PageImagesDir(runID), 0o755)
}

// FailedDumpsDir returns the directory holding raw responses of failed pages.
func (d *Dir) FailedDumpsDir() string {
	return filepath.Join(d.path, "failed")
}

// FailedDumpPath returns the dump path for a failed page.
func (d *Dir) FailedDumpPath(pageNum int) string {
	return filepath.Join(d.FailedDumpsDir(), fmt.Sprintf("failed_page_%04d.txt", pageNum))
}

// WriteFailedDump saves the raw response of a failed page for debugging.
// Returns the dump path.
func (d *Dir) WriteFailedDump(pageNum int, raw string) (string, error) {
	if err := os.MkdirAll(d.FailedDumpsDir(), 0o755); err != nil {
		return "", fmt.Errorf("failed to create dumps directory: %w", err)
	}
	path := d.FailedDumpPath(pageNum)
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		return "", fmt.Errorf("failed to write dump: %w", err)
	}
	return path, nil
}

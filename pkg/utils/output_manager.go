package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// OutputManager handles output file organization and path management
type OutputManager struct {
	BaseOutputDir string
}

// NewOutputManager creates a new output manager
func NewOutputManager(baseOutputDir string) *OutputManager {
	return &OutputManager{
		BaseOutputDir: baseOutputDir,
	}
}

// RangeDir returns the directory for one date range without creating it
func (om *OutputManager) RangeDir(rangeLabel string) string {
	return filepath.Join(om.BaseOutputDir, filepath.Base(rangeLabel))
}

// CreateRangeDir creates the directory for a date range's outputs.
// An existing directory is not an error.
func (om *OutputManager) CreateRangeDir(rangeLabel string) (string, error) {
	dir := om.RangeDir(rangeLabel)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	return dir, nil
}

// GetOutputFilePath creates the range directory and returns the full path
// for fileName inside it
func (om *OutputManager) GetOutputFilePath(rangeLabel, fileName string) (string, error) {
	dir, err := om.CreateRangeDir(rangeLabel)
	if err != nil {
		return "", err
	}

	// Clean the filename to remove any path separators
	cleanFileName := filepath.Base(fileName)

	return filepath.Join(dir, cleanFileName), nil
}

// GetDownloadURL generates the API download URL for an export
func (om *OutputManager) GetDownloadURL(exportID string) string {
	return fmt.Sprintf("/api/v1/exports/%s/download", exportID)
}

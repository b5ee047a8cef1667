// Package output writes analysis reports to files.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"socheck/internal/analyze"
)

// WriteReportJSON writes the full report to the given path.
func WriteReportJSON(path string, rep *analyze.Report) error {
	return writeJSON(path, rep)
}

// WriteReportDir writes the report as report.json inside dir, creating
// the directory if needed.
func WriteReportDir(dir string, rep *analyze.Report) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("output: mkdir %s: %w", dir, err)
	}
	return writeJSON(filepath.Join(dir, "report.json"), rep)
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("output: create %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("output: encode %s: %w", path, err)
	}
	return nil
}

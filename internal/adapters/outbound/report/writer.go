package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// TempSuffix is appended to a report path while it is being written.
const TempSuffix = ".tmp"

// TempName returns the temporary sibling WriteJSON writes before renaming
// it to name.
func TempName(name string) string {
	return name + TempSuffix
}

// JSONWriter implements domain.ReportWriter with indented JSON files.
type JSONWriter struct{}

// New creates a JSON report writer.
func New() *JSONWriter {
	return &JSONWriter{}
}

// WriteJSON writes v to path, creating parent directories as needed. The
// file is written to a temporary sibling first and renamed into place.
func (w *JSONWriter) WriteJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	data = append(data, '\n')

	tmp := TempName(path)
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Package project persists catalogs, sheet presets and optimization runs as
// JSON files under the user's data directory.
package project

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// DefaultDataDir returns the directory application data is stored in.
// On all platforms this is ~/.stripcut/
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".stripcut")
}

// DefaultRunsDir returns the directory saved runs are written to.
func DefaultRunsDir() string {
	return filepath.Join(DefaultDataDir(), "runs")
}

// DefaultPresetsPath returns the default path for the sheet preset file.
func DefaultPresetsPath() string {
	return filepath.Join(DefaultDataDir(), "presets.json")
}

// writeJSON marshals v with indentation and writes it to path, creating any
// missing parent directories.
func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

package project

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/piwi3910/StripCut/internal/model"
)

const backupVersion = "1.0.0"

// BackupData is the top-level structure for import/export of all application data.
type BackupData struct {
	Version   string              `json:"version"`
	CreatedAt string              `json:"created_at"`
	Presets   []model.SheetPreset `json:"presets"`
	Runs      []model.Run         `json:"runs"`
}

// ExportAllData exports presets and saved runs to a single JSON file at the
// specified path.
func ExportAllData(exportPath string, presets []model.SheetPreset, runs []model.Run) error {
	backup := BackupData{
		Version:   backupVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Presets:   presets,
		Runs:      runs,
	}
	if err := writeJSON(exportPath, backup); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

// ImportAllData reads a backup JSON file and returns the contained data.
// The caller is responsible for storing the imported presets and runs.
func ImportAllData(importPath string) (BackupData, error) {
	data, err := os.ReadFile(importPath)
	if err != nil {
		return BackupData{}, fmt.Errorf("failed to read backup file: %w", err)
	}
	var backup BackupData
	if err := json.Unmarshal(data, &backup); err != nil {
		return BackupData{}, fmt.Errorf("failed to parse backup file: %w", err)
	}
	if backup.Version == "" {
		return BackupData{}, fmt.Errorf("invalid backup file: missing version field")
	}
	if backup.Presets == nil {
		backup.Presets = []model.SheetPreset{}
	}
	if backup.Runs == nil {
		backup.Runs = []model.Run{}
	}
	return backup, nil
}

// RestoreBackup merges the backup presets into presetsPath and writes every
// run into runsDir. It returns the number of runs restored.
func RestoreBackup(backup BackupData, presetsPath, runsDir string) (int, error) {
	existing, err := LoadPresets(presetsPath)
	if err != nil {
		return 0, err
	}
	if err := SavePresets(presetsPath, mergePresets(existing, backup.Presets)); err != nil {
		return 0, err
	}
	for i, run := range backup.Runs {
		if _, err := SaveRun(runsDir, run); err != nil {
			return i, err
		}
	}
	return len(backup.Runs), nil
}

package project

import (
	"encoding/json"
	"os"

	"github.com/piwi3910/StripCut/internal/model"
)

// SavePresets writes the sheet presets to the specified JSON file.
func SavePresets(path string, presets []model.SheetPreset) error {
	return writeJSON(path, presets)
}

// LoadPresets reads sheet presets from the specified JSON file.
// If the file does not exist, it returns the default presets and saves them.
func LoadPresets(path string) ([]model.SheetPreset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			presets := model.DefaultSheetPresets()
			if saveErr := SavePresets(path, presets); saveErr != nil {
				return presets, saveErr
			}
			return presets, nil
		}
		return nil, err
	}
	var presets []model.SheetPreset
	if err := json.Unmarshal(data, &presets); err != nil {
		return nil, err
	}
	return presets, nil
}

// ImportPresets reads presets from a user-specified JSON file and merges them
// into existing. Presets whose ID is already present are skipped.
func ImportPresets(path string, existing []model.SheetPreset) ([]model.SheetPreset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return existing, err
	}
	var imported []model.SheetPreset
	if err := json.Unmarshal(data, &imported); err != nil {
		return existing, err
	}
	return mergePresets(existing, imported), nil
}

func mergePresets(existing, imported []model.SheetPreset) []model.SheetPreset {
	ids := make(map[string]bool, len(existing))
	for _, p := range existing {
		ids[p.ID] = true
	}
	for _, p := range imported {
		if !ids[p.ID] {
			existing = append(existing, p)
			ids[p.ID] = true
		}
	}
	return existing
}

package project

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/piwi3910/StripCut/internal/model"
)

// CatalogSnapshot is a point-in-time copy of the part catalog.
type CatalogSnapshot struct {
	SavedAt time.Time    `json:"saved_at"`
	Parts   []model.Part `json:"parts"`
}

// SaveCatalog writes the parts to the specified JSON file.
func SaveCatalog(path string, parts []model.Part) error {
	snapshot := CatalogSnapshot{SavedAt: time.Now().UTC(), Parts: parts}
	if err := writeJSON(path, snapshot); err != nil {
		return fmt.Errorf("failed to save catalog: %w", err)
	}
	return nil
}

// LoadCatalog reads a catalog snapshot written by SaveCatalog. A bare JSON
// array of parts is accepted as well.
func LoadCatalog(path string) ([]model.Part, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var parts []model.Part
	if err := json.Unmarshal(data, &parts); err == nil {
		return parts, nil
	}

	var snapshot CatalogSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return snapshot.Parts, nil
}

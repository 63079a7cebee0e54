package model

import "github.com/google/uuid"

// SheetPreset is a reusable raw sheet or coil definition.
type SheetPreset struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Width     float64 `json:"width"`     // raw width in mm
	Thickness float64 `json:"thickness"` // mm, 0 when the preset applies to any gauge
	EdgeTrim  float64 `json:"edge_trim"` // mm usually trimmed from this stock
}

// NewSheetPreset creates a new SheetPreset with a generated ID.
func NewSheetPreset(name string, width, thickness, edgeTrim float64) SheetPreset {
	return SheetPreset{
		ID:        uuid.New().String()[:8],
		Name:      name,
		Width:     width,
		Thickness: thickness,
		EdgeTrim:  edgeTrim,
	}
}

// ApplyToSettings copies the preset geometry into the given Settings.
func (sp SheetPreset) ApplyToSettings(s *Settings) {
	s.RawSheetWidth = sp.Width
	s.EdgeTrim = sp.EdgeTrim
}

// DefaultSheetPresets returns common coil and sheet widths.
func DefaultSheetPresets() []SheetPreset {
	return []SheetPreset{
		NewSheetPreset("Coil 1000", 1000, 0, 10),
		NewSheetPreset("Coil 1200", 1200, 0, 10),
		NewSheetPreset("Sheet 1220 (4')", 1220, 0, 0),
		NewSheetPreset("Coil 1250", 1250, 0, 10),
		NewSheetPreset("Coil 1500", 1500, 0, 15),
		NewSheetPreset("Sheet 3000x1500", 3000, 0, 0),
		NewSheetPreset("Sheet 6000", 6000, 0, 0),
	}
}

// FindPresetByName returns a pointer to the first preset with the given name, or nil.
func FindPresetByName(presets []SheetPreset, name string) *SheetPreset {
	for i := range presets {
		if presets[i].Name == name {
			return &presets[i]
		}
	}
	return nil
}

// PresetNames returns the preset names in order.
func PresetNames(presets []SheetPreset) []string {
	names := make([]string, len(presets))
	for i, p := range presets {
		names[i] = p.Name
	}
	return names
}

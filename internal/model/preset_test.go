package model

import "testing"

func TestNewSheetPreset(t *testing.T) {
	p := NewSheetPreset("Coil 1250", 1250, 1.5, 10)
	if p.ID == "" {
		t.Error("expected non-empty ID")
	}
	if p.Width != 1250 || p.Thickness != 1.5 || p.EdgeTrim != 10 {
		t.Errorf("unexpected preset %+v", p)
	}
}

func TestSheetPresetApplyToSettings(t *testing.T) {
	s := DefaultSettings()
	s.CutMargin = 3
	NewSheetPreset("Coil 1500", 1500, 0, 15).ApplyToSettings(&s)

	if s.RawSheetWidth != 1500 || s.EdgeTrim != 15 {
		t.Errorf("expected 1500/15, got %f/%f", s.RawSheetWidth, s.EdgeTrim)
	}
	if s.CutMargin != 3 {
		t.Error("preset must not change the cut margin")
	}
}

func TestDefaultSheetPresets(t *testing.T) {
	presets := DefaultSheetPresets()
	if len(presets) == 0 {
		t.Fatal("expected default presets")
	}
	ids := make(map[string]bool)
	for _, p := range presets {
		if p.Width <= p.EdgeTrim {
			t.Errorf("preset %s leaves no usable width", p.Name)
		}
		if ids[p.ID] {
			t.Errorf("duplicate preset ID %s", p.ID)
		}
		ids[p.ID] = true
	}
	if len(PresetNames(presets)) != len(presets) {
		t.Error("expected one name per preset")
	}
}

func TestFindPresetByName(t *testing.T) {
	presets := DefaultSheetPresets()
	if p := FindPresetByName(presets, "Coil 1200"); p == nil || p.Width != 1200 {
		t.Error("expected to find Coil 1200")
	}
	if FindPresetByName(presets, "Nope") != nil {
		t.Error("expected nil for unknown preset")
	}
}

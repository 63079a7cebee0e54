package model

import "testing"

func TestDefaultAppConfigMatchesDefaultSettings(t *testing.T) {
	cfg := DefaultAppConfig()
	defaults := DefaultSettings()

	if cfg.DefaultSheetWidth != defaults.RawSheetWidth {
		t.Errorf("RawSheetWidth mismatch: config=%f settings=%f", cfg.DefaultSheetWidth, defaults.RawSheetWidth)
	}
	if cfg.DefaultCutMargin != defaults.CutMargin {
		t.Errorf("CutMargin mismatch: config=%f settings=%f", cfg.DefaultCutMargin, defaults.CutMargin)
	}
	if cfg.CandidatePool != defaults.CandidatePool {
		t.Errorf("CandidatePool mismatch: config=%d settings=%d", cfg.CandidatePool, defaults.CandidatePool)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("expected default driver sqlite, got %s", cfg.Database.Driver)
	}
	if cfg.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Port)
	}
}

func TestApplyToSettings(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.DefaultSheetWidth = 1500
	cfg.DefaultEdgeTrim = 12
	cfg.DefaultCutMargin = 5
	cfg.Parallel = true
	cfg.ItemResultLimit = 0

	s := cfg.Settings()

	if s.RawSheetWidth != 1500 || s.EdgeTrim != 12 || s.CutMargin != 5 {
		t.Errorf("geometry not applied: %+v", s)
	}
	if !s.Parallel {
		t.Error("expected Parallel to be applied")
	}
	if s.ItemResultLimit != DefaultSettings().ItemResultLimit {
		t.Errorf("zero limit should keep the default, got %d", s.ItemResultLimit)
	}
	if s.UsableWidth() != 1488 {
		t.Errorf("expected usable width 1488, got %f", s.UsableWidth())
	}
}

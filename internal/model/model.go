package model

import (
	"time"

	"github.com/google/uuid"
)

// Settings holds sheet geometry and optimizer configuration for one run.
type Settings struct {
	RawSheetWidth float64 `json:"raw_sheet_width" mapstructure:"raw_sheet_width"` // mm, as delivered
	EdgeTrim      float64 `json:"edge_trim" mapstructure:"edge_trim"`             // mm removed from the raw width before nesting
	CutMargin     float64 `json:"cut_margin" mapstructure:"cut_margin"`           // mm added to every placed unit

	// Search bounds
	Parallel            bool `json:"parallel" mapstructure:"parallel"`                           // run builders concurrently
	ExhaustiveNodeLimit int  `json:"exhaustive_node_limit" mapstructure:"exhaustive_node_limit"` // combinations evaluated by the exhaustive builder
	CandidatePool       int  `json:"candidate_pool" mapstructure:"candidate_pool"`               // patterns ranked before item filtering
	ItemResultLimit     int  `json:"item_result_limit" mapstructure:"item_result_limit"`         // patterns kept per selected item
}

// UsableWidth returns the width available for parts after edge trimming.
func (s Settings) UsableWidth() float64 {
	return s.RawSheetWidth - s.EdgeTrim
}

func DefaultSettings() Settings {
	return Settings{
		RawSheetWidth:       1220.0,
		EdgeTrim:            0,
		CutMargin:           0,
		Parallel:            false,
		ExhaustiveNodeLimit: 250000,
		CandidatePool:       100,
		ItemResultLimit:     10,
	}
}

// Run is a saved optimization: the inputs that produced it and the ranked result.
type Run struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	ItemCode  string    `json:"item_code,omitempty"` // selected item, empty for whole-group runs
	Group     GroupKey  `json:"group"`
	Settings  Settings  `json:"settings"`
	Parts     []Part    `json:"parts"`
	Patterns  []Pattern `json:"patterns"`
}

// NewRun stamps a run with a fresh short ID and the current time.
func NewRun(itemCode string, group GroupKey, settings Settings, parts []Part, patterns []Pattern) Run {
	return Run{
		ID:        uuid.New().String()[:8],
		CreatedAt: time.Now().UTC(),
		ItemCode:  itemCode,
		Group:     group,
		Settings:  settings,
		Parts:     parts,
		Patterns:  patterns,
	}
}

// BestPattern returns the top-ranked pattern of the run, if any.
func (r Run) BestPattern() (Pattern, bool) {
	if len(r.Patterns) == 0 {
		return Pattern{}, false
	}
	return r.Patterns[0], true
}

package model

// AppConfig holds process-wide defaults loaded once at startup. It is read-only
// after loading; per-request overrides are applied to a copy of Settings.
type AppConfig struct {
	// Defaults applied to every optimization
	DefaultSheetWidth   float64 `json:"sheet_width" mapstructure:"sheet_width"`
	DefaultEdgeTrim     float64 `json:"edge_trim" mapstructure:"edge_trim"`
	DefaultCutMargin    float64 `json:"cut_margin" mapstructure:"cut_margin"`
	Parallel            bool    `json:"parallel" mapstructure:"parallel"`
	ExhaustiveNodeLimit int     `json:"exhaustive_node_limit" mapstructure:"exhaustive_node_limit"`
	CandidatePool       int     `json:"candidate_pool" mapstructure:"candidate_pool"`
	ItemResultLimit     int     `json:"item_result_limit" mapstructure:"item_result_limit"`

	// Catalog source: a file (csv, xlsx, json) or a database
	CatalogPath string         `json:"catalog" mapstructure:"catalog"`
	Database    DatabaseConfig `json:"database" mapstructure:"database"`

	// Service
	Port         int    `json:"port" mapstructure:"port"`
	LogLevel     string `json:"log_level" mapstructure:"log_level"`   // debug, info, warn, error
	LogFormat    string `json:"log_format" mapstructure:"log_format"` // text, json
	OtelEndpoint string `json:"otel_endpoint" mapstructure:"otel_endpoint"`
}

// DatabaseConfig selects the SQL catalog backend.
type DatabaseConfig struct {
	Driver string `json:"driver" mapstructure:"driver"` // "sqlite" or "postgres"
	DSN    string `json:"dsn" mapstructure:"dsn"`
}

// DefaultAppConfig returns an AppConfig populated with defaults matching
// DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultSheetWidth:   defaults.RawSheetWidth,
		DefaultEdgeTrim:     defaults.EdgeTrim,
		DefaultCutMargin:    defaults.CutMargin,
		Parallel:            defaults.Parallel,
		ExhaustiveNodeLimit: defaults.ExhaustiveNodeLimit,
		CandidatePool:       defaults.CandidatePool,
		ItemResultLimit:     defaults.ItemResultLimit,
		Database:            DatabaseConfig{Driver: "sqlite"},
		Port:                8080,
		LogLevel:            "info",
		LogFormat:           "text",
	}
}

// ApplyToSettings copies the configured defaults into a Settings struct.
// Zero search bounds keep the values already in s.
func (c AppConfig) ApplyToSettings(s *Settings) {
	s.RawSheetWidth = c.DefaultSheetWidth
	s.EdgeTrim = c.DefaultEdgeTrim
	s.CutMargin = c.DefaultCutMargin
	s.Parallel = c.Parallel
	if c.ExhaustiveNodeLimit > 0 {
		s.ExhaustiveNodeLimit = c.ExhaustiveNodeLimit
	}
	if c.CandidatePool > 0 {
		s.CandidatePool = c.CandidatePool
	}
	if c.ItemResultLimit > 0 {
		s.ItemResultLimit = c.ItemResultLimit
	}
}

// Settings returns DefaultSettings with this config applied.
func (c AppConfig) Settings() Settings {
	s := DefaultSettings()
	c.ApplyToSettings(&s)
	return s
}

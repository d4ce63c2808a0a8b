// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// PrefixRule maps a code prefix straight to a dimension.
type PrefixRule struct {
	Prefix    string `json:"prefix" yaml:"prefix" mapstructure:"prefix"`
	Dimension string `json:"dimension" yaml:"dimension" mapstructure:"dimension"`
}

// KeywordOverride switches a strategy letter to another dimension when any
// of Keywords occurs (case-insensitively) in the code's description.
type KeywordOverride struct {
	Keywords  []string `json:"keywords" yaml:"keywords" mapstructure:"keywords"`
	Dimension string   `json:"dimension" yaml:"dimension" mapstructure:"dimension"`
}

// StrategyRule is one row of the strategy-framework decision table.
type StrategyRule struct {
	Letter    string            `json:"letter" yaml:"letter" mapstructure:"letter"`
	Default   string            `json:"default" yaml:"default" mapstructure:"default"`
	Overrides []KeywordOverride `json:"overrides" yaml:"overrides" mapstructure:"overrides"`
}

// ResolverConfig holds the tables used to map codes to dimensions.
// Tables are lists rather than maps so configuration loaders that fold key
// case cannot alter the codes.
type ResolverConfig struct {
	// Overrides are checked first, longest prefix wins.
	Overrides []PrefixRule `json:"overrides" yaml:"overrides" mapstructure:"overrides"`

	// Reserved prefixes are checked before the work-letter rewrite.
	Reserved []PrefixRule `json:"reserved" yaml:"reserved" mapstructure:"reserved"`

	// WorkLetter is the bare prefix rewritten to WorkDimension (T -> TG).
	WorkLetter    string `json:"work_letter" yaml:"work_letter" mapstructure:"work_letter"`
	WorkDimension string `json:"work_dimension" yaml:"work_dimension" mapstructure:"work_dimension"`

	// Strategies is the context-sensitive table for single-letter codes.
	Strategies []StrategyRule `json:"strategies" yaml:"strategies" mapstructure:"strategies"`
}

// ExtractionConfig holds settings for the multi-pass extractor.
type ExtractionConfig struct {
	// SublevelThreshold separates track levels (len <= threshold) from
	// composite sub-level codes (len > threshold). Default 4.
	SublevelThreshold int `json:"sublevel_threshold" yaml:"sublevel_threshold" mapstructure:"sublevel_threshold"`
}

// BatchConfig holds settings for processing documents on disk.
type BatchConfig struct {
	// OracleDir is the directory scanned by --all and watch.
	OracleDir string `json:"oracle_dir" yaml:"oracle_dir" mapstructure:"oracle_dir"`

	// Pattern is the doublestar glob, relative to OracleDir, selecting documents.
	Pattern string `json:"pattern" yaml:"pattern" mapstructure:"pattern"`

	// OutputDir receives JSON results. Empty writes next to each document.
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// Parallel bounds concurrent document runs (default 1).
	Parallel int `json:"parallel" yaml:"parallel" mapstructure:"parallel"`

	// Force reprocesses documents whose output is newer than the source.
	Force bool `json:"force" yaml:"force" mapstructure:"force"`

	// WithMapping also writes the goal mapping document.
	WithMapping bool `json:"with_mapping" yaml:"with_mapping" mapstructure:"with_mapping"`
}

// StoreConfig holds settings for the SQLite registry store.
type StoreConfig struct {
	// Dir contains the database file and exports.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// MaxResults is the default query limit (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// LogConfig selects logger level and encoding.
type LogConfig struct {
	Level       string `json:"level" yaml:"level" mapstructure:"level"`
	Development bool   `json:"development" yaml:"development" mapstructure:"development"`
}

// PipelineConfig groups all configuration for the CLI.
type PipelineConfig struct {
	Resolver   ResolverConfig   `json:"resolver" yaml:"resolver" mapstructure:"resolver"`
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction" mapstructure:"extraction"`
	Batch      BatchConfig      `json:"batch" yaml:"batch" mapstructure:"batch"`
	Store      StoreConfig      `json:"store" yaml:"store" mapstructure:"store"`
	Log        LogConfig        `json:"log" yaml:"log" mapstructure:"log"`
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ParsingStatus is the overall outcome of a document run.
type ParsingStatus string

const (
	StatusSuccess ParsingStatus = "success"
	StatusError   ParsingStatus = "error"
)

// Metadata carries the counts summarizing a Result.
type Metadata struct {
	TotalActivities  int                `json:"total_activities" yaml:"total_activities"`
	ProvenanceCounts map[Provenance]int `json:"provenance_counts" yaml:"provenance_counts"`
	TotalDimensions  int                `json:"total_dimensions" yaml:"total_dimensions"`
	ParsingStatus    ParsingStatus      `json:"parsing_status" yaml:"parsing_status"`
	Warnings         int                `json:"warnings" yaml:"warnings"`
	Errors           int                `json:"errors" yaml:"errors"`
}

// Result is the structured output of processing one Oracle document.
type Result struct {
	// Version is taken from the first N.N pattern in the source identifier,
	// or "unknown".
	Version string `json:"version" yaml:"version"`

	// SourceFile is the base name of the originating document.
	SourceFile string `json:"source_file" yaml:"source_file"`

	// GeneratedAt is the UTC RFC 3339 timestamp of the run. It is the only
	// field allowed to differ between two runs over identical input.
	GeneratedAt string `json:"generated_at" yaml:"generated_at"`

	Dimensions DimensionSet `json:"dimensions" yaml:"dimensions"`
	Activities Registry     `json:"activities" yaml:"activities"`
	Metadata   Metadata     `json:"metadata" yaml:"metadata"`

	Warnings []string `json:"warnings" yaml:"warnings"`
	Errors   []string `json:"errors" yaml:"errors"`
}

// Succeeded reports whether the run finished without errors.
func (r *Result) Succeeded() bool {
	return r.Metadata.ParsingStatus == StatusSuccess
}

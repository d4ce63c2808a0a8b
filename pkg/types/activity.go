// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Provenance tags the extraction pass that produced a registry entry.
// It drives dedup priority and reporting.
type Provenance string

const (
	ProvenanceCatalog   Provenance = "catalog-entry"
	ProvenanceObjective Provenance = "objective"
	ProvenanceLevel     Provenance = "track-level"
	ProvenanceSublevel  Provenance = "track-sublevel"
	ProvenanceStrategy  Provenance = "strategy-framework"
	ProvenanceLoose     Provenance = "loose-reference"
)

// Provenances lists every provenance in pass order.
var Provenances = []Provenance{
	ProvenanceCatalog,
	ProvenanceObjective,
	ProvenanceLevel,
	ProvenanceSublevel,
	ProvenanceStrategy,
	ProvenanceLoose,
}

// ScoreVector maps a dimension code to an integer weight.
type ScoreVector map[string]int

// Activity is one entry of the code registry. Field order matches the
// serialized layout consumed by the detection model trainer.
type Activity struct {
	// Code is the registry key (e.g. "SF1", "OPP1", "CX1B", "D").
	Code string `json:"code" yaml:"code"`

	// Name is the free-text description taken from the source line.
	Name string `json:"name" yaml:"name"`

	// Dimension is the resolved dimension code. Always present in the
	// document's DimensionSet.
	Dimension string `json:"dimension" yaml:"dimension"`

	// ScoreVector has one entry per registered dimension, default zero.
	ScoreVector ScoreVector `json:"score_vector" yaml:"score_vector"`

	// Provenance identifies the pass that registered the entry.
	Provenance Provenance `json:"provenance" yaml:"provenance"`

	// LinkedTrack is the trilha identifier an objective points to.
	LinkedTrack string `json:"linked_track,omitempty" yaml:"linked_track,omitempty"`
}

// Registry maps activity code to its entry.
type Registry map[string]Activity

// CountByProvenance returns the number of entries per provenance. Every
// known provenance is present in the result, zero or not.
func (r Registry) CountByProvenance() map[Provenance]int {
	counts := make(map[Provenance]int, len(Provenances))
	for _, p := range Provenances {
		counts[p] = 0
	}
	for _, a := range r {
		counts[a.Provenance]++
	}
	return counts
}

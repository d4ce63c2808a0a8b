// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/oracle-engine/internal/batch"
	"github.com/pdiddy/oracle-engine/pkg/types"
)

func sampleResult() *types.Result {
	warnings := make([]string, 7)
	for i := range warnings {
		warnings[i] = fmt.Sprintf("Unknown dimension for activity X%d: X", i)
	}
	return &types.Result{
		Version:    "4.2",
		SourceFile: "oracle_prompt_4.2.md",
		Warnings:   warnings,
		Errors:     []string{},
		Metadata: types.Metadata{
			TotalActivities:  13,
			TotalDimensions:  6,
			ParsingStatus:    types.StatusSuccess,
			ProvenanceCounts: map[types.Provenance]int{types.ProvenanceCatalog: 10, types.ProvenanceObjective: 3},
			Warnings:         7,
		},
	}
}

func TestResult(t *testing.T) {
	out := Result(sampleResult(), Text)

	assert.Contains(t, out, "catalog-entry")
	assert.Contains(t, out, "loose-reference")
	assert.Contains(t, out, "success")
	assert.Contains(t, out, "X4: X")
	assert.NotContains(t, out, "X5: X")
	assert.Contains(t, out, "... and 2 more")
	assert.NotContains(t, out, "Errors:\n")
}

func TestResultListsAllErrors(t *testing.T) {
	res := sampleResult()
	res.Warnings = nil
	res.Errors = []string{"Failed to read file a.md: denied"}

	out := Result(res, Markdown)
	assert.Contains(t, out, "| Field | Value |")
	assert.Contains(t, out, "Errors:\n  - Failed to read file a.md: denied")
	assert.NotContains(t, out, "Warnings:\n")
}

func TestBatch(t *testing.T) {
	s := batch.Summary{
		Processed: 1,
		Skipped:   1,
		Outcomes: []batch.Outcome{
			{Source: "oracle_prompt_4.2.md", Status: batch.StatusProcessed, Result: sampleResult()},
			{Source: "oracle_prompt_2.1.md", Status: batch.StatusSkipped},
		},
	}
	out := Batch(s, Markdown)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, "| Document | Status | Version | Activities | Warnings | Errors |", lines[0])
	assert.Contains(t, out, "oracle_prompt_4.2.md")
	assert.Contains(t, out, "1 processed, 1 skipped, 0 failed")
}

func TestMapping(t *testing.T) {
	doc := &types.MappingDocument{
		Version: "4.2",
		GoalTrilhaMapping: map[string]types.GoalRecord{
			"OPP1": {ObjectiveCode: "OPP1", ObjectiveName: "Perder peso", TrackID: "CX1", Dimension: "SF",
				RelatedActivityCodes: []string{"CX1B", "SF1"}, TrackLevelCodes: []string{"CX1B"}},
			"OMMA1": {ObjectiveCode: "OMMA1", ObjectiveName: "Reduzir ansiedade", TrackID: "AN1", Dimension: "SM",
				RelatedActivityCodes: []string{}, TrackLevelCodes: []string{}},
		},
		ValidationReport: types.ValidationReport{
			Warnings:   []string{"Goal 'OMMA1' has no related activities"},
			Statistics: types.MappingStatistics{TotalGoals: 2, CoveragePercentage: 50},
		},
	}
	out := Mapping(doc, Text)

	assert.Less(t, strings.Index(out, "OMMA1"), strings.Index(out, "OPP1"))
	assert.Contains(t, out, "50.0%")
	assert.Contains(t, out, "Goal 'OMMA1' has no related activities")
}

func TestActivities(t *testing.T) {
	out := Activities([]types.Activity{
		{Code: "OPP1", Name: "Perder peso", Dimension: "SF", Provenance: types.ProvenanceObjective, LinkedTrack: "CX1"},
	}, Markdown)
	assert.Contains(t, out, "| OPP1 | Perder peso | SF | objective | CX1 |")
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/oracle-engine/pkg/types"
)

const fixture = "testdata/oracle_prompt_4.2.md"

func fixedClock(ts string) func() time.Time {
	return func() time.Time {
		t, _ := time.Parse(time.RFC3339, ts)
		return t
	}
}

func readFixture(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(fixture)
	require.NoError(t, err)
	return string(data)
}

func TestVersion(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"assets/config/oracle/oracle_prompt_4.2.md", "4.2"},
		{"oracle_prompt_2.1_optimized.md", "2.1"},
		{"/tmp/v10.3/oracle.md", "unknown"},
		{"oracle.md", "unknown"},
		{"", "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			assert.Equal(t, tt.want, Version(tt.source))
		})
	}
}

func TestRunFixture(t *testing.T) {
	p := New(WithClock(fixedClock("2026-01-02T03:04:05Z")))
	res := p.Run(fixture, readFixture(t))

	assert.Equal(t, "4.2", res.Version)
	assert.Equal(t, "oracle_prompt_4.2.md", res.SourceFile)
	assert.Equal(t, "2026-01-02T03:04:05Z", res.GeneratedAt)
	assert.Equal(t, []string{"E", "R", "SF", "SM", "TG", "TT"}, res.Dimensions.Codes())

	assert.Equal(t, types.Metadata{
		TotalActivities: 25,
		ProvenanceCounts: map[types.Provenance]int{
			types.ProvenanceCatalog:   10,
			types.ProvenanceObjective: 3,
			types.ProvenanceLevel:     5,
			types.ProvenanceSublevel:  1,
			types.ProvenanceStrategy:  3,
			types.ProvenanceLoose:     3,
		},
		TotalDimensions: 6,
		ParsingStatus:   types.StatusSuccess,
		Warnings:        5,
		Errors:          0,
	}, res.Metadata)

	assert.Equal(t, []string{
		`Malformed score string for activity SF3: "1:2:3"`,
		"Unknown dimension for activity OVP1: PR",
		"Unresolved dimension for activity Q",
		"Unknown dimension for activity PR1: PR",
		"Unknown dimension for activity X9: X",
	}, res.Warnings)
	assert.Empty(t, res.Errors)

	assert.Equal(t, "TG", res.Activities["T1"].Dimension)
	assert.Equal(t, "TT", res.Activities["TT1"].Dimension)
	assert.Equal(t, "TT", res.Activities["D"].Dimension)
	assert.Equal(t, 5, res.Activities["SF2"].ScoreVector["SF"])
	assert.Equal(t, types.ProvenanceCatalog, res.Activities["SF1"].Provenance)
	assert.Equal(t, "Beber 2L de água", res.Activities["SF1"].Name)
	assert.Equal(t, "DD1", res.Activities["ODT1"].LinkedTrack)
}

func TestMapFixture(t *testing.T) {
	p := New(WithClock(fixedClock("2026-01-02T03:04:05Z")))
	doc := p.Map(p.Run(fixture, readFixture(t)))

	require.Len(t, doc.GoalTrilhaMapping, 3)
	assert.Equal(t, types.GoalRecord{
		ObjectiveCode:        "OPP1",
		ObjectiveName:        "Perder peso",
		TrackID:              "CX1",
		Dimension:            "SF",
		RelatedActivityCodes: []string{"CX1A", "CX1B", "CX1BA", "CX1I", "SF1", "SF2", "SF3"},
		TrackLevelCodes:      []string{"CX1A", "CX1B", "CX1I"},
	}, doc.GoalTrilhaMapping["OPP1"])

	assert.Equal(t, []string{"OMMA1"}, doc.ActivityGoalMapping["AN1B"])
	assert.Equal(t, []string{"ODT1"}, doc.ActivityGoalMapping["TT1"])
	assert.Len(t, doc.ActivityGoalMapping, 11)

	assert.Equal(t, []string{"SF1", "SF2", "SF3"}, doc.GoalCategories["SF"].PrimaryActivities)
	assert.Equal(t, []string{"CX1B", "CX1BA"}, doc.TrilhaHierarchy["CX1"].Basic)
	assert.Equal(t, []string{"DD1B"}, doc.TrilhaHierarchy["DD1"].Basic)

	assert.Empty(t, doc.ValidationReport.Errors)
	assert.Empty(t, doc.ValidationReport.Warnings)
	assert.Equal(t, types.MappingStatistics{
		TotalGoals:            3,
		TotalMappedActivities: 11,
		CoveragePercentage:    50.0,
	}, doc.ValidationReport.Statistics)
}

func TestBidirectionalConsistency(t *testing.T) {
	p := New()
	doc := p.Map(p.Run(fixture, readFixture(t)))

	for g, rec := range doc.GoalTrilhaMapping {
		for _, a := range rec.RelatedActivityCodes {
			assert.Contains(t, doc.ActivityGoalMapping[a], g)
		}
	}
	for a, goals := range doc.ActivityGoalMapping {
		for _, g := range goals {
			assert.Contains(t, doc.GoalTrilhaMapping[g].RelatedActivityCodes, a)
		}
	}
}

func TestDeterminism(t *testing.T) {
	text := readFixture(t)

	first := New(WithClock(fixedClock("2026-01-01T00:00:00Z")))
	second := New(WithClock(fixedClock("2026-06-30T12:00:00Z")))

	r1, r2 := first.Run(fixture, text), second.Run(fixture, text)
	m1, m2 := first.Map(r1), second.Map(r2)

	r2.GeneratedAt, m2.GeneratedAt = r1.GeneratedAt, m1.GeneratedAt

	for _, pair := range [][2]any{{r1, r2}, {m1, m2}} {
		a, err := json.MarshalIndent(pair[0], "", "  ")
		require.NoError(t, err)
		b, err := json.MarshalIndent(pair[1], "", "  ")
		require.NoError(t, err)
		if diff := cmp.Diff(string(a), string(b)); diff != "" {
			t.Errorf("output differs between runs (-first +second):\n%s", diff)
		}
	}
}

func TestObjectiveWithoutTrackEntries(t *testing.T) {
	text := "Physical Health (SF)\n- **OPP1**: Lose weight → Track CX1\n"
	p := New()
	res := p.Run("oracle.md", text)
	doc := p.Map(res)

	require.Contains(t, doc.GoalTrilhaMapping, "OPP1")
	assert.Equal(t, []string{}, doc.GoalTrilhaMapping["OPP1"].RelatedActivityCodes)
	assert.Contains(t, doc.ValidationReport.Warnings, "Goal 'OPP1' has no related activities")
	assert.Contains(t, doc.ValidationReport.Warnings, "Goal 'OPP1' references trilha 'CX1' with no registry entries")
	assert.Empty(t, doc.ValidationReport.Errors)
	assert.Equal(t, 0.0, doc.ValidationReport.Statistics.CoveragePercentage)
}

func TestMalformedScoreIsNotAnError(t *testing.T) {
	res := New().Run("oracle.md", "#### SAÚDE FÍSICA (SF)\n- **SF1**: Beber água [9:9]\n")

	assert.Empty(t, res.Errors)
	assert.Equal(t, types.StatusSuccess, res.Metadata.ParsingStatus)
	assert.Equal(t, types.ScoreVector{"SF": 0}, res.Activities["SF1"].ScoreVector)
}

func TestFailed(t *testing.T) {
	p := New(WithClock(fixedClock("2026-01-02T03:04:05Z")))
	res := p.Failed("oracle/oracle_prompt_3.0.md", errors.New("permission denied"))

	assert.Equal(t, "3.0", res.Version)
	assert.Empty(t, res.Activities)
	assert.Empty(t, res.Dimensions)
	assert.Equal(t, []string{"Failed to read file oracle/oracle_prompt_3.0.md: permission denied"}, res.Errors)
	assert.Equal(t, types.StatusError, res.Metadata.ParsingStatus)
	assert.Equal(t, 1, res.Metadata.Errors)
	assert.False(t, res.Succeeded())

	doc := p.Map(res)
	assert.Empty(t, doc.GoalTrilhaMapping)
	assert.Equal(t, 0.0, doc.ValidationReport.Statistics.CoveragePercentage)
}

func TestMapFromJSON(t *testing.T) {
	p := New(WithClock(fixedClock("2026-01-02T03:04:05Z")))
	res := p.Run(fixture, readFixture(t))

	path := filepath.Join(t.TempDir(), "oracle_prompt_4.2.json")
	data, err := json.Marshal(res)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var loaded types.Result
	require.NoError(t, json.Unmarshal(raw, &loaded))

	assert.Equal(t, p.Map(res), p.Map(&loaded))
}

func TestActivityFieldOrder(t *testing.T) {
	data, err := json.Marshal(types.Activity{
		Code:        "OPP1",
		Name:        "Perder peso",
		Dimension:   "SF",
		ScoreVector: types.ScoreVector{"SF": 0},
		Provenance:  types.ProvenanceObjective,
		LinkedTrack: "CX1",
	})
	require.NoError(t, err)
	assert.Equal(t,
		`{"code":"OPP1","name":"Perder peso","dimension":"SF","score_vector":{"SF":0},"provenance":"objective","linked_track":"CX1"}`,
		string(data))
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/oracle-engine/pkg/types"
)

func act(code, dim string, p types.Provenance) types.Activity {
	return types.Activity{Code: code, Name: code, Dimension: dim, Provenance: p}
}

func objective(code, dim, track string) types.Activity {
	a := act(code, dim, types.ProvenanceObjective)
	a.LinkedTrack = track
	return a
}

func testRegistry() types.Registry {
	reg := types.Registry{}
	for _, a := range []types.Activity{
		act("SF1", "SF", types.ProvenanceCatalog),
		act("SF2", "SF", types.ProvenanceCatalog),
		act("SM1", "SM", types.ProvenanceCatalog),
		act("R1", "R", types.ProvenanceCatalog),
		act("CX1B", "SF", types.ProvenanceLevel),
		act("CX1I", "SF", types.ProvenanceLevel),
		act("CX1A", "SF", types.ProvenanceLevel),
		act("CX1BA", "SF", types.ProvenanceSublevel),
		act("SF4", "SF", types.ProvenanceLoose),
		act("AN1B", "SM", types.ProvenanceLevel),
		objective("OPP1", "SF", "CX1"),
		objective("OMMA1", "SM", "AN1"),
		objective("OGM1", "SF", ""),
	} {
		reg[a.Code] = a
	}
	return reg
}

func TestBuildGoals(t *testing.T) {
	goals := BuildGoals(testRegistry())

	require.Len(t, goals, 2, "objective without linked trilha yields no goal")

	opp := goals["OPP1"]
	assert.Equal(t, "CX1", opp.TrackID)
	assert.Equal(t, "SF", opp.Dimension)
	assert.Equal(t, []string{"CX1A", "CX1B", "CX1BA", "CX1I", "SF1", "SF2"}, opp.RelatedActivityCodes)
	assert.Equal(t, []string{"CX1A", "CX1B", "CX1I"}, opp.TrackLevelCodes)

	omma := goals["OMMA1"]
	assert.Equal(t, []string{"AN1B", "SM1"}, omma.RelatedActivityCodes)
	assert.Equal(t, []string{"AN1B"}, omma.TrackLevelCodes)
}

func TestBuildGoalsContainsTrack(t *testing.T) {
	reg := types.Registry{
		"OVG1":  objective("OVG1", "TG", "VG1"),
		"XVG1B": act("XVG1B", "TG", types.ProvenanceSublevel),
	}
	goals := BuildGoals(reg)
	assert.Equal(t, []string{"XVG1B"}, goals["OVG1"].RelatedActivityCodes)
	assert.Empty(t, goals["OVG1"].TrackLevelCodes)
}

func TestGoalWithoutActivities(t *testing.T) {
	reg := types.Registry{"OPP1": objective("OPP1", "SF", "CX1")}
	goals := BuildGoals(reg)

	require.Contains(t, goals, "OPP1")
	assert.Equal(t, []string{}, goals["OPP1"].RelatedActivityCodes)
	assert.Equal(t, []string{}, goals["OPP1"].TrackLevelCodes)
}

func TestBuildIndexBidirectional(t *testing.T) {
	reg := testRegistry()
	reg["OPP2"] = objective("OPP2", "SF", "CX1")
	goals := BuildGoals(reg)
	index := BuildIndex(goals)

	assert.Equal(t, []string{"OPP1", "OPP2"}, index["SF1"])
	assert.Equal(t, []string{"OMMA1"}, index["SM1"])
	assert.NotContains(t, index, "R1")
	assert.NotContains(t, index, "SF4")

	for g, rec := range goals {
		for _, a := range rec.RelatedActivityCodes {
			assert.Contains(t, index[a], g)
		}
	}
	for a, gs := range index {
		for _, g := range gs {
			assert.Contains(t, goals[g].RelatedActivityCodes, a)
		}
	}
}

func TestCoverage(t *testing.T) {
	reg := testRegistry()
	index := BuildIndex(BuildGoals(reg))

	// SF1, SF2, SM1 of four catalog entries.
	assert.InDelta(t, 75.0, Coverage(reg, index), 1e-9)
}

func TestCoverageBounds(t *testing.T) {
	tests := []struct {
		name  string
		reg   types.Registry
		index map[string][]string
		want  float64
	}{
		{
			name: "no catalog entries",
			reg:  types.Registry{"CX1B": act("CX1B", "SF", types.ProvenanceLevel)},
			index: map[string][]string{
				"CX1B": {"OPP1"},
			},
			want: 0.0,
		},
		{
			name:  "empty registry",
			reg:   types.Registry{},
			index: map[string][]string{},
			want:  0.0,
		},
		{
			name: "non-catalog index entries do not push past 100",
			reg: types.Registry{
				"SF1":  act("SF1", "SF", types.ProvenanceCatalog),
				"CX1B": act("CX1B", "SF", types.ProvenanceLevel),
			},
			index: map[string][]string{
				"SF1":  {"OPP1"},
				"CX1B": {"OPP1"},
				"ZZ9":  {"OPP1"},
			},
			want: 100.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Coverage(tt.reg, tt.index)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 100.0)
		})
	}
}

func TestCategories(t *testing.T) {
	reg := testRegistry()
	cats := Categories(reg, BuildGoals(reg))

	assert.Equal(t, types.GoalCategory{
		Goals:             []string{"OPP1"},
		PrimaryActivities: []string{"SF1", "SF2"},
	}, cats["SF"])
	assert.Equal(t, []string{"OMMA1"}, cats["SM"].Goals)
	assert.NotContains(t, cats, "R")
}

func TestHierarchy(t *testing.T) {
	reg := testRegistry()
	reg["CX1Z"] = act("CX1Z", "SF", types.ProvenanceLevel)

	h, warnings := Hierarchy(reg)

	assert.Equal(t, types.TrilhaLevels{
		Basic:        []string{"CX1B", "CX1BA"},
		Intermediate: []string{"CX1I"},
		Advanced:     []string{"CX1A"},
	}, h["CX1"])
	assert.Equal(t, types.TrilhaLevels{
		Basic:        []string{"AN1B"},
		Intermediate: []string{},
		Advanced:     []string{},
	}, h["AN1"])
	assert.Equal(t, []string{"Track level 'CX1Z' has unrecognized stage suffix 'Z'"}, warnings)
}

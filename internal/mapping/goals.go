// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mapping derives goal records and the activity-to-goal index from a
// code registry. Every function is a pure transform over its inputs.
package mapping

import (
	"sort"
	"strings"

	"github.com/pdiddy/oracle-engine/pkg/types"
)

// BuildGoals returns one GoalRecord per objective entry with a linked
// trilha, keyed by objective code.
//
// Related activities are the catalog entries of the objective's dimension
// together with every non-objective code that starts with or contains the
// trilha id.
func BuildGoals(reg types.Registry) map[string]types.GoalRecord {
	goals := make(map[string]types.GoalRecord)
	for _, code := range sortedCodes(reg) {
		obj := reg[code]
		if obj.Provenance != types.ProvenanceObjective || obj.LinkedTrack == "" {
			continue
		}

		related := make(map[string]bool)
		var levels []string
		for _, a := range reg {
			if a.Provenance == types.ProvenanceObjective {
				continue
			}
			if a.Provenance == types.ProvenanceCatalog && a.Dimension == obj.Dimension {
				related[a.Code] = true
			}
			if strings.Contains(a.Code, obj.LinkedTrack) {
				related[a.Code] = true
				if a.Provenance == types.ProvenanceLevel {
					levels = append(levels, a.Code)
				}
			}
		}
		sort.Strings(levels)

		goals[code] = types.GoalRecord{
			ObjectiveCode:        obj.Code,
			ObjectiveName:        obj.Name,
			TrackID:              obj.LinkedTrack,
			Dimension:            obj.Dimension,
			RelatedActivityCodes: sortedSet(related),
			TrackLevelCodes:      nonNil(levels),
		}
	}
	return goals
}

// BuildIndex inverts the goals' related activity lists.
func BuildIndex(goals map[string]types.GoalRecord) map[string][]string {
	index := make(map[string][]string)
	for _, g := range sortedGoalCodes(goals) {
		for _, a := range goals[g].RelatedActivityCodes {
			index[a] = append(index[a], g)
		}
	}
	for a := range index {
		sort.Strings(index[a])
	}
	return index
}

// Coverage returns the percentage of catalog entries reachable from at least
// one goal. It is 0 when the registry has no catalog entries.
func Coverage(reg types.Registry, index map[string][]string) float64 {
	total, covered := 0, 0
	for code, a := range reg {
		if a.Provenance != types.ProvenanceCatalog {
			continue
		}
		total++
		if len(index[code]) > 0 {
			covered++
		}
	}
	if total == 0 {
		return 0.0
	}
	return float64(covered) / float64(total) * 100
}

func sortedCodes(reg types.Registry) []string {
	codes := make([]string, 0, len(reg))
	for c := range reg {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

func sortedGoalCodes(goals map[string]types.GoalRecord) []string {
	codes := make([]string, 0, len(goals))
	for c := range goals {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

func sortedSet(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

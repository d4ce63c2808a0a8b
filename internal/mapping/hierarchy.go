// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mapping

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/pdiddy/oracle-engine/pkg/types"
)

// levelCode splits a level code into its base trilha and stage suffix,
// e.g. CX1BA -> CX1, BA.
var levelCode = regexp.MustCompile(`^([A-Z]+\d+)([A-Z]+)$`)

// Categories groups goals by dimension. Primary activities are the catalog
// entries among the category's related activities.
func Categories(reg types.Registry, goals map[string]types.GoalRecord) map[string]types.GoalCategory {
	goalSets := make(map[string][]string)
	primary := make(map[string]map[string]bool)

	for _, code := range sortedGoalCodes(goals) {
		g := goals[code]
		goalSets[g.Dimension] = append(goalSets[g.Dimension], code)
		if primary[g.Dimension] == nil {
			primary[g.Dimension] = make(map[string]bool)
		}
		for _, a := range g.RelatedActivityCodes {
			if act, ok := reg[a]; ok && act.Provenance == types.ProvenanceCatalog {
				primary[g.Dimension][a] = true
			}
		}
	}

	out := make(map[string]types.GoalCategory, len(goalSets))
	for dim, codes := range goalSets {
		out[dim] = types.GoalCategory{
			Goals:             codes,
			PrimaryActivities: sortedSet(primary[dim]),
		}
	}
	return out
}

// Hierarchy groups track-level and sub-level codes by base trilha. The first
// letter of the stage suffix selects the stage: B basic, I intermediate,
// A advanced. Codes with any other suffix are reported in the returned
// warnings and left out.
func Hierarchy(reg types.Registry) (map[string]types.TrilhaLevels, []string) {
	out := make(map[string]types.TrilhaLevels)
	var warnings []string

	for _, code := range sortedCodes(reg) {
		a := reg[code]
		if a.Provenance != types.ProvenanceLevel && a.Provenance != types.ProvenanceSublevel {
			continue
		}
		m := levelCode.FindStringSubmatch(code)
		if m == nil {
			warnings = append(warnings, fmt.Sprintf("Track level '%s' has no recognizable base trilha", code))
			continue
		}
		base, stage := m[1], m[2][0]

		t, ok := out[base]
		if !ok {
			t = types.TrilhaLevels{Basic: []string{}, Intermediate: []string{}, Advanced: []string{}}
		}
		switch stage {
		case 'B':
			t.Basic = append(t.Basic, code)
		case 'I':
			t.Intermediate = append(t.Intermediate, code)
		case 'A':
			t.Advanced = append(t.Advanced, code)
		default:
			warnings = append(warnings, fmt.Sprintf("Track level '%s' has unrecognized stage suffix '%s'", code, m[2]))
			continue
		}
		out[base] = t
	}

	for base, t := range out {
		sort.Strings(t.Basic)
		sort.Strings(t.Intermediate)
		sort.Strings(t.Advanced)
		out[base] = t
	}
	return out, warnings
}

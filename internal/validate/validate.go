// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package validate checks pipeline output for consistency problems.
//
// Errors signal a construction defect (the output contradicts itself);
// warnings flag suspicious but survivable data. Validation never stops the
// pipeline: callers always receive a complete report next to the output.
package validate

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/pdiddy/oracle-engine/pkg/types"
)

// Report accumulates findings. The zero value is ready to use.
type Report struct {
	Errors   []string
	Warnings []string
}

func (r *Report) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Report) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Mapping checks goal records against the registry and the activity index.
//
//   - a goal whose trilha id prefixes no registry code is orphaned (warning)
//   - an index entry the goal does not list, or a listed activity missing
//     from the index, breaks bidirectional consistency (error)
//   - a goal with no related activities is unreachable (warning)
func Mapping(reg types.Registry, goals map[string]types.GoalRecord, index map[string][]string) Report {
	var r Report

	codes := make([]string, 0, len(goals))
	for c := range goals {
		codes = append(codes, c)
	}
	sort.Strings(codes)

	for _, code := range codes {
		g := goals[code]
		if !hasPrefixed(reg, g.TrackID) {
			r.warnf("Goal '%s' references trilha '%s' with no registry entries", code, g.TrackID)
		}
		if len(g.RelatedActivityCodes) == 0 {
			r.warnf("Goal '%s' has no related activities", code)
		}
		for _, a := range g.RelatedActivityCodes {
			if !slices.Contains(index[a], code) {
				r.errorf("Goal '%s' lists activity '%s' but the activity index does not map it back", code, a)
			}
		}
	}

	activities := make([]string, 0, len(index))
	for a := range index {
		activities = append(activities, a)
	}
	sort.Strings(activities)

	for _, a := range activities {
		for _, code := range index[a] {
			g, ok := goals[code]
			if !ok {
				r.errorf("Activity '%s' maps to unknown goal '%s'", a, code)
				continue
			}
			if !slices.Contains(g.RelatedActivityCodes, a) {
				r.errorf("Activity '%s' maps to goal '%s' but the goal does not list it", a, code)
			}
		}
	}

	return r
}

// Registry checks the code registry against its dimension set.
func Registry(reg types.Registry, dims types.DimensionSet) Report {
	var r Report

	codes := make([]string, 0, len(reg))
	for c := range reg {
		codes = append(codes, c)
	}
	sort.Strings(codes)

	for _, code := range codes {
		a := reg[code]
		if !dims.Has(a.Dimension) {
			r.errorf("Activity '%s' has dimension '%s' outside the dimension set", code, a.Dimension)
		}
		if a.Provenance == types.ProvenanceObjective && a.LinkedTrack == "" {
			r.warnf("Objective '%s' has no linked trilha", code)
		}
	}
	return r
}

func hasPrefixed(reg types.Registry, prefix string) bool {
	if prefix == "" {
		return false
	}
	for code := range reg {
		if strings.HasPrefix(code, prefix) {
			return true
		}
	}
	return false
}

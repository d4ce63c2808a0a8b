// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package score parses the legacy colon-delimited score strings of the
// Oracle catalog, e.g. "5:1:0:0:2".
package score

import (
	"strconv"
	"strings"

	"github.com/pdiddy/oracle-engine/pkg/types"
)

// Fields is the historical positional order of score strings.
var Fields = []string{"R", "T", "SF", "E", "SM"}

// Parse maps a score string positionally onto Fields. Any input that is not
// exactly five integers yields an all-zero vector and ok=false; Parse never
// fails.
func Parse(s string) (types.ScoreVector, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != len(Fields) {
		return Zero(), false
	}
	v := make(types.ScoreVector, len(Fields))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Zero(), false
		}
		v[Fields[i]] = n
	}
	return v, true
}

// Zero returns the all-zero vector over Fields.
func Zero() types.ScoreVector {
	v := make(types.ScoreVector, len(Fields))
	for _, f := range Fields {
		v[f] = 0
	}
	return v
}

// Project returns a vector with one entry per code in dims, taking values
// from parsed. The historical work field T feeds workDim.
func Project(parsed types.ScoreVector, dims []string, workDim string) types.ScoreVector {
	out := make(types.ScoreVector, len(dims))
	for _, d := range dims {
		out[d] = parsed[d]
	}
	if workDim != "" {
		if _, ok := out[workDim]; ok && parsed["T"] != 0 && parsed[workDim] == 0 {
			out[workDim] = parsed["T"]
		}
	}
	return out
}

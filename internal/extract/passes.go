// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"

	"github.com/pdiddy/oracle-engine/pkg/types"
)

// Line patterns. Bold markers around codes are optional; bullets are "-" or "*".
var (
	// - **SF1**: Beber 2L de água [0:0:5:0:1]
	catalogLine = regexp.MustCompile(`^\s*[-*]\s+\*{0,2}([A-Z]+\d+)\*{0,2}\s*:\*{0,2}\s*(.+?)\s*$`)

	// trailing legacy score bracket on a catalog description: [0:0:5:0:1]
	scoreBracket = regexp.MustCompile(`\s*\[([\d\s:-]+)\]\s*$`)

	// - **OPP1**: Perder peso → Trilha CX1
	objectiveLine = regexp.MustCompile(`^\s*[-*]\s+\*{0,2}([A-Z]+\d+)\*{0,2}\s*:\*{0,2}\s*(.+?)\s*(?:→|->)\s*\*{0,2}(?i:trilha|track)\s+([A-Z0-9]+)(?:[^A-Za-z0-9].*)?$`)

	// - **CX1B** (Básico): Caminhar 10 minutos
	levelLine = regexp.MustCompile(`^\s*[-*]\s+\*{0,2}([A-Z]+\d[A-Z0-9]*)\*{0,2}\s*\(([^)]+)\)\s*:\s*(.+?)\s*$`)

	// **D** (Detox digital): TT1, TT2
	strategyLine = regexp.MustCompile(`^\s*(?:[-*]\s+)?\*\*([A-Z])\*\*\s*\(([^)]+)\)\s*:\s*(.*?)\s*$`)

	// - SF12 (3x/semana) - Alongamento
	looseLine = regexp.MustCompile(`^\s*[-*]\s+\*{0,2}([A-Z]+\d+)\*{0,2}\s*\(([^)]+)\)\s*-\s*(.+?)\s*$`)
)

// candidate is a code recovered from one line, before dimension resolution.
type candidate struct {
	code string
	name string

	// context is handed to the resolver; only strategy codes use it.
	context string

	track string

	scores    string
	hasScores bool
}

// pass is one step of the ordered extraction. Earlier passes win.
type pass struct {
	provenance types.Provenance
	match      func(line string) (candidate, bool)
}

// passes returns the extraction steps in their fixed order.
func (e *Extractor) passes() []pass {
	return []pass{
		{provenance: types.ProvenanceCatalog, match: matchCatalog},
		{provenance: types.ProvenanceObjective, match: matchObjective},
		{provenance: types.ProvenanceLevel, match: func(line string) (candidate, bool) {
			c, ok := matchLevel(line)
			return c, ok && len(c.code) <= e.sublevelThreshold
		}},
		{provenance: types.ProvenanceSublevel, match: func(line string) (candidate, bool) {
			c, ok := matchLevel(line)
			return c, ok && len(c.code) > e.sublevelThreshold
		}},
		{provenance: types.ProvenanceStrategy, match: matchStrategy},
		{provenance: types.ProvenanceLoose, match: matchLoose},
	}
}

func matchCatalog(line string) (candidate, bool) {
	m := catalogLine.FindStringSubmatch(line)
	if m == nil || objectiveLine.MatchString(line) {
		return candidate{}, false
	}
	c := candidate{code: m[1], name: m[2]}
	if sm := scoreBracket.FindStringSubmatchIndex(c.name); sm != nil {
		c.scores = c.name[sm[2]:sm[3]]
		c.hasScores = true
		c.name = strings.TrimSpace(c.name[:sm[0]])
	}
	c.name = cleanName(c.name)
	return c, c.name != ""
}

func matchObjective(line string) (candidate, bool) {
	m := objectiveLine.FindStringSubmatch(line)
	if m == nil {
		return candidate{}, false
	}
	return candidate{code: m[1], name: cleanName(m[2]), track: m[3]}, true
}

func matchLevel(line string) (candidate, bool) {
	m := levelLine.FindStringSubmatch(line)
	if m == nil {
		return candidate{}, false
	}
	return candidate{code: m[1], name: cleanName(m[3]), context: m[2]}, true
}

func matchStrategy(line string) (candidate, bool) {
	m := strategyLine.FindStringSubmatch(line)
	if m == nil {
		return candidate{}, false
	}
	desc := strings.TrimSpace(m[2])
	return candidate{code: m[1], name: desc, context: desc}, true
}

func matchLoose(line string) (candidate, bool) {
	m := looseLine.FindStringSubmatch(line)
	if m == nil {
		return candidate{}, false
	}
	name := m[3]
	if i := strings.Index(name, " - "); i >= 0 {
		name = name[:i]
	}
	name = cleanName(name)
	return candidate{code: m[1], name: name}, name != ""
}

// cleanName strips leftover emphasis markers and whitespace.
func cleanName(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "*_"))
}

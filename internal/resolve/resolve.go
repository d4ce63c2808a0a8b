// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve maps activity codes to dimension codes.
//
// Resolution runs three table-driven rules in order: explicit prefix
// overrides, the leading-letter prefix (with reserved prefixes protected from
// the work-letter rewrite), and the strategy decision table for single-letter
// codes whose meaning depends on their description.
package resolve

import (
	"regexp"
	"sort"
	"strings"

	"github.com/pdiddy/oracle-engine/pkg/types"
)

var leadingLetters = regexp.MustCompile(`^([A-Z]+)`)

// Rule names the resolution step that produced a dimension.
type Rule string

const (
	RuleNone     Rule = ""
	RuleOverride Rule = "override"
	RuleReserved Rule = "reserved"
	RulePrefix   Rule = "prefix"
	RuleStrategy Rule = "strategy"
)

type strategy struct {
	def       string
	overrides []types.KeywordOverride
}

// Resolver resolves codes against a fixed set of tables. It holds no
// per-document state and is safe for concurrent use.
type Resolver struct {
	overrides     []types.PrefixRule
	reserved      []types.PrefixRule
	workLetter    string
	workDimension string
	strategies    map[string]strategy
}

// New builds a Resolver from cfg. Override and reserved prefixes are sorted
// longest first so a short prefix never shadows a longer one.
func New(cfg types.ResolverConfig) *Resolver {
	r := &Resolver{
		overrides:     byLengthDesc(cfg.Overrides),
		reserved:      byLengthDesc(cfg.Reserved),
		workLetter:    cfg.WorkLetter,
		workDimension: cfg.WorkDimension,
		strategies:    make(map[string]strategy, len(cfg.Strategies)),
	}
	for _, s := range cfg.Strategies {
		if _, dup := r.strategies[s.Letter]; dup {
			continue
		}
		r.strategies[s.Letter] = strategy{def: s.Default, overrides: s.Overrides}
	}
	return r
}

func byLengthDesc(rules []types.PrefixRule) []types.PrefixRule {
	out := make([]types.PrefixRule, 0, len(rules))
	for _, r := range rules {
		if r.Prefix != "" {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i].Prefix) > len(out[j].Prefix)
	})
	return out
}

// Resolve returns the dimension for an activity code. description is only
// consulted for single-letter strategy codes. ok is false when no rule
// applies; callers drop such candidates.
func (r *Resolver) Resolve(code, description string) (string, bool) {
	dim, rule := r.Explain(code, description)
	return dim, rule != RuleNone
}

// Explain is Resolve that also reports which rule matched.
func (r *Resolver) Explain(code, description string) (string, Rule) {
	if code == "" {
		return "", RuleNone
	}
	for _, o := range r.overrides {
		if strings.HasPrefix(code, o.Prefix) {
			return o.Dimension, RuleOverride
		}
	}
	if s, ok := r.strategies[code]; ok {
		return s.resolve(description), RuleStrategy
	}
	return r.prefix(code)
}

// Prefix applies only the leading-letter rule, skipping overrides and
// strategies. Useful when a code is known to be a plain catalog code.
func (r *Resolver) Prefix(code string) (string, bool) {
	dim, rule := r.prefix(code)
	return dim, rule != RuleNone
}

func (r *Resolver) prefix(code string) (string, Rule) {
	for _, res := range r.reserved {
		if strings.HasPrefix(code, res.Prefix) {
			return res.Dimension, RuleReserved
		}
	}
	m := leadingLetters.FindStringSubmatch(code)
	if m == nil {
		return "", RuleNone
	}
	p := m[1]
	if p == r.workLetter && r.workDimension != "" {
		return r.workDimension, RulePrefix
	}
	return p, RulePrefix
}

// WorkDimension returns the dimension the bare work letter is rewritten to.
func (r *Resolver) WorkDimension() string {
	return r.workDimension
}

// Strategy resolves a single-letter strategy code. ok is false if the letter
// has no row in the decision table.
func (r *Resolver) Strategy(letter, description string) (string, bool) {
	s, ok := r.strategies[letter]
	if !ok {
		return "", false
	}
	return s.resolve(description), true
}

func (s strategy) resolve(description string) string {
	desc := strings.ToLower(description)
	for _, o := range s.overrides {
		for _, kw := range o.Keywords {
			if kw != "" && strings.Contains(desc, strings.ToLower(kw)) {
				return o.Dimension
			}
		}
	}
	return s.def
}

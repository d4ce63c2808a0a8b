// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract recovers typed registry entries from Oracle document text.
//
// Extraction is a fixed sequence of line-oriented passes (catalog entries,
// objectives, track levels, track sub-levels, strategy-framework codes, loose
// references). All passes feed one registry guarded by first-writer-wins: a
// code registered by an earlier pass is never overwritten by a later one.
package extract

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/oracle-engine/internal/resolve"
	"github.com/pdiddy/oracle-engine/internal/score"
	"github.com/pdiddy/oracle-engine/pkg/types"
)

// Output holds the registry produced by one document run and the
// data-quality warnings raised while building it.
type Output struct {
	Registry types.Registry
	Warnings []string
}

// Extractor runs the ordered passes. It keeps no per-document state, so one
// Extractor can serve many concurrent runs.
type Extractor struct {
	resolver          *resolve.Resolver
	sublevelThreshold int
	logger            *zap.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger used for per-entry diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(e *Extractor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithSublevelThreshold sets the code length above which a level-shaped line
// is a track sub-level. Values <= 0 keep the default.
func WithSublevelThreshold(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.sublevelThreshold = n
		}
	}
}

// New returns an Extractor resolving dimensions with r.
func New(r *resolve.Resolver, opts ...Option) *Extractor {
	e := &Extractor{
		resolver:          r,
		sublevelThreshold: resolve.DefaultSublevelThreshold,
		logger:            zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract runs every pass over text in order and returns the registry.
// Lines that match no pattern are ignored; candidates whose dimension is
// unresolved or not in dims are dropped with a warning.
func (e *Extractor) Extract(text string, dims types.DimensionSet) Output {
	r := &run{
		extractor: e,
		dims:      dims,
		dimCodes:  dims.Codes(),
		out:       Output{Registry: make(types.Registry)},
		warned:    make(map[string]bool),
	}

	lines := splitLines(text)
	for _, p := range e.passes() {
		added := 0
		for _, line := range lines {
			c, ok := p.match(line)
			if !ok {
				continue
			}
			if r.add(p.provenance, c) {
				added++
			}
		}
		e.logger.Debug("extraction pass complete",
			zap.String("provenance", string(p.provenance)),
			zap.Int("added", added))
	}

	return r.out
}

// run is the mutable state of a single Extract call.
type run struct {
	extractor *Extractor
	dims      types.DimensionSet
	dimCodes  []string
	out       Output
	warned    map[string]bool
}

func (r *run) warn(msg string) {
	if r.warned[msg] {
		return
	}
	r.warned[msg] = true
	r.out.Warnings = append(r.out.Warnings, msg)
	r.extractor.logger.Warn(msg)
}

// add registers c under provenance p unless its code is already taken.
// It reports whether the registry grew.
func (r *run) add(p types.Provenance, c candidate) bool {
	if _, taken := r.out.Registry[c.code]; taken {
		return false
	}

	dim, ok := r.resolve(p, c)
	if !ok {
		r.warn(fmt.Sprintf("Unresolved dimension for activity %s", c.code))
		return false
	}
	if !r.dims.Has(dim) {
		r.warn(fmt.Sprintf("Unknown dimension for activity %s: %s", c.code, dim))
		return false
	}

	vec := score.Project(score.Zero(), r.dimCodes, "")
	if c.hasScores {
		parsed, ok := score.Parse(c.scores)
		if !ok {
			r.warn(fmt.Sprintf("Malformed score string for activity %s: %q", c.code, c.scores))
		}
		vec = score.Project(parsed, r.dimCodes, r.extractor.resolver.WorkDimension())
	}

	r.out.Registry[c.code] = types.Activity{
		Code:        c.code,
		Name:        c.name,
		Dimension:   dim,
		ScoreVector: vec,
		Provenance:  p,
		LinkedTrack: c.track,
	}
	return true
}

// resolve picks the dimension for c. Strategy letters only go through the
// decision table; a letter with no row is unresolved.
func (r *run) resolve(p types.Provenance, c candidate) (string, bool) {
	if p == types.ProvenanceStrategy {
		return r.extractor.resolver.Strategy(c.code, c.context)
	}
	return r.extractor.resolver.Resolve(c.code, c.context)
}

// splitLines splits text on newlines, dropping carriage returns.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, "\r")
	}
	return lines
}

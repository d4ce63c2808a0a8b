// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline assembles the stages that turn Oracle document text into
// a Result and a Result into a goal MappingDocument.
//
// Each stage is a pure function over the previous stage's output. The
// pipeline never touches the filesystem: callers own loading and
// persistence and report unreadable input through Failed.
package pipeline

import (
	"fmt"
	"path/filepath"
	"regexp"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/oracle-engine/internal/dimension"
	"github.com/pdiddy/oracle-engine/internal/extract"
	"github.com/pdiddy/oracle-engine/internal/mapping"
	"github.com/pdiddy/oracle-engine/internal/resolve"
	"github.com/pdiddy/oracle-engine/internal/validate"
	"github.com/pdiddy/oracle-engine/pkg/types"
)

// UnknownVersion is reported when the source identifier carries no N.N pattern.
const UnknownVersion = "unknown"

var versionPattern = regexp.MustCompile(`(\d+\.\d+)`)

// Pipeline runs the extraction and mapping stages with a fixed configuration.
// It holds no per-run state and may be shared between goroutines.
type Pipeline struct {
	resolver  *resolve.Resolver
	threshold int
	logger    *zap.Logger
	now       func() time.Time
	extractor *extract.Extractor
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger passed down to every stage.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithResolver replaces the default resolution tables.
func WithResolver(r *resolve.Resolver) Option {
	return func(p *Pipeline) {
		if r != nil {
			p.resolver = r
		}
	}
}

// WithSublevelThreshold sets the track sub-level code length threshold.
func WithSublevelThreshold(n int) Option {
	return func(p *Pipeline) { p.threshold = n }
}

// WithClock overrides the generation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

// New returns a Pipeline using the default tables unless overridden.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		resolver: resolve.Default(),
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.extractor = extract.New(p.resolver,
		extract.WithLogger(p.logger),
		extract.WithSublevelThreshold(p.threshold))
	return p
}

// Version returns the first N.N pattern in the base name of source, or
// UnknownVersion.
func Version(source string) string {
	if m := versionPattern.FindString(filepath.Base(source)); m != "" {
		return m
	}
	return UnknownVersion
}

func (p *Pipeline) timestamp() string {
	return p.now().UTC().Format(time.RFC3339)
}

// Run processes one document. source identifies the document (usually its
// path) and only feeds the version and source_file fields.
func (p *Pipeline) Run(source, text string) *types.Result {
	log := p.logger.With(zap.String("source", source))

	dims := dimension.Extract(text)
	log.Debug("dimensions extracted", zap.Strings("codes", dims.Codes()))

	out := p.extractor.Extract(text, dims)

	check := validate.Registry(out.Registry, dims)

	res := &types.Result{
		Version:     Version(source),
		SourceFile:  filepath.Base(source),
		GeneratedAt: p.timestamp(),
		Dimensions:  dims,
		Activities:  out.Registry,
		Warnings:    append(nonNil(out.Warnings), check.Warnings...),
		Errors:      nonNil(check.Errors),
	}
	res.Metadata = metadata(res)

	log.Info("document processed",
		zap.String("version", res.Version),
		zap.Int("dimensions", len(dims)),
		zap.Int("activities", len(out.Registry)),
		zap.Int("warnings", len(res.Warnings)),
		zap.Int("errors", len(res.Errors)))

	return res
}

// Failed returns the result for a document that could not be read: an empty
// registry and a single error describing the failure.
func (p *Pipeline) Failed(source string, err error) *types.Result {
	msg := fmt.Sprintf("Failed to read file %s: %v", source, err)
	p.logger.Error("document unreadable", zap.String("source", source), zap.Error(err))

	res := &types.Result{
		Version:     Version(source),
		SourceFile:  filepath.Base(source),
		GeneratedAt: p.timestamp(),
		Dimensions:  types.DimensionSet{},
		Activities:  types.Registry{},
		Warnings:    []string{},
		Errors:      []string{msg},
	}
	res.Metadata = metadata(res)
	return res
}

// Map builds the goal mapping document from a prior result. The result may
// come straight from Run or from a JSON file written earlier.
func (p *Pipeline) Map(res *types.Result) *types.MappingDocument {
	reg := res.Activities
	if reg == nil {
		reg = types.Registry{}
	}

	goals := mapping.BuildGoals(reg)
	index := mapping.BuildIndex(goals)
	hierarchy, hierarchyWarnings := mapping.Hierarchy(reg)

	check := validate.Mapping(reg, goals, index)
	report := types.ValidationReport{
		Errors:   nonNil(check.Errors),
		Warnings: append(nonNil(check.Warnings), hierarchyWarnings...),
		Statistics: types.MappingStatistics{
			TotalGoals:            len(goals),
			TotalMappedActivities: len(index),
			CoveragePercentage:    mapping.Coverage(reg, index),
		},
	}

	p.logger.Info("goal mapping built",
		zap.String("version", res.Version),
		zap.Int("goals", len(goals)),
		zap.Float64("coverage", report.Statistics.CoveragePercentage),
		zap.Int("errors", len(report.Errors)))

	return &types.MappingDocument{
		Version:             res.Version,
		GeneratedAt:         p.timestamp(),
		GoalTrilhaMapping:   goals,
		ActivityGoalMapping: index,
		GoalCategories:      mapping.Categories(reg, goals),
		TrilhaHierarchy:     hierarchy,
		ValidationReport:    report,
	}
}

func metadata(res *types.Result) types.Metadata {
	status := types.StatusSuccess
	if len(res.Errors) > 0 {
		status = types.StatusError
	}
	return types.Metadata{
		TotalActivities:  len(res.Activities),
		ProvenanceCounts: res.Activities.CountByProvenance(),
		TotalDimensions:  len(res.Dimensions),
		ParsingStatus:    status,
		Warnings:         len(res.Warnings),
		Errors:           len(res.Errors),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch runs the pipeline over Oracle documents on disk: discovery,
// change detection, bounded parallel processing and JSON output.
package batch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/oracle-engine/internal/pipeline"
	"github.com/pdiddy/oracle-engine/pkg/types"
)

// Defaults applied when BatchConfig leaves a field empty.
const (
	DefaultOracleDir = "assets/config/oracle"
	DefaultPattern   = "oracle_prompt_*.md"

	mappingSuffix = "_goal_mapping.json"
)

// Status is the per-document outcome of a batch run.
type Status string

const (
	StatusProcessed Status = "processed"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// Outcome records what happened to one document.
type Outcome struct {
	Source  string
	Output  string
	Status  Status
	Result  *types.Result
	Mapping *types.MappingDocument
	Err     error
}

// Summary holds counts and outcomes from a batch run, in input order.
type Summary struct {
	Processed int
	Skipped   int
	Failed    int
	Outcomes  []Outcome
}

// Total returns the number of documents considered.
func (s Summary) Total() int {
	return s.Processed + s.Skipped + s.Failed
}

// HasFailures reports whether any document failed.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

func (s *Summary) record(o Outcome) {
	switch o.Status {
	case StatusProcessed:
		s.Processed++
	case StatusSkipped:
		s.Skipped++
	default:
		s.Failed++
	}
	s.Outcomes = append(s.Outcomes, o)
}

// Runner processes documents with one pipeline and batch configuration.
type Runner struct {
	pipeline *pipeline.Pipeline
	cfg      types.BatchConfig
	logger   *zap.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the runner logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// New returns a Runner. Empty config fields take the package defaults.
func New(p *pipeline.Pipeline, cfg types.BatchConfig, opts ...Option) *Runner {
	if cfg.OracleDir == "" {
		cfg.OracleDir = DefaultOracleDir
	}
	if cfg.Pattern == "" {
		cfg.Pattern = DefaultPattern
	}
	if cfg.Parallel <= 0 {
		cfg.Parallel = 1
	}
	r := &Runner{pipeline: p, cfg: cfg, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Config returns the effective batch configuration.
func (r *Runner) Config() types.BatchConfig {
	return r.cfg
}

// Discover returns the documents under dir matching the doublestar pattern,
// sorted by path.
func Discover(dir, pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid document pattern %q", pattern)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("oracle directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("oracle directory %s: not a directory", dir)
	}

	matches, err := doublestar.Glob(os.DirFS(dir), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("globbing %s in %s: %w", pattern, dir, err)
	}

	docs := make([]string, 0, len(matches))
	for _, m := range matches {
		docs = append(docs, filepath.Join(dir, filepath.FromSlash(m)))
	}
	return docs, nil
}

// DiscoverAll lists the documents selected by the runner configuration.
func (r *Runner) DiscoverAll() ([]string, error) {
	return Discover(r.cfg.OracleDir, r.cfg.Pattern)
}

// OutputPath returns where the result JSON for doc is written.
func (r *Runner) OutputPath(doc string) string {
	return r.outputPath(doc, ".json")
}

// MappingPath returns where the goal mapping JSON for doc is written.
func (r *Runner) MappingPath(doc string) string {
	return r.outputPath(doc, mappingSuffix)
}

func (r *Runner) outputPath(doc, suffix string) string {
	stem := strings.TrimSuffix(doc, filepath.Ext(doc))
	if r.cfg.OutputDir != "" {
		stem = filepath.Join(r.cfg.OutputDir, filepath.Base(stem))
	}
	return stem + suffix
}

// RunAll processes docs with at most cfg.Parallel documents in flight and
// writes one progress line per document to w, in input order.
func (r *Runner) RunAll(ctx context.Context, docs []string, w io.Writer) (Summary, error) {
	outcomes := make([]Outcome, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Parallel)
	for i, doc := range docs {
		i, doc := i, doc
		g.Go(func() error {
			outcomes[i] = r.Process(gctx, doc, r.OutputPath(doc))
			return nil
		})
	}
	_ = g.Wait() // failures are carried in each Outcome

	var summary Summary
	for _, o := range outcomes {
		summary.record(o)
		writeProgress(w, o)
	}

	r.logger.Info("batch complete",
		zap.Int("processed", summary.Processed),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed))

	return summary, ctx.Err()
}

// Process runs one document and writes its result to out. Unless Force is
// set, a document whose output is newer than the source is skipped.
func (r *Runner) Process(ctx context.Context, doc, out string) Outcome {
	o := Outcome{Source: doc, Output: out}
	log := r.logger.With(zap.String("source", doc))

	if err := ctx.Err(); err != nil {
		o.Status, o.Err = StatusFailed, err
		return o
	}

	if !r.cfg.Force {
		changed, err := hasChanged(doc, out)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			o.Status, o.Err = StatusFailed, err
			return o
		}
		if err == nil && !changed {
			o.Status = StatusSkipped
			return o
		}
	}

	text, err := os.ReadFile(doc)
	if err != nil {
		o.Result = r.pipeline.Failed(doc, err)
	} else {
		o.Result = r.pipeline.Run(doc, string(text))
	}

	if err := writeJSON(out, o.Result); err != nil {
		o.Status, o.Err = StatusFailed, fmt.Errorf("write error: %w", err)
		return o
	}

	if r.cfg.WithMapping && o.Result.Succeeded() {
		o.Mapping = r.pipeline.Map(o.Result)
		if err := writeJSON(r.MappingPath(doc), o.Mapping); err != nil {
			o.Status, o.Err = StatusFailed, fmt.Errorf("write error: %w", err)
			return o
		}
	}

	if !o.Result.Succeeded() {
		o.Status = StatusFailed
		o.Err = errors.New(strings.Join(o.Result.Errors, "; "))
		log.Warn("document failed", zap.Strings("errors", o.Result.Errors))
		return o
	}

	o.Status = StatusProcessed
	return o
}

func writeProgress(w io.Writer, o Outcome) {
	name := filepath.Base(o.Source)
	switch o.Status {
	case StatusSkipped:
		fmt.Fprintf(w, "skipped %s\n", name)
	case StatusProcessed:
		md := o.Result.Metadata
		fmt.Fprintf(w, "processed %s (%d dimensions, %d activities, %d warnings)\n",
			name, md.TotalDimensions, md.TotalActivities, md.Warnings)
	default:
		fmt.Fprintf(w, "failed  %s: %v\n", name, o.Err)
	}
}

// hasChanged reports whether src is newer than out. A missing out counts as
// changed; a missing src is returned as an error.
func hasChanged(src, out string) (bool, error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return false, fmt.Errorf("stat document %s: %w", src, err)
	}

	outInfo, err := os.Stat(out)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, fmt.Errorf("stat output %s: %w", out, err)
	}

	return srcInfo.ModTime().After(outInfo.ModTime()), nil
}

// writeJSON writes v as indented JSON without HTML escaping.
func writeJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("marshaling %s: %w", filepath.Base(path), err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// WriteJSON writes v to path the same way batch outputs are written.
func WriteJSON(path string, v any) error {
	return writeJSON(path, v)
}

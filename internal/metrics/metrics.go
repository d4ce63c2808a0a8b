// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics records batch run statistics in a Prometheus registry and
// writes them in the node_exporter textfile format.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pdiddy/oracle-engine/internal/batch"
	"github.com/pdiddy/oracle-engine/pkg/types"
)

const namespace = "oracle_engine"

// Recorder holds the collectors for one CLI invocation.
type Recorder struct {
	registry *prometheus.Registry

	documents  *prometheus.CounterVec
	activities *prometheus.GaugeVec
	warnings   *prometheus.GaugeVec
	errors     *prometheus.GaugeVec
	coverage   *prometheus.GaugeVec
	duration   prometheus.Histogram
}

// New returns a Recorder backed by a private registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_total",
			Help:      "Oracle documents considered, by batch outcome.",
		}, []string{"status"}),
		activities: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "activities",
			Help:      "Registry entries per document version and provenance.",
		}, []string{"version", "provenance"}),
		warnings: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "warnings",
			Help:      "Data-quality warnings per document version.",
		}, []string{"version"}),
		errors: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "errors",
			Help:      "Errors per document version.",
		}, []string{"version"}),
		coverage: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "goal_coverage_percent",
			Help:      "Share of catalog entries reachable from a goal.",
		}, []string{"version"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_duration_seconds",
			Help:      "Wall time of a batch run.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		}),
	}
	r.registry.MustRegister(r.documents, r.activities, r.warnings, r.errors, r.coverage, r.duration)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveResult records the registry counts of one result.
func (r *Recorder) ObserveResult(res *types.Result) {
	for _, p := range types.Provenances {
		r.activities.WithLabelValues(res.Version, string(p)).Set(float64(res.Metadata.ProvenanceCounts[p]))
	}
	r.warnings.WithLabelValues(res.Version).Set(float64(len(res.Warnings)))
	r.errors.WithLabelValues(res.Version).Set(float64(len(res.Errors)))
}

// ObserveMapping records goal coverage for a mapping document.
func (r *Recorder) ObserveMapping(doc *types.MappingDocument) {
	r.coverage.WithLabelValues(doc.Version).Set(doc.ValidationReport.Statistics.CoveragePercentage)
}

// ObserveBatch records every outcome of a batch run and its duration.
func (r *Recorder) ObserveBatch(s batch.Summary, elapsed time.Duration) {
	for _, o := range s.Outcomes {
		r.documents.WithLabelValues(string(o.Status)).Inc()
		if o.Result != nil {
			r.ObserveResult(o.Result)
		}
		if o.Mapping != nil {
			r.ObserveMapping(o.Mapping)
		}
	}
	r.duration.Observe(elapsed.Seconds())
}

// WriteTextfile writes the registry to path atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}

// Package metrics provides Prometheus metrics for diagnoses and knowledge base
// health.
//
// triage is a short-lived CLI with no listener, so metrics live in a private
// registry and are written in the text exposition format with WriteTextfile,
// ready for a node_exporter textfile collector.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/fyrsmithlabs/triage/internal/knowledge"
)

const namespace = "triage"

// Metrics holds the triage collectors. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	registry *prometheus.Registry

	// DiagnosesTotal counts diagnoses by match kind.
	// Labels: kind (exact, partial, none)
	DiagnosesTotal *prometheus.CounterVec

	// MatchScore tracks the overlap score of returned matches.
	MatchScore prometheus.Histogram

	// RejectedQueriesTotal counts queries refused before matching.
	// Labels: reason (empty, invalid_symptom)
	RejectedQueriesTotal *prometheus.CounterVec

	// Rules tracks rule counts by source.
	// Labels: source (curated, generated)
	Rules *prometheus.GaugeVec

	// ShadowedRules tracks curated definitions hidden by earlier duplicates.
	ShadowedRules prometheus.Gauge

	// KnownSymptoms tracks the size of the symptom vocabulary.
	KnownSymptoms prometheus.Gauge

	// ReloadsTotal counts rule file reloads.
	// Labels: result (success, error)
	ReloadsTotal *prometheus.CounterVec
}

// New creates Metrics registered on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		DiagnosesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "diagnosis",
				Name:      "total",
				Help:      "Total number of diagnoses by match kind",
			},
			[]string{"kind"},
		),
		MatchScore: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "diagnosis",
				Name:      "match_score",
				Help:      "Fraction of the matched rule's symptoms present in the query",
				Buckets:   []float64{0.1, 0.2, 0.25, 1.0 / 3, 0.5, 2.0 / 3, 0.75, 0.9, 1},
			},
		),
		RejectedQueriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "diagnosis",
				Name:      "rejected_queries_total",
				Help:      "Total number of queries rejected before matching",
			},
			[]string{"reason"},
		),
		Rules: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "knowledge",
				Name:      "rules",
				Help:      "Number of rules in the knowledge base by source",
			},
			[]string{"source"},
		),
		ShadowedRules: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "knowledge",
				Name:      "shadowed_rules",
				Help:      "Curated rules unreachable because an earlier rule has the same symptoms",
			},
		),
		KnownSymptoms: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "knowledge",
				Name:      "known_symptoms",
				Help:      "Number of distinct symptoms known to the knowledge base",
			},
		),
		ReloadsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "knowledge",
				Name:      "reloads_total",
				Help:      "Total number of rule file reloads",
			},
			[]string{"result"},
		),
	}
}

// Registry returns the registry holding all triage collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveDiagnosis records a completed diagnosis.
func (m *Metrics) ObserveDiagnosis(kind string, score float64) {
	if m == nil {
		return
	}
	m.DiagnosesTotal.WithLabelValues(kind).Inc()
	if score > 0 {
		m.MatchScore.Observe(score)
	}
}

// ObserveRejected records a query rejected by validation.
func (m *Metrics) ObserveRejected(reason string) {
	if m == nil {
		return
	}
	m.RejectedQueriesTotal.WithLabelValues(reason).Inc()
}

// SetKnowledgeBase updates the knowledge base gauges.
func (m *Metrics) SetKnowledgeBase(stats knowledge.Stats) {
	if m == nil {
		return
	}
	m.Rules.WithLabelValues(knowledge.SourceCurated.String()).Set(float64(stats.Curated))
	m.Rules.WithLabelValues(knowledge.SourceGenerated.String()).Set(float64(stats.Generated))
	m.ShadowedRules.Set(float64(stats.Shadowed))
	m.KnownSymptoms.Set(float64(stats.KnownSymptoms))
}

// ObserveReload records a rule file reload attempt.
func (m *Metrics) ObserveReload(err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	m.ReloadsTotal.WithLabelValues(result).Inc()
}

// WriteTextfile writes all metrics to path in the Prometheus text format.
// The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile %s: %w", path, err)
	}
	return nil
}

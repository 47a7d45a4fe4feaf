package diagnosis

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/triage/internal/knowledge"
	"github.com/fyrsmithlabs/triage/internal/logging"
	"github.com/fyrsmithlabs/triage/internal/metrics"
)

// Rejection reasons recorded in metrics.
const (
	RejectEmpty          = "empty"
	RejectInvalidSymptom = "invalid_symptom"
)

// Diagnosis is the caller-facing record of one diagnosis.
type Diagnosis struct {
	ID              string    `json:"id"`
	Symptoms        []string  `json:"symptoms"`
	Label           string    `json:"label"`
	Recommendation  string    `json:"recommendation"`
	Kind            Kind      `json:"kind"`
	Score           float64   `json:"score"`
	MatchedSymptoms []string  `json:"matched_symptoms,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Option configures a Service.
type Option func(*Service)

// WithTracer sets the tracer used for diagnosis spans.
func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithMetrics records diagnoses and rejections in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithClock overrides the time source for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// Service validates symptom input and diagnoses it against the current
// knowledge base. It is safe for concurrent use; Swap replaces the knowledge
// base without disturbing diagnoses in flight.
type Service struct {
	kb      atomic.Pointer[knowledge.KnowledgeBase]
	logger  *logging.Logger
	tracer  trace.Tracer
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewService creates a diagnosis service over kb.
func NewService(kb *knowledge.KnowledgeBase, logger *logging.Logger, opts ...Option) (*Service, error) {
	if kb == nil {
		return nil, errors.New("knowledge base is required for diagnosis service")
	}
	if logger == nil {
		return nil, errors.New("logger is required for diagnosis service")
	}

	s := &Service{
		logger: logger.Named("diagnosis"),
		tracer: otel.Tracer("triage/diagnosis"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.kb.Store(kb)
	s.metrics.SetKnowledgeBase(kb.Stats())
	return s, nil
}

// KnowledgeBase returns the knowledge base currently in use.
func (s *Service) KnowledgeBase() *knowledge.KnowledgeBase {
	return s.kb.Load()
}

// Swap replaces the knowledge base. A nil kb is ignored.
func (s *Service) Swap(kb *knowledge.KnowledgeBase) {
	if kb == nil {
		return
	}
	s.kb.Store(kb)
	s.metrics.SetKnowledgeBase(kb.Stats())
}

// Diagnose validates raw symptoms and returns the best diagnosis.
//
// Symptoms are canonicalized and de-duplicated. An empty list returns
// knowledge.ErrEmptyQuery and an unrecognized symptom returns a
// *knowledge.InvalidSymptomError; no diagnosis is made in either case.
func (s *Service) Diagnose(ctx context.Context, raw []string) (*Diagnosis, error) {
	id := uuid.New().String()
	if logging.RequestIDFromContext(ctx) == "" {
		ctx = logging.WithRequestID(ctx, id)
	}

	ctx, span := s.tracer.Start(ctx, "Service.Diagnose")
	defer span.End()

	kb := s.kb.Load()
	q, err := kb.ParseQuery(raw)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid query")
		s.metrics.ObserveRejected(rejectReason(err))
		s.logger.Debug(ctx, "query rejected", zap.Error(err))
		return nil, err
	}

	span.SetAttributes(attribute.Int("diagnosis.symptom_count", q.Len()))

	res := Match(kb, q)

	span.SetAttributes(
		attribute.String("diagnosis.kind", res.Kind.String()),
		attribute.Float64("diagnosis.score", res.Score),
	)
	s.metrics.ObserveDiagnosis(res.Kind.String(), res.Score)

	d := &Diagnosis{
		ID:             id,
		Symptoms:       q.Symptoms(),
		Label:          res.Label,
		Recommendation: res.Recommendation,
		Kind:           res.Kind,
		Score:          res.Score,
		CreatedAt:      s.now(),
	}
	if res.Rule != nil {
		for _, sym := range d.Symptoms {
			if res.Rule.Contains(sym) {
				d.MatchedSymptoms = append(d.MatchedSymptoms, sym)
			}
		}
	}

	s.logger.Info(ctx, "diagnosis generated",
		zap.String("diagnosis_id", d.ID),
		zap.Stringer("kind", res.Kind),
		zap.Float64("score", res.Score),
		zap.Int("symptom_count", q.Len()),
	)
	s.logger.Trace(ctx, "diagnosis detail",
		zap.Strings("symptoms", d.Symptoms),
		zap.String("label", d.Label),
	)

	return d, nil
}

func rejectReason(err error) string {
	if errors.Is(err, knowledge.ErrEmptyQuery) {
		return RejectEmpty
	}
	return RejectInvalidSymptom
}

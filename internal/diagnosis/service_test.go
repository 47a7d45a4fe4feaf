package diagnosis

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/fyrsmithlabs/triage/internal/knowledge"
	"github.com/fyrsmithlabs/triage/internal/logging"
	"github.com/fyrsmithlabs/triage/internal/metrics"
	"github.com/fyrsmithlabs/triage/internal/telemetry"
)

type serviceFixture struct {
	svc     *Service
	logs    *logging.TestLogger
	tel     *telemetry.TestTelemetry
	metrics *metrics.Metrics
}

var fixedNow = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

func newServiceFixture(t *testing.T, kb *knowledge.KnowledgeBase) *serviceFixture {
	t.Helper()
	f := &serviceFixture{
		logs:    logging.NewTestLogger(),
		tel:     telemetry.NewTestTelemetry(),
		metrics: metrics.New(),
	}
	svc, err := NewService(kb, f.logs.Logger,
		WithTracer(f.tel.Tracer("test")),
		WithMetrics(f.metrics),
		WithClock(func() time.Time { return fixedNow }),
	)
	require.NoError(t, err)
	f.svc = svc
	return f
}

func TestNewService_Validation(t *testing.T) {
	_, err := NewService(nil, logging.NewNop())
	assert.Error(t, err)

	_, err = NewService(smallKB(t), nil)
	assert.Error(t, err)
}

func TestService_DiagnoseExact(t *testing.T) {
	f := newServiceFixture(t, defaultKB(t))

	d, err := f.svc.Diagnose(context.Background(), []string{"Cough", "fever", "cough"})
	require.NoError(t, err)

	_, err = uuid.Parse(d.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"cough", "fever"}, d.Symptoms)
	assert.Equal(t, "Viral Infection 🦠", d.Label)
	assert.Equal(t, "👨‍⚕️ General Physician", d.Recommendation)
	assert.Equal(t, KindExact, d.Kind)
	assert.Equal(t, 1.0, d.Score)
	assert.Equal(t, []string{"cough", "fever"}, d.MatchedSymptoms)
	assert.Equal(t, fixedNow, d.CreatedAt)

	f.tel.AssertSpanExists(t, "Service.Diagnose")
	f.tel.AssertSpanAttribute(t, "Service.Diagnose", "diagnosis.kind", "exact")
	f.tel.AssertSpanAttribute(t, "Service.Diagnose", "diagnosis.symptom_count", int64(2))

	f.logs.AssertLogged(t, zapcore.InfoLevel, "diagnosis generated")
	f.logs.AssertField(t, "diagnosis generated", "kind", "exact")
	f.logs.AssertField(t, "diagnosis generated", "request.id", d.ID)
	f.logs.AssertTraceCorrelation(t, "diagnosis generated")

	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.DiagnosesTotal.WithLabelValues("exact")))
}

func TestService_DiagnosePartial(t *testing.T) {
	f := newServiceFixture(t, smallKB(t))

	d, err := f.svc.Diagnose(context.Background(), []string{"a", "c", "x"})
	require.NoError(t, err)

	// Four scores 2/4, Other Two 1/2, One 1/1.
	assert.Equal(t, KindPartial, d.Kind)
	assert.Equal(t, ClosestMatchPrefix+"One", d.Label)
	assert.Equal(t, []string{"a"}, d.MatchedSymptoms)
	assert.Equal(t, 1, testutil.CollectAndCount(f.metrics.MatchScore))
}

func TestService_DiagnoseRejects(t *testing.T) {
	tests := []struct {
		name       string
		raw        []string
		wantIs     error
		wantReason string
	}{
		{name: "nil", raw: nil, wantIs: knowledge.ErrEmptyQuery, wantReason: RejectEmpty},
		{name: "blank", raw: []string{"  ", ""}, wantIs: knowledge.ErrEmptyQuery, wantReason: RejectEmpty},
		{name: "unknown", raw: []string{"fever", "hiccups"}, wantIs: knowledge.ErrInvalidSymptom, wantReason: RejectInvalidSymptom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newServiceFixture(t, defaultKB(t))

			d, err := f.svc.Diagnose(context.Background(), tt.raw)
			require.Error(t, err)
			assert.Nil(t, d)
			assert.True(t, errors.Is(err, tt.wantIs))

			assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.RejectedQueriesTotal.WithLabelValues(tt.wantReason)))
			assert.Equal(t, 0, testutil.CollectAndCount(f.metrics.DiagnosesTotal))
			f.tel.AssertSpanError(t, "Service.Diagnose")
			f.logs.AssertNotLogged(t, zapcore.InfoLevel, "diagnosis generated")
		})
	}
}

func TestService_InvalidSymptomSuggestions(t *testing.T) {
	f := newServiceFixture(t, defaultKB(t))

	_, err := f.svc.Diagnose(context.Background(), []string{"sore"})
	var invalid *knowledge.InvalidSymptomError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "sore", invalid.Symptom)
	assert.Contains(t, invalid.Suggestions, "sore throat")
}

func TestService_KeepsCallerRequestID(t *testing.T) {
	f := newServiceFixture(t, defaultKB(t))
	ctx := logging.WithRequestID(context.Background(), "req-123")

	d, err := f.svc.Diagnose(ctx, []string{"fever"})
	require.NoError(t, err)
	assert.NotEqual(t, "req-123", d.ID)
	f.logs.AssertField(t, "diagnosis generated", "request.id", "req-123")
}

func TestService_Swap(t *testing.T) {
	f := newServiceFixture(t, defaultKB(t))
	small := smallKB(t)

	f.svc.Swap(small)
	assert.Same(t, small, f.svc.KnowledgeBase())
	assert.Equal(t, float64(small.Stats().Curated),
		testutil.ToFloat64(f.metrics.Rules.WithLabelValues(knowledge.SourceCurated.String())))

	f.svc.Swap(nil)
	assert.Same(t, small, f.svc.KnowledgeBase())

	_, err := f.svc.Diagnose(context.Background(), []string{"fever"})
	assert.True(t, errors.Is(err, knowledge.ErrInvalidSymptom))
}

func TestService_NoSymptomsInInfoLogs(t *testing.T) {
	f := newServiceFixture(t, defaultKB(t))

	_, err := f.svc.Diagnose(context.Background(), []string{"fever", "rash"})
	require.NoError(t, err)

	for _, entry := range f.logs.FilterMessage("diagnosis generated").All() {
		assert.NotContains(t, entry.ContextMap(), "symptoms")
	}
	f.logs.AssertLogged(t, logging.TraceLevel, "diagnosis detail")
}

func TestDiagnosis_JSON(t *testing.T) {
	d := Diagnosis{
		ID:             "id-1",
		Symptoms:       []string{"fever"},
		Label:          "Isolated Fever",
		Recommendation: "General Physician",
		Kind:           KindExact,
		Score:          1,
		CreatedAt:      fixedNow,
	}
	data, err := json.Marshal(d)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "exact", got["kind"])
	assert.Equal(t, "2026-03-01T09:30:00Z", got["created_at"])
	assert.NotContains(t, got, "matched_symptoms")
}

package telemetry

import (
	"context"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/triage/internal/logging"
)

// LogExporter writes finished spans to a structured logger at Info level.
type LogExporter struct {
	logger  *logging.Logger
	stopped atomic.Bool
}

var _ trace.SpanExporter = (*LogExporter)(nil)

// NewLogExporter creates an exporter logging through logger.
func NewLogExporter(logger *logging.Logger) *LogExporter {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &LogExporter{logger: logger.Named("trace")}
}

// ExportSpans logs each span. Spans arriving after Shutdown are dropped.
func (e *LogExporter) ExportSpans(ctx context.Context, spans []trace.ReadOnlySpan) error {
	if e.stopped.Load() {
		return nil
	}
	for _, s := range spans {
		fields := []zap.Field{
			zap.String("span", s.Name()),
			zap.String("trace_id", s.SpanContext().TraceID().String()),
			zap.String("span_id", s.SpanContext().SpanID().String()),
			zap.Duration("duration", s.EndTime().Sub(s.StartTime())),
		}
		if parent := s.Parent(); parent.IsValid() {
			fields = append(fields, zap.String("parent_span_id", parent.SpanID().String()))
		}
		if st := s.Status(); st.Code == codes.Error {
			fields = append(fields, zap.String("status", "error"), zap.String("status_message", st.Description))
		}
		for _, kv := range s.Attributes() {
			fields = append(fields, attributeField(kv))
		}
		e.logger.Info(ctx, "span", fields...)
	}
	return nil
}

// Shutdown stops the exporter.
func (e *LogExporter) Shutdown(context.Context) error {
	e.stopped.Store(true)
	return nil
}

func attributeField(kv attribute.KeyValue) zap.Field {
	key := "attr." + string(kv.Key)
	switch kv.Value.Type() {
	case attribute.STRING:
		return zap.String(key, kv.Value.AsString())
	case attribute.INT64:
		return zap.Int64(key, kv.Value.AsInt64())
	case attribute.FLOAT64:
		return zap.Float64(key, kv.Value.AsFloat64())
	case attribute.BOOL:
		return zap.Bool(key, kv.Value.AsBool())
	case attribute.STRINGSLICE:
		return zap.Strings(key, kv.Value.AsStringSlice())
	default:
		return zap.String(key, kv.Value.Emit())
	}
}

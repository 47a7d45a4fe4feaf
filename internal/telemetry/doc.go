// Package telemetry provides OpenTelemetry tracing for triage.
//
// # Overview
//
// triage runs offline, so there is no collector to export to. Spans are
// created for diagnoses and rule loading and either discarded after their IDs
// have been stamped on log lines, or handed to a LogExporter that writes each
// finished span through the structured logger (the CLI's --trace flag).
//
// # Usage
//
//	cfg := telemetry.NewDefaultConfig()
//	cfg.Enabled = true
//	tel, err := telemetry.New(ctx, cfg, telemetry.WithTraceExporter(telemetry.NewLogExporter(logger)))
//	if err != nil {
//	    return err
//	}
//	defer tel.Shutdown(ctx)
//
//	tracer := tel.Tracer("triage/diagnosis")
//	ctx, span := tracer.Start(ctx, "Service.Diagnose")
//	defer span.End()
//
// # Error Handling
//
// Telemetry failures do not stop a diagnosis. If the provider cannot be
// built the instance is marked degraded and Tracer returns the global no-op
// tracer.
//
// # Testing
//
//	tt := telemetry.NewTestTelemetry()
//	svc, _ := diagnosis.NewService(kb, logger, diagnosis.WithTracer(tt.Tracer("test")))
//	tt.AssertSpanExists(t, "Service.Diagnose")
package telemetry

// Package logging provides structured logging for triage.
//
// # Overview
//
// Logging package wraps Zap with:
//   - Custom Trace level (-2, below Debug) for per-rule scoring detail
//   - Output to stderr by default, so stdout carries only results
//   - Automatic context field injection (trace_id, span_id, request.id)
//   - Redaction of patient identity by field name and value pattern
//   - Level-aware sampling (errors never sampled)
//
// # Usage
//
//	cfg := logging.NewDefaultConfig()
//	logger, err := logging.NewLogger(cfg, nil)
//	if err != nil {
//	    return err
//	}
//	defer logger.Sync()
//
//	ctx = logging.WithRequestID(ctx, uuid.NewString())
//	logger.Info(ctx, "diagnosis complete", zap.String("kind", "exact"))
//
// # Redaction
//
// Symptoms are not identifying and are logged as-is. Fields named patient,
// patient_name, patient_id, phone, email or dob are replaced with
// [REDACTED], and string values that look like an e-mail address or phone
// number are replaced with [REDACTED:pattern]. Use RedactedString to log the
// length of a value without its content.
//
// # Sampling
//
//   - Debug: first 10 per second, drop rest
//   - Info: first 100, then 1 every 10
//   - Warn: first 100, then 1 every 100
//   - Error+: never sampled
//
// # Testing
//
//	tl := logging.NewTestLogger()
//	svc, _ := diagnosis.NewService(kb, tl.Logger)
//	tl.AssertLogged(t, zapcore.InfoLevel, "diagnosis complete")
//	tl.AssertNoPatientData(t)
package logging

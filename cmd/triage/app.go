package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fyrsmithlabs/triage/internal/catalog"
	"github.com/fyrsmithlabs/triage/internal/config"
	"github.com/fyrsmithlabs/triage/internal/diagnosis"
	"github.com/fyrsmithlabs/triage/internal/knowledge"
	"github.com/fyrsmithlabs/triage/internal/logging"
	"github.com/fyrsmithlabs/triage/internal/metrics"
	"github.com/fyrsmithlabs/triage/internal/telemetry"
)

// app is the wiring shared by every subcommand.
type app struct {
	cfg       *config.Config
	logger    *logging.Logger
	telemetry *telemetry.Telemetry
	metrics   *metrics.Metrics
	catalog   catalog.Catalog
	service   *diagnosis.Service
}

// runWithApp builds the app for cmd, runs fn and tears the app down.
func runWithApp(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, a *app) error) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(ctx, opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.close(context.Background()); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return fn(ctx, a)
}

func newApp(ctx context.Context, opts *rootOptions, errOut io.Writer) (*app, error) {
	cfg, err := config.LoadWithFile(opts.configPath)
	if err != nil {
		return nil, err
	}
	opts.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}

	logCfg, err := logging.FromConfig(cfg.Logging)
	if err != nil {
		return nil, err
	}
	// Span logs are written at info.
	if opts.trace && logCfg.Level > zapcore.InfoLevel {
		logCfg.Level = zapcore.InfoLevel
	}
	logger, err := logging.NewLogger(logCfg, zapcore.AddSync(errOut))
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	if cfg.Telemetry.ServiceVersion == "" {
		cfg.Telemetry.ServiceVersion = version
	}
	telCfg := telemetry.FromConfig(cfg.Telemetry)
	var telOpts []telemetry.TracerProviderOption
	if opts.trace {
		telCfg.Enabled = true
		telOpts = append(telOpts, telemetry.WithTraceExporter(telemetry.NewLogExporter(logger)))
	}
	tel, err := telemetry.New(ctx, telCfg, telOpts...)
	if err != nil {
		return nil, err
	}
	if h := tel.Health(); h.Degraded {
		logger.Warn(ctx, "tracing disabled", zap.Error(h.Err))
	}

	a := &app{
		cfg:       cfg,
		logger:    logger,
		telemetry: tel,
		metrics:   metrics.New(),
	}

	kb, err := a.loadRules(ctx)
	if err != nil {
		_ = tel.Shutdown(context.Background())
		return nil, err
	}

	a.service, err = diagnosis.NewService(kb, logger,
		diagnosis.WithTracer(tel.Tracer("triage/diagnosis")),
		diagnosis.WithMetrics(a.metrics),
	)
	if err != nil {
		_ = tel.Shutdown(context.Background())
		return nil, err
	}
	return a, nil
}

func (o *rootOptions) apply(cfg *config.Config) {
	if o.rulesPath != "" {
		cfg.Rules.Path = o.rulesPath
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Logging.Format = o.logFormat
	}
	if o.metricsTextfile != "" {
		cfg.Metrics.Textfile = o.metricsTextfile
	}
}

func (a *app) loadRules(ctx context.Context) (*knowledge.KnowledgeBase, error) {
	ctx, span := a.telemetry.Tracer("triage/catalog").Start(ctx, "catalog.Load")
	defer span.End()

	c, err := catalog.Load(a.cfg.Rules.Path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load failed")
		return nil, err
	}
	kb, err := c.Build()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "build failed")
		return nil, fmt.Errorf("rule catalog %s: %w", c.Source, err)
	}
	a.catalog = c

	stats := kb.Stats()
	span.SetAttributes(
		attribute.String("catalog.source", c.Source),
		attribute.Int("catalog.rules", stats.Total()),
		attribute.Int("catalog.shadowed", stats.Shadowed),
	)
	a.logger.Debug(ctx, "rules loaded",
		zap.String("source", c.Source),
		zap.Int("curated", stats.Curated),
		zap.Int("generated", stats.Generated),
		zap.Int("shadowed", stats.Shadowed),
	)
	return kb, nil
}

// close flushes metrics, spans and logs.
func (a *app) close(ctx context.Context) error {
	var errs []error
	if path := a.cfg.Metrics.Textfile; path != "" {
		if err := a.metrics.WriteTextfile(path); err != nil {
			errs = append(errs, err)
		}
	}
	if err := a.telemetry.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	_ = a.logger.Sync()
	return errors.Join(errs...)
}

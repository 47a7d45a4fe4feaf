package logging

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fyrsmithlabs/triage/internal/config"
)

func sampledLogger(core zapcore.Core, levels map[zapcore.Level]LevelSamplingConfig) *Logger {
	sampled := newSampledCore(core, SamplingConfig{
		Enabled: true,
		Tick:    config.Duration(time.Minute),
		Levels:  levels,
	})
	return &Logger{zap: zap.New(sampled), config: NewDefaultConfig()}
}

func TestNewSampledCore_Disabled(t *testing.T) {
	core, _ := observer.New(zapcore.InfoLevel)

	sampled := newSampledCore(core, SamplingConfig{Enabled: false})

	assert.Equal(t, core, sampled)
}

func TestNewSampledCore_ErrorsNeverSampled(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	logger := sampledLogger(core, map[zapcore.Level]LevelSamplingConfig{
		zapcore.InfoLevel: {Initial: 1, Thereafter: 0},
	})

	for i := 0; i < 100; i++ {
		logger.Error(context.Background(), "rule file invalid")
	}

	assert.Equal(t, 100, observed.FilterMessage("rule file invalid").Len())
}

func TestNewSampledCore_PerLevelRates(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	logger := sampledLogger(core, map[zapcore.Level]LevelSamplingConfig{
		zapcore.DebugLevel: {Initial: 2, Thereafter: 0},
		zapcore.InfoLevel:  {Initial: 5, Thereafter: 0},
	})

	ctx := context.Background()
	for i := 0; i < 20; i++ {
		logger.Debug(ctx, "debug message")
		logger.Info(ctx, "info message")
		logger.Warn(ctx, "warn message")
	}

	assert.Equal(t, 2, observed.FilterMessage("debug message").Len())
	assert.Equal(t, 5, observed.FilterMessage("info message").Len())
	// Warn has no sampling config and passes through.
	assert.Equal(t, 20, observed.FilterMessage("warn message").Len())
}

func TestNewSampledCore_Thereafter(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	logger := sampledLogger(core, map[zapcore.Level]LevelSamplingConfig{
		zapcore.InfoLevel: {Initial: 2, Thereafter: 5},
	})

	for i := 0; i < 12; i++ {
		logger.Info(context.Background(), "info message")
	}

	// Entries 1, 2, 7 and 12 pass.
	assert.Equal(t, 4, observed.FilterMessage("info message").Len())
}

func TestNewSampledCore_RespectsUnderlyingLevel(t *testing.T) {
	core, observed := observer.New(zapcore.WarnLevel)
	logger := sampledLogger(core, DefaultLevelSamplingConfig())

	logger.Info(context.Background(), "hidden")
	logger.Warn(context.Background(), "shown")

	assert.Equal(t, 1, observed.Len())
	assert.False(t, logger.Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Enabled(zapcore.WarnLevel))
}

func TestLevelFilterCore_WithPreservesBand(t *testing.T) {
	core, observed := observer.New(TraceLevel)
	band := &levelFilterCore{Core: core, minLevel: zapcore.InfoLevel, maxLevel: zapcore.InfoLevel}

	child := band.With([]zapcore.Field{zap.String("k", "v")})
	logger := zap.New(child)
	logger.Debug("no")
	logger.Info("yes")
	logger.Warn("no")

	logs := observed.All()
	if assert.Len(t, logs, 1) {
		assert.Equal(t, "yes", logs[0].Message)
		assert.Equal(t, "v", logs[0].ContextMap()["k"])
	}
}

package telemetry

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recordingLogExporter struct {
	mu     sync.Mutex
	bodies []string
}

func (e *recordingLogExporter) Export(_ context.Context, records []sdklog.Record) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, r := range records {
		e.bodies = append(e.bodies, r.Body().AsString())
	}
	return nil
}

func (e *recordingLogExporter) Shutdown(context.Context) error   { return nil }
func (e *recordingLogExporter) ForceFlush(context.Context) error { return nil }

func (e *recordingLogExporter) Bodies() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.bodies...)
}

func TestNewLoggerProvider_Disabled(t *testing.T) {
	ctx := context.Background()
	lp, err := NewLoggerProvider(ctx, LogsConfig{Enabled: false, ServiceName: "agrotrace"}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, lp.IsEnabled())
	assert.False(t, lp.Core(zapcore.InfoLevel).Enabled(zapcore.ErrorLevel))

	base := zap.NewNop()
	assert.Same(t, base, lp.Attach(base, zapcore.InfoLevel))
	assert.NoError(t, lp.ForceFlush(ctx))
	assert.NoError(t, lp.Shutdown(ctx))
}

func TestLoggerProvider_Attach(t *testing.T) {
	ctx := context.Background()
	exporter := &recordingLogExporter{}
	lp, err := newLoggerProvider(LogsConfig{Enabled: true, ServiceName: "agrotrace"},
		sdklog.NewSimpleProcessor(exporter), zap.NewNop())
	require.NoError(t, err)
	require.True(t, lp.IsEnabled())

	core, logs := observer.New(zapcore.DebugLevel)
	log := lp.Attach(zap.New(core), zapcore.InfoLevel)

	log.Debug("pool stats")
	log.Info("Batch created", zap.Int64("batch_id", 7))
	log.With(zap.String("crop", "1")).Warn("Crop in use")
	require.NoError(t, lp.ForceFlush(ctx))

	assert.Equal(t, 3, logs.Len())
	assert.Equal(t, []string{"Batch created", "Crop in use"}, exporter.Bodies())
	assert.NoError(t, lp.Shutdown(ctx))
}

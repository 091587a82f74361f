package telemetry_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/agrotrace/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

func TestNewMeterProvider_Disabled(t *testing.T) {
	mp, err := telemetry.NewMeterProvider(telemetry.MetricsConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, mp.IsEnabled())

	metrics, err := telemetry.NewCultivationMetrics(mp.Meter("test"))
	require.NoError(t, err)
	metrics.BatchCreated(context.Background())

	rec := httptest.NewRecorder()
	mp.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	assert.NoError(t, mp.Shutdown(context.Background()))
}

func TestNewMeterProvider_Prometheus(t *testing.T) {
	prev := otel.GetMeterProvider()
	t.Cleanup(func() { otel.SetMeterProvider(prev) })

	mp, err := telemetry.NewMeterProvider(telemetry.MetricsConfig{Enabled: true, ServiceName: "agrotrace-test"}, zap.NewNop())
	require.NoError(t, err)
	defer mp.Shutdown(context.Background())
	assert.True(t, mp.IsEnabled())

	metrics, err := telemetry.NewCultivationMetrics(mp.Meter("cultivation"))
	require.NoError(t, err)
	metrics.BatchCreated(context.Background())
	metrics.TrackingCodeGenerated(context.Background(), 2)

	rec := httptest.NewRecorder()
	mp.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "agrotrace_batches_created")
	assert.Contains(t, body, "agrotrace_tracking_code_attempts")
	assert.Contains(t, body, "go_goroutines")
}

func TestNewCultivationMetrics(t *testing.T) {
	t.Run("nil meter", func(t *testing.T) {
		_, err := telemetry.NewCultivationMetrics(nil)
		assert.ErrorIs(t, err, telemetry.ErrMeterNil)
	})

	t.Run("records activity", func(t *testing.T) {
		reader, provider := newManualMeter(t)
		metrics, err := telemetry.NewCultivationMetrics(provider.Meter("test"))
		require.NoError(t, err)

		ctx := context.Background()
		metrics.BatchCreated(ctx)
		metrics.BatchCreated(ctx)
		metrics.TrackingCodeGenerated(ctx, 1)
		metrics.TrackingCodeGenerated(ctx, 3)
		metrics.TrackingCodeExhausted(ctx)
		metrics.CropInUseRejected(ctx, "delete")

		data := collectMetrics(t, reader)

		created, ok := data["agrotrace_batches_created"].(metricdata.Sum[int64])
		require.True(t, ok)
		require.Len(t, created.DataPoints, 1)
		assert.Equal(t, int64(2), created.DataPoints[0].Value)

		attempts, ok := data["agrotrace_tracking_code_attempts"].(metricdata.Histogram[float64])
		require.True(t, ok)
		require.Len(t, attempts.DataPoints, 1)
		assert.Equal(t, uint64(2), attempts.DataPoints[0].Count)
		assert.Equal(t, 4.0, attempts.DataPoints[0].Sum)

		exhausted, ok := data["agrotrace_tracking_code_exhausted"].(metricdata.Sum[int64])
		require.True(t, ok)
		assert.Equal(t, int64(1), exhausted.DataPoints[0].Value)

		rejected, ok := data["agrotrace_crop_in_use_rejections"].(metricdata.Sum[int64])
		require.True(t, ok)
		require.Len(t, rejected.DataPoints, 1)
		op, _ := rejected.DataPoints[0].Attributes.Value(telemetry.AttrOperation)
		assert.Equal(t, "delete", op.AsString())
	})
}

package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/metric"
)

// CultivationMetrics records crop and batch activity.
type CultivationMetrics struct {
	batchesCreated    *Counter
	codeAttempts      *Histogram
	codeExhausted     *Counter
	cropInUseRejected *Counter
}

// NewCultivationMetrics registers the cultivation instruments on meter.
func NewCultivationMetrics(meter metric.Meter) (*CultivationMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	batchesCreated, err := NewCounter(meter,
		"agrotrace_batches_created",
		"Number of batches persisted",
		"{batch}",
	)
	if err != nil {
		return nil, err
	}

	codeAttempts, err := NewHistogram(meter, HistogramOpts{
		Name:        "agrotrace_tracking_code_attempts",
		Description: "Candidates drawn before an unused tracking code was found",
		Unit:        "{attempt}",
		Boundaries:  CodeAttemptBuckets,
	})
	if err != nil {
		return nil, err
	}

	codeExhausted, err := NewCounter(meter,
		"agrotrace_tracking_code_exhausted",
		"Number of batch creations that ran out of tracking code attempts",
		"{batch}",
	)
	if err != nil {
		return nil, err
	}

	cropInUseRejected, err := NewCounter(meter,
		"agrotrace_crop_in_use_rejections",
		"Crop updates and deletes refused because a batch references the crop",
		"{request}",
	)
	if err != nil {
		return nil, err
	}

	return &CultivationMetrics{
		batchesCreated:    batchesCreated,
		codeAttempts:      codeAttempts,
		codeExhausted:     codeExhausted,
		cropInUseRejected: cropInUseRejected,
	}, nil
}

// BatchCreated counts a persisted batch.
func (m *CultivationMetrics) BatchCreated(ctx context.Context) {
	m.batchesCreated.Inc(ctx)
}

// TrackingCodeGenerated records how many candidates a successful generation drew.
func (m *CultivationMetrics) TrackingCodeGenerated(ctx context.Context, attempts int) {
	m.codeAttempts.Record(ctx, float64(attempts))
}

// TrackingCodeExhausted counts a generation that gave up.
func (m *CultivationMetrics) TrackingCodeExhausted(ctx context.Context) {
	m.codeExhausted.Inc(ctx)
}

// CropInUseRejected counts a refused crop update or delete.
func (m *CultivationMetrics) CropInUseRejected(ctx context.Context, operation string) {
	m.cropInUseRejected.Inc(ctx, AttrOperation.String(operation))
}

package cultivation

import "context"

// Metrics receives cultivation activity. telemetry.CultivationMetrics
// implements it.
type Metrics interface {
	BatchCreated(ctx context.Context)
	TrackingCodeGenerated(ctx context.Context, attempts int)
	TrackingCodeExhausted(ctx context.Context)
	CropInUseRejected(ctx context.Context, operation string)
}

type noopMetrics struct{}

func (noopMetrics) BatchCreated(context.Context)               {}
func (noopMetrics) TrackingCodeGenerated(context.Context, int) {}
func (noopMetrics) TrackingCodeExhausted(context.Context)      {}
func (noopMetrics) CropInUseRejected(context.Context, string)  {}

func orNoop(m Metrics) Metrics {
	if m == nil {
		return noopMetrics{}
	}
	return m
}

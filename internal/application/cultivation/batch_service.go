package cultivation

import (
	"context"
	"errors"
	"fmt"

	"github.com/agrotrace/backend/internal/domain/cultivation"
	"github.com/agrotrace/backend/internal/domain/shared"
	"github.com/agrotrace/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// BatchService handles batch operations and tracking code assignment
type BatchService struct {
	batchRepo cultivation.BatchRepository
	cropRepo  cultivation.CropRepository
	generator *cultivation.TrackingCodeGenerator
	locker    shared.Locker
	metrics   Metrics
	logger    *zap.Logger
}

// NewBatchService creates a new BatchService. metrics may be nil.
func NewBatchService(
	batchRepo cultivation.BatchRepository,
	cropRepo cultivation.CropRepository,
	generator *cultivation.TrackingCodeGenerator,
	locker shared.Locker,
	metrics Metrics,
	logger *zap.Logger,
) *BatchService {
	return &BatchService{
		batchRepo: batchRepo,
		cropRepo:  cropRepo,
		generator: generator,
		locker:    locker,
		metrics:   orNoop(metrics),
		logger:    logger,
	}
}

// List returns all batches ordered by id
func (s *BatchService) List(ctx context.Context) ([]BatchResponse, error) {
	batches, err := s.batchRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return ToBatchResponses(batches), nil
}

// GetByID returns a batch
func (s *BatchService) GetByID(ctx context.Context, id int64) (*BatchResponse, error) {
	batch, err := s.batchRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, batchNotFound(id))
	}
	resp := ToBatchResponse(batch)
	return &resp, nil
}

// GetByTrackingCode returns the batch carrying code
func (s *BatchService) GetByTrackingCode(ctx context.Context, code string) (*BatchResponse, error) {
	batch, err := s.batchRepo.FindByTrackingCode(ctx, code)
	if err != nil {
		return nil, notFoundAs(err, shared.NewNotFoundError("Batch with tracking code %s not found", code))
	}
	resp := ToBatchResponse(batch)
	return &resp, nil
}

// ListByCropID returns the batches of a crop
func (s *BatchService) ListByCropID(ctx context.Context, cropID int64) ([]BatchResponse, error) {
	batches, err := s.batchRepo.FindByCropID(ctx, cropID)
	if err != nil {
		return nil, err
	}
	return ToBatchResponses(batches), nil
}

// IsCropInUse reports whether at least one batch references the crop
func (s *BatchService) IsCropInUse(ctx context.Context, cropID int64) (bool, error) {
	n, err := s.batchRepo.CountByCropID(ctx, cropID)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Create builds a batch for an existing crop, assigns it a fresh tracking
// code and stores it.
func (s *BatchService) Create(ctx context.Context, req BatchRequest) (*BatchResponse, error) {
	cropID := req.cropID()
	ctx, span := telemetry.StartServiceSpan(ctx, "batch", "create", attribute.Int64(telemetry.SpanAttrCropID, cropID))
	defer span.End()

	var batch *cultivation.Batch
	err := s.withCrop(ctx, cropID, func(ctx context.Context, crop *cultivation.Crop) error {
		var err error
		batch, err = req.toDomain(*crop)
		if err != nil {
			return err
		}

		code, attempts, err := s.generator.Generate(ctx)
		span.SetAttributes(attribute.Int(telemetry.SpanAttrCodeAttempts, attempts))
		if err != nil {
			if errors.Is(err, cultivation.ErrTrackingCodeExhausted) {
				s.metrics.TrackingCodeExhausted(ctx)
				s.logger.Warn("Tracking code space exhausted", zap.Int("attempts", attempts))
			}
			return err
		}
		s.metrics.TrackingCodeGenerated(ctx, attempts)
		if err := batch.AssignTrackingCode(code); err != nil {
			return err
		}

		if err := batch.CheckDate(); err != nil {
			return err
		}
		return s.batchRepo.Create(ctx, batch)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	span.SetAttributes(
		attribute.Int64(telemetry.SpanAttrBatchID, batch.ID),
		attribute.String(telemetry.SpanAttrTrackingCode, batch.TrackingCode),
	)
	s.metrics.BatchCreated(ctx)
	s.logger.Info("Batch created",
		zap.Int64("batch_id", batch.ID),
		zap.Int64("crop_id", cropID),
		zap.String("tracking_code", batch.TrackingCode),
	)

	resp := ToBatchResponse(batch)
	return &resp, nil
}

// Update replaces the values of a batch. The tracking code never changes.
func (s *BatchService) Update(ctx context.Context, id int64, req BatchRequest) (*BatchResponse, error) {
	cropID := req.cropID()
	ctx, span := telemetry.StartServiceSpan(ctx, "batch", "update",
		attribute.Int64(telemetry.SpanAttrBatchID, id),
		attribute.Int64(telemetry.SpanAttrCropID, cropID),
	)
	defer span.End()

	var updated *cultivation.Batch
	err := s.withCrop(ctx, cropID, func(ctx context.Context, crop *cultivation.Crop) error {
		batch, err := req.toDomain(*crop)
		if err != nil {
			return err
		}
		if err := batch.CheckDate(); err != nil {
			return err
		}
		batch.ID = id

		if err := s.batchRepo.Update(ctx, batch); err != nil {
			return notFoundAs(err, batchNotFound(id))
		}

		updated, err = s.batchRepo.FindByID(ctx, id)
		return notFoundAs(err, batchNotFound(id))
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("Batch updated", zap.Int64("batch_id", id), zap.Int64("crop_id", cropID))
	resp := ToBatchResponse(updated)
	return &resp, nil
}

// Delete removes a batch
func (s *BatchService) Delete(ctx context.Context, id int64) error {
	if err := s.batchRepo.Delete(ctx, id); err != nil {
		return notFoundAs(err, batchNotFound(id))
	}
	s.logger.Info("Batch deleted", zap.Int64("batch_id", id))
	return nil
}

// withCrop runs fn with the referenced crop while holding its lock, so that
// the crop cannot be altered between the check and the write.
func (s *BatchService) withCrop(ctx context.Context, cropID int64, fn func(context.Context, *cultivation.Crop) error) error {
	unlock, err := s.locker.Lock(ctx, cropLockKey(cropID))
	if err != nil {
		return fmt.Errorf("lock crop %d: %w", cropID, err)
	}
	defer unlock()

	crop, err := s.cropRepo.FindByID(ctx, cropID)
	if err != nil {
		return notFoundAs(err, cropNotFound(cropID))
	}
	return fn(ctx, crop)
}

var _ CropUsageChecker = (*BatchService)(nil)

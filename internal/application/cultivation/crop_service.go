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

// CropUsageChecker answers questions about the batches of a crop.
// BatchService implements it.
type CropUsageChecker interface {
	// IsCropInUse reports whether at least one batch references the crop
	IsCropInUse(ctx context.Context, cropID int64) (bool, error)

	// ListByCropID returns the batches of the crop
	ListByCropID(ctx context.Context, cropID int64) ([]BatchResponse, error)
}

// CropService handles crop operations
type CropService struct {
	cropRepo cultivation.CropRepository
	usage    CropUsageChecker
	locker   shared.Locker
	metrics  Metrics
	logger   *zap.Logger
}

// NewCropService creates a new CropService. metrics may be nil.
func NewCropService(
	cropRepo cultivation.CropRepository,
	usage CropUsageChecker,
	locker shared.Locker,
	metrics Metrics,
	logger *zap.Logger,
) *CropService {
	return &CropService{
		cropRepo: cropRepo,
		usage:    usage,
		locker:   locker,
		metrics:  orNoop(metrics),
		logger:   logger,
	}
}

// List returns all crops ordered by id
func (s *CropService) List(ctx context.Context) ([]CropResponse, error) {
	crops, err := s.cropRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return ToCropResponses(crops), nil
}

// GetByID returns a crop
func (s *CropService) GetByID(ctx context.Context, id int64) (*CropResponse, error) {
	crop, err := s.findCrop(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCropResponse(crop)
	return &resp, nil
}

// Create validates and stores a new crop
func (s *CropService) Create(ctx context.Context, req CropRequest) (*CropResponse, error) {
	crop, err := req.toDomain()
	if err != nil {
		return nil, err
	}
	if err := crop.CheckHarvestDate(); err != nil {
		return nil, err
	}

	if err := s.cropRepo.Create(ctx, crop); err != nil {
		return nil, err
	}

	s.logger.Info("Crop created", zap.Int64("crop_id", crop.ID))
	resp := ToCropResponse(crop)
	return &resp, nil
}

// Update replaces the values of a crop that no batch references
func (s *CropService) Update(ctx context.Context, id int64, req CropRequest) (*CropResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "crop", "update", attribute.Int64(telemetry.SpanAttrCropID, id))
	defer span.End()

	crop, err := req.toDomain()
	if err != nil {
		return nil, err
	}
	if err := crop.CheckHarvestDate(); err != nil {
		return nil, err
	}
	crop.ID = id

	err = s.withUnusedCrop(ctx, id, "update", func(ctx context.Context) error {
		return s.cropRepo.Update(ctx, crop)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("Crop updated", zap.Int64("crop_id", id))
	resp := ToCropResponse(crop)
	return &resp, nil
}

// Delete removes a crop that no batch references
func (s *CropService) Delete(ctx context.Context, id int64) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "crop", "delete", attribute.Int64(telemetry.SpanAttrCropID, id))
	defer span.End()

	err := s.withUnusedCrop(ctx, id, "delete", func(ctx context.Context) error {
		return s.cropRepo.Delete(ctx, id)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	s.logger.Info("Crop deleted", zap.Int64("crop_id", id))
	return nil
}

// ListBatches returns the batches of an existing crop
func (s *CropService) ListBatches(ctx context.Context, id int64) ([]BatchResponse, error) {
	if _, err := s.findCrop(ctx, id); err != nil {
		return nil, err
	}
	return s.usage.ListByCropID(ctx, id)
}

// withUnusedCrop runs fn while holding the crop lock, after checking that the
// crop exists and that no batch references it.
func (s *CropService) withUnusedCrop(ctx context.Context, id int64, operation string, fn func(context.Context) error) error {
	unlock, err := s.locker.Lock(ctx, cropLockKey(id))
	if err != nil {
		return fmt.Errorf("lock crop %d: %w", id, err)
	}
	defer unlock()

	if _, err := s.findCrop(ctx, id); err != nil {
		return err
	}

	inUse, err := s.usage.IsCropInUse(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		s.metrics.CropInUseRejected(ctx, operation)
		return shared.NewBadRequestError("crop ID %d is in a batch and can't be altered", id)
	}

	if err := fn(ctx); err != nil {
		return notFoundAs(err, cropNotFound(id))
	}
	return nil
}

func (s *CropService) findCrop(ctx context.Context, id int64) (*cultivation.Crop, error) {
	crop, err := s.cropRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, cropNotFound(id))
	}
	return crop, nil
}

func cropLockKey(id int64) string {
	return fmt.Sprintf("crop:%d", id)
}

func cropNotFound(id int64) error {
	return shared.NewNotFoundError("Crop with ID %d not found", id)
}

func batchNotFound(id int64) error {
	return shared.NewNotFoundError("Batch with ID %d not found", id)
}

// notFoundAs replaces a store not-found error with replacement
func notFoundAs(err, replacement error) error {
	if errors.Is(err, shared.ErrNotFound) {
		return replacement
	}
	return err
}

package persistence

import (
	"context"

	"github.com/agrotrace/backend/internal/domain/cultivation"
	"github.com/agrotrace/backend/internal/domain/shared"
	"github.com/agrotrace/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormBatchRepository implements cultivation.BatchRepository using GORM.
// Reads join the referenced crop so every batch carries its crop snapshot.
type GormBatchRepository struct {
	db *gorm.DB
}

// NewGormBatchRepository creates a new GormBatchRepository
func NewGormBatchRepository(db *gorm.DB) *GormBatchRepository {
	return &GormBatchRepository{db: db}
}

func (r *GormBatchRepository) withCrop(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.BatchModel{}).InnerJoins("Crop")
}

func (r *GormBatchRepository) findOne(ctx context.Context, query string, args ...any) (*cultivation.Batch, error) {
	var m models.BatchModel
	if err := r.withCrop(ctx).Where(query, args...).First(&m).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

func (r *GormBatchRepository) findMany(db *gorm.DB) ([]cultivation.Batch, error) {
	var rows []models.BatchModel
	if err := db.Order("batches.id").Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	batches := make([]cultivation.Batch, 0, len(rows))
	for i := range rows {
		batches = append(batches, *rows[i].ToDomain())
	}
	return batches, nil
}

// FindAll returns every batch ordered by ID
func (r *GormBatchRepository) FindAll(ctx context.Context) ([]cultivation.Batch, error) {
	return r.findMany(r.withCrop(ctx))
}

// FindByID finds a batch by its ID
func (r *GormBatchRepository) FindByID(ctx context.Context, id int64) (*cultivation.Batch, error) {
	return r.findOne(ctx, "batches.id = ?", id)
}

// FindByTrackingCode finds the batch carrying code
func (r *GormBatchRepository) FindByTrackingCode(ctx context.Context, code string) (*cultivation.Batch, error) {
	return r.findOne(ctx, "batches.tracking_code = ?", code)
}

// FindByCropID returns the batches taken from a crop
func (r *GormBatchRepository) FindByCropID(ctx context.Context, cropID int64) ([]cultivation.Batch, error) {
	return r.findMany(r.withCrop(ctx).Where("batches.crop_id = ?", cropID))
}

// ExistsByTrackingCode reports whether any batch carries code
func (r *GormBatchRepository) ExistsByTrackingCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.BatchModel{}).
		Where("tracking_code = ?", code).
		Count(&count).Error; err != nil {
		return false, translateError(err)
	}
	return count > 0, nil
}

// CountByCropID counts the batches referencing a crop
func (r *GormBatchRepository) CountByCropID(ctx context.Context, cropID int64) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.BatchModel{}).
		Where("crop_id = ?", cropID).
		Count(&count).Error; err != nil {
		return 0, translateError(err)
	}
	return count, nil
}

// Create inserts a batch and sets its generated ID. The crop row is never written.
func (r *GormBatchRepository) Create(ctx context.Context, batch *cultivation.Batch) error {
	m := models.BatchModelFromDomain(batch)
	m.ID = 0
	if err := r.db.WithContext(ctx).Omit("Crop").Create(m).Error; err != nil {
		return translateError(err)
	}
	batch.ID = m.ID
	return nil
}

// Update overwrites the batch with batch.ID. The tracking code column is not touched.
func (r *GormBatchRepository) Update(ctx context.Context, batch *cultivation.Batch) error {
	m := models.BatchModelFromDomain(batch)
	result := r.db.WithContext(ctx).
		Model(&models.BatchModel{}).
		Where("id = ?", batch.ID).
		Updates(map[string]any{
			"crop_id":        m.CropID,
			"classification": m.Classification,
			"processing":     m.Processing,
			"packing":        m.Packing,
			"quantity":       m.Quantity,
			"date":           m.Date,
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a batch by ID
func (r *GormBatchRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.BatchModel{}, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ cultivation.BatchRepository = (*GormBatchRepository)(nil)

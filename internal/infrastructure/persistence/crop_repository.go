package persistence

import (
	"context"

	"github.com/agrotrace/backend/internal/domain/cultivation"
	"github.com/agrotrace/backend/internal/domain/shared"
	"github.com/agrotrace/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCropRepository implements cultivation.CropRepository using GORM
type GormCropRepository struct {
	db *gorm.DB
}

// NewGormCropRepository creates a new GormCropRepository
func NewGormCropRepository(db *gorm.DB) *GormCropRepository {
	return &GormCropRepository{db: db}
}

// FindAll returns every crop ordered by ID
func (r *GormCropRepository) FindAll(ctx context.Context) ([]cultivation.Crop, error) {
	var rows []models.CropModel
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	crops := make([]cultivation.Crop, 0, len(rows))
	for i := range rows {
		crops = append(crops, *rows[i].ToDomain())
	}
	return crops, nil
}

// FindByID finds a crop by its ID
func (r *GormCropRepository) FindByID(ctx context.Context, id int64) (*cultivation.Crop, error) {
	var m models.CropModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// Create inserts a crop and sets its generated ID
func (r *GormCropRepository) Create(ctx context.Context, crop *cultivation.Crop) error {
	m := models.CropModelFromDomain(crop)
	m.ID = 0
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateError(err)
	}
	crop.ID = m.ID
	return nil
}

// Update overwrites every field of the crop with crop.ID
func (r *GormCropRepository) Update(ctx context.Context, crop *cultivation.Crop) error {
	m := models.CropModelFromDomain(crop)
	result := r.db.WithContext(ctx).
		Model(&models.CropModel{}).
		Where("id = ?", crop.ID).
		Updates(map[string]any{
			"name":         m.Name,
			"area":         m.Area,
			"cultivation":  m.Cultivation,
			"planted_at":   m.PlantedAt,
			"harvested_at": m.HarvestedAt,
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a crop by ID
func (r *GormCropRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.CropModel{}, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ cultivation.CropRepository = (*GormCropRepository)(nil)

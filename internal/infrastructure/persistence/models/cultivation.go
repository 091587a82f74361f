package models

import (
	"time"

	"github.com/agrotrace/backend/internal/domain/cultivation"
	"github.com/agrotrace/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// CropModel is the persistence model for the crops table
type CropModel struct {
	ID          int64           `gorm:"primaryKey;autoIncrement"`
	Name        string          `gorm:"type:varchar(255);not null"`
	Area        decimal.Decimal `gorm:"type:numeric;not null"`
	Cultivation string          `gorm:"type:varchar(255);not null"`
	PlantedAt   time.Time       `gorm:"type:date;not null"`
	HarvestedAt *time.Time      `gorm:"type:date"`
}

// TableName returns the table name for GORM
func (CropModel) TableName() string {
	return "crops"
}

// ToDomain converts the persistence model to a domain Crop entity.
func (m *CropModel) ToDomain() *cultivation.Crop {
	crop := &cultivation.Crop{
		ID:          m.ID,
		Name:        m.Name,
		Area:        m.Area,
		Cultivation: m.Cultivation,
		PlantedAt:   valueobject.DateOf(m.PlantedAt),
	}
	if m.HarvestedAt != nil {
		h := valueobject.DateOf(*m.HarvestedAt)
		crop.HarvestedAt = &h
	}
	return crop
}

// FromDomain populates the persistence model from a domain Crop entity.
func (m *CropModel) FromDomain(c *cultivation.Crop) {
	m.ID = c.ID
	m.Name = c.Name
	m.Area = c.Area
	m.Cultivation = c.Cultivation
	m.PlantedAt = c.PlantedAt.Time()
	m.HarvestedAt = nil
	if c.HarvestedAt != nil {
		h := c.HarvestedAt.Time()
		m.HarvestedAt = &h
	}
}

// CropModelFromDomain creates a new persistence model from a domain Crop entity.
func CropModelFromDomain(c *cultivation.Crop) *CropModel {
	m := &CropModel{}
	m.FromDomain(c)
	return m
}

// BatchModel is the persistence model for the batches table.
// Crops referenced by a batch cannot be deleted.
type BatchModel struct {
	ID             int64           `gorm:"primaryKey;autoIncrement"`
	CropID         int64           `gorm:"not null;index:idx_batches_crop_id"`
	Crop           CropModel       `gorm:"foreignKey:CropID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Classification *string         `gorm:"type:varchar(255)"`
	Processing     *string         `gorm:"type:varchar(255)"`
	Packing        string          `gorm:"type:varchar(255);not null"`
	Quantity       decimal.Decimal `gorm:"type:numeric;not null"`
	TrackingCode   string          `gorm:"type:varchar(12);not null;uniqueIndex:idx_batches_tracking_code"`
	Date           time.Time       `gorm:"type:date;not null"`
}

// TableName returns the table name for GORM
func (BatchModel) TableName() string {
	return "batches"
}

// ToDomain converts the persistence model to a domain Batch entity.
// The crop snapshot is only complete when Crop was joined on load.
func (m *BatchModel) ToDomain() *cultivation.Batch {
	crop := m.Crop.ToDomain()
	crop.ID = m.CropID
	return &cultivation.Batch{
		ID:             m.ID,
		Crop:           *crop,
		Classification: m.Classification,
		Processing:     m.Processing,
		Packing:        m.Packing,
		Quantity:       m.Quantity,
		TrackingCode:   m.TrackingCode,
		Date:           valueobject.DateOf(m.Date),
	}
}

// FromDomain populates the persistence model from a domain Batch entity.
// The crop itself is never written through a batch.
func (m *BatchModel) FromDomain(b *cultivation.Batch) {
	m.ID = b.ID
	m.CropID = b.CropID()
	m.Classification = b.Classification
	m.Processing = b.Processing
	m.Packing = b.Packing
	m.Quantity = b.Quantity
	m.TrackingCode = b.TrackingCode
	m.Date = b.Date.Time()
}

// BatchModelFromDomain creates a new persistence model from a domain Batch entity.
func BatchModelFromDomain(b *cultivation.Batch) *BatchModel {
	m := &BatchModel{}
	m.FromDomain(b)
	return m
}

// AllModels lists the models managed by AutoMigrate, parents first
func AllModels() []any {
	return []any{&CropModel{}, &BatchModel{}}
}

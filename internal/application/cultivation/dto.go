package cultivation

import (
	"github.com/agrotrace/backend/internal/domain/cultivation"
	"github.com/agrotrace/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// CropRequest is the body of crop create and update requests
type CropRequest struct {
	Name        *string             `json:"name" binding:"required,max=255"`
	Area        *valueobject.Number `json:"area" binding:"required,gte=0"`
	Cultivation *string             `json:"cultivation" binding:"required,max=255"`
	PlantedAt   valueobject.Date    `json:"plantedAt" binding:"required,notfuture"`
	HarvestedAt *valueobject.Date   `json:"harvestedAt" binding:"omitempty,notfuture"`
}

// BatchRequest is the body of batch create and update requests
type BatchRequest struct {
	CropID         *int64              `json:"cropId" binding:"required"`
	Classification *string             `json:"classification" binding:"omitempty,max=255"`
	Processing     *string             `json:"processing" binding:"omitempty,max=255"`
	Packing        *string             `json:"packing" binding:"required,max=255"`
	Quantity       *valueobject.Number `json:"quantity" binding:"required,gte=0"`
	Date           valueobject.Date    `json:"date" binding:"required,notfuture"`
}

// CropResponse represents a crop in API responses
type CropResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Area        decimal.Decimal   `json:"area"`
	Cultivation string            `json:"cultivation"`
	PlantedAt   valueobject.Date  `json:"plantedAt"`
	HarvestedAt *valueobject.Date `json:"harvestedAt"`
}

// BatchResponse represents a batch in API responses. Crop carries the id of
// the referenced crop.
type BatchResponse struct {
	ID             int64            `json:"id"`
	Crop           int64            `json:"crop"`
	Classification *string          `json:"classification"`
	Processing     *string          `json:"processing"`
	Packing        string           `json:"packing"`
	Quantity       decimal.Decimal  `json:"quantity"`
	TrackingCode   string           `json:"trackingCode"`
	Date           valueobject.Date `json:"date"`
}

// ToCropResponse converts a domain Crop to a CropResponse
func ToCropResponse(c *cultivation.Crop) CropResponse {
	return CropResponse{
		ID:          c.ID,
		Name:        c.Name,
		Area:        c.Area,
		Cultivation: c.Cultivation,
		PlantedAt:   c.PlantedAt,
		HarvestedAt: c.HarvestedAt,
	}
}

// ToCropResponses converts a slice of crops
func ToCropResponses(crops []cultivation.Crop) []CropResponse {
	out := make([]CropResponse, len(crops))
	for i := range crops {
		out[i] = ToCropResponse(&crops[i])
	}
	return out
}

// ToBatchResponse converts a domain Batch to a BatchResponse
func ToBatchResponse(b *cultivation.Batch) BatchResponse {
	return BatchResponse{
		ID:             b.ID,
		Crop:           b.CropID(),
		Classification: b.Classification,
		Processing:     b.Processing,
		Packing:        b.Packing,
		Quantity:       b.Quantity,
		TrackingCode:   b.TrackingCode,
		Date:           b.Date,
	}
}

// ToBatchResponses converts a slice of batches
func ToBatchResponses(batches []cultivation.Batch) []BatchResponse {
	out := make([]BatchResponse, len(batches))
	for i := range batches {
		out[i] = ToBatchResponse(&batches[i])
	}
	return out
}

func (r CropRequest) toDomain() (*cultivation.Crop, error) {
	var area decimal.Decimal
	if r.Area != nil {
		area = r.Area.Decimal
	}
	return cultivation.NewCrop(deref(r.Name), area, deref(r.Cultivation), r.PlantedAt, r.HarvestedAt)
}

func (r BatchRequest) cropID() int64 {
	if r.CropID == nil {
		return 0
	}
	return *r.CropID
}

func (r BatchRequest) toDomain(crop cultivation.Crop) (*cultivation.Batch, error) {
	var quantity decimal.Decimal
	if r.Quantity != nil {
		quantity = r.Quantity.Decimal
	}
	return cultivation.NewBatch(crop, r.Classification, r.Processing, deref(r.Packing), quantity, r.Date)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

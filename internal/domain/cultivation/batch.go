package cultivation

import (
	"github.com/agrotrace/backend/internal/domain/shared"
	"github.com/agrotrace/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Batch represents a harvest lot taken from a crop.
// Crop is a snapshot of the referenced crop loaded together with the batch.
type Batch struct {
	ID             int64
	Crop           Crop
	Classification *string
	Processing     *string
	Packing        string
	Quantity       decimal.Decimal
	TrackingCode   string
	Date           valueobject.Date
}

// NewBatch creates a validated batch for crop. The tracking code is
// assigned separately with AssignTrackingCode.
func NewBatch(crop Crop, classification, processing *string, packing string, quantity decimal.Decimal, date valueobject.Date) (*Batch, error) {
	if classification != nil {
		if err := validateText("classification", *classification); err != nil {
			return nil, err
		}
	}
	if processing != nil {
		if err := validateText("processing", *processing); err != nil {
			return nil, err
		}
	}
	if err := validateText("packing", packing); err != nil {
		return nil, err
	}
	if quantity.IsNegative() {
		return nil, shared.NewValidationError("quantity must be greater than or equal to 0")
	}
	if err := validatePastOrPresent("date", date); err != nil {
		return nil, err
	}

	return &Batch{
		Crop:           crop,
		Classification: classification,
		Processing:     processing,
		Packing:        packing,
		Quantity:       quantity,
		Date:           date,
	}, nil
}

// CropID returns the id of the referenced crop
func (b *Batch) CropID() int64 {
	return b.Crop.ID
}

// CheckDate returns a BAD_REQUEST error when the batch is dated before its
// crop was planted.
func (b *Batch) CheckDate() error {
	if b.Date.Before(b.Crop.PlantedAt) {
		return shared.NewBadRequestError(
			"Batch date %s cannot be earlier than the crop planting date %s",
			b.Date.Display(), b.Crop.PlantedAt.Display(),
		)
	}
	return nil
}

// AssignTrackingCode sets the tracking code of a batch that has none yet
func (b *Batch) AssignTrackingCode(code string) error {
	if !IsValidTrackingCode(code) {
		return shared.NewValidationError("tracking code must be %d alphanumeric characters", TrackingCodeLength)
	}
	if b.TrackingCode != "" {
		return shared.NewBadRequestError("batch already has tracking code %s", b.TrackingCode)
	}
	b.TrackingCode = code
	return nil
}

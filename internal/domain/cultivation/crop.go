package cultivation

import (
	"unicode/utf8"

	"github.com/agrotrace/backend/internal/domain/shared"
	"github.com/agrotrace/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// MaxTextLength is the maximum length, in characters, of free-text fields
const MaxTextLength = 255

// Crop represents a planting on a given area
type Crop struct {
	ID          int64
	Name        string
	Area        decimal.Decimal
	Cultivation string
	PlantedAt   valueobject.Date
	HarvestedAt *valueobject.Date
}

// NewCrop creates a validated crop. The ID is assigned on persistence.
func NewCrop(name string, area decimal.Decimal, cultivation string, plantedAt valueobject.Date, harvestedAt *valueobject.Date) (*Crop, error) {
	if err := validateText("name", name); err != nil {
		return nil, err
	}
	if area.IsNegative() {
		return nil, shared.NewValidationError("area must be greater than or equal to 0")
	}
	if err := validateText("cultivation", cultivation); err != nil {
		return nil, err
	}
	if err := validatePastOrPresent("plantedAt", plantedAt); err != nil {
		return nil, err
	}
	if harvestedAt != nil {
		if err := validatePastOrPresent("harvestedAt", *harvestedAt); err != nil {
			return nil, err
		}
		h := *harvestedAt
		harvestedAt = &h
	}

	return &Crop{
		Name:        name,
		Area:        area,
		Cultivation: cultivation,
		PlantedAt:   plantedAt,
		HarvestedAt: harvestedAt,
	}, nil
}

// CheckHarvestDate returns a BAD_REQUEST error when the crop was harvested
// before it was planted.
func (c *Crop) CheckHarvestDate() error {
	if c.IsHarvested() && c.HarvestedAt.Before(c.PlantedAt) {
		return shared.NewBadRequestError(
			"Harvest date %s cannot be earlier than the planting date %s",
			c.HarvestedAt.Display(), c.PlantedAt.Display(),
		)
	}
	return nil
}

// IsHarvested reports whether a harvest date is recorded
func (c *Crop) IsHarvested() bool {
	return c.HarvestedAt != nil
}

func validateText(field, value string) error {
	if utf8.RuneCountInString(value) > MaxTextLength {
		return shared.NewValidationError("%s cannot exceed %d characters", field, MaxTextLength)
	}
	return nil
}

func validatePastOrPresent(field string, d valueobject.Date) error {
	if d.IsZero() {
		return shared.NewValidationError("%s is required", field)
	}
	if d.IsFuture() {
		return shared.NewValidationError("%s cannot be in the future", field)
	}
	return nil
}

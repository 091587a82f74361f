package cultivation

import "context"

// CropRepository defines the interface for crop persistence
type CropRepository interface {
	// FindAll returns every crop ordered by ID
	FindAll(ctx context.Context) ([]Crop, error)

	// FindByID finds a crop by its ID, returning shared.ErrNotFound when absent
	FindByID(ctx context.Context, id int64) (*Crop, error)

	// Create inserts a crop and sets its generated ID
	Create(ctx context.Context, crop *Crop) error

	// Update overwrites every field of the crop with crop.ID
	Update(ctx context.Context, crop *Crop) error

	// Delete removes a crop by ID, returning shared.ErrNotFound when absent
	Delete(ctx context.Context, id int64) error
}

package cultivation

import "context"

// BatchRepository defines the interface for batch persistence.
// Every returned batch carries a snapshot of its crop.
type BatchRepository interface {
	TrackingCodeChecker

	// FindAll returns every batch ordered by ID
	FindAll(ctx context.Context) ([]Batch, error)

	// FindByID finds a batch by its ID
	FindByID(ctx context.Context, id int64) (*Batch, error)

	// FindByTrackingCode finds the batch carrying code
	FindByTrackingCode(ctx context.Context, code string) (*Batch, error)

	// FindByCropID returns the batches taken from a crop
	FindByCropID(ctx context.Context, cropID int64) ([]Batch, error)

	// CountByCropID counts the batches referencing a crop
	CountByCropID(ctx context.Context, cropID int64) (int64, error)

	// Create inserts a batch and sets its generated ID
	Create(ctx context.Context, batch *Batch) error

	// Update overwrites the batch with batch.ID, leaving its tracking code untouched
	Update(ctx context.Context, batch *Batch) error

	// Delete removes a batch by ID, returning shared.ErrNotFound when absent
	Delete(ctx context.Context, id int64) error
}

package devices

import (
	"context"

	"github.com/donfanning/pushclip/internal/models"
)

// Repository persists the cached list of the account's other devices. The
// registry in internal/device is the only writer; it serializes access.
type Repository interface {
	// Upsert inserts the device or replaces the row with the same unique
	// name. Nickname and last-seen are the fields that change on re-sighting.
	Upsert(ctx context.Context, d *models.Device) error

	// Delete removes the device with the given unique name.
	Delete(ctx context.Context, uniqueName string) error

	// GetAll returns every cached device, most recently seen first.
	GetAll(ctx context.Context) ([]models.Device, error)

	// Clear wipes the cache. Used on sign-out.
	Clear(ctx context.Context) error
}

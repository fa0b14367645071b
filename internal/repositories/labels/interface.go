package labels

import (
	"context"

	"github.com/donfanning/pushclip/internal/models"
)

// Repository describes storage operations for labels. Names are unique
// within the store; ids are surrogate keys local to this store.
type Repository interface {
	// Create adds a label and returns it with the assigned id.
	Create(ctx context.Context, name string) (*models.Label, error)

	// Rename changes a label's name.
	Rename(ctx context.Context, id int64, name string) error

	// Delete removes a label; clip references go with it.
	Delete(ctx context.Context, id int64) error

	// GetAll returns every label ordered by name.
	GetAll(ctx context.Context) ([]models.Label, error)

	// GetByName returns the label with the given name or common.ErrorNotFound.
	GetByName(ctx context.Context, name string) (*models.Label, error)

	// Clear removes every label and every clip reference to them.
	Clear(ctx context.Context) error

	// BulkInsert inserts labels with their explicit ids. Used by the
	// merge/restore replace path inside a transaction.
	BulkInsert(ctx context.Context, items []models.Label) error
}

package clips

import (
	"context"
	"time"

	"github.com/donfanning/pushclip/internal/models"
)

// DeleteFilter scopes DeleteAll. Zero value deletes every clip.
type DeleteFilter struct {
	// LabelID restricts deletion to clips carrying this label.
	LabelID *int64
	// KeepFavorites excludes favorite clips from deletion.
	KeepFavorites bool
	// OlderThan restricts deletion to clips with a timestamp before it.
	OlderThan *time.Time
}

// Repository describes storage operations for clip items. Clip text is
// unique; it is the identity key for dedup and merge.
type Repository interface {
	// Insert adds a new clip. Fails if a clip with the same text exists.
	Insert(ctx context.Context, clip *models.ClipItem) error

	// Upsert inserts the clip or, when the text already exists, updates
	// timestamp, favorite, origin and source device.
	Upsert(ctx context.Context, clip *models.ClipItem) error

	// GetByText returns the clip with the given text, including its label
	// references, or common.ErrorNotFound.
	GetByText(ctx context.Context, text string) (*models.ClipItem, error)

	// GetAll returns every clip with label references, newest first.
	GetAll(ctx context.Context) ([]models.ClipItem, error)

	// DeleteByText removes one clip.
	DeleteByText(ctx context.Context, text string) error

	// DeleteAll removes clips matching the filter and returns the count.
	DeleteAll(ctx context.Context, filter DeleteFilter) (int64, error)

	// BulkInsert inserts clips and their label references. Used by the
	// merge/restore replace path inside a transaction.
	BulkInsert(ctx context.Context, items []models.ClipItem) error

	// SetLabels replaces the label references of one clip.
	SetLabels(ctx context.Context, text string, labelIDs []int64) error
}

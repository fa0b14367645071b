package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/donfanning/pushclip/internal/repositories/clips"
)

// pruneAge is how old a non-favorite clip must be before prune deletes it.
const pruneAge = 30 * 24 * time.Hour

// Prune deletes non-favorite clips older than pruneAge.
func (a *App) Prune(ctx context.Context) error {
	cutoff := time.Now().Add(-pruneAge)
	n, err := a.clips.DeleteAll(ctx, clips.DeleteFilter{
		KeepFavorites: true,
		OlderThan:     &cutoff,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Deleted %d clips older than %s.\n", n, cutoff.Format("2006-01-02"))
	return nil
}

package cli

import (
	"context"
	"fmt"
)

// Backup uploads the local store to the cloud bucket as a new blob.
func (a *App) Backup(ctx context.Context) error {
	eng, err := a.engine(ctx)
	if err != nil {
		return err
	}
	key, err := eng.Backup(ctx)
	if err != nil {
		return err
	}
	fmt.Println("Backup uploaded:", key)
	return nil
}

// Restore replaces the local store with the newest backup blob.
func (a *App) Restore(ctx context.Context) error {
	eng, err := a.engine(ctx)
	if err != nil {
		return err
	}
	if err := eng.Restore(ctx, ""); err != nil {
		return err
	}
	fmt.Println("Local store restored from the newest backup.")
	return nil
}

// Sync merges the newest backup into the local store and re-uploads the
// merged snapshot.
func (a *App) Sync(ctx context.Context) error {
	eng, err := a.engine(ctx)
	if err != nil {
		return err
	}
	key, err := eng.Sync(ctx)
	if err != nil {
		return err
	}
	fmt.Println("Store synchronized, uploaded:", key)
	return nil
}

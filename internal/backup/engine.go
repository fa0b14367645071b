package backup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/donfanning/pushclip/internal/common"
	"github.com/donfanning/pushclip/internal/dbx"
	"github.com/donfanning/pushclip/internal/device"
	"github.com/donfanning/pushclip/internal/identity"
	"github.com/donfanning/pushclip/internal/logging"
	"github.com/donfanning/pushclip/internal/models"
	"github.com/donfanning/pushclip/internal/repositories/clips"
	"github.com/donfanning/pushclip/internal/repositories/labels"
	"github.com/google/uuid"
)

// Engine drives backup, restore and merge-sync between the local store and
// the cloud object store. All store replacement runs inside one transaction,
// so a mid-operation failure leaves the previous store intact.
type Engine struct {
	db      *sql.DB
	store   ObjectStore
	local   *device.Identity
	session identity.Provider
	log     logging.Logger
	now     func() time.Time
}

func NewEngine(db *sql.DB, store ObjectStore, local *device.Identity,
	session identity.Provider, log logging.Logger) *Engine {
	return &Engine{
		db:      db,
		store:   store,
		local:   local,
		session: session,
		log:     log.With("component", "backup"),
		now:     time.Now,
	}
}

// LocalSnapshot projects the current labels and clips out of the store.
func (e *Engine) LocalSnapshot(ctx context.Context) (*models.Snapshot, error) {
	labelList, err := labels.NewSQLiteRepository(e.db).GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading labels: %w", err)
	}
	clipList, err := clips.NewSQLiteRepository(e.db).GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading clips: %w", err)
	}
	return &models.Snapshot{Labels: labelList, Clips: clipList}, nil
}

// Backup serializes the local snapshot and uploads it as a new blob.
// Returns the blob key.
func (e *Engine) Backup(ctx context.Context) (string, error) {
	owner, err := e.owner(ctx)
	if err != nil {
		return "", err
	}

	snap, err := e.LocalSnapshot(ctx)
	if err != nil {
		return "", err
	}

	key := e.blobKey(ctx, owner)
	if err := e.upload(ctx, key, snap); err != nil {
		return "", err
	}

	e.log.Info(ctx, "backup uploaded", "key", key,
		"labels", len(snap.Labels), "clips", len(snap.Clips))
	return key, nil
}

// Restore downloads a blob and replaces the local store with its snapshot
// verbatim. An empty key means the newest blob for this account.
func (e *Engine) Restore(ctx context.Context, key string) error {
	owner, err := e.owner(ctx)
	if err != nil {
		return err
	}

	if key == "" {
		key, err = e.latestKey(ctx, owner)
		if err != nil {
			return err
		}
	}

	snap, err := e.download(ctx, key)
	if err != nil {
		return err
	}

	if err := e.replace(ctx, snap); err != nil {
		return err
	}

	e.log.Info(ctx, "store restored", "key", key,
		"labels", len(snap.Labels), "clips", len(snap.Clips))
	return nil
}

// Sync merges the newest remote blob into the local store and re-uploads
// the merged snapshot. With no remote blob it degrades to a plain backup.
func (e *Engine) Sync(ctx context.Context) (string, error) {
	owner, err := e.owner(ctx)
	if err != nil {
		return "", err
	}

	remoteKey, err := e.latestKey(ctx, owner)
	if errors.Is(err, common.ErrorNotFound) {
		e.log.Info(ctx, "no remote backup yet, uploading local snapshot")
		return e.Backup(ctx)
	}
	if err != nil {
		return "", err
	}

	remote, err := e.download(ctx, remoteKey)
	if err != nil {
		return "", err
	}

	local, err := e.LocalSnapshot(ctx)
	if err != nil {
		return "", err
	}

	merged := Merge(*local, *remote, e.local.DisplayName(ctx))

	if err := e.replace(ctx, &merged); err != nil {
		return "", err
	}

	key := e.blobKey(ctx, owner)
	if err := e.upload(ctx, key, &merged); err != nil {
		return "", err
	}

	e.log.Info(ctx, "store synchronized", "remote", remoteKey, "uploaded", key,
		"labels", len(merged.Labels), "clips", len(merged.Clips))
	return key, nil
}

// ListBackups returns this account's blobs, newest first.
func (e *Engine) ListBackups(ctx context.Context) ([]BlobInfo, error) {
	owner, err := e.owner(ctx)
	if err != nil {
		return nil, err
	}
	return e.store.List(ctx, owner+"/")
}

// PruneBackups deletes all but the keep newest blobs and returns the number
// deleted.
func (e *Engine) PruneBackups(ctx context.Context, keep int) (int, error) {
	blobs, err := e.ListBackups(ctx)
	if err != nil {
		return 0, err
	}
	if keep < 0 {
		keep = 0
	}
	deleted := 0
	for _, b := range blobs[min(keep, len(blobs)):] {
		if err := e.store.Delete(ctx, b.Key); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

// replace swaps the entire label and clip store for the snapshot in one
// transaction.
func (e *Engine) replace(ctx context.Context, snap *models.Snapshot) error {
	return dbx.WithTx(ctx, e.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		clipRepo := clips.NewSQLiteRepository(tx)
		labelRepo := labels.NewSQLiteRepository(tx)

		if _, err := clipRepo.DeleteAll(ctx, clips.DeleteFilter{}); err != nil {
			return fmt.Errorf("error clearing clips: %w", err)
		}
		if err := labelRepo.Clear(ctx); err != nil {
			return fmt.Errorf("error clearing labels: %w", err)
		}
		if err := labelRepo.BulkInsert(ctx, snap.Labels); err != nil {
			return fmt.Errorf("error writing labels: %w", err)
		}
		if err := clipRepo.BulkInsert(ctx, snap.Clips); err != nil {
			return fmt.Errorf("error writing clips: %w", err)
		}
		return nil
	})
}

func (e *Engine) upload(ctx context.Context, key string, snap *models.Snapshot) error {
	blob, err := WriteArchive(snap)
	if err != nil {
		return err
	}
	return e.store.Upload(ctx, key, blob)
}

func (e *Engine) download(ctx context.Context, key string) (*models.Snapshot, error) {
	blob, err := e.store.Download(ctx, key)
	if err != nil {
		return nil, err
	}
	return ReadArchive(blob)
}

// latestKey returns the newest blob key for the owner, or
// common.ErrorNotFound when none exist.
func (e *Engine) latestKey(ctx context.Context, owner string) (string, error) {
	blobs, err := e.store.List(ctx, owner+"/")
	if err != nil {
		return "", err
	}
	if len(blobs) == 0 {
		return "", common.ErrorNotFound
	}
	return blobs[0].Key, nil
}

func (e *Engine) owner(ctx context.Context) (string, error) {
	if !e.session.IsSignedIn(ctx) {
		return "", common.ErrorSignedOut
	}
	return e.session.Username(ctx), nil
}

// blobKey names a blob by owner, device, time and a random suffix.
func (e *Engine) blobKey(ctx context.Context, owner string) string {
	d := strings.NewReplacer(" ", "_", "/", "_").Replace(e.local.DisplayName(ctx))
	return fmt.Sprintf("%s/%s-%s-%s.zip", owner, d,
		e.now().UTC().Format("20060102T150405"), uuid.New())
}

package device

import (
	"context"
	"errors"
	"sync"

	"github.com/donfanning/pushclip/internal/common"
	"github.com/donfanning/pushclip/internal/logging"
	"github.com/donfanning/pushclip/internal/models"
	"github.com/donfanning/pushclip/internal/repositories/devices"
)

// Registry is the authoritative, deduplicated view of the account's other
// devices. It is a cache over the devices repository: every mutation runs
// load-mutate-persist under one lock, and the backing query keeps the list
// sorted by last-seen descending. Persistence failures are returned to the
// caller and not retried; durability of the store itself is the store's
// problem.
type Registry struct {
	mu   sync.Mutex
	repo devices.Repository
	log  logging.Logger

	subMu sync.RWMutex
	subs  []chan Event
}

func NewRegistry(repo devices.Repository, log logging.Logger) *Registry {
	return &Registry{repo: repo, log: log.With("component", "registry")}
}

// Subscribe returns a channel of registry events and an unsubscribe
// function. Delivery is non-blocking: a subscriber that stops draining its
// channel misses events rather than stalling the protocol.
func (r *Registry) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 16)

	r.subMu.Lock()
	r.subs = append(r.subs, ch)
	r.subMu.Unlock()

	unsubscribe := func() {
		r.subMu.Lock()
		defer r.subMu.Unlock()
		for i, c := range r.subs {
			if c == ch {
				r.subs = append(r.subs[:i], r.subs[i+1:]...)
				close(c)
				return
			}
		}
	}
	return ch, unsubscribe
}

// Notify publishes an event to all subscribers. Protocol components use it
// directly for kinds that are not list mutations (noRemoteDevices,
// registerError, myDevice*).
func (r *Registry) Notify(ev Event) {
	r.subMu.RLock()
	defer r.subMu.RUnlock()
	for _, ch := range r.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Add inserts the device or replaces the entry with the same unique name,
// then persists. With broadcast set, subscribers get a deviceAdded event.
func (r *Registry) Add(ctx context.Context, d *models.Device, broadcast bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.repo.Upsert(ctx, d); err != nil {
		return err
	}
	r.log.Debug(ctx, "device registered", "device", d.DisplayName(), "broadcast", broadcast)

	if broadcast {
		r.Notify(Event{Kind: EventDeviceAdded, Device: d})
	}
	return nil
}

// Remove deletes the device by unique name and always broadcasts. Removing
// an unknown device is not an error.
func (r *Registry) Remove(ctx context.Context, d *models.Device) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.repo.Delete(ctx, d.UniqueName())
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return err
	}
	r.log.Debug(ctx, "device removed", "device", d.DisplayName())

	r.Notify(Event{Kind: EventDeviceRemoved, Device: d})
	return nil
}

// Clear wipes the list and always broadcasts. Used on sign-out and when a
// DEVICE_REMOVED message names the local device.
func (r *Registry) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.repo.Clear(ctx); err != nil {
		return err
	}
	r.Notify(Event{Kind: EventMyDeviceUnregistered})
	return nil
}

// Devices returns the current list, most recently seen first. The snapshot
// is only consistent at the moment of the read; callers observing events
// should re-fetch rather than patch their copy.
func (r *Registry) Devices(ctx context.Context) ([]models.Device, error) {
	return r.repo.GetAll(ctx)
}

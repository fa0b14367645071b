// Package watcher observes the platform clipboard, persists new entries and
// hands them to the push client for forwarding.
package watcher

import (
	"context"
	"strings"
	"time"

	"github.com/donfanning/pushclip/internal/clipboard"
	"github.com/donfanning/pushclip/internal/common"
	"github.com/donfanning/pushclip/internal/device"
	"github.com/donfanning/pushclip/internal/logging"
	"github.com/donfanning/pushclip/internal/models"
	"github.com/donfanning/pushclip/internal/notify"
	"github.com/donfanning/pushclip/internal/repositories/clips"
	"github.com/donfanning/pushclip/internal/repositories/prefs"
)

// Forwarder relays a clip to the account's other devices. Implemented by
// push.Client; forwarding failures are handled entirely on its side and
// never undo or report against the local save.
type Forwarder interface {
	SendClip(ctx context.Context, clip *models.ClipItem) error
}

// SaveMode selects how an observed clip is persisted.
type SaveMode int

const (
	// SaveUpsert refreshes timestamp and flags when the text already exists.
	SaveUpsert SaveMode = iota
	// SaveInsertIfNew leaves an existing entry untouched.
	SaveInsertIfNew
)

// Watcher holds the debounce state of clipboard observation: the last
// observed text and when it was observed. Identical text seen twice inside
// the debounce window is one physical copy double-fired by the platform;
// the same text after a gap is a deliberate user action and syncs again.
type Watcher struct {
	board     clipboard.Clipboard
	clips     clips.Repository
	forwarder Forwarder
	prefs     prefs.Repository
	notifier  notify.Notifier
	local     *device.Identity
	log       logging.Logger

	mode     SaveMode
	debounce time.Duration
	now      func() time.Time

	lastObservedText string
	lastObservedTime time.Time
	lastRaw          string
	primed           bool
}

func New(board clipboard.Clipboard, clipsRepo clips.Repository, forwarder Forwarder,
	prefsRepo prefs.Repository, notifier notify.Notifier, local *device.Identity,
	log logging.Logger, mode SaveMode) *Watcher {
	return &Watcher{
		board:     board,
		clips:     clipsRepo,
		forwarder: forwarder,
		prefs:     prefsRepo,
		notifier:  notifier,
		local:     local,
		log:       log.With("component", "watcher"),
		mode:      mode,
		debounce:  common.DebounceWindow,
		now:       time.Now,
	}
}

// SetDebounce overrides the duplicate suppression window. Call before Run.
func (w *Watcher) SetDebounce(d time.Duration) {
	if d > 0 {
		w.debounce = d
	}
}

// Run polls the clipboard until ctx is done. The startup read is suppressed
// when the corresponding preference is set.
func (w *Watcher) Run(ctx context.Context, interval time.Duration) error {
	suppress, err := w.prefs.GetBool(ctx, prefs.KeySuppressStartup, false)
	if err != nil {
		return err
	}
	if !suppress {
		w.poll(ctx, true)
	} else {
		// Remember the current content so it does not fire as a change on
		// the first tick.
		if c, err := w.board.Read(); err == nil {
			w.lastRaw = c.Text
			w.primed = true
		}
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.poll(ctx, false)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// poll reads the clipboard and feeds Observe on a change signal. force
// bypasses change detection for the startup read.
func (w *Watcher) poll(ctx context.Context, force bool) {
	c, err := w.board.Read()
	if err != nil {
		w.log.Warn(ctx, "clipboard read failed", "error", err)
		return
	}
	if !force && w.primed && c.Text == w.lastRaw {
		return
	}
	w.lastRaw = c.Text
	w.primed = true
	w.Observe(ctx, c)
}

// Observe runs the debounce/dedup algorithm on one clipboard reading and,
// when it survives, persists and forwards it.
func (w *Watcher) Observe(ctx context.Context, c clipboard.Content) {
	text := models.NormalizeClipText(c.Text)
	if text == "" {
		w.lastObservedText = ""
		return
	}

	// Remote-origin content was already persisted by the listener that
	// wrote it here.
	if c.Meta != nil && c.Meta.RemoteOrigin {
		return
	}

	now := w.now()
	delta := now.Sub(w.lastObservedTime)
	w.lastObservedTime = now

	if text == w.lastObservedText && delta <= w.debounce {
		w.log.Debug(ctx, "debounced duplicate clipboard event", "delta", delta)
		return
	}

	clip := &models.ClipItem{
		Text:         text,
		Timestamp:    now,
		SourceDevice: w.local.DisplayName(ctx),
	}
	if c.Meta != nil {
		clip.Favorite = c.Meta.Favorite
	}

	w.persistAndSend(ctx, clip)
	w.lastObservedText = text
}

func (w *Watcher) persistAndSend(ctx context.Context, clip *models.ClipItem) {
	saved := true
	switch w.mode {
	case SaveInsertIfNew:
		if err := w.clips.Insert(ctx, clip); err != nil {
			if !isDuplicate(err) {
				w.log.Error(ctx, "failed to save clip", "error", err)
				return
			}
			// An existing entry is fine; the copy still forwards below.
			saved = false
		}
	default:
		if err := w.clips.Upsert(ctx, clip); err != nil {
			w.log.Error(ctx, "failed to save clip", "error", err)
			return
		}
	}

	if saved {
		w.notifier.ClipSaved(ctx, clip)
	}

	enabled, err := w.prefs.GetBool(ctx, prefs.KeyAutoForward, true)
	if err != nil {
		w.log.Error(ctx, "failed to read auto-forward flag", "error", err)
		return
	}
	if !enabled {
		return
	}

	// The relay call blocks; never on the watcher goroutine. The client
	// owns the failure taxonomy, nothing to handle here.
	go func() {
		if err := w.forwarder.SendClip(ctx, clip); err != nil {
			w.log.Debug(ctx, "forward failed", "error", err)
		}
	}()
}

// isDuplicate reports whether err is the unique-constraint violation an
// insert of existing text produces.
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}

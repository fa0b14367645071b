package push

import (
	"context"
	"time"

	"github.com/donfanning/pushclip/internal/clipboard"
	"github.com/donfanning/pushclip/internal/common"
	"github.com/donfanning/pushclip/internal/device"
	"github.com/donfanning/pushclip/internal/identity"
	"github.com/donfanning/pushclip/internal/logging"
	"github.com/donfanning/pushclip/internal/models"
	"github.com/donfanning/pushclip/internal/notify"
	"github.com/donfanning/pushclip/internal/repositories/clips"
)

// Listener is the inbound half of the protocol. Messages are handled one at
// a time in the order the channel delivers them; after each one the listener
// pauses briefly so a burst of relayed clips does not overwhelm the local
// system.
type Listener struct {
	relay    Relay
	client   *Client
	local    *device.Identity
	session  identity.Provider
	registry *device.Registry
	clips    clips.Repository
	board    clipboard.Clipboard
	notifier notify.Notifier
	log      logging.Logger

	// throttle is the post-handle pause; tests shorten it.
	throttle time.Duration
	now      func() time.Time
}

func NewListener(relay Relay, client *Client, local *device.Identity,
	session identity.Provider, registry *device.Registry, clipsRepo clips.Repository,
	board clipboard.Clipboard, notifier notify.Notifier, log logging.Logger) *Listener {
	return &Listener{
		relay:    relay,
		client:   client,
		local:    local,
		session:  session,
		registry: registry,
		clips:    clipsRepo,
		board:    board,
		notifier: notifier,
		log:      log.With("component", "listener"),
		throttle: common.InboundThrottle,
		now:      time.Now,
	}
}

// Start subscribes to the push channel. Returned subscription stays active
// until unsubscribed or the connection closes.
func (l *Listener) Start(ctx context.Context) (Subscription, error) {
	return l.relay.Subscribe(ctx, func(payload []byte) {
		l.OnMessage(ctx, payload)
	})
}

// OnMessage handles one inbound payload.
func (l *Listener) OnMessage(ctx context.Context, payload []byte) {
	defer l.pause(ctx)

	msg, err := DecodeMessage(payload)
	if err != nil {
		l.log.Warn(ctx, "dropping undecodable message", "error", err)
		return
	}

	sender := msg.Sender()

	// Our own messages come back on the shared subject; ignore them, and
	// ignore everything while signed out.
	if sender.UniqueName() == l.local.UniqueName() {
		return
	}
	if !l.session.IsSignedIn(ctx) {
		return
	}

	switch msg.Action {
	case ActionMessage:
		l.handleClip(ctx, msg, sender)
	case ActionPing:
		l.handlePing(ctx, msg, sender)
	case ActionPingResponse:
		l.register(ctx, sender, true)
	case ActionDeviceAdded:
		l.register(ctx, sender, true)
		l.notifier.DeviceAdded(ctx, sender)
	case ActionDeviceRemoved:
		l.handleRemoved(ctx, sender)
	default:
		l.log.Warn(ctx, "unknown action", "action", msg.Action)
	}
}

func (l *Listener) handleClip(ctx context.Context, msg *Message, sender *models.Device) {
	l.register(ctx, sender, false)

	clip := &models.ClipItem{
		Text:         models.NormalizeClipText(msg.Text),
		Timestamp:    l.now(),
		Favorite:     msg.Favorite,
		RemoteOrigin: true,
		SourceDevice: sender.DisplayName(),
	}
	if clip.Text == "" {
		return
	}

	if err := l.clips.Upsert(ctx, clip); err != nil {
		l.log.Error(ctx, "failed to persist remote clip", "error", err)
		return
	}

	// Mark the write so the watcher recognizes it as remote-origin and
	// does not persist or forward it a second time.
	err := l.board.Write(clipboard.Content{
		Text: clip.Text,
		Meta: &clipboard.Meta{
			Favorite:     clip.Favorite,
			RemoteOrigin: true,
			SourceDevice: clip.SourceDevice,
		},
	})
	if err != nil {
		l.log.Error(ctx, "failed to write clipboard", "error", err)
	}

	l.notifier.ClipArrived(ctx, clip)
}

func (l *Listener) handlePing(ctx context.Context, msg *Message, sender *models.Device) {
	l.register(ctx, sender, true)

	// The reply blocks on the relay; keep the delivery goroutine free.
	go func() {
		if err := l.client.SendPingResponse(ctx, msg.CorrelationID); err != nil {
			l.log.Warn(ctx, "ping response failed", "error", err)
		}
	}()
}

func (l *Listener) handleRemoved(ctx context.Context, sender *models.Device) {
	if err := l.registry.Remove(ctx, sender); err != nil {
		l.log.Error(ctx, "failed to remove device", "error", err)
		return
	}
	l.notifier.DeviceRemoved(ctx, sender)
}

func (l *Listener) register(ctx context.Context, d *models.Device, broadcast bool) {
	if err := l.registry.Add(ctx, d, broadcast); err != nil {
		l.log.Error(ctx, "failed to register device", "error", err)
	}
}

func (l *Listener) pause(ctx context.Context) {
	if l.throttle <= 0 {
		return
	}
	select {
	case <-time.After(l.throttle):
	case <-ctx.Done():
	}
}

// Package notify defines the semantic events the core hands to whatever
// presentation layer is attached. The core never renders UI; the binary
// wires a log-backed implementation, a desktop build could wire a tray one.
package notify

import (
	"context"

	"github.com/donfanning/pushclip/internal/logging"
	"github.com/donfanning/pushclip/internal/models"
)

// Notifier receives user-facing events.
type Notifier interface {
	// ClipSaved: the local clipboard produced a new persisted entry.
	ClipSaved(ctx context.Context, clip *models.ClipItem)

	// ClipArrived: a clip from another device was stored and placed on the
	// clipboard.
	ClipArrived(ctx context.Context, clip *models.ClipItem)

	// DeviceAdded / DeviceRemoved mirror the registry lifecycle.
	DeviceAdded(ctx context.Context, d *models.Device)
	DeviceRemoved(ctx context.Context, d *models.Device)

	// RegisterError: a terminal channel registration failure.
	RegisterError(ctx context.Context, err error)

	// NoRemoteDevices: the relay reported no other registered devices.
	NoRemoteDevices(ctx context.Context)
}

// LogNotifier writes events to the structured log.
type LogNotifier struct {
	log logging.Logger
}

func NewLogNotifier(log logging.Logger) *LogNotifier {
	return &LogNotifier{log: log.With("component", "notify")}
}

func (n *LogNotifier) ClipSaved(ctx context.Context, clip *models.ClipItem) {
	n.log.Info(ctx, "clip saved", "bytes", len(clip.Text), "favorite", clip.Favorite)
}

func (n *LogNotifier) ClipArrived(ctx context.Context, clip *models.ClipItem) {
	n.log.Info(ctx, "clip arrived", "from", clip.SourceDevice, "bytes", len(clip.Text))
}

func (n *LogNotifier) DeviceAdded(ctx context.Context, d *models.Device) {
	n.log.Info(ctx, "device added", "device", d.DisplayName())
}

func (n *LogNotifier) DeviceRemoved(ctx context.Context, d *models.Device) {
	n.log.Info(ctx, "device removed", "device", d.DisplayName())
}

func (n *LogNotifier) RegisterError(ctx context.Context, err error) {
	n.log.Error(ctx, "registration error", "error", err)
}

func (n *LogNotifier) NoRemoteDevices(ctx context.Context) {
	n.log.Warn(ctx, "no other devices registered on this account")
}

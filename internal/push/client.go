package push

import (
	"context"
	"fmt"
	"time"

	"github.com/donfanning/pushclip/internal/common"
	"github.com/donfanning/pushclip/internal/device"
	"github.com/donfanning/pushclip/internal/identity"
	"github.com/donfanning/pushclip/internal/logging"
	"github.com/donfanning/pushclip/internal/models"
	"github.com/donfanning/pushclip/internal/repositories/prefs"
	"github.com/google/uuid"
)

// Client is the outbound half of the protocol. Send calls block on the
// relay; run them on worker goroutines, never on the watcher or listener
// goroutine.
type Client struct {
	relay    Relay
	local    *device.Identity
	session  identity.Provider
	prefs    prefs.Repository
	registry *device.Registry
	log      logging.Logger
}

func NewClient(relay Relay, local *device.Identity, session identity.Provider,
	prefsRepo prefs.Repository, registry *device.Registry, log logging.Logger) *Client {
	return &Client{
		relay:    relay,
		local:    local,
		session:  session,
		prefs:    prefsRepo,
		registry: registry,
		log:      log.With("component", "push"),
	}
}

// SendClip forwards one clip to the account's other devices.
func (c *Client) SendClip(ctx context.Context, clip *models.ClipItem) error {
	msg := c.message(ctx, ActionMessage)
	msg.Text = clip.Text
	msg.Favorite = clip.Favorite
	return c.send(ctx, msg)
}

// SendPing asks every other device to announce itself. Returns the
// correlation id the responses will echo.
func (c *Client) SendPing(ctx context.Context) (string, error) {
	msg := c.message(ctx, ActionPing)
	msg.CorrelationID = uuid.NewString()
	return msg.CorrelationID, c.send(ctx, msg)
}

// SendPingResponse answers the ping carrying correlationID.
func (c *Client) SendPingResponse(ctx context.Context, correlationID string) error {
	msg := c.message(ctx, ActionPingResponse)
	msg.CorrelationID = correlationID
	return c.send(ctx, msg)
}

// AnnounceDevice broadcasts DEVICE_ADDED for the local device.
func (c *Client) AnnounceDevice(ctx context.Context) error {
	return c.send(ctx, c.message(ctx, ActionDeviceAdded))
}

// AnnounceRemoval broadcasts DEVICE_REMOVED. Whatever the outcome, it ends
// with a myDeviceRemoved registry event: a completion signal, not a success
// signal, so the sign-out flow waiting on it can proceed.
func (c *Client) AnnounceRemoval(ctx context.Context) error {
	return c.send(ctx, c.message(ctx, ActionDeviceRemoved))
}

func (c *Client) message(ctx context.Context, action Action) *Message {
	d := c.local.Device(ctx)
	return &Message{
		Action:       action,
		Model:        d.Model,
		SerialNumber: d.SerialNumber,
		PlatformName: d.PlatformName,
		Nickname:     d.Nickname,
	}
}

func (c *Client) send(ctx context.Context, msg *Message) error {
	if msg.Action == ActionDeviceRemoved {
		defer c.registry.Notify(device.Event{Kind: device.EventMyDeviceRemoved})
	}

	// Signed out or forwarding off: a no-op, not an error.
	if !c.session.IsSignedIn(ctx) {
		return nil
	}
	enabled, err := c.prefs.GetBool(ctx, prefs.KeyAutoForward, true)
	if err != nil {
		return err
	}
	if !enabled {
		return nil
	}

	payload, err := msg.Encode()
	if err != nil {
		return err
	}

	token, err := c.relay.Token(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSendConfig, err)
	}
	credential, err := c.session.Credential(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSendConfig, err)
	}

	priority := PriorityNormal
	if msg.Action == ActionMessage {
		priority = PriorityHigh
	}

	started := time.Now()
	res, sendErr := c.relay.Send(ctx, token, credential, payload, priority)

	switch classify(res, sendErr) {
	case classSuccess:
		return c.handleSuccess(ctx, msg, time.Since(started))
	case classTerminal:
		return c.handleNotRegistered(ctx)
	case classSoft:
		return c.handleNoDevices(ctx, msg)
	}

	// Transient failure: exactly one silent retry. The first attempt's
	// error is kept at debug level; the retry's own outcome is logged
	// normally.
	c.log.Debug(ctx, "send failed, retrying once", "action", msg.Action, "error", sendErr, "reason", res.Reason)

	res, sendErr = c.relay.Send(ctx, token, credential, payload, priority)
	switch classify(res, sendErr) {
	case classSuccess:
		return c.handleSuccess(ctx, msg, time.Since(started))
	case classTerminal:
		return c.handleNotRegistered(ctx)
	case classSoft:
		return c.handleNoDevices(ctx, msg)
	}

	c.log.Error(ctx, "send failed after retry", "action", msg.Action, "error", sendErr, "reason", res.Reason)
	if sendErr != nil {
		return fmt.Errorf("send %s: %w", msg.Action, sendErr)
	}
	return fmt.Errorf("send %s refused: %s: %w", msg.Action, res.Reason, common.ErrorInternal)
}

func (c *Client) handleSuccess(ctx context.Context, msg *Message, elapsed time.Duration) error {
	c.log.Info(ctx, "message sent", "action", msg.Action, "elapsed", elapsed)
	if msg.Action == ActionMessage {
		// A delivered clip breaks any "no other devices" streak.
		return c.prefs.SetInt(ctx, prefs.KeyNoDeviceCount, 0)
	}
	return nil
}

func (c *Client) handleNotRegistered(ctx context.Context) error {
	if err := c.prefs.SetBool(ctx, prefs.KeyRegistered, false); err != nil {
		return err
	}
	c.registry.Notify(device.Event{Kind: device.EventRegisterError, Err: ErrNotRegistered})
	return ErrNotRegistered
}

// handleNoDevices implements the soft-error policy: every occurrence emits a
// registry event; MESSAGE occurrences additionally advance the persisted
// counter, and the counter reaching the threshold silently turns
// auto-forwarding off. MESSAGE sends stay non-blocking for the caller.
func (c *Client) handleNoDevices(ctx context.Context, msg *Message) error {
	c.registry.Notify(device.Event{Kind: device.EventNoRemoteDevices})

	if msg.Action != ActionMessage {
		return ErrNoRemoteDevices
	}

	n, err := c.prefs.GetInt(ctx, prefs.KeyNoDeviceCount, 0)
	if err != nil {
		return err
	}
	n++
	if err := c.prefs.SetInt(ctx, prefs.KeyNoDeviceCount, n); err != nil {
		return err
	}
	if n >= common.NoDeviceDisableThreshold {
		if err := c.prefs.SetBool(ctx, prefs.KeyAutoForward, false); err != nil {
			return err
		}
		c.log.Warn(ctx, "auto-forward disabled after repeated no-device responses", "count", n)
	}
	return nil
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/donfanning/pushclip/internal/device"
	"github.com/donfanning/pushclip/internal/push"
	"github.com/donfanning/pushclip/internal/repositories/prefs"
)

// getSimpleText and getSecret are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getSecret = GetSecret

// removalAckTimeout bounds how long sign-out waits for the DEVICE_REMOVED
// send to complete before proceeding locally.
const removalAckTimeout = 15 * time.Second

// Login prompts for the account name and access token, stores the session
// and registers this device with the push channel.
func (a *App) Login(ctx context.Context) error {
	account, err := getSimpleText(a.reader, "Enter account name", os.Stdout)
	if err != nil {
		return err
	}
	if account == "" {
		return fmt.Errorf("account name must not be empty")
	}

	token, err := getSecret(os.Stdout, "Enter access token")
	if err != nil {
		return err
	}

	if err := a.session.SignIn(ctx, account, string(token)); err != nil {
		return fmt.Errorf("error storing session: %w", err)
	}

	if err := a.prefs.SetBool(ctx, prefs.KeyAutoForward, true); err != nil {
		return err
	}
	if err := a.prefs.SetBool(ctx, prefs.KeyRegistered, true); err != nil {
		return err
	}
	a.registry.Notify(device.Event{Kind: device.EventMyDeviceRegistered, Device: a.local.Device(ctx)})

	// Announce the new device. Having no other devices yet is normal.
	if err := a.connect(ctx); err != nil {
		a.log.Warn(ctx, "signed in but relay unreachable, device not announced", "error", err)
		fmt.Println("Signed in. Device will announce itself on the next run.")
		return nil
	}
	if err := a.client.AnnounceDevice(ctx); err != nil && !errors.Is(err, push.ErrNoRemoteDevices) {
		a.log.Warn(ctx, "device announcement failed", "error", err)
	}

	fmt.Println("Signed in as", account)
	return nil
}

// Logout announces the removal of this device, waits for the send to
// complete either way, clears the cached device list and drops the session.
func (a *App) Logout(ctx context.Context) error {
	if !a.session.IsSignedIn(ctx) {
		fmt.Println("Not signed in.")
		return nil
	}

	if err := a.connect(ctx); err != nil {
		a.log.Warn(ctx, "relay unreachable, other devices will not learn about the removal", "error", err)
	} else {
		events, unsubscribe := a.registry.Subscribe()

		go func() {
			if err := a.client.AnnounceRemoval(ctx); err != nil {
				a.log.Warn(ctx, "removal announcement failed", "error", err)
			}
		}()

		a.waitForRemovalAck(ctx, events)
		unsubscribe()
	}

	if err := a.registry.Clear(ctx); err != nil {
		return fmt.Errorf("error clearing device list: %w", err)
	}
	if err := a.prefs.SetBool(ctx, prefs.KeyRegistered, false); err != nil {
		return err
	}
	if err := a.session.SignOut(ctx); err != nil {
		return fmt.Errorf("error dropping session: %w", err)
	}

	fmt.Println("Signed out.")
	return nil
}

// waitForRemovalAck blocks until the DEVICE_REMOVED send completes, the
// timeout passes or ctx is done. Completion fires for failed sends too, so
// sign-out never hangs on a broken channel.
func (a *App) waitForRemovalAck(ctx context.Context, events <-chan device.Event) {
	timer := time.NewTimer(removalAckTimeout)
	defer timer.Stop()

	for {
		select {
		case ev := <-events:
			if ev.Kind == device.EventMyDeviceRemoved {
				return
			}
		case <-timer.C:
			a.log.Warn(ctx, "timed out waiting for removal announcement")
			return
		case <-ctx.Done():
			return
		}
	}
}

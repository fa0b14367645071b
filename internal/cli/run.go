package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/donfanning/pushclip/internal/push"
	"github.com/donfanning/pushclip/internal/repositories/prefs"
	"github.com/donfanning/pushclip/internal/watcher"
)

// RunAgent starts the listener and the clipboard watcher and blocks until
// ctx is cancelled.
func (a *App) RunAgent(ctx context.Context) error {
	if !a.session.IsSignedIn(ctx) {
		return fmt.Errorf("not signed in, run 'pushclip login' first")
	}
	if err := a.connect(ctx); err != nil {
		return err
	}

	go a.forwardEvents(ctx)

	sub, err := a.listener.Start(ctx)
	if err != nil {
		return fmt.Errorf("error subscribing to push channel: %w", err)
	}
	defer func() { _ = sub.Unsubscribe() }()

	registered, err := a.prefs.GetBool(ctx, prefs.KeyRegistered, false)
	if err != nil {
		return err
	}
	if registered {
		if err := a.client.AnnounceDevice(ctx); err != nil && !errors.Is(err, push.ErrNoRemoteDevices) {
			a.log.Warn(ctx, "device announcement failed", "error", err)
		}
	}

	w := watcher.New(a.board, a.clips, a.client, a.prefs, a.notifier,
		a.local, a.log, watcher.SaveUpsert)
	w.SetDebounce(a.config.DebounceWindow)

	a.log.Info(ctx, "agent started",
		"device", a.local.DisplayName(ctx),
		"account", a.session.Username(ctx),
		"relay", a.config.RelayURL)

	err = w.Run(ctx, a.config.PollInterval)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

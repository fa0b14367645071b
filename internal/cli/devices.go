package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/donfanning/pushclip/internal/push"
)

// Devices prints the cached device list, newest sighting first.
func (a *App) Devices(ctx context.Context) error {
	list, err := a.registry.Devices(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("No other devices known. Run 'pushclip ping' to discover them.")
		return nil
	}

	for _, d := range list {
		fmt.Printf("%-30s %-10s last seen %s\n",
			d.DisplayName(), d.PlatformName, d.LastSeen.Format(time.RFC3339))
	}
	return nil
}

// pingWait is how long Ping collects responses before printing the result.
const pingWait = 3 * time.Second

// Ping asks every other device on the account to announce itself, waits for
// responses and prints the refreshed device list.
func (a *App) Ping(ctx context.Context) error {
	if err := a.connect(ctx); err != nil {
		return err
	}

	sub, err := a.listener.Start(ctx)
	if err != nil {
		return fmt.Errorf("error subscribing to push channel: %w", err)
	}
	defer func() { _ = sub.Unsubscribe() }()

	id, err := a.client.SendPing(ctx)
	if err != nil {
		if errors.Is(err, push.ErrNoRemoteDevices) {
			fmt.Println("No other devices registered on this account.")
			return nil
		}
		return err
	}
	a.log.Debug(ctx, "ping sent", "correlation_id", id)

	select {
	case <-time.After(pingWait):
	case <-ctx.Done():
		return ctx.Err()
	}

	return a.Devices(ctx)
}

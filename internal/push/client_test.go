package push

import (
	"context"
	"errors"
	"testing"

	"github.com/donfanning/pushclip/internal/common"
	"github.com/donfanning/pushclip/internal/device"
	"github.com/donfanning/pushclip/internal/models"
	"github.com/donfanning/pushclip/internal/repositories/prefs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClip(text string) *models.ClipItem {
	return &models.ClipItem{Text: text}
}

func TestSend_NoOpWhenSignedOut(t *testing.T) {
	relay := &fakeRelay{}
	n := newNode(t, relay, "a")
	n.session.signedIn = false

	require.NoError(t, n.client.SendClip(context.Background(), testClip("hello")))
	assert.Equal(t, 0, relay.attempts())
}

func TestSend_NoOpWhenForwardingDisabled(t *testing.T) {
	relay := &fakeRelay{}
	n := newNode(t, relay, "a")
	ctx := context.Background()

	require.NoError(t, n.prefs.SetBool(ctx, prefs.KeyAutoForward, false))
	require.NoError(t, n.client.SendClip(ctx, testClip("hello")))
	assert.Equal(t, 0, relay.attempts())
}

func TestSend_ConfigErrorIsTerminal(t *testing.T) {
	relay := &fakeRelay{tokenErr: errors.New("connection down")}
	n := newNode(t, relay, "a")

	err := n.client.SendClip(context.Background(), testClip("hello"))
	assert.ErrorIs(t, err, ErrSendConfig)
	assert.Equal(t, 0, relay.attempts(), "config failures must not reach the relay")
}

func TestSend_RetriesTransientFailureExactlyOnce(t *testing.T) {
	tests := []struct {
		name    string
		script  []attempt
		wantErr bool
		wantTry int
	}{
		{
			name: "retry succeeds",
			script: []attempt{
				{err: errors.New("timeout")},
				{res: SendResult{Success: true}},
			},
			wantTry: 2,
		},
		{
			name: "retry fails too",
			script: []attempt{
				{err: errors.New("timeout")},
				{err: errors.New("timeout")},
			},
			wantErr: true,
			wantTry: 2,
		},
		{
			name: "unclassified refusal retried",
			script: []attempt{
				{res: SendResult{Success: false, Reason: "internal error"}},
				{res: SendResult{Success: true}},
			},
			wantTry: 2,
		},
		{
			name:    "success needs no retry",
			script:  []attempt{{res: SendResult{Success: true}}},
			wantTry: 1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			relay := &fakeRelay{script: tc.script}
			n := newNode(t, relay, "a")

			err := n.client.SendClip(context.Background(), testClip("hello"))
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tc.wantTry, relay.attempts())
		})
	}
}

func TestSend_NotRegisteredIsTerminal(t *testing.T) {
	relay := &fakeRelay{script: []attempt{
		{res: SendResult{Success: false, Reason: "device is no longer registered"}},
	}}
	n := newNode(t, relay, "a")
	ctx := context.Background()

	require.NoError(t, n.prefs.SetBool(ctx, prefs.KeyRegistered, true))

	events, unsubscribe := n.registry.Subscribe()
	defer unsubscribe()

	err := n.client.SendClip(ctx, testClip("hello"))
	assert.ErrorIs(t, err, ErrNotRegistered)
	assert.Equal(t, 1, relay.attempts(), "terminal failures must not be retried")

	registered, err2 := n.prefs.GetBool(ctx, prefs.KeyRegistered, true)
	require.NoError(t, err2)
	assert.False(t, registered)

	ev := <-events
	assert.Equal(t, device.EventRegisterError, ev.Kind)
}

func TestSend_NoDevicesSoftError(t *testing.T) {
	ctx := context.Background()
	noDevices := attempt{res: SendResult{Success: false, Reason: "no other devices registered to account"}}

	t.Run("MESSAGE is non-blocking and counts", func(t *testing.T) {
		relay := &fakeRelay{script: []attempt{noDevices}}
		n := newNode(t, relay, "a")

		events, unsubscribe := n.registry.Subscribe()
		defer unsubscribe()

		require.NoError(t, n.client.SendClip(ctx, testClip("hello")))
		assert.Equal(t, 1, relay.attempts(), "soft errors must not be retried")

		count, err := n.prefs.GetInt(ctx, prefs.KeyNoDeviceCount, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		ev := <-events
		assert.Equal(t, device.EventNoRemoteDevices, ev.Kind)
	})

	t.Run("PING surfaces the error and does not count", func(t *testing.T) {
		relay := &fakeRelay{script: []attempt{noDevices}}
		n := newNode(t, relay, "a")

		_, err := n.client.SendPing(ctx)
		assert.ErrorIs(t, err, ErrNoRemoteDevices)

		count, err := n.prefs.GetInt(ctx, prefs.KeyNoDeviceCount, 0)
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})

	t.Run("threshold disables auto-forward and stays disabled", func(t *testing.T) {
		script := make([]attempt, 0, common.NoDeviceDisableThreshold)
		for i := 0; i < common.NoDeviceDisableThreshold; i++ {
			script = append(script, noDevices)
		}
		relay := &fakeRelay{script: script}
		n := newNode(t, relay, "a")

		for i := 0; i < common.NoDeviceDisableThreshold-1; i++ {
			require.NoError(t, n.client.SendClip(ctx, testClip("hello")))
			enabled, err := n.prefs.GetBool(ctx, prefs.KeyAutoForward, true)
			require.NoError(t, err)
			assert.True(t, enabled, "still enabled below the threshold")
		}

		require.NoError(t, n.client.SendClip(ctx, testClip("hello")))
		enabled, err := n.prefs.GetBool(ctx, prefs.KeyAutoForward, true)
		require.NoError(t, err)
		assert.False(t, enabled, "10th consecutive soft error must disable forwarding")

		// Further sends are no-ops now that forwarding is off.
		attempts := relay.attempts()
		require.NoError(t, n.client.SendClip(ctx, testClip("hello")))
		assert.Equal(t, attempts, relay.attempts())
	})

	t.Run("success resets the streak", func(t *testing.T) {
		relay := &fakeRelay{script: []attempt{noDevices, {res: SendResult{Success: true}}, noDevices}}
		n := newNode(t, relay, "a")

		require.NoError(t, n.client.SendClip(ctx, testClip("one")))
		require.NoError(t, n.client.SendClip(ctx, testClip("two")))
		require.NoError(t, n.client.SendClip(ctx, testClip("three")))

		count, err := n.prefs.GetInt(ctx, prefs.KeyNoDeviceCount, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, count, "delivered clip breaks the streak")
	})
}

func TestAnnounceRemoval_AlwaysSignalsCompletion(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(n *node)
		script []attempt
	}{
		{name: "success", script: []attempt{{res: SendResult{Success: true}}}},
		{name: "failure after retry", script: []attempt{{err: errors.New("x")}, {err: errors.New("x")}}},
		{name: "signed out no-op", setup: func(n *node) { n.session.signedIn = false }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			relay := &fakeRelay{script: tc.script}
			n := newNode(t, relay, "a")
			if tc.setup != nil {
				tc.setup(n)
			}

			events, unsubscribe := n.registry.Subscribe()
			defer unsubscribe()

			_ = n.client.AnnounceRemoval(context.Background())

			ev := <-events
			assert.Equal(t, device.EventMyDeviceRemoved, ev.Kind,
				"completion signal must fire regardless of outcome")
		})
	}
}

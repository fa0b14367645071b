package push

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/donfanning/pushclip/internal/clipboard"
	"github.com/donfanning/pushclip/internal/common"
	"github.com/donfanning/pushclip/internal/device"
	"github.com/donfanning/pushclip/internal/logging"
	"github.com/donfanning/pushclip/internal/models"
	"github.com/donfanning/pushclip/internal/repositories/clips"
	"github.com/donfanning/pushclip/internal/repositories/devices"
	"github.com/donfanning/pushclip/internal/repositories/prefs"
	"github.com/donfanning/pushclip/internal/store"
	"github.com/stretchr/testify/require"
)

// attempt is one scripted relay outcome.
type attempt struct {
	res SendResult
	err error
}

// fakeRelay scripts send outcomes and loops sent payloads back to every
// subscribed handler, standing in for the external relay server.
type fakeRelay struct {
	mu       sync.Mutex
	script   []attempt
	sent     [][]byte
	handlers []func([]byte)
	tokenErr error
	loopback bool
}

func (f *fakeRelay) Token(ctx context.Context) (string, error) {
	if f.tokenErr != nil {
		return "", f.tokenErr
	}
	return "test-token", nil
}

func (f *fakeRelay) Send(ctx context.Context, token, credential string, payload []byte, priority Priority) (SendResult, error) {
	f.mu.Lock()
	f.sent = append(f.sent, payload)
	var a attempt
	if len(f.script) > 0 {
		a = f.script[0]
		f.script = f.script[1:]
	} else {
		a = attempt{res: SendResult{Success: true}}
	}
	handlers := append([]func([]byte){}, f.handlers...)
	loop := f.loopback && a.err == nil && a.res.Success
	f.mu.Unlock()

	if loop {
		for _, h := range handlers {
			h(payload)
		}
	}
	return a.res, a.err
}

func (f *fakeRelay) Subscribe(ctx context.Context, handler func(payload []byte)) (Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers = append(f.handlers, handler)
	return fakeSub{}, nil
}

func (f *fakeRelay) attempts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fakeSub struct{}

func (fakeSub) Unsubscribe() error { return nil }

// fakeSession is a scriptable identity.Provider.
type fakeSession struct {
	signedIn bool
	token    string
}

func (s *fakeSession) IsSignedIn(ctx context.Context) bool { return s.signedIn }

func (s *fakeSession) Credential(ctx context.Context) (string, error) {
	if !s.signedIn || s.token == "" {
		return "", common.ErrNoCredential
	}
	return s.token, nil
}

func (s *fakeSession) Username(ctx context.Context) string {
	if s.signedIn {
		return "tester"
	}
	return ""
}

// fakeNotifier records which notifications fired.
type fakeNotifier struct {
	mu       sync.Mutex
	arrived  []*models.ClipItem
	saved    []*models.ClipItem
	added    []*models.Device
	removed  []*models.Device
	regErrs  []error
	noDevice int
}

func (n *fakeNotifier) ClipSaved(ctx context.Context, c *models.ClipItem) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.saved = append(n.saved, c)
}

func (n *fakeNotifier) ClipArrived(ctx context.Context, c *models.ClipItem) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.arrived = append(n.arrived, c)
}

func (n *fakeNotifier) DeviceAdded(ctx context.Context, d *models.Device) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.added = append(n.added, d)
}

func (n *fakeNotifier) DeviceRemoved(ctx context.Context, d *models.Device) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.removed = append(n.removed, d)
}

func (n *fakeNotifier) RegisterError(ctx context.Context, err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.regErrs = append(n.regErrs, err)
}

func (n *fakeNotifier) NoRemoteDevices(ctx context.Context) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.noDevice++
}

// node bundles everything one simulated device needs.
type node struct {
	db       *sql.DB
	prefs    prefs.Repository
	clips    clips.Repository
	registry *device.Registry
	local    *device.Identity
	session  *fakeSession
	client   *Client
	listener *Listener
	board    *clipboard.Mock
	notifier *fakeNotifier
}

func newNode(t *testing.T, relay Relay, model string) *node {
	t.Helper()
	ctx := context.Background()

	db, err := store.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := logging.NewNopLogger()
	prefsRepo := prefs.NewSQLiteRepository(db)
	clipsRepo := clips.NewSQLiteRepository(db)
	registry := device.NewRegistry(devices.NewSQLiteRepository(db), log)
	local := device.NewStaticIdentity(prefsRepo, model, "sn-"+model, "linux")
	session := &fakeSession{signedIn: true, token: "tok"}
	client := NewClient(relay, local, session, prefsRepo, registry, log)
	board := clipboard.NewMock()
	notifier := &fakeNotifier{}

	listener := NewListener(relay, client, local, session, registry, clipsRepo, board, notifier, log)
	listener.throttle = 0

	return &node{
		db:       db,
		prefs:    prefsRepo,
		clips:    clipsRepo,
		registry: registry,
		local:    local,
		session:  session,
		client:   client,
		listener: listener,
		board:    board,
		notifier: notifier,
	}
}

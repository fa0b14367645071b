package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/donfanning/pushclip/internal/backup"
	"github.com/donfanning/pushclip/internal/clipboard"
	"github.com/donfanning/pushclip/internal/config"
	"github.com/donfanning/pushclip/internal/device"
	"github.com/donfanning/pushclip/internal/identity"
	"github.com/donfanning/pushclip/internal/logging"
	"github.com/donfanning/pushclip/internal/notify"
	"github.com/donfanning/pushclip/internal/push"
	"github.com/donfanning/pushclip/internal/repositories/clips"
	"github.com/donfanning/pushclip/internal/repositories/devices"
	"github.com/donfanning/pushclip/internal/repositories/labels"
	"github.com/donfanning/pushclip/internal/repositories/prefs"
	"github.com/donfanning/pushclip/internal/store"
	"github.com/nats-io/nats.go"
)

// App wires the agent's services together and dispatches CLI commands.
type App struct {
	config   *config.Config
	log      logging.Logger
	db       *sql.DB
	prefs    prefs.Repository
	clips    clips.Repository
	labels   labels.Repository
	session  *identity.Session
	local    *device.Identity
	registry *device.Registry
	notifier notify.Notifier
	board    clipboard.Clipboard
	reader   *bufio.Reader

	// nc and the services behind it exist only after connect().
	nc       *nats.Conn
	relay    push.Relay
	client   *push.Client
	listener *push.Listener
}

func NewApp(c *config.Config, log logging.Logger) (*App, error) {
	ctx := context.Background()

	db, err := store.Open(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	board, err := clipboard.NewSystem()
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error opening clipboard: %w", err)
	}

	prefsRepo := prefs.NewSQLiteRepository(db)
	session := identity.NewSession(prefsRepo)

	local, err := device.NewIdentity(prefsRepo)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error deriving device identity: %w", err)
	}
	if c.Nickname != "" {
		if err := local.SetNickname(ctx, c.Nickname); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("error storing nickname: %w", err)
		}
	}

	return &App{
		config:   c,
		log:      log,
		db:       db,
		prefs:    prefsRepo,
		clips:    clips.NewSQLiteRepository(db),
		labels:   labels.NewSQLiteRepository(db),
		session:  session,
		local:    local,
		registry: device.NewRegistry(devices.NewSQLiteRepository(db), log),
		notifier: notify.NewLogNotifier(log),
		board:    board,
		reader:   bufio.NewReader(os.Stdin),
	}, nil
}

// connect dials the relay and builds the push services. The relay account
// namespace is the signed-in username, so connecting requires a session.
func (a *App) connect(ctx context.Context) error {
	if a.nc != nil {
		return nil
	}

	account := a.session.Username(ctx)
	if account == "" {
		return fmt.Errorf("not signed in, run 'pushclip login' first")
	}

	nc, err := nats.Connect(a.config.RelayURL,
		nats.Name("pushclip-"+a.local.UniqueName()))
	if err != nil {
		return fmt.Errorf("error connecting to relay %s: %w", a.config.RelayURL, err)
	}

	a.nc = nc
	a.relay = push.NewNATSRelay(nc, account, 0)
	a.client = push.NewClient(a.relay, a.local, a.session, a.prefs, a.registry, a.log)
	a.listener = push.NewListener(a.relay, a.client, a.local, a.session,
		a.registry, a.clips, a.board, a.notifier, a.log)
	return nil
}

// engine builds the backup engine against the configured bucket.
func (a *App) engine(ctx context.Context) (*backup.Engine, error) {
	if a.config.S3.Bucket == "" {
		return nil, fmt.Errorf("backup bucket not configured, set s3_bucket in the config file")
	}
	cloud, err := backup.NewS3Store(ctx, a.config.S3)
	if err != nil {
		return nil, err
	}
	return backup.NewEngine(a.db, cloud, a.local, a.session, a.log), nil
}

func (a *App) Close() {
	if a.nc != nil {
		a.nc.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}

// forwardEvents pumps send-path registry events into the notifier until ctx
// is done. Inbound device add/remove notifications come straight from the
// listener, so only the client-originated kinds are bridged here.
func (a *App) forwardEvents(ctx context.Context) {
	events, unsubscribe := a.registry.Subscribe()
	defer unsubscribe()

	for {
		select {
		case ev := <-events:
			switch ev.Kind {
			case device.EventRegisterError:
				a.notifier.RegisterError(ctx, ev.Err)
			case device.EventNoRemoteDevices:
				a.notifier.NoRemoteDevices(ctx)
			}
		case <-ctx.Done():
			return
		}
	}
}

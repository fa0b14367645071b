// Package device derives the local device identity and maintains the
// registry of the account's other devices.
package device

import (
	"context"
	"errors"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/donfanning/pushclip/internal/common"
	"github.com/donfanning/pushclip/internal/models"
	"github.com/donfanning/pushclip/internal/repositories/prefs"
)

// machineIDFiles are probed in order for a stable serial number.
var machineIDFiles = []string{"/etc/machine-id", "/var/lib/dbus/machine-id"}

// Identity describes the local device. The Model/SerialNumber/PlatformName
// tuple is stable across restarts and renames; only Nickname is mutable.
type Identity struct {
	prefs prefs.Repository

	model        string
	serialNumber string
	platformName string
}

// NewIdentity derives the local identity. Hostname stands in for the device
// model, the OS machine id for the serial number.
func NewIdentity(prefsRepo prefs.Repository) (*Identity, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, err
	}

	serial := readMachineID()
	if serial == "" {
		// No machine id available; the hostname alone still dedups
		// well enough for a personal account.
		serial = host
	}

	return &Identity{
		prefs:        prefsRepo,
		model:        host,
		serialNumber: serial,
		platformName: runtime.GOOS,
	}, nil
}

// NewStaticIdentity builds an identity from an explicit tuple. Used when
// config overrides the derived values, and by tests.
func NewStaticIdentity(prefsRepo prefs.Repository, model, serialNumber, platformName string) *Identity {
	return &Identity{
		prefs:        prefsRepo,
		model:        model,
		serialNumber: serialNumber,
		platformName: platformName,
	}
}

func readMachineID() string {
	for _, path := range machineIDFiles {
		b, err := os.ReadFile(path)
		if err == nil {
			if id := strings.TrimSpace(string(b)); id != "" {
				return id
			}
		}
	}
	return ""
}

// Device materializes the local identity as a Device record with the
// current nickname and timestamp.
func (i *Identity) Device(ctx context.Context) *models.Device {
	return &models.Device{
		Model:        i.model,
		SerialNumber: i.serialNumber,
		PlatformName: i.platformName,
		Nickname:     i.Nickname(ctx),
		LastSeen:     time.Now(),
	}
}

// UniqueName of the local device, nickname excluded.
func (i *Identity) UniqueName() string {
	return i.model + i.serialNumber + i.platformName
}

// DisplayName is what other devices show for this device.
func (i *Identity) DisplayName(ctx context.Context) string {
	if n := i.Nickname(ctx); n != "" {
		return n
	}
	return i.model
}

// Nickname returns the user-chosen nickname, "" when unset.
func (i *Identity) Nickname(ctx context.Context) string {
	n, err := i.prefs.Get(ctx, prefs.KeyNickname)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			return ""
		}
		return ""
	}
	return n
}

// SetNickname stores a new nickname. The unique name does not change, so
// other registries will update our entry in place instead of duplicating it.
func (i *Identity) SetNickname(ctx context.Context, nickname string) error {
	return i.prefs.Set(ctx, prefs.KeyNickname, nickname)
}

package config

import (
	"time"

	"github.com/donfanning/pushclip/internal/backup"
	"github.com/donfanning/pushclip/internal/common"
)

// Config holds runtime settings for the pushclip agent.
//
// Units: PollInterval and DebounceWindow are time.Duration values.
type Config struct {
	// RelayURL is the address of the push relay server.
	RelayURL string
	// DatabasePath is the sqlite file holding clips, labels, devices and
	// preferences.
	DatabasePath string
	// Nickname overrides the device nickname stored in preferences.
	Nickname string
	// PollInterval is how often the watcher reads the platform clipboard.
	PollInterval time.Duration
	// DebounceWindow suppresses identical clipboard reads inside it.
	DebounceWindow time.Duration
	// S3 configures the backup bucket.
	S3 backup.S3Config
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.RelayURL = "nats://127.0.0.1:4222"
	c.DatabasePath = "pushclip.db"
	c.PollInterval = 1 * time.Second
	c.DebounceWindow = common.DebounceWindow
	c.S3.Region = "us-east-1"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

package config

import (
	"testing"
	"time"

	"github.com/donfanning/pushclip/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "nats://127.0.0.1:4222", c.RelayURL)
	assert.Equal(t, "pushclip.db", c.DatabasePath)
	assert.Equal(t, 1*time.Second, c.PollInterval)
	assert.Equal(t, common.DebounceWindow, c.DebounceWindow)
	assert.Equal(t, "us-east-1", c.S3.Region)
	assert.Empty(t, c.Nickname)
	assert.Empty(t, c.S3.Bucket)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "nats://127.0.0.1:4222", cfg.RelayURL)
	assert.Equal(t, 1*time.Second, cfg.PollInterval)
}

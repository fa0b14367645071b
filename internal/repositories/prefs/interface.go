package prefs

import "context"

// Well-known preference keys.
const (
	KeyAutoForward     = "auto_forward"      // forwarding feature flag
	KeyRegistered      = "registered"        // channel registration flag
	KeyNoDeviceCount   = "no_device_count"   // consecutive "no other devices" soft errors
	KeyNickname        = "nickname"          // user-chosen device nickname
	KeySessionToken    = "session_token"     // identity provider credential
	KeySessionUsername = "session_username"  // signed-in account name
	KeySuppressStartup = "suppress_startup"  // skip the initial clipboard read
)

// Repository is a small persisted key/value store for agent preferences
// and protocol counters.
type Repository interface {
	// Get returns the raw value or common.ErrorNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores the value, replacing any previous one.
	Set(ctx context.Context, key, value string) error

	// Delete removes the key; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// GetBool returns the value as a bool, or def when unset.
	GetBool(ctx context.Context, key string, def bool) (bool, error)

	// SetBool stores a bool.
	SetBool(ctx context.Context, key string, v bool) error

	// GetInt returns the value as an int, or def when unset.
	GetInt(ctx context.Context, key string, def int) (int, error)

	// SetInt stores an int.
	SetInt(ctx context.Context, key string, v int) error
}

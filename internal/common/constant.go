// Package common contains shared constants and sentinel errors used across
// pushclip components.
package common

import "time"

// MaxMessageBytes is the maximum payload the push channel accepts; longer
// clip text is truncated before sending.
const MaxMessageBytes = 4096

// DebounceWindow is the interval during which an identical clipboard read is
// treated as a platform double-fire rather than a new user copy.
const DebounceWindow = 200 * time.Millisecond

// InboundThrottle is the pause after handling each inbound push message so a
// burst of relayed clips does not overwhelm the local system.
const InboundThrottle = 250 * time.Millisecond

// NoDeviceDisableThreshold is the number of consecutive "no other devices"
// soft errors after which auto-forwarding is switched off.
const NoDeviceDisableThreshold = 10

package push

import (
	"context"
	"errors"
	"strings"
)

// Priority hints the channel about delivery urgency. Clips go out high so
// the receiving side can place them on the clipboard promptly.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
)

// SendResult is the relay's verdict on one send attempt. Reason is the
// server-supplied explanation when Success is false.
type SendResult struct {
	Success bool
	Reason  string
}

// Subscription is an active inbound registration.
type Subscription interface {
	Unsubscribe() error
}

// Relay is the push channel. The relay server itself is an external
// collaborator; this interface is its client-side boundary.
type Relay interface {
	// Token returns the channel registration token for this device, or an
	// error when the channel is not usable (a local configuration failure).
	Token(ctx context.Context) (string, error)

	// Send delivers one payload authorized by credential. The call blocks
	// until the relay answers; callers run it on a worker goroutine. A
	// transport failure is returned as err; a relay-level refusal comes
	// back in SendResult.
	Send(ctx context.Context, token, credential string, payload []byte, priority Priority) (SendResult, error)

	// Subscribe registers the handler for inbound payloads. Handlers run
	// one at a time in delivery order.
	Subscribe(ctx context.Context, handler func(payload []byte)) (Subscription, error)
}

// Shared error taxonomy of the send path (§ error handling):
// configuration errors are terminal and surfaced synchronously; the two
// server-classified conditions below get special treatment; everything else
// is retried exactly once.
var (
	// ErrSendConfig: no token or no credential; terminal, not retried.
	ErrSendConfig = errors.New("push channel not configured")

	// ErrNotRegistered: the relay no longer knows this device; terminal.
	ErrNotRegistered = errors.New("device no longer registered")

	// ErrNoRemoteDevices: the account has no other devices; soft.
	ErrNoRemoteDevices = errors.New("no other devices registered")
)

// reason fragments the relay uses for the classified failures.
const (
	reasonNotRegistered  = "no longer registered"
	reasonNoOtherDevices = "no other devices registered"
)

type failureClass int

const (
	classSuccess failureClass = iota
	classTerminal
	classSoft
	classRetryable
)

// classify maps one attempt's outcome onto the failure taxonomy.
func classify(res SendResult, err error) failureClass {
	if err != nil {
		return classRetryable
	}
	if res.Success {
		return classSuccess
	}
	reason := strings.ToLower(res.Reason)
	switch {
	case strings.Contains(reason, reasonNotRegistered):
		return classTerminal
	case strings.Contains(reason, reasonNoOtherDevices):
		return classSoft
	default:
		return classRetryable
	}
}

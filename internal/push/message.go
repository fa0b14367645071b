// Package push implements the synchronization protocol: typed messages over
// the push channel, the send path with its failure taxonomy and one-shot
// retry, and the listener that turns inbound messages into local state.
package push

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/donfanning/pushclip/internal/common"
	"github.com/donfanning/pushclip/internal/models"
)

// Action discriminates protocol messages.
type Action string

const (
	// ActionMessage carries clip text and the favorite flag.
	ActionMessage Action = "MESSAGE"
	// ActionPing asks every other device to announce itself.
	ActionPing Action = "PING"
	// ActionPingResponse answers a ping, echoing its correlation id.
	ActionPingResponse Action = "PING_RESPONSE"
	// ActionDeviceAdded announces a newly registered device.
	ActionDeviceAdded Action = "DEVICE_ADDED"
	// ActionDeviceRemoved announces a device leaving the account.
	ActionDeviceRemoved Action = "DEVICE_REMOVED"
)

// Message is the wire shape. Every outbound message carries the sender's
// device fields so the receiver can materialize a Device without a lookup.
// Messages are transient; they are never persisted.
type Message struct {
	Action        Action `json:"action"`
	Text          string `json:"text,omitempty"`
	Favorite      bool   `json:"favorite,omitempty"`
	CorrelationID string `json:"correlation_id,omitempty"`

	Model        string `json:"model"`
	SerialNumber string `json:"serial_number"`
	PlatformName string `json:"platform_name"`
	Nickname     string `json:"nickname,omitempty"`
}

// Sender materializes the sending device from the message's device fields.
func (m *Message) Sender() *models.Device {
	return &models.Device{
		Model:        m.Model,
		SerialNumber: m.SerialNumber,
		PlatformName: m.PlatformName,
		Nickname:     m.Nickname,
		LastSeen:     time.Now(),
	}
}

// Encode serializes the message, escaping the text so arbitrary clipboard
// bytes survive the channel, and truncating it to the channel's payload cap.
func (m *Message) Encode() ([]byte, error) {
	w := *m
	w.Text = truncate(url.QueryEscape(m.Text), common.MaxMessageBytes)
	b, err := json.Marshal(&w)
	if err != nil {
		return nil, fmt.Errorf("failed to encode message: %w", err)
	}
	return b, nil
}

// DecodeMessage parses a payload and unescapes the text.
func DecodeMessage(payload []byte) (*Message, error) {
	var m Message
	if err := json.Unmarshal(payload, &m); err != nil {
		return nil, fmt.Errorf("failed to decode message: %w", err)
	}
	text, err := url.QueryUnescape(m.Text)
	if err != nil {
		return nil, fmt.Errorf("failed to unescape message text: %w", err)
	}
	m.Text = text
	return &m, nil
}

// truncate cuts s to at most n bytes without splitting an escape sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := s[:n]
	// A trailing partial %XX escape would not round-trip.
	for i := len(cut) - 1; i >= 0 && i >= len(cut)-2; i-- {
		if cut[i] == '%' {
			cut = cut[:i]
			break
		}
	}
	return cut
}

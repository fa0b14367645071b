package push

import (
	"strings"
	"testing"

	"github.com/donfanning/pushclip/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage_RoundTripPreservesText(t *testing.T) {
	m := &Message{
		Action:       ActionMessage,
		Text:         "line one\nline two & special chars: 100% тест",
		Favorite:     true,
		Model:        "pixel",
		SerialNumber: "sn1",
		PlatformName: "android",
		Nickname:     "phone",
	}

	payload, err := m.Encode()
	require.NoError(t, err)

	got, err := DecodeMessage(payload)
	require.NoError(t, err)
	assert.Equal(t, m.Text, got.Text)
	assert.Equal(t, ActionMessage, got.Action)
	assert.True(t, got.Favorite)

	sender := got.Sender()
	assert.Equal(t, "pixelsn1android", sender.UniqueName())
	assert.Equal(t, "phone", sender.DisplayName())
	assert.False(t, sender.LastSeen.IsZero())
}

func TestMessage_TruncatesOversizedText(t *testing.T) {
	m := &Message{
		Action: ActionMessage,
		Text:   strings.Repeat("a", common.MaxMessageBytes*2),
	}

	payload, err := m.Encode()
	require.NoError(t, err)

	got, err := DecodeMessage(payload)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(got.Text), common.MaxMessageBytes)
	assert.NotEmpty(t, got.Text)
}

func TestMessage_TruncationDoesNotSplitEscapes(t *testing.T) {
	// Multibyte content escapes to %XX sequences; a cut mid-sequence would
	// fail to unescape.
	m := &Message{
		Action: ActionMessage,
		Text:   strings.Repeat("я", common.MaxMessageBytes),
	}

	payload, err := m.Encode()
	require.NoError(t, err)

	_, err = DecodeMessage(payload)
	require.NoError(t, err)
}

func TestDecodeMessage_RejectsGarbage(t *testing.T) {
	_, err := DecodeMessage([]byte("not json"))
	require.Error(t, err)
}

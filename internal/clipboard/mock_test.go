package clipboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMock_SidecarSurvivesReadAfterWrite(t *testing.T) {
	m := NewMock()

	meta := &Meta{RemoteOrigin: true, SourceDevice: "phone", Favorite: true}
	require.NoError(t, m.Write(Content{Text: "hello", Meta: meta}))

	c, err := m.Read()
	require.NoError(t, err)
	assert.Equal(t, "hello", c.Text)
	require.NotNil(t, c.Meta)
	assert.True(t, c.Meta.RemoteOrigin)
	assert.Equal(t, "phone", c.Meta.SourceDevice)
}

func TestMock_ForeignCopyDropsSidecar(t *testing.T) {
	m := NewMock()

	require.NoError(t, m.Write(Content{Text: "ours", Meta: &Meta{RemoteOrigin: true}}))
	m.SetText("theirs")

	c, err := m.Read()
	require.NoError(t, err)
	assert.Equal(t, "theirs", c.Text)
	assert.Nil(t, c.Meta)
}

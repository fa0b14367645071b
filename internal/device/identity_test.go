package device

import (
	"context"
	"database/sql"
	"testing"

	"github.com/donfanning/pushclip/internal/repositories/prefs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupIdentity(t *testing.T) *Identity {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE prefs (key TEXT PRIMARY KEY, value TEXT NOT NULL);`)
	require.NoError(t, err)

	id, err := NewIdentity(prefs.NewSQLiteRepository(db))
	require.NoError(t, err)
	return id
}

func TestIdentity_UniqueNameStableAcrossRename(t *testing.T) {
	id := setupIdentity(t)
	ctx := context.Background()

	before := id.UniqueName()
	require.NotEmpty(t, before)

	require.NoError(t, id.SetNickname(ctx, "my laptop"))
	assert.Equal(t, before, id.UniqueName(), "nickname must not affect the unique name")
	assert.Equal(t, "my laptop", id.DisplayName(ctx))

	d := id.Device(ctx)
	assert.Equal(t, before, d.UniqueName())
	assert.Equal(t, "my laptop", d.Nickname)
}

func TestIdentity_DisplayNameFallsBackToModel(t *testing.T) {
	id := setupIdentity(t)
	ctx := context.Background()

	assert.Equal(t, id.model, id.DisplayName(ctx))
}

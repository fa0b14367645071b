package prefs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/donfanning/pushclip/internal/common"
	"github.com/donfanning/pushclip/internal/dbx"
)

// SQLiteRepository implements Repository over a DBTX.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) (string, error) {
	row := r.db.QueryRowContext(ctx, `SELECT value FROM prefs WHERE key = ?`, key)

	var v string
	err := row.Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", common.ErrorNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to select pref %q: %w", key, err)
	}
	return v, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, key, value string) error {
	query := `INSERT INTO prefs (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	if _, err := r.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to set pref %q: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM prefs WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete pref %q: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) GetBool(ctx context.Context, key string, def bool) (bool, error) {
	v, err := r.Get(ctx, key)
	if errors.Is(err, common.ErrorNotFound) {
		return def, nil
	}
	if err != nil {
		return def, err
	}
	return v == "1" || v == "true", nil
}

func (r *SQLiteRepository) SetBool(ctx context.Context, key string, v bool) error {
	if v {
		return r.Set(ctx, key, "1")
	}
	return r.Set(ctx, key, "0")
}

func (r *SQLiteRepository) GetInt(ctx context.Context, key string, def int) (int, error) {
	v, err := r.Get(ctx, key)
	if errors.Is(err, common.ErrorNotFound) {
		return def, nil
	}
	if err != nil {
		return def, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("pref %q is not an int: %w", key, err)
	}
	return n, nil
}

func (r *SQLiteRepository) SetInt(ctx context.Context, key string, v int) error {
	return r.Set(ctx, key, strconv.Itoa(v))
}

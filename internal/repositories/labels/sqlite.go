package labels

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/donfanning/pushclip/internal/common"
	"github.com/donfanning/pushclip/internal/dbx"
	"github.com/donfanning/pushclip/internal/models"
)

// SQLiteRepository implements Repository over a DBTX (either *sql.DB or
// *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, name string) (*models.Label, error) {
	if name == "" {
		return nil, common.ErrorEmptyLabel
	}
	res, err := r.db.ExecContext(ctx, `INSERT INTO labels (name) VALUES (?)`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to insert label: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get label id: %w", err)
	}
	return &models.Label{ID: id, Name: name}, nil
}

func (r *SQLiteRepository) Rename(ctx context.Context, id int64, name string) error {
	if name == "" {
		return common.ErrorEmptyLabel
	}
	res, err := r.db.ExecContext(ctx, `UPDATE labels SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return fmt.Errorf("failed to rename label: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM clip_labels WHERE label_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete label refs: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM labels WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete label: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Label, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM labels ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to select labels: %w", err)
	}
	defer rows.Close()

	var result []models.Label
	for rows.Next() {
		var l models.Label
		if err := rows.Scan(&l.ID, &l.Name); err != nil {
			return nil, err
		}
		result = append(result, l)
	}
	return result, rows.Err()
}

func (r *SQLiteRepository) GetByName(ctx context.Context, name string) (*models.Label, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name FROM labels WHERE name = ?`, name)

	l := &models.Label{}
	err := row.Scan(&l.ID, &l.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select label: %w", err)
	}
	return l, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM clip_labels`); err != nil {
		return fmt.Errorf("failed to clear label refs: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM labels`); err != nil {
		return fmt.Errorf("failed to clear labels: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) BulkInsert(ctx context.Context, items []models.Label) error {
	for _, l := range items {
		_, err := r.db.ExecContext(ctx, `INSERT INTO labels (id, name) VALUES (?, ?)`, l.ID, l.Name)
		if err != nil {
			return fmt.Errorf("failed to insert label %q: %w", l.Name, err)
		}
	}
	return nil
}

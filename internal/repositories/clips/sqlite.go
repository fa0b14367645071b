package clips

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/donfanning/pushclip/internal/common"
	"github.com/donfanning/pushclip/internal/dbx"
	"github.com/donfanning/pushclip/internal/models"
)

// SQLiteRepository implements Repository over a DBTX (either *sql.DB or
// *sql.Tx), so the same code serves normal operation and the transactional
// replace path.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Insert(ctx context.Context, clip *models.ClipItem) error {
	query := `INSERT INTO clips (text, ts, favorite, remote_origin, source_device)
			VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		clip.Text, clip.Timestamp.UnixMilli(), clip.Favorite, clip.RemoteOrigin, clip.SourceDevice)
	if err != nil {
		return fmt.Errorf("failed to insert clip: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get clip id: %w", err)
	}
	return r.insertLabelRefs(ctx, id, clip.LabelIDs)
}

func (r *SQLiteRepository) Upsert(ctx context.Context, clip *models.ClipItem) error {
	query := `INSERT INTO clips (text, ts, favorite, remote_origin, source_device)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(text) DO UPDATE SET ts = excluded.ts,
				favorite = excluded.favorite,
				remote_origin = excluded.remote_origin,
				source_device = excluded.source_device`
	_, err := r.db.ExecContext(ctx, query,
		clip.Text, clip.Timestamp.UnixMilli(), clip.Favorite, clip.RemoteOrigin, clip.SourceDevice)
	if err != nil {
		return fmt.Errorf("failed to upsert clip: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByText(ctx context.Context, text string) (*models.ClipItem, error) {
	query := `SELECT id, text, ts, favorite, remote_origin, source_device FROM clips WHERE text = ?`
	row := r.db.QueryRowContext(ctx, query, text)

	var id int64
	c := &models.ClipItem{}
	var ts int64
	err := row.Scan(&id, &c.Text, &ts, &c.Favorite, &c.RemoteOrigin, &c.SourceDevice)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select clip: %w", err)
	}
	c.Timestamp = time.UnixMilli(ts)

	c.LabelIDs, err = r.labelRefs(ctx, id)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.ClipItem, error) {
	query := `SELECT id, text, ts, favorite, remote_origin, source_device FROM clips ORDER BY ts DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select clips: %w", err)
	}
	defer rows.Close()

	var result []models.ClipItem
	var ids []int64

	for rows.Next() {
		var id, ts int64
		var item models.ClipItem
		if err := rows.Scan(&id, &item.Text, &ts, &item.Favorite, &item.RemoteOrigin, &item.SourceDevice); err != nil {
			return nil, err
		}
		item.Timestamp = time.UnixMilli(ts)
		result = append(result, item)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		result[i].LabelIDs, err = r.labelRefs(ctx, ids[i])
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

func (r *SQLiteRepository) DeleteByText(ctx context.Context, text string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM clips WHERE text = ?`, text)
	if err != nil {
		return fmt.Errorf("failed to delete clip: %w", err)
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

func (r *SQLiteRepository) DeleteAll(ctx context.Context, filter DeleteFilter) (int64, error) {
	query := `DELETE FROM clips WHERE 1=1`
	args := []any{}

	if filter.LabelID != nil {
		query += ` AND id IN (SELECT clip_id FROM clip_labels WHERE label_id = ?)`
		args = append(args, *filter.LabelID)
	}
	if filter.KeepFavorites {
		query += ` AND favorite = 0`
	}
	if filter.OlderThan != nil {
		query += ` AND ts < ?`
		args = append(args, filter.OlderThan.UnixMilli())
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete clips: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) BulkInsert(ctx context.Context, items []models.ClipItem) error {
	for i := range items {
		if err := r.Insert(ctx, &items[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRepository) SetLabels(ctx context.Context, text string, labelIDs []int64) error {
	row := r.db.QueryRowContext(ctx, `SELECT id FROM clips WHERE text = ?`, text)
	var id int64
	err := row.Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrorNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to select clip: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM clip_labels WHERE clip_id = ?`, id); err != nil {
		return fmt.Errorf("failed to clear clip labels: %w", err)
	}
	return r.insertLabelRefs(ctx, id, labelIDs)
}

func (r *SQLiteRepository) insertLabelRefs(ctx context.Context, clipID int64, labelIDs []int64) error {
	for _, labelID := range labelIDs {
		_, err := r.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO clip_labels (clip_id, label_id) VALUES (?, ?)`, clipID, labelID)
		if err != nil {
			return fmt.Errorf("failed to insert clip label: %w", err)
		}
	}
	return nil
}

func (r *SQLiteRepository) labelRefs(ctx context.Context, clipID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT label_id FROM clip_labels WHERE clip_id = ? ORDER BY label_id`, clipID)
	if err != nil {
		return nil, fmt.Errorf("failed to select clip labels: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

package devices

import (
	"context"
	"fmt"
	"time"

	"github.com/donfanning/pushclip/internal/common"
	"github.com/donfanning/pushclip/internal/dbx"
	"github.com/donfanning/pushclip/internal/models"
)

// SQLiteRepository implements Repository over a DBTX.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Upsert(ctx context.Context, d *models.Device) error {
	query := `INSERT INTO devices (unique_name, model, serial_number, platform_name, nickname, last_seen)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(unique_name) DO UPDATE SET nickname = excluded.nickname,
				last_seen = excluded.last_seen`
	_, err := r.db.ExecContext(ctx, query,
		d.UniqueName(), d.Model, d.SerialNumber, d.PlatformName, d.Nickname, d.LastSeen.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to upsert device: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, uniqueName string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM devices WHERE unique_name = ?`, uniqueName)
	if err != nil {
		return fmt.Errorf("failed to delete device: %w", err)
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

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Device, error) {
	query := `SELECT model, serial_number, platform_name, nickname, last_seen
			FROM devices ORDER BY last_seen DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select devices: %w", err)
	}
	defer rows.Close()

	var result []models.Device
	for rows.Next() {
		var d models.Device
		var ts int64
		if err := rows.Scan(&d.Model, &d.SerialNumber, &d.PlatformName, &d.Nickname, &ts); err != nil {
			return nil, err
		}
		d.LastSeen = time.UnixMilli(ts)
		result = append(result, d)
	}
	return result, rows.Err()
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM devices`); err != nil {
		return fmt.Errorf("failed to clear devices: %w", err)
	}
	return nil
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// ErrSettingNotFound is returned by SettingsRepository.Get for unknown keys.
var ErrSettingNotFound = errors.New("setting not found")

// SettingsRepository is a small key/value table for dashboard settings
// such as the login password hash and the profile image URL.
type SettingsRepository struct {
	db *sqlx.DB
}

func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) Get(ctx context.Context, key string) (string, error) {
	const q = `SELECT value FROM dashboard_settings WHERE key = $1`

	var v string
	if err := r.db.GetContext(ctx, &v, q, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrSettingNotFound
		}
		return "", fmt.Errorf("get setting %s: %w", key, err)
	}
	return v, nil
}

func (r *SettingsRepository) Put(ctx context.Context, key, value string) error {
	const q = `
INSERT INTO dashboard_settings (key, value)
VALUES ($1, $2)
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now();
`
	if _, err := r.db.ExecContext(ctx, q, key, value); err != nil {
		return fmt.Errorf("put setting %s: %w", key, err)
	}
	return nil
}

// PutIfAbsent stores value only when key has no value yet and reports
// whether it did.
func (r *SettingsRepository) PutIfAbsent(ctx context.Context, key, value string) (bool, error) {
	const q = `
INSERT INTO dashboard_settings (key, value)
VALUES ($1, $2)
ON CONFLICT (key) DO NOTHING;
`
	res, err := r.db.ExecContext(ctx, q, key, value)
	if err != nil {
		return false, fmt.Errorf("seed setting %s: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("seed setting %s: %w", key, err)
	}
	return n > 0, nil
}

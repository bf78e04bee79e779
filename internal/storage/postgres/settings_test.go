package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSettings(t *testing.T) (*SettingsRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSettingsRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func TestSettings_Get(t *testing.T) {
	repo, mock := setupSettings(t)

	mock.ExpectQuery(`SELECT value FROM dashboard_settings WHERE key = \$1`).
		WithArgs("password_hash").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("$2a$10$abc"))
	v, err := repo.Get(context.Background(), "password_hash")
	require.NoError(t, err)
	assert.Equal(t, "$2a$10$abc", v)

	mock.ExpectQuery(`SELECT value FROM dashboard_settings`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))
	_, err = repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSettingNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSettings_PutIfAbsent(t *testing.T) {
	repo, mock := setupSettings(t)

	mock.ExpectExec(`INSERT INTO dashboard_settings .* DO NOTHING`).
		WithArgs("k", "v").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO dashboard_settings .* DO NOTHING`).
		WithArgs("k", "v2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	created, err := repo.PutIfAbsent(context.Background(), "k", "v")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.PutIfAbsent(context.Background(), "k", "v2")
	require.NoError(t, err)
	assert.False(t, created)
}

func TestSettings_Put(t *testing.T) {
	repo, mock := setupSettings(t)
	mock.ExpectExec(`ON CONFLICT \(key\) DO UPDATE`).
		WithArgs("profile_image_url", "https://x/p.png").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Put(context.Background(), "profile_image_url", "https://x/p.png"))
	require.NoError(t, mock.ExpectationsWereMet())
}

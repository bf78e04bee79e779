package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portfolio-dev/portfolio/internal/catalog/domain"
)

func setupDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

var projectCols = []string{
	"id", "title", "description", "image_url", "skills", "github_url",
	"live_url", "category", "sorting", "created_at", "updated_at",
}

func TestProjectRepository_Create(t *testing.T) {
	db, mock := setupDB(t)
	repo := NewProjectRepository(db)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO projects`).
		WithArgs(
			sqlmock.AnyArg(), // id (UUID)
			"Portfolio",
			"My site",
			"https://img/p.png",
			`["go","htmx"]`,
			"https://github.com/me/site",
			"",
			"Web",
			999,
		).
		WillReturnRows(sqlmock.NewRows(projectCols).AddRow(
			"p-1", "Portfolio", "My site", "https://img/p.png", []byte(`["go","htmx"]`),
			"https://github.com/me/site", "", "Web", 999, now, now,
		))

	got, err := repo.Create(context.Background(), domain.Project{
		Title:       "Portfolio",
		Description: "My site",
		ImageURL:    "https://img/p.png",
		Skills:      domain.StringList{"go", "htmx"},
		GithubURL:   "https://github.com/me/site",
		Category:    "Web",
		Sorting:     domain.DefaultProjectSorting,
	})
	require.NoError(t, err)
	assert.Equal(t, "p-1", got.ID)
	assert.Equal(t, domain.StringList{"go", "htmx"}, got.Skills)
	assert.Equal(t, domain.Sorting(999), got.Sorting)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_List(t *testing.T) {
	db, mock := setupDB(t)
	repo := NewProjectRepository(db)
	now := time.Now()

	mock.ExpectQuery(`SELECT id, title, .* FROM projects ORDER BY sorting ASC, created_at ASC`).
		WillReturnRows(sqlmock.NewRows(projectCols).
			AddRow("p-1", "A", "", "", "[]", "", "", "Web", 1, now, now).
			AddRow("p-2", "B", "", "", nil, "", "", "", 2, now, now))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, domain.StringList{}, got[1].Skills)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepository_CreateConflict(t *testing.T) {
	db, mock := setupDB(t)
	repo := NewCategoryRepository(db)

	mock.ExpectQuery(`INSERT INTO categories`).
		WithArgs(sqlmock.AnyArg(), "Web", 3).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), domain.Category{Name: "Web", Sorting: 3})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestSkillRepository_UpdateSortingOnly(t *testing.T) {
	db, mock := setupDB(t)
	repo := NewSkillRepository(db)
	now := time.Now()

	mock.ExpectQuery(`UPDATE skill_groups SET sorting = \$1, updated_at = now\(\) WHERE id = \$2`).
		WithArgs(2, "s-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "category", "skills", "icon", "sorting", "created_at", "updated_at"}).
			AddRow("s-1", "Backend", `["Go"]`, "server", 2, now, now))

	got, err := repo.Update(context.Background(), "s-1", map[string]any{"sorting": 2})
	require.NoError(t, err)
	assert.Equal(t, 2, got.SortKey())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSkillRepository_DeleteMissing(t *testing.T) {
	db, mock := setupDB(t)
	repo := NewSkillRepository(db)

	mock.ExpectExec(`DELETE FROM skill_groups WHERE id = \$1`).
		WithArgs("nope").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), "nope"), domain.ErrNotFound)
}

package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/portfolio-dev/portfolio/internal/catalog/domain"
	"github.com/portfolio-dev/portfolio/internal/storage/postgres"
)

const displayOrder = "sorting ASC, created_at ASC"

// ProjectRepository provides persistence operations for projects.
type ProjectRepository struct {
	postgres.Table[domain.Project]
}

func NewProjectRepository(db *sqlx.DB) *ProjectRepository {
	return &ProjectRepository{postgres.Table[domain.Project]{
		DB:   db,
		Name: "projects",
		Columns: []string{
			"id", "title", "description", "image_url", "skills", "github_url",
			"live_url", "category", "sorting", "created_at", "updated_at",
		},
		Writable: []string{
			"title", "description", "image_url", "skills", "github_url",
			"live_url", "category", "sorting",
		},
		OrderBy:  displayOrder,
		NotFound: domain.ErrNotFound,
	}}
}

// Create inserts p with a fresh id.
func (r *ProjectRepository) Create(ctx context.Context, p domain.Project) (*domain.Project, error) {
	const q = `
INSERT INTO projects (id, title, description, image_url, skills, github_url, live_url, category, sorting)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id, title, description, image_url, skills, github_url, live_url, category, sorting, created_at, updated_at;
`
	var out domain.Project
	err := r.DB.QueryRowxContext(ctx, q,
		uuid.New().String(), p.Title, p.Description, p.ImageURL, p.Skills,
		p.GithubURL, p.LiveURL, p.Category, p.Sorting,
	).StructScan(&out)
	if err != nil {
		return nil, insertErr("project", err)
	}
	return &out, nil
}

// CategoryRepository provides persistence operations for categories.
type CategoryRepository struct {
	postgres.Table[domain.Category]
}

func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{postgres.Table[domain.Category]{
		DB:       db,
		Name:     "categories",
		Columns:  []string{"id", "name", "sorting", "created_at", "updated_at"},
		Writable: []string{"name", "sorting"},
		OrderBy:  displayOrder,
		NotFound: domain.ErrNotFound,
	}}
}

func (r *CategoryRepository) Create(ctx context.Context, c domain.Category) (*domain.Category, error) {
	const q = `
INSERT INTO categories (id, name, sorting)
VALUES ($1, $2, $3)
RETURNING id, name, sorting, created_at, updated_at;
`
	var out domain.Category
	err := r.DB.QueryRowxContext(ctx, q, uuid.New().String(), c.Name, c.Sorting).StructScan(&out)
	if err != nil {
		return nil, insertErr("category", err)
	}
	return &out, nil
}

// SkillRepository provides persistence operations for skill groups.
type SkillRepository struct {
	postgres.Table[domain.SkillGroup]
}

func NewSkillRepository(db *sqlx.DB) *SkillRepository {
	return &SkillRepository{postgres.Table[domain.SkillGroup]{
		DB:       db,
		Name:     "skill_groups",
		Columns:  []string{"id", "category", "skills", "icon", "sorting", "created_at", "updated_at"},
		Writable: []string{"category", "skills", "icon", "sorting"},
		OrderBy:  displayOrder,
		NotFound: domain.ErrNotFound,
	}}
}

func (r *SkillRepository) Create(ctx context.Context, s domain.SkillGroup) (*domain.SkillGroup, error) {
	const q = `
INSERT INTO skill_groups (id, category, skills, icon, sorting)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, category, skills, icon, sorting, created_at, updated_at;
`
	var out domain.SkillGroup
	err := r.DB.QueryRowxContext(ctx, q, uuid.New().String(), s.Category, s.Skills, s.Icon, s.Sorting).
		StructScan(&out)
	if err != nil {
		return nil, insertErr("skill group", err)
	}
	return &out, nil
}

func insertErr(kind string, err error) error {
	if postgres.IsUniqueViolation(err) {
		return fmt.Errorf("create %s: %w", kind, domain.ErrConflict)
	}
	return fmt.Errorf("create %s: %w", kind, err)
}

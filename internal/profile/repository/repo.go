package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/portfolio-dev/portfolio/internal/profile/domain"
	"github.com/portfolio-dev/portfolio/internal/storage/postgres"
)

// ContactsRepository stores the contact-info record.
type ContactsRepository struct {
	postgres.Table[domain.Contacts]
}

func NewContactsRepository(db *sqlx.DB) *ContactsRepository {
	return &ContactsRepository{postgres.Table[domain.Contacts]{
		DB:       db,
		Name:     "contacts",
		Columns:  []string{"id", "email", "phone", "location", "github", "linkedin", "updated_at"},
		Writable: []string{"email", "phone", "location", "github", "linkedin"},
		OrderBy:  "updated_at DESC",
		NotFound: domain.ErrNotFound,
	}}
}

// Current returns the most recently updated contact record.
func (r *ContactsRepository) Current(ctx context.Context) (*domain.Contacts, error) {
	const q = `
SELECT id, email, phone, location, github, linkedin, updated_at
FROM contacts
ORDER BY updated_at DESC
LIMIT 1;
`
	var c domain.Contacts
	if err := r.DB.GetContext(ctx, &c, q); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("current contacts: %w", err)
	}
	return &c, nil
}

func (r *ContactsRepository) Create(ctx context.Context, c domain.Contacts) (*domain.Contacts, error) {
	const q = `
INSERT INTO contacts (id, email, phone, location, github, linkedin)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, email, phone, location, github, linkedin, updated_at;
`
	var out domain.Contacts
	err := r.DB.QueryRowxContext(ctx, q,
		uuid.New().String(), c.Email, c.Phone, c.Location, c.Github, c.Linkedin,
	).StructScan(&out)
	if err != nil {
		return nil, fmt.Errorf("create contacts: %w", err)
	}
	return &out, nil
}

// CVRepository stores uploaded CV metadata.
type CVRepository struct {
	postgres.Table[domain.CVFile]
}

func NewCVRepository(db *sqlx.DB) *CVRepository {
	return &CVRepository{postgres.Table[domain.CVFile]{
		DB:       db,
		Name:     "cv_files",
		Columns:  []string{"id", "file_name", "object_key", "cv_url", "is_active", "uploaded_at"},
		Writable: []string{"file_name"},
		OrderBy:  "uploaded_at DESC",
		NotFound: domain.ErrNotFound,
	}}
}

func (r *CVRepository) Create(ctx context.Context, f domain.CVFile) (*domain.CVFile, error) {
	const q = `
INSERT INTO cv_files (id, file_name, object_key, cv_url, is_active)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, file_name, object_key, cv_url, is_active, uploaded_at;
`
	var out domain.CVFile
	err := r.DB.QueryRowxContext(ctx, q, uuid.New().String(), f.FileName, f.ObjectKey, f.URL, f.IsActive).
		StructScan(&out)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return nil, fmt.Errorf("create cv: %w", domain.ErrConflict)
		}
		return nil, fmt.Errorf("create cv: %w", err)
	}
	return &out, nil
}

// Active returns the CV shown on the public site.
func (r *CVRepository) Active(ctx context.Context) (*domain.CVFile, error) {
	const q = `
SELECT id, file_name, object_key, cv_url, is_active, uploaded_at
FROM cv_files
WHERE is_active
LIMIT 1;
`
	var f domain.CVFile
	if err := r.DB.GetContext(ctx, &f, q); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("active cv: %w", err)
	}
	return &f, nil
}

// SetActive makes id the only active CV in one transaction.
func (r *CVRepository) SetActive(ctx context.Context, id string) (*domain.CVFile, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE cv_files SET is_active = false WHERE is_active AND id <> $1`, id); err != nil {
		return nil, fmt.Errorf("deactivate cvs: %w", err)
	}

	const q = `
UPDATE cv_files SET is_active = true
WHERE id = $1
RETURNING id, file_name, object_key, cv_url, is_active, uploaded_at;
`
	var f domain.CVFile
	if err := tx.QueryRowxContext(ctx, q, id).StructScan(&f); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("activate cv %s: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &f, nil
}

// MessageRepository stores contact-form messages.
type MessageRepository struct {
	postgres.Table[domain.Message]
}

func NewMessageRepository(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{postgres.Table[domain.Message]{
		DB:       db,
		Name:     "contact_messages",
		Columns:  []string{"id", "name", "email", "message", "created_at"},
		OrderBy:  "created_at DESC",
		NotFound: domain.ErrNotFound,
	}}
}

func (r *MessageRepository) Create(ctx context.Context, m domain.Message) (*domain.Message, error) {
	const q = `
INSERT INTO contact_messages (id, name, email, message)
VALUES ($1, $2, $3, $4)
RETURNING id, name, email, message, created_at;
`
	var out domain.Message
	if err := r.DB.QueryRowxContext(ctx, q, uuid.New().String(), m.Name, m.Email, m.Message).StructScan(&out); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	return &out, nil
}

package domain

import (
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("resource conflict")
)

// Contacts is the single contact-info record shown on the public site.
type Contacts struct {
	ID        string    `json:"_id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Phone     string    `json:"phone" db:"phone"`
	Location  string    `json:"location" db:"location"`
	Github    string    `json:"github" db:"github"`
	Linkedin  string    `json:"linkedin" db:"linkedin"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// CVFile is an uploaded résumé. At most one is active at a time.
type CVFile struct {
	ID         string    `json:"_id" db:"id"`
	FileName   string    `json:"fileName" db:"file_name"`
	ObjectKey  string    `json:"-" db:"object_key"`
	URL        string    `json:"cvURL" db:"cv_url"`
	IsActive   bool      `json:"isActive" db:"is_active"`
	UploadedAt time.Time `json:"uploadedAt" db:"uploaded_at"`
}

// Message is a note left through the public contact form.
type Message struct {
	ID        string    `json:"_id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Message   string    `json:"message" db:"message"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// ProfileImage is the public URL of the profile picture.
type ProfileImage struct {
	URL string `json:"imageURL"`
}

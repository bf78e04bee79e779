package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Project is a portfolio entry. Category is a free-text label that refers to
// a Category by name; deleting the category leaves the label in place.
type Project struct {
	ID          string     `json:"_id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	ImageURL    string     `json:"imageURL" db:"image_url"`
	Skills      StringList `json:"skills" db:"skills"`
	GithubURL   string     `json:"githubURL,omitempty" db:"github_url"`
	LiveURL     string     `json:"liveURL,omitempty" db:"live_url"`
	Category    string     `json:"category,omitempty" db:"category"`
	Sorting     Sorting    `json:"sorting" db:"sorting"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
}

func (p Project) RecordID() string      { return p.ID }
func (p Project) SortKey() int          { return int(p.Sorting) }
func (p Project) CategoryLabel() string { return p.Category }
func (p Project) WithSortKey(n int) Project {
	p.Sorting = Sorting(n)
	return p
}

// Category is a project category ("categs" on the wire).
type Category struct {
	ID        string    `json:"_id" db:"id"`
	Name      string    `json:"category" db:"name"`
	Sorting   Sorting   `json:"sorting" db:"sorting"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

func (c Category) RecordID() string      { return c.ID }
func (c Category) SortKey() int          { return int(c.Sorting) }
func (c Category) CategoryLabel() string { return c.Name }
func (c Category) WithSortKey(n int) Category {
	c.Sorting = Sorting(n)
	return c
}

// SkillGroup is a labelled list of skills rendered with an icon.
type SkillGroup struct {
	ID        string     `json:"_id" db:"id"`
	Category  string     `json:"category" db:"category"`
	Skills    StringList `json:"skills" db:"skills"`
	Icon      string     `json:"icon" db:"icon"`
	Sorting   Sorting    `json:"sorting" db:"sorting"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
}

func (s SkillGroup) RecordID() string      { return s.ID }
func (s SkillGroup) SortKey() int          { return int(s.Sorting) }
func (s SkillGroup) CategoryLabel() string { return s.Category }
func (s SkillGroup) WithSortKey(n int) SkillGroup {
	s.Sorting = Sorting(n)
	return s
}

// StringList is stored as a JSONB array.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = StringList{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("string list: unsupported type %T", src)
	}

	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("string list: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	*l = out
	return nil
}

// MarshalJSON emits [] instead of null for empty lists.
func (l StringList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Table implements the row operations shared by the ordered resources.
// Rows of T are scanned with sqlx struct tags.
type Table[T any] struct {
	DB       *sqlx.DB
	Name     string
	Columns  []string
	Writable []string
	// OrderBy is appended to List queries.
	OrderBy string
	// NotFound is returned when a row does not exist.
	NotFound error
}

func (t Table[T]) selectList() string {
	return strings.Join(t.Columns, ", ")
}

func (t Table[T]) List(ctx context.Context) ([]T, error) {
	q := "SELECT " + t.selectList() + " FROM " + t.Name
	if t.OrderBy != "" {
		q += " ORDER BY " + t.OrderBy
	}

	out := make([]T, 0, 16)
	if err := t.DB.SelectContext(ctx, &out, q); err != nil {
		return nil, fmt.Errorf("list %s: %w", t.Name, err)
	}
	return out, nil
}

func (t Table[T]) Get(ctx context.Context, id string) (*T, error) {
	q := "SELECT " + t.selectList() + " FROM " + t.Name + " WHERE id = $1"

	var row T
	if err := t.DB.GetContext(ctx, &row, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, t.NotFound
		}
		return nil, fmt.Errorf("get %s %s: %w", t.Name, id, err)
	}
	return &row, nil
}

// Update sets the given columns and returns the updated row. Keys outside
// Writable are rejected.
func (t Table[T]) Update(ctx context.Context, id string, fields map[string]any) (*T, error) {
	if len(fields) == 0 {
		return t.Get(ctx, id)
	}

	allowed := make(map[string]bool, len(t.Writable))
	for _, c := range t.Writable {
		allowed[c] = true
	}

	cols := make([]string, 0, len(fields))
	for c := range fields {
		if !allowed[c] {
			return nil, fmt.Errorf("update %s: column %q is not writable", t.Name, c)
		}
		cols = append(cols, c)
	}
	sort.Strings(cols)

	sets := make([]string, 0, len(cols)+1)
	args := make([]any, 0, len(cols)+1)
	for i, c := range cols {
		sets = append(sets, fmt.Sprintf("%s = $%d", c, i+1))
		args = append(args, fields[c])
	}
	if t.hasColumn("updated_at") {
		sets = append(sets, "updated_at = now()")
	}
	args = append(args, id)

	q := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d RETURNING %s",
		t.Name, strings.Join(sets, ", "), len(args), t.selectList())

	var row T
	if err := t.DB.QueryRowxContext(ctx, q, args...).StructScan(&row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, t.NotFound
		}
		return nil, fmt.Errorf("update %s %s: %w", t.Name, id, err)
	}
	return &row, nil
}

func (t Table[T]) Delete(ctx context.Context, id string) error {
	res, err := t.DB.ExecContext(ctx, "DELETE FROM "+t.Name+" WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete %s %s: %w", t.Name, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s %s: %w", t.Name, id, err)
	}
	if n == 0 {
		return t.NotFound
	}
	return nil
}

// Compact renumbers sorting densely from 1 in current display order and
// returns how many rows changed.
func (t Table[T]) Compact(ctx context.Context) (int64, error) {
	q := fmt.Sprintf(`
UPDATE %[1]s AS t
SET sorting = r.rn
FROM (
    SELECT id, row_number() OVER (ORDER BY sorting ASC, created_at ASC) AS rn
    FROM %[1]s
) AS r
WHERE t.id = r.id AND t.sorting <> r.rn`, t.Name)

	res, err := t.DB.ExecContext(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("compact %s: %w", t.Name, err)
	}
	return res.RowsAffected()
}

func (t Table[T]) hasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

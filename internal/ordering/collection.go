// Package ordering keeps a locally cached, ordered view over a remote CRUD
// resource whose records carry an integer sorting key.
package ordering

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// All is the category filter value that disables filtering.
const All = "All"

var (
	ErrClosed        = errors.New("collection closed")
	ErrUnknownRecord = errors.New("record not in collection")
)

// Record is implemented by every value a Collection can hold.
type Record[T any] interface {
	RecordID() string
	SortKey() int
	CategoryLabel() string
	WithSortKey(n int) T
}

// Patch carries only the fields that changed.
type Patch map[string]any

// Resource is the remote side of a Collection.
type Resource[T any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, draft T) (T, error)
	Update(ctx context.Context, id string, patch Patch) (T, error)
	Delete(ctx context.Context, id string) error
}

type Direction int

const (
	Up Direction = iota
	Down
)

func (d Direction) String() string {
	if d == Up {
		return "up"
	}
	return "down"
}

type Collection[T Record[T]] struct {
	name     string
	res      Resource[T]
	notifier Notifier
	log      *zap.Logger

	mu       sync.Mutex
	items    []T
	inflight int
	issued   uint64
	applied  uint64
	closed   bool
}

type options struct {
	notifier Notifier
	log      *zap.Logger
}

type Option func(*options)

func WithNotifier(n Notifier) Option {
	return func(o *options) { o.notifier = n }
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.log = l }
}

// New returns an empty collection. name is the human label used in
// notifications ("skills", "categories", ...).
func New[T Record[T]](name string, res Resource[T], opts ...Option) *Collection[T] {
	o := options{notifier: Discard, log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Collection[T]{
		name:     name,
		res:      res,
		notifier: o.notifier,
		log:      o.log.With(zap.String("resource", name)),
	}
}

// Load fetches the full record set and replaces the cache with it, sorted
// ascending by sort key. Records sharing a key keep their fetch order.
// On failure the previous cache stays in place.
func (c *Collection[T]) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.inflight++
	c.issued++
	seq := c.issued
	c.mu.Unlock()

	items, err := c.res.List(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight--

	if c.closed {
		return ErrClosed
	}
	if err != nil {
		c.failLocked("Failed to load "+c.name+".", "load", err)
		return fmt.Errorf("load %s: %w", c.name, err)
	}
	// a newer load already landed
	if seq < c.applied {
		return nil
	}

	sorted := make([]T, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SortKey() < sorted[j].SortKey()
	})
	c.items = sorted
	c.applied = seq
	return nil
}

// Add creates draft with sorting set to the current cache size plus one,
// then reloads.
func (c *Collection[T]) Add(ctx context.Context, draft T) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	draft = draft.WithSortKey(len(c.items) + 1)
	c.mu.Unlock()

	if _, err := c.res.Create(ctx, draft); err != nil {
		c.fail("Failed to add "+c.singular()+".", "add", err)
		return fmt.Errorf("add %s: %w", c.singular(), err)
	}
	c.notifier.Notify(Success(capitalize(c.singular()) + " added successfully."))
	return c.Load(ctx)
}

// Edit sends patch for id, then reloads.
func (c *Collection[T]) Edit(ctx context.Context, id string, patch Patch) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	if len(patch) == 0 {
		return nil
	}

	if _, err := c.res.Update(ctx, id, patch); err != nil {
		c.fail("Failed to update "+c.singular()+".", "edit", err, zap.String("id", id))
		return fmt.Errorf("edit %s %s: %w", c.singular(), id, err)
	}
	c.notifier.Notify(Success(capitalize(c.singular()) + " updated successfully."))
	return c.Load(ctx)
}

// Remove drops id from the cache immediately, deletes it remotely and
// reloads. A failed delete is reported but not rolled back locally.
func (c *Collection[T]) Remove(ctx context.Context, id string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	kept := c.items[:0:0]
	for _, it := range c.items {
		if it.RecordID() != id {
			kept = append(kept, it)
		}
	}
	c.items = kept
	c.mu.Unlock()

	if err := c.res.Delete(ctx, id); err != nil {
		c.fail("Failed to delete "+c.singular()+".", "remove", err, zap.String("id", id))
		return fmt.Errorf("remove %s %s: %w", c.singular(), id, err)
	}
	c.notifier.Notify(Success(capitalize(c.singular()) + " deleted successfully."))
	return c.Load(ctx)
}

// Move swaps id with its neighbour in the full sorted list and renumbers the
// list densely from 1. Only records whose key changed are updated, the moved
// record first. Moving up from sorting 1 or from the head, or down from the
// tail, is a no-op.
func (c *Collection[T]) Move(ctx context.Context, id string, dir Direction) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	current := make([]T, len(c.items))
	copy(current, c.items)
	c.mu.Unlock()

	idx := -1
	for i, it := range current {
		if it.RecordID() == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("move %s: %w", id, ErrUnknownRecord)
	}

	updates := Resequence(current, idx, dir)
	if len(updates) == 0 {
		return nil
	}

	for _, u := range updates {
		if _, err := c.res.Update(ctx, u.ID, Patch{"sorting": u.Sorting}); err != nil {
			c.fail("Failed to reorder "+c.name+".", "move", err,
				zap.String("id", u.ID), zap.Stringer("direction", dir))
			return fmt.Errorf("move %s %s: %w", c.singular(), id, err)
		}
	}
	return c.Load(ctx)
}

// KeyUpdate is one sorting change produced by Resequence.
type KeyUpdate struct {
	ID      string
	Sorting int
}

// Resequence computes the key updates for moving items[idx] one step in dir.
// items must already be sorted. It returns nil when the move is blocked.
func Resequence[T Record[T]](items []T, idx int, dir Direction) []KeyUpdate {
	if idx < 0 || idx >= len(items) {
		return nil
	}

	target := idx + 1
	if dir == Up {
		if idx == 0 || items[idx].SortKey() <= 1 {
			return nil
		}
		target = idx - 1
	} else if idx == len(items)-1 {
		return nil
	}

	order := make([]T, len(items))
	copy(order, items)
	order[idx], order[target] = order[target], order[idx]

	movedID := items[idx].RecordID()
	var moved *KeyUpdate
	var rest []KeyUpdate
	for i, it := range order {
		want := i + 1
		if it.SortKey() == want {
			continue
		}
		u := KeyUpdate{ID: it.RecordID(), Sorting: want}
		if it.RecordID() == movedID {
			moved = &u
			continue
		}
		rest = append(rest, u)
	}

	out := make([]KeyUpdate, 0, len(rest)+1)
	if moved != nil {
		out = append(out, *moved)
	}
	return append(out, rest...)
}

// CanMove reports whether Move would issue any request for id.
func (c *Collection[T]) CanMove(id string, dir Direction) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, it := range c.items {
		if it.RecordID() == id {
			return len(Resequence(c.items, i, dir)) > 0
		}
	}
	return false
}

// FilterByCategory returns the cached records whose category label equals
// label, in cache order. All returns the whole cache.
func (c *Collection[T]) FilterByCategory(label string) []T {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]T, 0, len(c.items))
	for _, it := range c.items {
		if label == All || it.CategoryLabel() == label {
			out = append(out, it)
		}
	}
	return out
}

// Items returns a copy of the ordered cache.
func (c *Collection[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Collection[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Loading reports whether a Load is in flight.
func (c *Collection[T]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight > 0
}

// Close detaches the collection from its owner. Results arriving afterwards
// are discarded and further calls return ErrClosed.
func (c *Collection[T]) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func (c *Collection[T]) checkOpen() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	return nil
}

func (c *Collection[T]) fail(desc, op string, err error, fields ...zap.Field) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failLocked(desc, op, err, fields...)
}

func (c *Collection[T]) failLocked(desc, op string, err error, fields ...zap.Field) {
	if c.closed {
		return
	}
	c.log.Error("collection operation failed",
		append(fields, zap.String("op", op), zap.Error(err))...)
	c.notifier.Notify(Failure(desc))
}

func (c *Collection[T]) singular() string {
	switch c.name {
	case "categories":
		return "category"
	case "skills":
		return "skill"
	}
	if n := len(c.name); n > 1 && c.name[n-1] == 's' {
		return c.name[:n-1]
	}
	return c.name
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}

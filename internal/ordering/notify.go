package ordering

import "sync"

type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Notification is a transient, non-blocking message for the operator.
type Notification struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Variant     Variant `json:"variant"`
}

func Success(desc string) Notification {
	return Notification{Title: "Success", Description: desc, Variant: VariantDefault}
}

func Failure(desc string) Notification {
	return Notification{Title: "Error", Description: desc, Variant: VariantDestructive}
}

type Notifier interface {
	Notify(n Notification)
}

type NotifierFunc func(n Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// Discard drops every notification.
var Discard Notifier = NotifierFunc(func(Notification) {})

// Inbox buffers notifications until they are drained, e.g. into a flash
// message on the next page render.
type Inbox struct {
	mu    sync.Mutex
	queue []Notification
}

func (b *Inbox) Notify(n Notification) {
	b.mu.Lock()
	b.queue = append(b.queue, n)
	b.mu.Unlock()
}

// Drain returns and clears the buffered notifications.
func (b *Inbox) Drain() []Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.queue
	b.queue = nil
	return out
}

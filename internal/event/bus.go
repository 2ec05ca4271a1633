// Package event carries the core-to-presentation signals: collection
// change notifications, validation failures, and transient toasts. The
// presentation layer subscribes; the core only emits.
package event

import (
	"sync"

	"github.com/google/uuid"
)

// Collection identifies which persisted collection a change signal refers
// to.
type Collection string

const (
	Records  Collection = "records"
	Services Collection = "services"
	Clients  Collection = "clients"
)

// NotifySaved is the default toast text.
const NotifySaved = "Saved!"

type (
	CollectionChangedFunc func(kind Collection)
	ValidationFailedFunc  func(message string)
	NotifyFunc            func(message string)
)

// Bus dispatches signals synchronously, in subscription order. There is
// exactly one mutator context at a time, so no dispatch can overlap a
// mutation.
type Bus struct {
	mu       sync.Mutex
	changed  map[string]CollectionChangedFunc
	failed   map[string]ValidationFailedFunc
	notified map[string]NotifyFunc
}

func NewBus() *Bus {
	return &Bus{
		changed:  make(map[string]CollectionChangedFunc),
		failed:   make(map[string]ValidationFailedFunc),
		notified: make(map[string]NotifyFunc),
	}
}

// SubscribeCollectionChanged registers fn and returns an opaque token for
// Unsubscribe.
func (b *Bus) SubscribeCollectionChanged(fn CollectionChangedFunc) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	token := uuid.NewString()
	b.changed[token] = fn
	return token
}

func (b *Bus) SubscribeValidationFailed(fn ValidationFailedFunc) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	token := uuid.NewString()
	b.failed[token] = fn
	return token
}

func (b *Bus) SubscribeNotify(fn NotifyFunc) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	token := uuid.NewString()
	b.notified[token] = fn
	return token
}

// Unsubscribe drops the subscription with the given token, whichever
// signal it belongs to.
func (b *Bus) Unsubscribe(token string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.changed, token)
	delete(b.failed, token)
	delete(b.notified, token)
}

// CollectionChanged signals that a collection was mutated and persisted.
func (b *Bus) CollectionChanged(kind Collection) {
	for _, fn := range b.snapshotChanged() {
		fn(kind)
	}
}

// ValidationFailed signals a rejected mutation.
func (b *Bus) ValidationFailed(message string) {
	for _, fn := range b.snapshotFailed() {
		fn(message)
	}
}

// Notify signals a successful save/update/delete toast.
func (b *Bus) Notify(message string) {
	for _, fn := range b.snapshotNotified() {
		fn(message)
	}
}

func (b *Bus) snapshotChanged() []CollectionChangedFunc {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]CollectionChangedFunc, 0, len(b.changed))
	for _, fn := range b.changed {
		out = append(out, fn)
	}
	return out
}

func (b *Bus) snapshotFailed() []ValidationFailedFunc {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]ValidationFailedFunc, 0, len(b.failed))
	for _, fn := range b.failed {
		out = append(out, fn)
	}
	return out
}

func (b *Bus) snapshotNotified() []NotifyFunc {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]NotifyFunc, 0, len(b.notified))
	for _, fn := range b.notified {
		out = append(out, fn)
	}
	return out
}

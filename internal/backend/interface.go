package backend

import (
	"context"

	"agenda/internal/booking"
	"agenda/internal/event"
	"agenda/internal/repository"
	"agenda/internal/stats"
)

// App bundles the assembled core: the repository owning the collections,
// the aggregation engine, the booking controller, and the signal bus the
// presentation layer subscribes to.
type App struct {
	Repo    *repository.Repository
	Stats   *stats.Engine
	Booking *booking.Controller
	Bus     *event.Bus
}

// CleanupFunc releases backend resources.
type CleanupFunc func() error

// Result contains the assembled app and its cleanup function.
type Result struct {
	App     *App
	Cleanup CleanupFunc
}

// Factory assembles an App on top of a concrete store.
type Factory interface {
	Create(ctx context.Context, config Config) (*Result, error)
}

// Config holds backend selection and its parameters.
type Config struct {
	Type Type

	// SQLite specific
	SQLiteDBPath string
}

// Type selects the store implementation.
type Type string

const (
	SQLiteBackend Type = "sqlite"
	MemoryBackend Type = "memory"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is known.
func (t Type) IsValid() bool {
	switch t {
	case SQLiteBackend, MemoryBackend:
		return true
	}
	return false
}

package storage

import (
	"context"

	"agenda/internal/core"
)

// Document names the store understands. Each one holds a full collection
// serialized as a JSON array; there is no schema versioning.
const (
	DocRecords  = "records"
	DocServices = "services"
	DocClients  = "clients"
)

// Store is the durability sink behind the repository: three named
// documents, read once at startup and rewritten whole on every mutation.
// A Put call returns only after the store has acknowledged the write.
type Store interface {
	// Load reads all three collections. A document that was never
	// written loads as the empty collection.
	Load(ctx context.Context) (core.Collections, error)

	PutRecords(ctx context.Context, records []core.Record) error
	PutServices(ctx context.Context, services []core.Service) error
	PutClients(ctx context.Context, clients []core.Client) error

	Close() error
}

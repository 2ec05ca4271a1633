// Package repository owns the three in-memory collections and keeps them
// in lockstep with the durable store. Mutations update memory first and
// then persist the affected collection before returning, so reads always
// observe the newest state even while a write is in flight.
package repository

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"agenda/internal/core"
	"agenda/internal/storage"
)

type Repository struct {
	mu    sync.Mutex
	store storage.Store
	ids   *core.IDGenerator

	records  []core.Record
	services []core.Service
	clients  []core.Client
}

// Open loads the persisted collections and returns a repository bound to
// the store.
func Open(ctx context.Context, store storage.Store) (*Repository, error) {
	collections, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load collections: %w", err)
	}

	return &Repository{
		store:    store,
		ids:      core.NewIDGenerator(),
		records:  collections.Records,
		services: collections.Services,
		clients:  collections.Clients,
	}, nil
}

// Close releases the underlying store.
func (r *Repository) Close() error {
	return r.store.Close()
}

// ServiceByID looks up a service. The second return is false when the id
// is unknown; callers that render use DisplayService instead.
func (r *Repository) ServiceByID(id string) (core.Service, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.findService(id)
}

// ClientByID looks up a client.
func (r *Repository) ClientByID(id string) (core.Client, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.findClient(id)
}

// DisplayService resolves an id for rendering: a miss yields the dash
// sentinel, never an error.
func (r *Repository) DisplayService(id string) core.Service {
	if s, ok := r.ServiceByID(id); ok {
		return s
	}
	return core.MissingService()
}

// DisplayClient is the client-side sentinel adapter.
func (r *Repository) DisplayClient(id string) core.Client {
	if c, ok := r.ClientByID(id); ok {
		return c
	}
	return core.MissingClient()
}

// Services returns a copy of the catalog in display order: usage
// descending, name ascending.
func (r *Repository) Services() []core.Service {
	r.mu.Lock()
	out := append([]core.Service(nil), r.services...)
	r.mu.Unlock()
	core.SortServices(out)
	return out
}

// Clients returns a copy of the roster sorted by last+first name.
func (r *Repository) Clients() []core.Client {
	r.mu.Lock()
	out := append([]core.Client(nil), r.clients...)
	r.mu.Unlock()
	core.SortClients(out)
	return out
}

// Records returns a copy of all records in stored order. Stored order is
// insertion order and is what popularity tie-breaks iterate over.
func (r *Repository) Records() []core.Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]core.Record(nil), r.records...)
}

// RecordsForDate returns the records of one day in stored order.
func (r *Repository) RecordsForDate(date string) []core.Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []core.Record
	for _, rec := range r.records {
		if rec.Date == date {
			out = append(out, rec)
		}
	}
	return out
}

// ServiceCount reports the catalog size.
func (r *Repository) ServiceCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.services)
}

// ClientCount reports the roster size.
func (r *Repository) ClientCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}

// UpsertService creates a service (empty ID) or updates name and price of
// an existing one. UsageCount is never touched here; only bookings move
// it.
func (r *Repository) UpsertService(ctx context.Context, svc core.Service) (core.Service, error) {
	if err := svc.Validate(); err != nil {
		return core.Service{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if svc.ID == "" {
		svc.ID = r.ids.Next()
		svc.UsageCount = 0
		r.services = append(r.services, svc)
	} else {
		i := r.serviceIndex(svc.ID)
		if i < 0 {
			return core.Service{}, fmt.Errorf("%w: unknown service %s", core.ErrValidation, svc.ID)
		}
		r.services[i].Name = svc.Name
		r.services[i].Price = svc.Price
		svc = r.services[i]
	}

	if err := r.store.PutServices(ctx, r.services); err != nil {
		return core.Service{}, fmt.Errorf("persist services: %w", err)
	}
	return svc, nil
}

// UpsertClient creates or updates a client, same contract as
// UpsertService.
func (r *Repository) UpsertClient(ctx context.Context, c core.Client) (core.Client, error) {
	if err := c.Validate(); err != nil {
		return core.Client{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if c.ID == "" {
		c.ID = r.ids.Next()
		r.clients = append(r.clients, c)
	} else {
		i := r.clientIndex(c.ID)
		if i < 0 {
			return core.Client{}, fmt.Errorf("%w: unknown client %s", core.ErrValidation, c.ID)
		}
		r.clients[i].FirstName = c.FirstName
		r.clients[i].LastName = c.LastName
		r.clients[i].Phone = c.Phone
		c = r.clients[i]
	}

	if err := r.store.PutClients(ctx, r.clients); err != nil {
		return core.Client{}, fmt.Errorf("persist clients: %w", err)
	}
	return c, nil
}

// DeleteService removes a service and every record referencing it.
func (r *Repository) DeleteService(ctx context.Context, id string) error {
	return r.DeleteServices(ctx, map[string]struct{}{id: {}})
}

// DeleteServices is the bulk variant. An empty set is rejected with
// ErrNothingSelected.
func (r *Repository) DeleteServices(ctx context.Context, ids map[string]struct{}) error {
	if len(ids) == 0 {
		return core.ErrNothingSelected
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.services[:0]
	for _, s := range r.services {
		if _, hit := ids[s.ID]; !hit {
			kept = append(kept, s)
		}
	}
	r.services = kept

	removed := r.dropRecords(func(rec core.Record) bool {
		_, hit := ids[rec.ServiceID]
		return hit
	})

	slog.InfoContext(ctx, "Services deleted",
		"services", len(ids), "cascaded_records", removed)

	return r.persistServicesAndRecords(ctx)
}

// DeleteClient removes a client and every record referencing them.
func (r *Repository) DeleteClient(ctx context.Context, id string) error {
	return r.DeleteClients(ctx, map[string]struct{}{id: {}})
}

// DeleteClients is the bulk variant, symmetric to DeleteServices.
func (r *Repository) DeleteClients(ctx context.Context, ids map[string]struct{}) error {
	if len(ids) == 0 {
		return core.ErrNothingSelected
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.clients[:0]
	for _, c := range r.clients {
		if _, hit := ids[c.ID]; !hit {
			kept = append(kept, c)
		}
	}
	r.clients = kept

	removed := r.dropRecords(func(rec core.Record) bool {
		_, hit := ids[rec.ClientID]
		return hit
	})

	slog.InfoContext(ctx, "Clients deleted",
		"clients", len(ids), "cascaded_records", removed)

	return r.persistClientsAndRecords(ctx)
}

// AppendRecord validates and stores a new record.
func (r *Repository) AppendRecord(ctx context.Context, rec core.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = append(r.records, rec)
	if err := r.store.PutRecords(ctx, r.records); err != nil {
		return fmt.Errorf("persist records: %w", err)
	}
	return nil
}

// RemoveRecordsByKey deletes every record matching the composite key and
// reports how many were removed. Duplicated keys go together, which is
// the documented collision behavior.
func (r *Repository) RemoveRecordsByKey(ctx context.Context, key core.Key) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := r.dropRecords(func(rec core.Record) bool { return rec.Matches(key) })
	if removed == 0 {
		return 0, nil
	}
	if err := r.store.PutRecords(ctx, r.records); err != nil {
		return removed, fmt.Errorf("persist records: %w", err)
	}
	return removed, nil
}

// ReplaceRecordsByKey removes all records matching key and appends the
// replacement, persisting once.
func (r *Repository) ReplaceRecordsByKey(ctx context.Context, key core.Key, replacement core.Record) (int, error) {
	if err := replacement.Validate(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := r.dropRecords(func(rec core.Record) bool { return rec.Matches(key) })
	r.records = append(r.records, replacement)

	if err := r.store.PutRecords(ctx, r.records); err != nil {
		return removed, fmt.Errorf("persist records: %w", err)
	}
	return removed, nil
}

// IncrementUsage bumps a service's usage counter and persists the
// catalog.
func (r *Repository) IncrementUsage(ctx context.Context, serviceID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.serviceIndex(serviceID)
	if i < 0 {
		return fmt.Errorf("%w: unknown service %s", core.ErrValidation, serviceID)
	}
	r.services[i].UsageCount++

	if err := r.store.PutServices(ctx, r.services); err != nil {
		return fmt.Errorf("persist services: %w", err)
	}
	return nil
}

func (r *Repository) findService(id string) (core.Service, bool) {
	if i := r.serviceIndex(id); i >= 0 {
		return r.services[i], true
	}
	return core.Service{}, false
}

func (r *Repository) findClient(id string) (core.Client, bool) {
	if i := r.clientIndex(id); i >= 0 {
		return r.clients[i], true
	}
	return core.Client{}, false
}

func (r *Repository) serviceIndex(id string) int {
	for i, s := range r.services {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func (r *Repository) clientIndex(id string) int {
	for i, c := range r.clients {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// dropRecords removes records matching the predicate, preserving stored
// order, and returns the number removed. Caller holds the lock.
func (r *Repository) dropRecords(match func(core.Record) bool) int {
	kept := r.records[:0]
	removed := 0
	for _, rec := range r.records {
		if match(rec) {
			removed++
			continue
		}
		kept = append(kept, rec)
	}
	r.records = kept
	return removed
}

func (r *Repository) persistServicesAndRecords(ctx context.Context) error {
	if err := r.store.PutServices(ctx, r.services); err != nil {
		return fmt.Errorf("persist services: %w", err)
	}
	if err := r.store.PutRecords(ctx, r.records); err != nil {
		return fmt.Errorf("persist records: %w", err)
	}
	return nil
}

func (r *Repository) persistClientsAndRecords(ctx context.Context) error {
	if err := r.store.PutClients(ctx, r.clients); err != nil {
		return fmt.Errorf("persist clients: %w", err)
	}
	if err := r.store.PutRecords(ctx, r.records); err != nil {
		return fmt.Errorf("persist records: %w", err)
	}
	return nil
}

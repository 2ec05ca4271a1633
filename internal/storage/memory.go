package storage

import (
	"context"
	"sync"

	"agenda/internal/core"
)

// MemoryStore keeps the three documents in process memory. It backs tests
// and ephemeral runs; the zero-value collections load as empty.
type MemoryStore struct {
	mu       sync.Mutex
	records  []core.Record
	services []core.Service
	clients  []core.Client
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Seed pre-populates the store, used to stand in for previously persisted
// state.
func (s *MemoryStore) Seed(c core.Collections) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append([]core.Record(nil), c.Records...)
	s.services = append([]core.Service(nil), c.Services...)
	s.clients = append([]core.Client(nil), c.Clients...)
}

func (s *MemoryStore) Load(_ context.Context) (core.Collections, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.Collections{
		Records:  append([]core.Record(nil), s.records...),
		Services: append([]core.Service(nil), s.services...),
		Clients:  append([]core.Client(nil), s.clients...),
	}, nil
}

func (s *MemoryStore) PutRecords(_ context.Context, records []core.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append([]core.Record(nil), records...)
	return nil
}

func (s *MemoryStore) PutServices(_ context.Context, services []core.Service) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.services = append([]core.Service(nil), services...)
	return nil
}

func (s *MemoryStore) PutClients(_ context.Context, clients []core.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients = append([]core.Client(nil), clients...)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

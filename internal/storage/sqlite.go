package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite"

	"agenda/internal/core"
)

// SQLiteStore persists the three documents as JSON bodies in a single
// `documents` table.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load reads the three documents concurrently. Missing documents come back
// as empty collections rather than errors.
func (s *SQLiteStore) Load(ctx context.Context) (core.Collections, error) {
	var c core.Collections

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.getDocument(gctx, DocRecords, &c.Records) })
	g.Go(func() error { return s.getDocument(gctx, DocServices, &c.Services) })
	g.Go(func() error { return s.getDocument(gctx, DocClients, &c.Clients) })

	if err := g.Wait(); err != nil {
		return core.Collections{}, err
	}

	slog.InfoContext(ctx, "Collections loaded from SQLite",
		"records", len(c.Records),
		"services", len(c.Services),
		"clients", len(c.Clients))

	return c, nil
}

func (s *SQLiteStore) PutRecords(ctx context.Context, records []core.Record) error {
	if records == nil {
		records = []core.Record{}
	}
	return s.putDocument(ctx, DocRecords, records)
}

func (s *SQLiteStore) PutServices(ctx context.Context, services []core.Service) error {
	if services == nil {
		services = []core.Service{}
	}
	return s.putDocument(ctx, DocServices, services)
}

func (s *SQLiteStore) PutClients(ctx context.Context, clients []core.Client) error {
	if clients == nil {
		clients = []core.Client{}
	}
	return s.putDocument(ctx, DocClients, clients)
}

func (s *SQLiteStore) getDocument(ctx context.Context, name string, out any) error {
	var body []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE name = ?`, name).Scan(&body)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read document %s: %w", name, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode document %s: %w", name, err)
	}
	return nil
}

func (s *SQLiteStore) putDocument(ctx context.Context, name string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode document %s: %w", name, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (name, body, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		name, body, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("write document %s: %w", name, err)
	}
	return nil
}

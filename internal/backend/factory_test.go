package backend

import (
	"context"
	"path/filepath"
	"testing"

	"agenda/internal/core"
)

func TestFactoryMemoryBackend(t *testing.T) {
	ctx := context.Background()
	factory := NewFactory(nil)

	result, err := factory.Create(ctx, Config{Type: MemoryBackend})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer result.Cleanup()

	app := result.App
	if app.Repo == nil || app.Stats == nil || app.Booking == nil || app.Bus == nil {
		t.Fatalf("incomplete app: %+v", app)
	}
}

func TestFactoryInvalidType(t *testing.T) {
	factory := NewFactory(nil)
	if _, err := factory.Create(context.Background(), Config{Type: "redis"}); err == nil {
		t.Fatalf("expected error")
	}
	if _, err := FromAppConfig("redis", ""); err == nil {
		t.Fatalf("expected error")
	}
}

func TestFactorySQLiteRequiresPath(t *testing.T) {
	factory := NewFactory(nil)
	if _, err := factory.Create(context.Background(), Config{Type: SQLiteBackend}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestStatsInvalidatedOnMutation(t *testing.T) {
	ctx := context.Background()
	factory := NewFactory(nil)

	result, err := factory.Create(ctx, Config{Type: MemoryBackend})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer result.Cleanup()
	app := result.App

	svc, err := app.Booking.SaveService(ctx, core.Service{Name: "Haircut", Price: 500})
	if err != nil {
		t.Fatalf("save service: %v", err)
	}
	client, err := app.Booking.SaveClient(ctx, core.Client{FirstName: "Ann"})
	if err != nil {
		t.Fatalf("save client: %v", err)
	}

	if got := app.Stats.MonthIncome("2024-05"); got != 0 {
		t.Fatalf("expected 0 before booking, got %v", got)
	}

	// The change signal wired in the factory must purge the memoized
	// month income.
	if err := app.Booking.Create(ctx, "2024-05-10", client.ID, svc.ID, "14:00", ""); err != nil {
		t.Fatalf("create booking: %v", err)
	}
	if got := app.Stats.MonthIncome("2024-05"); got != 500 {
		t.Fatalf("expected 500 after booking, got %v", got)
	}
}

func TestFactorySQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	factory := NewFactory(nil)
	dbPath := filepath.Join(t.TempDir(), "agenda.db")

	result, err := factory.Create(ctx, Config{Type: SQLiteBackend, SQLiteDBPath: dbPath})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	app := result.App

	svc, err := app.Booking.SaveService(ctx, core.Service{Name: "Haircut", Price: 500})
	if err != nil {
		t.Fatalf("save service: %v", err)
	}
	client, err := app.Booking.SaveClient(ctx, core.Client{FirstName: "Ann"})
	if err != nil {
		t.Fatalf("save client: %v", err)
	}
	if err := app.Booking.Create(ctx, "2024-05-10", client.ID, svc.ID, "14:00", ""); err != nil {
		t.Fatalf("create booking: %v", err)
	}
	if err := result.Cleanup(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}

	// Reload from disk: same entities, same derived aggregates.
	reopened, err := factory.Create(ctx, Config{Type: SQLiteBackend, SQLiteDBPath: dbPath})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Cleanup()

	app2 := reopened.App
	if got := app2.Stats.DayIncome("2024-05-10"); got != 500 {
		t.Fatalf("day income after reload: got %v want 500", got)
	}
	s, ok := app2.Repo.ServiceByID(svc.ID)
	if !ok || s.UsageCount != 1 {
		t.Fatalf("service after reload: %+v %v", s, ok)
	}
	if got := len(app2.Repo.Records()); got != 1 {
		t.Fatalf("records after reload: %d", got)
	}
}

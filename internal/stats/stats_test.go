package stats

import (
	"context"
	"fmt"
	"testing"

	"agenda/internal/core"
	"agenda/internal/repository"
	"agenda/internal/storage"
)

func engineOver(t *testing.T, c core.Collections) (*Engine, *repository.Repository) {
	t.Helper()
	store := storage.NewMemoryStore()
	store.Seed(c)
	repo, err := repository.Open(context.Background(), store)
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	return NewEngine(repo), repo
}

func TestDayIncome(t *testing.T) {
	engine, _ := engineOver(t, core.Collections{
		Services: []core.Service{
			{ID: "s1", Name: "Haircut", Price: 500},
			{ID: "s2", Name: "Massage", Price: 900},
		},
		Records: []core.Record{
			{Date: "2024-05-10", ClientID: "c1", ServiceID: "s1", Time: "10:00"},
			{Date: "2024-05-10", ClientID: "c1", ServiceID: "s2", Time: "12:00"},
			{Date: "2024-05-11", ClientID: "c1", ServiceID: "s2"},
		},
	})

	if got := engine.DayIncome("2024-05-10"); got != 1400 {
		t.Fatalf("got %v want 1400", got)
	}
	if got := engine.DayIncome("2024-05-12"); got != 0 {
		t.Fatalf("empty day must be zero, got %v", got)
	}
}

func TestDayIncomeDanglingReference(t *testing.T) {
	engine, _ := engineOver(t, core.Collections{
		Records: []core.Record{
			{Date: "2024-05-10", ClientID: "c1", ServiceID: "ghost"},
		},
	})
	// The sentinel prices a missing service at zero; no error, no panic.
	if got := engine.DayIncome("2024-05-10"); got != 0 {
		t.Fatalf("got %v want 0", got)
	}
}

func TestDayRecordsOrder(t *testing.T) {
	engine, _ := engineOver(t, core.Collections{
		Records: []core.Record{
			{Date: "2024-05-10", ClientID: "untimed-1", ServiceID: "s1"},
			{Date: "2024-05-10", ClientID: "noon", ServiceID: "s1", Time: "12:00"},
			{Date: "2024-05-10", ClientID: "untimed-2", ServiceID: "s1"},
			{Date: "2024-05-10", ClientID: "morning", ServiceID: "s1", Time: "09:00"},
		},
	})

	got := engine.DayRecords("2024-05-10")
	want := []string{"morning", "noon", "untimed-1", "untimed-2"}
	for i, id := range want {
		if got[i].ClientID != id {
			t.Fatalf("position %d: got %s want %s", i, got[i].ClientID, id)
		}
	}
}

func TestMonthIncomeAndInvalidate(t *testing.T) {
	ctx := context.Background()
	engine, repo := engineOver(t, core.Collections{
		Services: []core.Service{{ID: "s1", Name: "Haircut", Price: 500}},
		Records: []core.Record{
			{Date: "2024-05-10", ClientID: "c1", ServiceID: "s1"},
			{Date: "2024-05-20", ClientID: "c1", ServiceID: "s1"},
			{Date: "2024-06-01", ClientID: "c1", ServiceID: "s1"},
		},
	})

	if got := engine.MonthIncome("2024-05"); got != 1000 {
		t.Fatalf("got %v want 1000", got)
	}

	if err := repo.AppendRecord(ctx, core.Record{Date: "2024-05-21", ClientID: "c1", ServiceID: "s1"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	engine.Invalidate()

	if got := engine.MonthIncome("2024-05"); got != 1500 {
		t.Fatalf("after invalidate got %v want 1500", got)
	}
}

func TestMonthIncomeEqualsSumOfDayIncomes(t *testing.T) {
	engine, _ := engineOver(t, core.Collections{
		Services: []core.Service{
			{ID: "s1", Name: "Haircut", Price: 500},
			{ID: "s2", Name: "Massage", Price: 900},
		},
		Records: []core.Record{
			{Date: "2024-05-10", ClientID: "c1", ServiceID: "s1"},
			{Date: "2024-05-10", ClientID: "c2", ServiceID: "s2"},
			{Date: "2024-05-25", ClientID: "c1", ServiceID: "s1"},
		},
	})

	sum := engine.DayIncome("2024-05-10") + engine.DayIncome("2024-05-25")
	if got := engine.MonthIncome("2024-05"); got != sum {
		t.Fatalf("month %v != day sum %v", got, sum)
	}
}

func TestYearlyReport(t *testing.T) {
	engine, _ := engineOver(t, core.Collections{
		Services: []core.Service{
			{ID: "s1", Name: "Haircut", Price: 500},
			{ID: "s2", Name: "Massage", Price: 300},
		},
		Records: []core.Record{
			{Date: "2024-05-10", ClientID: "c1", ServiceID: "s1"},
			{Date: "2024-06-10", ClientID: "c1", ServiceID: "s2"},
			{Date: "2023-12-31", ClientID: "c1", ServiceID: "s2"},
		},
	})

	report := engine.YearlyReport()
	if len(report) != 2 {
		t.Fatalf("expected 2 years, got %d", len(report))
	}
	if report[0].Key != "2024" || report[1].Key != "2023" {
		t.Fatalf("expected descending years, got %+v", report)
	}
	if report[0].Income != 800 {
		t.Fatalf("2024 income: got %v want 800", report[0].Income)
	}
	if report[1].Income != 300 {
		t.Fatalf("2023 income: got %v want 300", report[1].Income)
	}
}

func TestMonthlyReportLimit(t *testing.T) {
	var records []core.Record
	for m := 1; m <= 9; m++ {
		records = append(records, core.Record{
			Date:      fmt.Sprintf("2024-%02d-01", m),
			ClientID:  "c1",
			ServiceID: "s1",
		})
	}
	engine, _ := engineOver(t, core.Collections{
		Services: []core.Service{{ID: "s1", Name: "Haircut", Price: 100}},
		Records:  records,
	})

	report := engine.MonthlyReport()
	if len(report) != 6 {
		t.Fatalf("expected 6 buckets, got %d", len(report))
	}
	if report[0].Key != "2024-09" || report[5].Key != "2024-04" {
		t.Fatalf("expected the six most recent months descending, got %+v", report)
	}
}

func TestBucketTopService(t *testing.T) {
	engine, _ := engineOver(t, core.Collections{
		Services: []core.Service{
			{ID: "s1", Name: "Haircut", Price: 100},
			{ID: "s2", Name: "Massage", Price: 100},
		},
		Records: []core.Record{
			{Date: "2024-05-01", ClientID: "c1", ServiceID: "s2"},
			{Date: "2024-05-02", ClientID: "c1", ServiceID: "s1"},
			{Date: "2024-05-03", ClientID: "c1", ServiceID: "s1"},
			{Date: "2024-05-04", ClientID: "c1", ServiceID: "s2"},
		},
	})

	report := engine.MonthlyReport()
	if len(report) != 1 {
		t.Fatalf("expected one bucket, got %d", len(report))
	}
	// Counts tie at 2; s2 was seen first, so s2 wins.
	if report[0].TopServiceID != "s2" {
		t.Fatalf("tie must go to the first-seen service, got %s", report[0].TopServiceID)
	}
}

func TestMostPopularService(t *testing.T) {
	engine, _ := engineOver(t, core.Collections{})
	if _, _, ok := engine.MostPopularService(); ok {
		t.Fatalf("no records must yield ok=false")
	}

	engine, _ = engineOver(t, core.Collections{
		Records: []core.Record{
			{Date: "2024-05-01", ClientID: "c1", ServiceID: "s2"},
			{Date: "2024-05-02", ClientID: "c1", ServiceID: "s1"},
			{Date: "2024-06-03", ClientID: "c1", ServiceID: "s1"},
		},
	})
	id, count, ok := engine.MostPopularService()
	if !ok || id != "s1" || count != 2 {
		t.Fatalf("got %s %d %v", id, count, ok)
	}
}

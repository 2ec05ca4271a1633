// Command agenda prints the scheduling ledger's current state: today's
// bookings, the running month's income, and the recent income reports.
// It is a thin presentation consumer of the core; all state lives in the
// configured store.
package main

import (
	"context"
	"fmt"
	"time"

	"agenda/internal/cli"
	"agenda/internal/core"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(cli.MustLogLevel())
	cfg := cli.LoadAndValidateConfig(logger)

	ctx := context.Background()
	result := cli.InitBackend(ctx, logger, cfg)
	defer func() {
		if err := result.Cleanup(); err != nil {
			logger.Error("Cleanup failed", "error", err)
		}
	}()

	app := result.App
	now := time.Now()
	today := core.FormatDate(now)
	month := core.FormatYearMonth(now.Year(), now.Month())

	fmt.Printf("%s: %.0f %s\n", core.MonthTitle(month), app.Stats.MonthIncome(month), core.Currency)

	day := app.Stats.DayRecords(today)
	fmt.Printf("\nToday (%s), income %.0f %s:\n", today, app.Stats.DayIncome(today), core.Currency)
	if len(day) == 0 {
		fmt.Println("  no bookings")
	}
	for _, r := range day {
		t := r.Time
		if t == "" {
			t = "—"
		}
		client := app.Repo.DisplayClient(r.ClientID)
		service := app.Repo.DisplayService(r.ServiceID)
		fmt.Printf("  %s  %s — %s (%.0f %s)\n", t, client.FullName(), service.Name, service.Price, core.Currency)
	}

	if id, count, ok := app.Stats.MostPopularService(); ok {
		fmt.Printf("\nMost popular: %s (%d times)\n", app.Repo.DisplayService(id).Name, count)
	}

	fmt.Println("\nRecent months:")
	for _, b := range app.Stats.MonthlyReport() {
		fmt.Printf("  %s: %.0f %s, top: %s\n",
			core.MonthTitle(b.Key), b.Income, core.Currency, app.Repo.DisplayService(b.TopServiceID).Name)
	}

	fmt.Println("\nBy year:")
	for _, b := range app.Stats.YearlyReport() {
		fmt.Printf("  %s: %.0f %s, top: %s\n",
			b.Key, b.Income, core.Currency, app.Repo.DisplayService(b.TopServiceID).Name)
	}
}

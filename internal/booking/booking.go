// Package booking drives the record lifecycle and the catalog/roster
// mutations the presentation layer calls into. Every successful mutation
// persists through the repository, then emits a toast and a
// collection-changed signal.
package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"agenda/internal/core"
	"agenda/internal/event"
	"agenda/internal/repository"
)

type Controller struct {
	repo *repository.Repository
	bus  *event.Bus
}

func NewController(repo *repository.Repository, bus *event.Bus) *Controller {
	return &Controller{repo: repo, bus: bus}
}

// Create books an appointment. Both ids must reference existing entities
// and both rosters must be non-empty; otherwise the call fails before any
// state changes. On success the referenced service's usage counter is
// bumped and persisted before the record itself, so popularity stats can
// never lag behind the booking.
func (c *Controller) Create(ctx context.Context, date, clientID, serviceID, timeStr, comment string) error {
	if clientID == "" || serviceID == "" || c.repo.ClientCount() == 0 || c.repo.ServiceCount() == 0 {
		return c.reject(core.ErrSelectClientService)
	}
	if _, ok := c.repo.ClientByID(clientID); !ok {
		return c.reject(core.ErrSelectClientService)
	}
	if _, ok := c.repo.ServiceByID(serviceID); !ok {
		return c.reject(core.ErrSelectClientService)
	}

	rec := core.Record{Date: date, ClientID: clientID, ServiceID: serviceID, Time: timeStr, Comment: comment}
	if err := rec.Validate(); err != nil {
		return c.reject(err)
	}

	if err := c.repo.IncrementUsage(ctx, serviceID); err != nil {
		return fmt.Errorf("increment usage: %w", err)
	}
	if err := c.repo.AppendRecord(ctx, rec); err != nil {
		return fmt.Errorf("append record: %w", err)
	}

	slog.InfoContext(ctx, "Booking created",
		"date", date, "client", clientID, "service", serviceID, "time", timeStr)

	c.bus.Notify(event.NotifySaved)
	c.bus.CollectionChanged(event.Services)
	c.bus.CollectionChanged(event.Records)
	return nil
}

// Edit rewrites the booking at position index of the day's time-sorted
// view. All records sharing the target's composite key are replaced by
// one record with the new fields; duplicates collapse, which is the
// documented composite-key behavior. Out-of-range indexes are a silent
// no-op (handled=false). The usage counters stay untouched on edit.
func (c *Controller) Edit(ctx context.Context, date string, index int, clientID, serviceID, timeStr, comment string) (handled bool, err error) {
	if clientID == "" || serviceID == "" {
		return false, c.reject(core.ErrSelectClientService)
	}

	target, ok := c.recordAt(date, index)
	if !ok {
		return false, nil
	}

	replacement := core.Record{Date: date, ClientID: clientID, ServiceID: serviceID, Time: timeStr, Comment: comment}
	if err := replacement.Validate(); err != nil {
		return false, c.reject(err)
	}

	removed, err := c.repo.ReplaceRecordsByKey(ctx, target.Key(), replacement)
	if err != nil {
		return false, fmt.Errorf("replace record: %w", err)
	}

	slog.InfoContext(ctx, "Booking updated",
		"date", date, "index", index, "replaced", removed)

	c.bus.Notify("Updated!")
	c.bus.CollectionChanged(event.Records)
	return true, nil
}

// Delete removes the booking at position index of the day's time-sorted
// view, along with any duplicates sharing its composite key. The caller
// is trusted to have confirmed with the user already.
func (c *Controller) Delete(ctx context.Context, date string, index int) (handled bool, err error) {
	target, ok := c.recordAt(date, index)
	if !ok {
		return false, nil
	}

	removed, err := c.repo.RemoveRecordsByKey(ctx, target.Key())
	if err != nil {
		return false, fmt.Errorf("remove record: %w", err)
	}

	slog.InfoContext(ctx, "Booking deleted",
		"date", date, "index", index, "removed", removed)

	c.bus.Notify("Deleted!")
	c.bus.CollectionChanged(event.Records)
	return true, nil
}

// SaveService creates or updates a catalog entry and signals the change.
func (c *Controller) SaveService(ctx context.Context, svc core.Service) (core.Service, error) {
	created := svc.ID == ""
	stored, err := c.repo.UpsertService(ctx, svc)
	if err != nil {
		return core.Service{}, c.reject(err)
	}

	if created {
		c.bus.Notify("Service saved!")
	} else {
		c.bus.Notify("Service updated!")
	}
	c.bus.CollectionChanged(event.Services)
	return stored, nil
}

// SaveClient creates or updates a roster entry and signals the change.
func (c *Controller) SaveClient(ctx context.Context, client core.Client) (core.Client, error) {
	created := client.ID == ""
	stored, err := c.repo.UpsertClient(ctx, client)
	if err != nil {
		return core.Client{}, c.reject(err)
	}

	if created {
		c.bus.Notify("Client saved!")
	} else {
		c.bus.Notify("Client updated!")
	}
	c.bus.CollectionChanged(event.Clients)
	return stored, nil
}

// DeleteServices removes the selected services and cascades to their
// records.
func (c *Controller) DeleteServices(ctx context.Context, ids map[string]struct{}) error {
	if err := c.repo.DeleteServices(ctx, ids); err != nil {
		if errors.Is(err, core.ErrValidation) {
			return c.reject(err)
		}
		return err
	}
	c.bus.Notify("Deleted!")
	c.bus.CollectionChanged(event.Services)
	c.bus.CollectionChanged(event.Records)
	return nil
}

// DeleteClients removes the selected clients and cascades to their
// records.
func (c *Controller) DeleteClients(ctx context.Context, ids map[string]struct{}) error {
	if err := c.repo.DeleteClients(ctx, ids); err != nil {
		if errors.Is(err, core.ErrValidation) {
			return c.reject(err)
		}
		return err
	}
	c.bus.Notify("Deleted!")
	c.bus.CollectionChanged(event.Clients)
	c.bus.CollectionChanged(event.Records)
	return nil
}

// recordAt resolves a position in the day's time-sorted view.
func (c *Controller) recordAt(date string, index int) (core.Record, bool) {
	day := c.repo.RecordsForDate(date)
	if index < 0 || index >= len(day) {
		return core.Record{}, false
	}
	core.SortRecordsByTime(day)
	return day[index], true
}

// reject surfaces a validation failure to the presentation layer and
// hands the error back to the caller.
func (c *Controller) reject(err error) error {
	c.bus.ValidationFailed(err.Error())
	return err
}

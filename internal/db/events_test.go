package db

import (
	"strings"
	"testing"
	"time"

	"github.com/eventplus/evp/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	database, err := Initialize(t.TempDir())
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func TestCreateAndGetEvent(t *testing.T) {
	database := testDB(t)

	event := &models.Event{
		Name:        "Garden Party",
		Description: "Backyard, bring snacks",
		StartsAt:    time.Date(2026, 9, 12, 18, 30, 0, 0, time.UTC),
		Location:    "Lisbon",
		BudgetCents: 150000,
		OwnerUID:    "uid-1",
	}
	if err := database.CreateEvent(event); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}
	if !strings.HasPrefix(event.ID, "ev-") {
		t.Fatalf("expected ev- prefixed ID, got %q", event.ID)
	}
	if event.CreatedAt.IsZero() || event.UpdatedAt.IsZero() {
		t.Fatal("expected timestamps to be set on create")
	}

	got, err := database.GetEvent(event.ID)
	if err != nil {
		t.Fatalf("GetEvent failed: %v", err)
	}
	if got.Name != "Garden Party" || got.Location != "Lisbon" {
		t.Fatalf("got %q in %q, want Garden Party in Lisbon", got.Name, got.Location)
	}
	if got.BudgetCents != 150000 {
		t.Fatalf("got budget %d, want 150000", got.BudgetCents)
	}
	if !got.StartsAt.Equal(event.StartsAt) {
		t.Fatalf("got starts_at %v, want %v", got.StartsAt, event.StartsAt)
	}
}

func TestGetEventNotFound(t *testing.T) {
	database := testDB(t)

	_, err := database.GetEvent("ev-missing")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestUpdateEventOverwritesAllFields(t *testing.T) {
	database := testDB(t)

	event := &models.Event{Name: "Draft", Description: "old", Location: "Porto", OwnerUID: "uid-1", BudgetCents: 100}
	if err := database.CreateEvent(event); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	event.Name = "Final"
	event.Description = ""
	event.Location = "Faro"
	event.BudgetCents = 0
	if err := database.UpdateEvent(event); err != nil {
		t.Fatalf("UpdateEvent failed: %v", err)
	}

	got, err := database.GetEvent(event.ID)
	if err != nil {
		t.Fatalf("GetEvent failed: %v", err)
	}
	// Full-record overwrite: cleared fields stay cleared.
	if got.Name != "Final" || got.Description != "" || got.Location != "Faro" || got.BudgetCents != 0 {
		t.Fatalf("update did not overwrite: %+v", got)
	}
}

func TestUpdateEventMissingRowIsNoOp(t *testing.T) {
	database := testDB(t)

	ghost := &models.Event{ID: "ev-ghost", Name: "Ghost", OwnerUID: "uid-1"}
	if err := database.UpdateEvent(ghost); err != nil {
		t.Fatalf("expected silent no-op, got %v", err)
	}
	if _, err := database.GetEvent("ev-ghost"); err == nil {
		t.Fatal("no-op update must not insert a row")
	}
}

func TestEventWeatherSnapshotRoundTrip(t *testing.T) {
	database := testDB(t)

	event := &models.Event{Name: "Picnic", OwnerUID: "uid-1"}
	if err := database.CreateEvent(event); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	event.Weather = &models.WeatherSnapshot{
		TempC:       21.5,
		Description: "scattered clouds",
		Humidity:    60,
		WindKph:     12,
		CapturedAt:  time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
	}
	if err := database.UpdateEvent(event); err != nil {
		t.Fatalf("UpdateEvent failed: %v", err)
	}

	got, err := database.GetEvent(event.ID)
	if err != nil {
		t.Fatalf("GetEvent failed: %v", err)
	}
	if got.Weather == nil {
		t.Fatal("expected weather snapshot to persist")
	}
	if got.Weather.TempC != 21.5 || got.Weather.Description != "scattered clouds" {
		t.Fatalf("snapshot mismatch: %+v", got.Weather)
	}
}

func TestDeleteEventCascades(t *testing.T) {
	database := testDB(t)

	event := &models.Event{Name: "Launch", OwnerUID: "uid-1"}
	if err := database.CreateEvent(event); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	guest := &models.Guest{EventID: event.ID, Name: "Ana"}
	if err := database.CreateGuest(guest); err != nil {
		t.Fatalf("CreateGuest failed: %v", err)
	}
	task := &models.Task{EventID: event.ID, Title: "Catering", AmountCents: 5000}
	if err := database.CreateTask(task); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	if err := database.DeleteEvent(event.ID); err != nil {
		t.Fatalf("DeleteEvent failed: %v", err)
	}

	if _, err := database.GetEvent(event.ID); err == nil {
		t.Fatal("event should be gone")
	}
	if _, err := database.GetGuest(guest.ID); err == nil {
		t.Fatal("guests should be cascade-deleted")
	}
	if _, err := database.GetTask(task.ID); err == nil {
		t.Fatal("tasks should be cascade-deleted")
	}
}

func TestListEventsByOwner(t *testing.T) {
	database := testDB(t)

	for _, e := range []*models.Event{
		{Name: "Mine A", OwnerUID: "uid-1"},
		{Name: "Mine B", OwnerUID: "uid-1"},
		{Name: "Theirs", OwnerUID: "uid-2"},
	} {
		if err := database.CreateEvent(e); err != nil {
			t.Fatalf("CreateEvent failed: %v", err)
		}
	}

	events, err := database.ListEventsByOwner("uid-1")
	if err != nil {
		t.Fatalf("ListEventsByOwner failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	for _, e := range events {
		if e.OwnerUID != "uid-1" {
			t.Fatalf("listed event owned by %q", e.OwnerUID)
		}
	}
}

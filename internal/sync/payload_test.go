package sync

import (
	"testing"
	"time"

	"github.com/eventplus/evp/internal/models"
)

func TestCollectionFor(t *testing.T) {
	cases := map[string]string{
		EntityEvent: "events",
		EntityGuest: "guests",
		EntityTask:  "tasks",
		EntityUser:  "users",
	}
	for entity, want := range cases {
		got, err := CollectionFor(entity)
		if err != nil {
			t.Fatalf("CollectionFor(%q) failed: %v", entity, err)
		}
		if got != want {
			t.Fatalf("CollectionFor(%q) = %q, want %q", entity, got, want)
		}
	}
	if _, err := CollectionFor("widget"); err == nil {
		t.Fatal("expected error for unknown entity type")
	}
}

func TestEventFields(t *testing.T) {
	event := &models.Event{
		ID:          "ev-1",
		Name:        "Party",
		StartsAt:    time.Date(2026, 9, 12, 18, 30, 0, 0, time.UTC),
		BudgetCents: 12000,
		OwnerUID:    "uid-1",
	}

	fields := EventFields(event)
	if fields["id"] != "ev-1" || fields["name"] != "Party" || fields["budget_cents"] != int64(12000) {
		t.Fatalf("unexpected fields: %+v", fields)
	}
	if fields["starts_at"] != "2026-09-12T18:30:00Z" {
		t.Fatalf("starts_at not RFC3339 UTC: %v", fields["starts_at"])
	}
	if _, ok := fields["weather"]; ok {
		t.Fatal("nil weather must not produce a weather field")
	}

	event.Weather = &models.WeatherSnapshot{TempC: 20, Description: "clear"}
	fields = EventFields(event)
	weather, ok := fields["weather"].(map[string]interface{})
	if !ok || weather["description"] != "clear" {
		t.Fatalf("weather snapshot missing from fields: %+v", fields)
	}
}

func TestGuestFieldsUseCanonicalStatus(t *testing.T) {
	guest := &models.Guest{ID: "gs-1", EventID: "ev-1", Name: "Ana", Status: models.GuestConfirmed}
	fields := GuestFields(guest)
	if fields["status"] != "confirmed" {
		t.Fatalf("got status %v, want confirmed", fields["status"])
	}
}

func TestTaskFieldsUseNumericStatus(t *testing.T) {
	task := &models.Task{ID: "tk-1", EventID: "ev-1", Title: "Cake", Status: models.TaskInProgress, AmountCents: 999}
	fields := TaskFields(task)
	if fields["status"] != 1 {
		t.Fatalf("got status %v, want 1", fields["status"])
	}
	if fields["amount_cents"] != int64(999) {
		t.Fatalf("got amount %v, want 999", fields["amount_cents"])
	}
}

package sync

import (
	"testing"

	"github.com/eventplus/evp/internal/models"
)

func TestReconcileInsertsUnknownProfile(t *testing.T) {
	shim := testShim(t)

	event := &models.Event{Name: "Reunion", OwnerUID: "uid-1"}
	if err := shim.CreateEvent(event); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	guest, err := shim.ReconcileGuestProfile(event.ID, "prov-1", GuestProfile{
		Name:   "Clara",
		Email:  "clara@example.com",
		Status: models.GuestConfirmed,
	})
	if err != nil {
		t.Fatalf("ReconcileGuestProfile failed: %v", err)
	}
	if guest.ID == "" || guest.ProviderUID != "prov-1" {
		t.Fatalf("unexpected guest: %+v", guest)
	}

	guests, err := shim.DB().ListGuestsByEvent(event.ID)
	if err != nil {
		t.Fatalf("ListGuestsByEvent failed: %v", err)
	}
	if len(guests) != 1 {
		t.Fatalf("got %d guests, want 1", len(guests))
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	shim := testShim(t)

	event := &models.Event{Name: "Reunion", OwnerUID: "uid-1"}
	if err := shim.CreateEvent(event); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	profile := GuestProfile{Name: "Clara", Email: "clara@example.com", Status: models.GuestConfirmed}

	first, err := shim.ReconcileGuestProfile(event.ID, "prov-1", profile)
	if err != nil {
		t.Fatalf("first reconcile failed: %v", err)
	}
	second, err := shim.ReconcileGuestProfile(event.ID, "prov-1", profile)
	if err != nil {
		t.Fatalf("second reconcile failed: %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf("local ID must be stable across reconciles: %s != %s", first.ID, second.ID)
	}

	guests, err := shim.DB().ListGuestsByEvent(event.ID)
	if err != nil {
		t.Fatalf("ListGuestsByEvent failed: %v", err)
	}
	if len(guests) != 1 {
		t.Fatalf("reconcile duplicated the guest: %d rows", len(guests))
	}
}

func TestReconcileOverwritesFieldsKeepsID(t *testing.T) {
	shim := testShim(t)

	event := &models.Event{Name: "Reunion", OwnerUID: "uid-1"}
	if err := shim.CreateEvent(event); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	first, err := shim.ReconcileGuestProfile(event.ID, "prov-1", GuestProfile{
		Name: "Clara", Email: "old@example.com", Status: models.GuestPending,
	})
	if err != nil {
		t.Fatalf("first reconcile failed: %v", err)
	}

	// Remote field values win; the local identifier does not change.
	updated, err := shim.ReconcileGuestProfile(event.ID, "prov-1", GuestProfile{
		Name: "Clara M.", Email: "new@example.com", Status: models.GuestConfirmed,
	})
	if err != nil {
		t.Fatalf("second reconcile failed: %v", err)
	}

	if updated.ID != first.ID {
		t.Fatalf("ID changed: %s != %s", updated.ID, first.ID)
	}
	got, err := shim.DB().GetGuest(first.ID)
	if err != nil {
		t.Fatalf("GetGuest failed: %v", err)
	}
	if got.Name != "Clara M." || got.Email != "new@example.com" || got.Status != models.GuestConfirmed {
		t.Fatalf("fields not overwritten: %+v", got)
	}
}

func TestReconcileRequiresProviderUID(t *testing.T) {
	shim := testShim(t)

	if _, err := shim.ReconcileGuestProfile("ev-1", "", GuestProfile{Name: "X"}); err == nil {
		t.Fatal("expected error for empty provider UID")
	}
}

func TestReconcileDefaultsStatus(t *testing.T) {
	shim := testShim(t)

	event := &models.Event{Name: "Reunion", OwnerUID: "uid-1"}
	if err := shim.CreateEvent(event); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	guest, err := shim.ReconcileGuestProfile(event.ID, "prov-2", GuestProfile{Name: "NoStatus"})
	if err != nil {
		t.Fatalf("ReconcileGuestProfile failed: %v", err)
	}
	if guest.Status != models.GuestPending {
		t.Fatalf("got status %q, want pending", guest.Status)
	}

	if _, err := shim.ReconcileGuestProfile(event.ID, "prov-3", GuestProfile{
		Name: "Bad", Status: "maybe",
	}); err == nil {
		t.Fatal("expected invalid status to be rejected")
	}
}

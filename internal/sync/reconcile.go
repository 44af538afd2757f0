package sync

import (
	"fmt"

	"github.com/eventplus/evp/internal/models"
)

// GuestProfile carries the remotely-sourced profile fields used when
// reconciling a guest against the local store.
type GuestProfile struct {
	Name   string
	Email  string
	Phone  string
	Status models.GuestStatus
}

// ReconcileGuestProfile merges a provider-identified guest profile into the
// local store. If a guest with the provider UID already exists on the event,
// its fields are overwritten but its local identifier is preserved; otherwise
// a new guest is inserted. Calling twice with the same input yields exactly
// one row with a stable ID: local identifier wins, remote field values win.
func (s *Shim) ReconcileGuestProfile(eventID, providerUID string, profile GuestProfile) (*models.Guest, error) {
	if providerUID == "" {
		return nil, fmt.Errorf("provider UID is required")
	}

	status := profile.Status
	if status == "" {
		status = models.GuestPending
	}
	if !models.IsValidGuestStatus(status) {
		return nil, fmt.Errorf("invalid guest status: %s", status)
	}

	existing, err := s.db.GetGuestByProviderUID(eventID, providerUID)
	if err != nil {
		return nil, fmt.Errorf("lookup guest by provider uid: %w", err)
	}

	if existing != nil {
		existing.Name = profile.Name
		existing.Email = profile.Email
		existing.Phone = profile.Phone
		existing.Status = status
		if err := s.UpdateGuest(existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	guest := &models.Guest{
		EventID:     eventID,
		Name:        profile.Name,
		Email:       profile.Email,
		Phone:       profile.Phone,
		Status:      status,
		ProviderUID: providerUID,
	}
	if err := s.CreateGuest(guest); err != nil {
		return nil, err
	}
	return guest, nil
}

package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/eventplus/evp/internal/models"
)

// CreateGuest creates a new guest, generating its ID and timestamps
func (db *DB) CreateGuest(guest *models.Guest) error {
	return db.WriteTx(func(tx *sql.Tx) error {
		return db.CreateGuestTx(tx, guest)
	})
}

// CreateGuestTx is CreateGuest within the caller's transaction.
func (db *DB) CreateGuestTx(tx *sql.Tx, guest *models.Guest) error {
	id, err := generateEntityID(guestIDPrefix)
	if err != nil {
		return err
	}
	guest.ID = id

	if guest.Status == "" {
		guest.Status = models.GuestPending
	}
	if !models.IsValidGuestStatus(guest.Status) {
		return fmt.Errorf("invalid guest status: %s", guest.Status)
	}

	now := time.Now()
	guest.CreatedAt = now
	guest.UpdatedAt = now

	_, err = tx.Exec(`
		INSERT INTO guests (id, event_id, name, email, phone, status, provider_uid, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, guest.ID, guest.EventID, guest.Name, guest.Email, guest.Phone,
		guest.Status, guest.ProviderUID, guest.CreatedAt, guest.UpdatedAt)

	return err
}

// GetGuest retrieves a guest by ID
func (db *DB) GetGuest(id string) (*models.Guest, error) {
	var guest models.Guest

	err := db.conn.QueryRow(`
		SELECT id, event_id, name, email, phone, status, provider_uid, created_at, updated_at
		FROM guests WHERE id = ?
	`, id).Scan(
		&guest.ID, &guest.EventID, &guest.Name, &guest.Email, &guest.Phone,
		&guest.Status, &guest.ProviderUID, &guest.CreatedAt, &guest.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("guest not found: %s", id)
	}
	if err != nil {
		return nil, err
	}

	return &guest, nil
}

// GetGuestByProviderUID looks up a guest on an event by identity-provider UID.
// Returns nil, nil when no such guest exists.
func (db *DB) GetGuestByProviderUID(eventID, providerUID string) (*models.Guest, error) {
	if providerUID == "" {
		return nil, nil
	}

	var guest models.Guest
	err := db.conn.QueryRow(`
		SELECT id, event_id, name, email, phone, status, provider_uid, created_at, updated_at
		FROM guests WHERE event_id = ? AND provider_uid = ? LIMIT 1
	`, eventID, providerUID).Scan(
		&guest.ID, &guest.EventID, &guest.Name, &guest.Email, &guest.Phone,
		&guest.Status, &guest.ProviderUID, &guest.CreatedAt, &guest.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &guest, nil
}

// UpdateGuest overwrites all fields of the guest row matching the ID.
// A missing row is a silent no-op.
func (db *DB) UpdateGuest(guest *models.Guest) error {
	return db.WriteTx(func(tx *sql.Tx) error {
		return db.UpdateGuestTx(tx, guest)
	})
}

// UpdateGuestTx is UpdateGuest within the caller's transaction.
func (db *DB) UpdateGuestTx(tx *sql.Tx, guest *models.Guest) error {
	if !models.IsValidGuestStatus(guest.Status) {
		return fmt.Errorf("invalid guest status: %s", guest.Status)
	}
	guest.UpdatedAt = time.Now()

	_, err := tx.Exec(`
		UPDATE guests SET event_id = ?, name = ?, email = ?, phone = ?,
		                  status = ?, provider_uid = ?, updated_at = ?
		WHERE id = ?
	`, guest.EventID, guest.Name, guest.Email, guest.Phone,
		guest.Status, guest.ProviderUID, guest.UpdatedAt, guest.ID)

	return err
}

// DeleteGuest removes a guest row
func (db *DB) DeleteGuest(id string) error {
	return db.WriteTx(func(tx *sql.Tx) error {
		return db.DeleteGuestTx(tx, id)
	})
}

// DeleteGuestTx is DeleteGuest within the caller's transaction.
func (db *DB) DeleteGuestTx(tx *sql.Tx, id string) error {
	_, err := tx.Exec(`DELETE FROM guests WHERE id = ?`, id)
	return err
}

// GuestIDsByEventTx returns the IDs of an event's guests within the caller's
// transaction, oldest first.
func (db *DB) GuestIDsByEventTx(tx *sql.Tx, eventID string) ([]string, error) {
	rows, err := tx.Query(`SELECT id FROM guests WHERE event_id = ? ORDER BY created_at ASC`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListGuestsByEvent returns all guests of an event, oldest first
func (db *DB) ListGuestsByEvent(eventID string) ([]models.Guest, error) {
	rows, err := db.conn.Query(`
		SELECT id, event_id, name, email, phone, status, provider_uid, created_at, updated_at
		FROM guests WHERE event_id = ? ORDER BY created_at ASC
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var guests []models.Guest
	for rows.Next() {
		var guest models.Guest
		if err := rows.Scan(
			&guest.ID, &guest.EventID, &guest.Name, &guest.Email, &guest.Phone,
			&guest.Status, &guest.ProviderUID, &guest.CreatedAt, &guest.UpdatedAt,
		); err != nil {
			return nil, err
		}
		guests = append(guests, guest)
	}
	return guests, rows.Err()
}

// CountGuestsByStatus returns guest counts grouped by RSVP status for an event
func (db *DB) CountGuestsByStatus(eventID string) (map[models.GuestStatus]int, error) {
	rows, err := db.conn.Query(`
		SELECT status, COUNT(*) FROM guests WHERE event_id = ? GROUP BY status
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.GuestStatus]int)
	for rows.Next() {
		var status models.GuestStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/eventplus/evp/internal/models"
)

// CreateEvent creates a new event, generating its ID and timestamps
func (db *DB) CreateEvent(event *models.Event) error {
	return db.WriteTx(func(tx *sql.Tx) error {
		return db.CreateEventTx(tx, event)
	})
}

// CreateEventTx is CreateEvent within the caller's transaction.
func (db *DB) CreateEventTx(tx *sql.Tx, event *models.Event) error {
	id, err := generateEntityID(eventIDPrefix)
	if err != nil {
		return err
	}
	event.ID = id

	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now

	weatherJSON, err := marshalWeather(event.Weather)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
		INSERT INTO events (id, name, description, starts_at, location, budget_cents, owner_uid, image_ref, weather_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, event.ID, event.Name, event.Description, event.StartsAt, event.Location,
		event.BudgetCents, event.OwnerUID, event.ImageRef, weatherJSON, event.CreatedAt, event.UpdatedAt)

	return err
}

// GetEvent retrieves an event by ID
func (db *DB) GetEvent(id string) (*models.Event, error) {
	var event models.Event
	var weatherJSON string

	err := db.conn.QueryRow(`
		SELECT id, name, description, starts_at, location, budget_cents, owner_uid, image_ref, weather_json, created_at, updated_at
		FROM events WHERE id = ?
	`, id).Scan(
		&event.ID, &event.Name, &event.Description, &event.StartsAt, &event.Location,
		&event.BudgetCents, &event.OwnerUID, &event.ImageRef, &weatherJSON,
		&event.CreatedAt, &event.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("event not found: %s", id)
	}
	if err != nil {
		return nil, err
	}

	event.Weather, err = unmarshalWeather(weatherJSON)
	if err != nil {
		return nil, err
	}

	return &event, nil
}

// UpdateEvent overwrites all fields of the event row matching the ID.
// A missing row is a silent no-op.
func (db *DB) UpdateEvent(event *models.Event) error {
	return db.WriteTx(func(tx *sql.Tx) error {
		return db.UpdateEventTx(tx, event)
	})
}

// UpdateEventTx is UpdateEvent within the caller's transaction.
func (db *DB) UpdateEventTx(tx *sql.Tx, event *models.Event) error {
	event.UpdatedAt = time.Now()

	weatherJSON, err := marshalWeather(event.Weather)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
		UPDATE events SET name = ?, description = ?, starts_at = ?, location = ?,
		                  budget_cents = ?, owner_uid = ?, image_ref = ?, weather_json = ?, updated_at = ?
		WHERE id = ?
	`, event.Name, event.Description, event.StartsAt, event.Location,
		event.BudgetCents, event.OwnerUID, event.ImageRef, weatherJSON, event.UpdatedAt, event.ID)

	return err
}

// DeleteEvent removes an event and cascades to its guests, tasks, and
// notifications. Mirror cleanup is the caller's responsibility.
func (db *DB) DeleteEvent(id string) error {
	return db.WriteTx(func(tx *sql.Tx) error {
		return db.DeleteEventTx(tx, id)
	})
}

// DeleteEventTx is the DeleteEvent cascade within the caller's transaction.
func (db *DB) DeleteEventTx(tx *sql.Tx, id string) error {
	if _, err := tx.Exec(`DELETE FROM guests WHERE event_id = ?`, id); err != nil {
		return fmt.Errorf("delete guests: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM tasks WHERE event_id = ?`, id); err != nil {
		return fmt.Errorf("delete tasks: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM notifications WHERE event_id = ?`, id); err != nil {
		return fmt.Errorf("delete notifications: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM events WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

// ListEventsByOwner returns events owned by the given identity, soonest first
func (db *DB) ListEventsByOwner(ownerUID string) ([]models.Event, error) {
	rows, err := db.conn.Query(`
		SELECT id, name, description, starts_at, location, budget_cents, owner_uid, image_ref, weather_json, created_at, updated_at
		FROM events WHERE owner_uid = ? ORDER BY starts_at ASC
	`, ownerUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

// ListEvents returns all events, soonest first
func (db *DB) ListEvents() ([]models.Event, error) {
	rows, err := db.conn.Query(`
		SELECT id, name, description, starts_at, location, budget_cents, owner_uid, image_ref, weather_json, created_at, updated_at
		FROM events ORDER BY starts_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]models.Event, error) {
	var events []models.Event
	for rows.Next() {
		var event models.Event
		var weatherJSON string

		err := rows.Scan(
			&event.ID, &event.Name, &event.Description, &event.StartsAt, &event.Location,
			&event.BudgetCents, &event.OwnerUID, &event.ImageRef, &weatherJSON,
			&event.CreatedAt, &event.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		event.Weather, err = unmarshalWeather(weatherJSON)
		if err != nil {
			return nil, err
		}

		events = append(events, event)
	}
	return events, rows.Err()
}

func marshalWeather(w *models.WeatherSnapshot) (string, error) {
	if w == nil {
		return "", nil
	}
	data, err := json.Marshal(w)
	if err != nil {
		return "", fmt.Errorf("marshal weather snapshot: %w", err)
	}
	return string(data), nil
}

func unmarshalWeather(s string) (*models.WeatherSnapshot, error) {
	if s == "" {
		return nil, nil
	}
	var w models.WeatherSnapshot
	if err := json.Unmarshal([]byte(s), &w); err != nil {
		return nil, fmt.Errorf("unmarshal weather snapshot: %w", err)
	}
	return &w, nil
}

package db

import (
	"database/sql"
	"time"
)

// Intent is a durable record of one mirror write that must eventually happen.
// Intents are appended when a local mutation commits and marked done only on
// confirmed remote success, so local and remote stores cannot silently diverge.
type Intent struct {
	ID            int64
	EntityType    string // "event", "guest", "task", "user"
	Op            string // "merge" or "delete"
	EntityID      string
	Payload       []byte // JSON field map for merge ops
	Attempts      int
	LastError     string
	CreatedAt     time.Time
	NextAttemptAt time.Time
}

// Intent operations
const (
	OpMerge  = "merge"
	OpDelete = "delete"
)

// EnqueueIntent appends a mirror-write intent to the outbox
func (db *DB) EnqueueIntent(entityType, op, entityID string, payload []byte) error {
	return db.WriteTx(func(tx *sql.Tx) error {
		return db.EnqueueIntentTx(tx, entityType, op, entityID, payload)
	})
}

// EnqueueIntentTx appends an intent within the caller's transaction, so the
// intent commits or rolls back together with the entity write it shadows.
func (db *DB) EnqueueIntentTx(tx *sql.Tx, entityType, op, entityID string, payload []byte) error {
	if payload == nil {
		payload = []byte("{}")
	}
	now := time.Now()
	_, err := tx.Exec(`
		INSERT INTO outbox (entity_type, op, entity_id, payload, created_at, next_attempt_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, entityType, op, entityID, string(payload), now, now)
	return err
}

// PendingIntents returns all undone intents in enqueue order.
// The drainer decides which are due; returning the full pending set lets it
// keep per-entity ordering when an earlier intent is still backing off.
func (db *DB) PendingIntents(limit int) ([]Intent, error) {
	query := `SELECT id, entity_type, op, entity_id, payload, attempts, COALESCE(last_error, ''), created_at, next_attempt_at
	          FROM outbox WHERE done_at IS NULL ORDER BY id ASC`
	args := []interface{}{}

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var intents []Intent
	for rows.Next() {
		var in Intent
		var payload string
		if err := rows.Scan(&in.ID, &in.EntityType, &in.Op, &in.EntityID, &payload,
			&in.Attempts, &in.LastError, &in.CreatedAt, &in.NextAttemptAt); err != nil {
			return nil, err
		}
		in.Payload = []byte(payload)
		intents = append(intents, in)
	}
	return intents, rows.Err()
}

// MarkIntentDone records confirmed remote success for an intent
func (db *DB) MarkIntentDone(id int64) error {
	return db.withWriteLock(func() error {
		_, err := db.conn.Exec(`
			UPDATE outbox SET done_at = ?, last_error = '' WHERE id = ?
		`, time.Now(), id)
		return err
	})
}

// MarkIntentFailed records a failed attempt and schedules the next one
func (db *DB) MarkIntentFailed(id int64, errMsg string, nextAttempt time.Time) error {
	return db.withWriteLock(func() error {
		_, err := db.conn.Exec(`
			UPDATE outbox SET attempts = attempts + 1, last_error = ?, next_attempt_at = ?
			WHERE id = ?
		`, errMsg, nextAttempt, id)
		return err
	})
}

// CountPendingIntents returns the number of intents not yet confirmed remotely
func (db *DB) CountPendingIntents() (int64, error) {
	var count int64
	err := db.conn.QueryRow(`SELECT COUNT(*) FROM outbox WHERE done_at IS NULL`).Scan(&count)
	return count, err
}

// LastIntentError returns the most recent failure message among pending
// intents, or "" when nothing has failed.
func (db *DB) LastIntentError() (string, error) {
	var msg string
	err := db.conn.QueryRow(`
		SELECT COALESCE(last_error, '') FROM outbox
		WHERE done_at IS NULL AND attempts > 0
		ORDER BY id DESC LIMIT 1
	`).Scan(&msg)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return msg, err
}

// PruneDoneIntents removes confirmed intents older than the cutoff.
// Returns the number of rows removed.
func (db *DB) PruneDoneIntents(olderThan time.Time) (int64, error) {
	var affected int64
	err := db.withWriteLock(func() error {
		result, err := db.conn.Exec(`DELETE FROM outbox WHERE done_at IS NOT NULL AND done_at < ?`, olderThan)
		if err != nil {
			return err
		}
		affected, _ = result.RowsAffected()
		return nil
	})
	return affected, err
}

package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/eventplus/evp/internal/models"
)

// SaveUser inserts or replaces the user row keyed by provider UID.
// Replace semantics match the remote mirror's merge-by-key addressing:
// the provider UID is the identity, so a re-save is a profile update.
func (db *DB) SaveUser(user *models.User) error {
	return db.WriteTx(func(tx *sql.Tx) error {
		return db.SaveUserTx(tx, user)
	})
}

// SaveUserTx is SaveUser within the caller's transaction.
func (db *DB) SaveUserTx(tx *sql.Tx, user *models.User) error {
	if user.UID == "" {
		return fmt.Errorf("user UID is required")
	}

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := tx.Exec(`
		INSERT OR REPLACE INTO users (uid, full_name, username, email, phone, photo_ref, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, user.UID, user.FullName, user.Username, user.Email,
		user.Phone, user.PhotoRef, user.CreatedAt, user.UpdatedAt)

	return err
}

// GetUser retrieves a user by provider UID
func (db *DB) GetUser(uid string) (*models.User, error) {
	var user models.User

	err := db.conn.QueryRow(`
		SELECT uid, full_name, username, email, phone, photo_ref, created_at, updated_at
		FROM users WHERE uid = ?
	`, uid).Scan(
		&user.UID, &user.FullName, &user.Username, &user.Email,
		&user.Phone, &user.PhotoRef, &user.CreatedAt, &user.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found: %s", uid)
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// DeleteUser removes a user row
func (db *DB) DeleteUser(uid string) error {
	return db.WriteTx(func(tx *sql.Tx) error {
		return db.DeleteUserTx(tx, uid)
	})
}

// DeleteUserTx is DeleteUser within the caller's transaction.
func (db *DB) DeleteUserTx(tx *sql.Tx, uid string) error {
	_, err := tx.Exec(`DELETE FROM users WHERE uid = ?`, uid)
	return err
}

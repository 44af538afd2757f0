package db

import (
	"time"

	"github.com/eventplus/evp/internal/models"
)

// AddNotification appends a local notification
func (db *DB) AddNotification(n *models.Notification) error {
	return db.withWriteLock(func() error {
		n.CreatedAt = time.Now()

		result, err := db.conn.Exec(`
			INSERT INTO notifications (title, message, event_id, read, created_at)
			VALUES (?, ?, ?, ?, ?)
		`, n.Title, n.Message, n.EventID, boolToInt(n.Read), n.CreatedAt)
		if err != nil {
			return err
		}

		id, err := result.LastInsertId()
		if err != nil {
			return err
		}
		n.ID = id

		return nil
	})
}

// ListNotifications returns notifications, unread first, newest within each group
func (db *DB) ListNotifications(limit int) ([]models.Notification, error) {
	query := `SELECT id, title, message, event_id, read, created_at
	          FROM notifications ORDER BY read ASC, created_at DESC`
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

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		var read int
		if err := rows.Scan(&n.ID, &n.Title, &n.Message, &n.EventID, &read, &n.CreatedAt); err != nil {
			return nil, err
		}
		n.Read = read != 0
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkNotificationRead flags a single notification as read
func (db *DB) MarkNotificationRead(id int64) error {
	return db.withWriteLock(func() error {
		_, err := db.conn.Exec(`UPDATE notifications SET read = 1 WHERE id = ?`, id)
		return err
	})
}

// MarkAllNotificationsRead flags every notification as read
func (db *DB) MarkAllNotificationsRead() error {
	return db.withWriteLock(func() error {
		_, err := db.conn.Exec(`UPDATE notifications SET read = 1 WHERE read = 0`)
		return err
	})
}

// CountUnreadNotifications returns the number of unread notifications
func (db *DB) CountUnreadNotifications() (int, error) {
	var count int
	err := db.conn.QueryRow(`SELECT COUNT(*) FROM notifications WHERE read = 0`).Scan(&count)
	return count, err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

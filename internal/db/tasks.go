package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/eventplus/evp/internal/models"
)

// CreateTask creates a new task, generating its ID and timestamps
func (db *DB) CreateTask(task *models.Task) error {
	return db.WriteTx(func(tx *sql.Tx) error {
		return db.CreateTaskTx(tx, task)
	})
}

// CreateTaskTx is CreateTask within the caller's transaction.
func (db *DB) CreateTaskTx(tx *sql.Tx, task *models.Task) error {
	id, err := generateEntityID(taskIDPrefix)
	if err != nil {
		return err
	}
	task.ID = id

	if !models.IsValidTaskStatus(task.Status) {
		return fmt.Errorf("invalid task status: %d", task.Status)
	}
	if task.AmountCents < 0 {
		return fmt.Errorf("task amount must be non-negative")
	}

	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now

	_, err = tx.Exec(`
		INSERT INTO tasks (id, event_id, title, description, amount_cents, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, task.ID, task.EventID, task.Title, task.Description,
		task.AmountCents, task.Status, task.CreatedAt, task.UpdatedAt)

	return err
}

// GetTask retrieves a task by ID
func (db *DB) GetTask(id string) (*models.Task, error) {
	var task models.Task

	err := db.conn.QueryRow(`
		SELECT id, event_id, title, description, amount_cents, status, created_at, updated_at
		FROM tasks WHERE id = ?
	`, id).Scan(
		&task.ID, &task.EventID, &task.Title, &task.Description,
		&task.AmountCents, &task.Status, &task.CreatedAt, &task.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("task not found: %s", id)
	}
	if err != nil {
		return nil, err
	}

	return &task, nil
}

// UpdateTask overwrites all fields of the task row matching the ID.
// A missing row is a silent no-op.
func (db *DB) UpdateTask(task *models.Task) error {
	return db.WriteTx(func(tx *sql.Tx) error {
		return db.UpdateTaskTx(tx, task)
	})
}

// UpdateTaskTx is UpdateTask within the caller's transaction.
func (db *DB) UpdateTaskTx(tx *sql.Tx, task *models.Task) error {
	if !models.IsValidTaskStatus(task.Status) {
		return fmt.Errorf("invalid task status: %d", task.Status)
	}
	if task.AmountCents < 0 {
		return fmt.Errorf("task amount must be non-negative")
	}

	task.UpdatedAt = time.Now()

	_, err := tx.Exec(`
		UPDATE tasks SET event_id = ?, title = ?, description = ?,
		                 amount_cents = ?, status = ?, updated_at = ?
		WHERE id = ?
	`, task.EventID, task.Title, task.Description,
		task.AmountCents, task.Status, task.UpdatedAt, task.ID)

	return err
}

// DeleteTask removes a task row
func (db *DB) DeleteTask(id string) error {
	return db.WriteTx(func(tx *sql.Tx) error {
		return db.DeleteTaskTx(tx, id)
	})
}

// DeleteTaskTx is DeleteTask within the caller's transaction.
func (db *DB) DeleteTaskTx(tx *sql.Tx, id string) error {
	_, err := tx.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	return err
}

// TaskIDsByEventTx returns the IDs of an event's tasks within the caller's
// transaction, oldest first.
func (db *DB) TaskIDsByEventTx(tx *sql.Tx, eventID string) ([]string, error) {
	rows, err := tx.Query(`SELECT id FROM tasks WHERE event_id = ? ORDER BY created_at ASC`, eventID)
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

// ListTasksByEvent returns all tasks of an event, oldest first
func (db *DB) ListTasksByEvent(eventID string) ([]models.Task, error) {
	rows, err := db.conn.Query(`
		SELECT id, event_id, title, description, amount_cents, status, created_at, updated_at
		FROM tasks WHERE event_id = ? ORDER BY created_at ASC
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var task models.Task
		if err := rows.Scan(
			&task.ID, &task.EventID, &task.Title, &task.Description,
			&task.AmountCents, &task.Status, &task.CreatedAt, &task.UpdatedAt,
		); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// TaskTotals computes per-status counts and amount sums for an event's tasks.
// No materialized aggregate is kept; this is computed on demand.
func (db *DB) TaskTotals(eventID string) (*models.TaskTotals, error) {
	rows, err := db.conn.Query(`
		SELECT status, COUNT(*), COALESCE(SUM(amount_cents), 0)
		FROM tasks WHERE event_id = ? GROUP BY status
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := &models.TaskTotals{}
	for rows.Next() {
		var status models.TaskStatus
		var count int
		var cents int64
		if err := rows.Scan(&status, &count, &cents); err != nil {
			return nil, err
		}
		switch status {
		case models.TaskPending:
			totals.PendingCount = count
			totals.PendingCents = cents
		case models.TaskInProgress:
			totals.InProgressCount = count
			totals.InProgressCents = cents
		case models.TaskCompleted:
			totals.CompletedCount = count
			totals.CompletedCents = cents
		}
	}
	return totals, rows.Err()
}

package sync

import (
	"database/sql"
	"fmt"

	"github.com/eventplus/evp/internal/db"
	"github.com/eventplus/evp/internal/models"
)

// Shim ties the local record store to the remote document mirror. Every
// mutation commits the local row and a durable outbox intent for the mirror
// in a single transaction, so a row can never exist without its intent.
// Callers never wait on the remote write; the drainer replays intents until
// the mirror confirms them.
type Shim struct {
	db *db.DB
}

// New creates a shim over an already-open database handle.
// The handle is injected; the shim never materializes its own.
func New(database *db.DB) *Shim {
	return &Shim{db: database}
}

// DB exposes the underlying store for read paths that bypass the shim.
func (s *Shim) DB() *db.DB {
	return s.db
}

// CreateEvent inserts the event and queues the mirror write keyed by the
// generated ID, committed together.
func (s *Shim) CreateEvent(event *models.Event) error {
	return s.db.WriteTx(func(tx *sql.Tx) error {
		if err := s.db.CreateEventTx(tx, event); err != nil {
			return err
		}
		return s.enqueueMerge(tx, EntityEvent, event.ID, EventFields(event))
	})
}

// UpdateEvent overwrites the local row and queues a mirror merge of the full
// record, committed together.
func (s *Shim) UpdateEvent(event *models.Event) error {
	return s.db.WriteTx(func(tx *sql.Tx) error {
		if err := s.db.UpdateEventTx(tx, event); err != nil {
			return err
		}
		return s.enqueueMerge(tx, EntityEvent, event.ID, EventFields(event))
	})
}

// DeleteEvent removes the event and its children locally and queues mirror
// deletes for every removed document, all in one transaction. Child IDs are
// captured before the cascade so their mirror documents are cleaned up too.
func (s *Shim) DeleteEvent(id string) error {
	return s.db.WriteTx(func(tx *sql.Tx) error {
		guestIDs, err := s.db.GuestIDsByEventTx(tx, id)
		if err != nil {
			return fmt.Errorf("list guests: %w", err)
		}
		taskIDs, err := s.db.TaskIDsByEventTx(tx, id)
		if err != nil {
			return fmt.Errorf("list tasks: %w", err)
		}

		if err := s.db.DeleteEventTx(tx, id); err != nil {
			return err
		}

		for _, gid := range guestIDs {
			if err := s.db.EnqueueIntentTx(tx, EntityGuest, db.OpDelete, gid, nil); err != nil {
				return fmt.Errorf("enqueue guest delete: %w", err)
			}
		}
		for _, tid := range taskIDs {
			if err := s.db.EnqueueIntentTx(tx, EntityTask, db.OpDelete, tid, nil); err != nil {
				return fmt.Errorf("enqueue task delete: %w", err)
			}
		}
		return s.db.EnqueueIntentTx(tx, EntityEvent, db.OpDelete, id, nil)
	})
}

// CreateGuest inserts the guest and queues the mirror write, committed
// together.
func (s *Shim) CreateGuest(guest *models.Guest) error {
	return s.db.WriteTx(func(tx *sql.Tx) error {
		if err := s.db.CreateGuestTx(tx, guest); err != nil {
			return err
		}
		return s.enqueueMerge(tx, EntityGuest, guest.ID, GuestFields(guest))
	})
}

// UpdateGuest overwrites the local row and queues a mirror merge, committed
// together.
func (s *Shim) UpdateGuest(guest *models.Guest) error {
	return s.db.WriteTx(func(tx *sql.Tx) error {
		if err := s.db.UpdateGuestTx(tx, guest); err != nil {
			return err
		}
		return s.enqueueMerge(tx, EntityGuest, guest.ID, GuestFields(guest))
	})
}

// DeleteGuest removes the guest locally and queues the mirror delete,
// committed together.
func (s *Shim) DeleteGuest(id string) error {
	return s.db.WriteTx(func(tx *sql.Tx) error {
		if err := s.db.DeleteGuestTx(tx, id); err != nil {
			return err
		}
		return s.db.EnqueueIntentTx(tx, EntityGuest, db.OpDelete, id, nil)
	})
}

// CreateTask inserts the task and queues the mirror write, committed
// together.
func (s *Shim) CreateTask(task *models.Task) error {
	return s.db.WriteTx(func(tx *sql.Tx) error {
		if err := s.db.CreateTaskTx(tx, task); err != nil {
			return err
		}
		return s.enqueueMerge(tx, EntityTask, task.ID, TaskFields(task))
	})
}

// UpdateTask overwrites the local row and queues a mirror merge, committed
// together.
func (s *Shim) UpdateTask(task *models.Task) error {
	return s.db.WriteTx(func(tx *sql.Tx) error {
		if err := s.db.UpdateTaskTx(tx, task); err != nil {
			return err
		}
		return s.enqueueMerge(tx, EntityTask, task.ID, TaskFields(task))
	})
}

// DeleteTask removes the task locally and queues the mirror delete,
// committed together.
func (s *Shim) DeleteTask(id string) error {
	return s.db.WriteTx(func(tx *sql.Tx) error {
		if err := s.db.DeleteTaskTx(tx, id); err != nil {
			return err
		}
		return s.db.EnqueueIntentTx(tx, EntityTask, db.OpDelete, id, nil)
	})
}

// SaveUser upserts the user and queues a mirror merge keyed by the provider
// UID, committed together.
func (s *Shim) SaveUser(user *models.User) error {
	return s.db.WriteTx(func(tx *sql.Tx) error {
		if err := s.db.SaveUserTx(tx, user); err != nil {
			return err
		}
		return s.enqueueMerge(tx, EntityUser, user.UID, UserFields(user))
	})
}

// DeleteUser removes the user locally and queues the mirror delete,
// committed together.
func (s *Shim) DeleteUser(uid string) error {
	return s.db.WriteTx(func(tx *sql.Tx) error {
		if err := s.db.DeleteUserTx(tx, uid); err != nil {
			return err
		}
		return s.db.EnqueueIntentTx(tx, EntityUser, db.OpDelete, uid, nil)
	})
}

func (s *Shim) enqueueMerge(tx *sql.Tx, entityType, entityID string, fields map[string]interface{}) error {
	payload, err := marshalFields(fields)
	if err != nil {
		return err
	}
	if err := s.db.EnqueueIntentTx(tx, entityType, db.OpMerge, entityID, payload); err != nil {
		return fmt.Errorf("enqueue %s merge: %w", entityType, err)
	}
	return nil
}

package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/eventplus/evp/internal/db"
)

const (
	backoffBase = 30 * time.Second
	backoffMax  = time.Hour

	// DefaultDrainLimit bounds how many intents one drain pass loads.
	DefaultDrainLimit = 200
)

// MirrorWriter is the subset of the mirror client the drainer needs.
type MirrorWriter interface {
	Merge(ctx context.Context, collection, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, collection, id string) error
}

// DrainResult summarises one drain pass over the outbox.
type DrainResult struct {
	Attempted int
	Completed int
	Failed    int
	Skipped   int   // not due yet, or blocked behind an earlier intent
	Remaining int64 // pending intents left after the pass
}

// Drain replays pending outbox intents against the mirror. Intents for the
// same entity replay strictly in enqueue order: a failed or not-yet-due
// intent blocks later intents for that entity until it succeeds, so the
// mirror never sees writes out of order.
func Drain(ctx context.Context, database *db.DB, client MirrorWriter, limit int) (*DrainResult, error) {
	if limit <= 0 {
		limit = DefaultDrainLimit
	}

	intents, err := database.PendingIntents(limit)
	if err != nil {
		return nil, fmt.Errorf("load pending intents: %w", err)
	}

	result := &DrainResult{}
	now := time.Now()
	blocked := make(map[string]bool) // entity_type/entity_id -> earlier intent unresolved

	for _, intent := range intents {
		if err := ctx.Err(); err != nil {
			break
		}

		key := intent.EntityType + "/" + intent.EntityID
		if blocked[key] {
			result.Skipped++
			continue
		}
		if intent.NextAttemptAt.After(now) {
			blocked[key] = true
			result.Skipped++
			continue
		}

		result.Attempted++
		if err := applyIntent(ctx, client, intent); err != nil {
			result.Failed++
			blocked[key] = true
			next := now.Add(nextBackoff(intent.Attempts))
			slog.Debug("mirror write failed", "intent", intent.ID, "entity", key, "err", err)
			if markErr := database.MarkIntentFailed(intent.ID, err.Error(), next); markErr != nil {
				return result, fmt.Errorf("mark intent failed: %w", markErr)
			}
			continue
		}

		if err := database.MarkIntentDone(intent.ID); err != nil {
			return result, fmt.Errorf("mark intent done: %w", err)
		}
		result.Completed++
	}

	result.Remaining, err = database.CountPendingIntents()
	if err != nil {
		return result, fmt.Errorf("count pending: %w", err)
	}
	return result, nil
}

// applyIntent issues one mirror call for an intent.
func applyIntent(ctx context.Context, client MirrorWriter, intent db.Intent) error {
	collection, err := CollectionFor(intent.EntityType)
	if err != nil {
		return err
	}

	switch intent.Op {
	case db.OpMerge:
		var fields map[string]interface{}
		if err := json.Unmarshal(intent.Payload, &fields); err != nil {
			return fmt.Errorf("decode intent payload: %w", err)
		}
		return client.Merge(ctx, collection, intent.EntityID, fields)
	case db.OpDelete:
		return client.Delete(ctx, collection, intent.EntityID)
	}
	return fmt.Errorf("unknown intent op: %s", intent.Op)
}

// nextBackoff returns the delay before the given retry attempt.
// Exponential from 30s, capped at an hour.
func nextBackoff(attempts int) time.Duration {
	d := backoffBase
	for i := 0; i < attempts; i++ {
		d *= 2
		if d >= backoffMax {
			return backoffMax
		}
	}
	return d
}

package db

import (
	"testing"
	"time"
)

func TestEnqueueAndListIntents(t *testing.T) {
	database := testDB(t)

	if err := database.EnqueueIntent("event", OpMerge, "ev-1", []byte(`{"name":"Party"}`)); err != nil {
		t.Fatalf("EnqueueIntent failed: %v", err)
	}
	if err := database.EnqueueIntent("event", OpDelete, "ev-1", nil); err != nil {
		t.Fatalf("EnqueueIntent failed: %v", err)
	}

	intents, err := database.PendingIntents(0)
	if err != nil {
		t.Fatalf("PendingIntents failed: %v", err)
	}
	if len(intents) != 2 {
		t.Fatalf("got %d intents, want 2", len(intents))
	}
	if intents[0].Op != OpMerge || intents[1].Op != OpDelete {
		t.Fatalf("intents out of enqueue order: %s then %s", intents[0].Op, intents[1].Op)
	}
	if string(intents[1].Payload) != "{}" {
		t.Fatalf("nil payload should be stored as {}, got %q", intents[1].Payload)
	}
}

func TestMarkIntentDoneRemovesFromPending(t *testing.T) {
	database := testDB(t)

	if err := database.EnqueueIntent("guest", OpMerge, "gs-1", []byte(`{}`)); err != nil {
		t.Fatalf("EnqueueIntent failed: %v", err)
	}
	intents, err := database.PendingIntents(0)
	if err != nil {
		t.Fatalf("PendingIntents failed: %v", err)
	}

	if err := database.MarkIntentDone(intents[0].ID); err != nil {
		t.Fatalf("MarkIntentDone failed: %v", err)
	}

	count, err := database.CountPendingIntents()
	if err != nil {
		t.Fatalf("CountPendingIntents failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("got %d pending, want 0", count)
	}
}

func TestMarkIntentFailedTracksAttempts(t *testing.T) {
	database := testDB(t)

	if err := database.EnqueueIntent("task", OpMerge, "tk-1", []byte(`{}`)); err != nil {
		t.Fatalf("EnqueueIntent failed: %v", err)
	}
	intents, _ := database.PendingIntents(0)

	next := time.Now().Add(30 * time.Second)
	if err := database.MarkIntentFailed(intents[0].ID, "mirror unreachable", next); err != nil {
		t.Fatalf("MarkIntentFailed failed: %v", err)
	}

	intents, err := database.PendingIntents(0)
	if err != nil {
		t.Fatalf("PendingIntents failed: %v", err)
	}
	if intents[0].Attempts != 1 {
		t.Fatalf("got %d attempts, want 1", intents[0].Attempts)
	}
	if intents[0].LastError != "mirror unreachable" {
		t.Fatalf("got last error %q", intents[0].LastError)
	}
	if !intents[0].NextAttemptAt.After(time.Now().Add(20 * time.Second)) {
		t.Fatalf("next attempt not pushed out: %v", intents[0].NextAttemptAt)
	}

	msg, err := database.LastIntentError()
	if err != nil {
		t.Fatalf("LastIntentError failed: %v", err)
	}
	if msg != "mirror unreachable" {
		t.Fatalf("got %q", msg)
	}
}

func TestPruneDoneIntents(t *testing.T) {
	database := testDB(t)

	if err := database.EnqueueIntent("event", OpMerge, "ev-1", []byte(`{}`)); err != nil {
		t.Fatalf("EnqueueIntent failed: %v", err)
	}
	if err := database.EnqueueIntent("event", OpMerge, "ev-2", []byte(`{}`)); err != nil {
		t.Fatalf("EnqueueIntent failed: %v", err)
	}

	intents, _ := database.PendingIntents(0)
	if err := database.MarkIntentDone(intents[0].ID); err != nil {
		t.Fatalf("MarkIntentDone failed: %v", err)
	}

	// Cutoff in the future sweeps everything already confirmed.
	pruned, err := database.PruneDoneIntents(time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("PruneDoneIntents failed: %v", err)
	}
	if pruned != 1 {
		t.Fatalf("got %d pruned, want 1", pruned)
	}

	count, _ := database.CountPendingIntents()
	if count != 1 {
		t.Fatalf("pending intents must survive pruning, got %d", count)
	}
}

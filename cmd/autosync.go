package cmd

import (
	"context"
	"log/slog"

	"github.com/eventplus/evp/internal/config"
	"github.com/eventplus/evp/internal/db"
	evsync "github.com/eventplus/evp/internal/sync"
)

// maybeAutoSync drains the outbox after a mutating command. Best-effort and
// bounded: a slow or unreachable mirror never delays the local result beyond
// the configured timeout, and failures stay queued for the next pass.
func maybeAutoSync(database *db.DB) {
	if !config.AutoSyncEnabled() {
		return
	}
	auth, err := config.LoadAuth()
	if err != nil || auth == nil || auth.Token == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.AutoSyncTimeout())
	defer cancel()

	result, err := evsync.Drain(ctx, database, newMirrorClient(auth), evsync.DefaultDrainLimit)
	if err != nil {
		slog.Debug("auto-sync failed", "error", err)
		return
	}
	if result.Failed > 0 {
		slog.Debug("auto-sync left intents pending",
			"failed", result.Failed, "remaining", result.Remaining)
	}
}

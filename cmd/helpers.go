package cmd

import (
	"fmt"

	"github.com/eventplus/evp/internal/config"
	"github.com/eventplus/evp/internal/db"
	"github.com/eventplus/evp/internal/mirror"
)

// openDB opens the project database in the current directory.
func openDB() (*db.DB, error) {
	return db.Open(getBaseDir())
}

// resolveEventID picks the event from the argument list or the project focus.
func resolveEventID(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	cfg, err := config.LoadProject(baseDir)
	if err != nil {
		return "", fmt.Errorf("load project config: %w", err)
	}
	if cfg.ActiveEventID == "" {
		return "", fmt.Errorf("no event specified: pass an event ID or run 'evp focus <event-id>'")
	}
	return cfg.ActiveEventID, nil
}

// newMirrorClient builds a mirror client from stored credentials.
func newMirrorClient(auth *config.AuthCredentials) *mirror.Client {
	deviceID := auth.DeviceID
	if deviceID == "" {
		deviceID, _ = config.GetDeviceID()
	}
	return mirror.New(config.GetMirrorURL(), auth.Token, deviceID)
}

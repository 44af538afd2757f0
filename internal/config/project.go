package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const (
	projectConfigFile = ".eventplus/config.json"
	projectLockFile   = ".eventplus/config.json.lock"
)

// ProjectConfig holds per-project settings stored next to the database.
type ProjectConfig struct {
	ActiveEventID string `json:"active_event_id,omitempty"`
	DefaultCity   string `json:"default_city,omitempty"`
}

// LoadProject reads the project config; a missing file is an empty config.
func LoadProject(baseDir string) (*ProjectConfig, error) {
	data, err := os.ReadFile(filepath.Join(baseDir, projectConfigFile))
	if err != nil {
		if os.IsNotExist(err) {
			return &ProjectConfig{}, nil
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SaveProject writes the project config atomically (temp file + rename).
func SaveProject(baseDir string, cfg *ProjectConfig) error {
	configPath := filepath.Join(baseDir, projectConfigFile)
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "config-*.json.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, configPath)
}

// updateProject applies a mutation under the project config lock.
func updateProject(baseDir string, mutate func(*ProjectConfig)) error {
	return withProjectLock(baseDir, func() error {
		cfg, err := LoadProject(baseDir)
		if err != nil {
			return err
		}
		mutate(cfg)
		return SaveProject(baseDir, cfg)
	})
}

// SetActiveEvent records the event that commands default to.
func SetActiveEvent(baseDir, eventID string) error {
	return updateProject(baseDir, func(cfg *ProjectConfig) { cfg.ActiveEventID = eventID })
}

// ClearActiveEvent drops the active event selection.
func ClearActiveEvent(baseDir string) error {
	return SetActiveEvent(baseDir, "")
}

// SetDefaultCity records the fallback city for weather lookups.
func SetDefaultCity(baseDir, city string) error {
	return updateProject(baseDir, func(cfg *ProjectConfig) { cfg.DefaultCity = city })
}

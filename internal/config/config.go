package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// AutoSyncConfig holds auto-drain settings for the outbox.
type AutoSyncConfig struct {
	Enabled *bool  `json:"enabled,omitempty"` // nil = default true
	Timeout string `json:"timeout,omitempty"` // duration string, default "5s"
}

// MirrorConfig holds remote document mirror settings.
type MirrorConfig struct {
	URL     string         `json:"url"`
	Enabled bool           `json:"enabled"`
	Auto    AutoSyncConfig `json:"auto"`
}

// WeatherConfig holds weather API settings. The API key normally comes from
// the environment or a project .env file, not this file.
type WeatherConfig struct {
	BaseURL string `json:"base_url,omitempty"`
	APIKey  string `json:"api_key,omitempty"`
}

// IdentityConfig holds identity provider settings.
type IdentityConfig struct {
	URL string `json:"url,omitempty"`
}

// Config is the global evp config stored at ~/.config/evp/config.json.
type Config struct {
	Mirror   MirrorConfig   `json:"mirror"`
	Weather  WeatherConfig  `json:"weather"`
	Identity IdentityConfig `json:"identity"`
}

// AuthCredentials stores authentication state at ~/.config/evp/auth.json.
type AuthCredentials struct {
	Token     string `json:"token"`
	UID       string `json:"uid"`
	Email     string `json:"email"`
	ExpiresAt string `json:"expires_at,omitempty"`
	DeviceID  string `json:"device_id"`
}

const (
	defaultMirrorURL   = "http://localhost:8080"
	defaultIdentityURL = "http://localhost:8081"
	defaultWeatherURL  = "https://api.openweathermap.org"
	defaultAutoTimeout = 5 * time.Second
)

// ConfigDir returns ~/.config/evp, creating it if necessary.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	dir := filepath.Join(home, ".config", "evp")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}
	return dir, nil
}

// Load reads the global config from ~/.config/evp/config.json.
func Load() (*Config, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, "config.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the global config to ~/.config/evp/config.json.
func Save(cfg *Config) error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0644)
}

// LoadAuth reads auth credentials from ~/.config/evp/auth.json.
// Returns nil, nil when not signed in.
func LoadAuth() (*AuthCredentials, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, "auth.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var auth AuthCredentials
	if err := json.Unmarshal(data, &auth); err != nil {
		return nil, err
	}
	return &auth, nil
}

// SaveAuth writes auth credentials with owner-only permissions.
func SaveAuth(auth *AuthCredentials) error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(auth, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "auth.json"), data, 0600)
}

// ClearAuth removes stored credentials.
func ClearAuth() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	err = os.Remove(filepath.Join(dir, "auth.json"))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// IsAuthenticated reports whether stored credentials exist.
func IsAuthenticated() bool {
	auth, err := LoadAuth()
	return err == nil && auth != nil && auth.Token != ""
}

// GetDeviceID returns the stable per-install device ID, generating and
// persisting one on first use.
func GetDeviceID() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, "device_id")

	data, err := os.ReadFile(path)
	if err == nil && len(data) > 0 {
		return string(data), nil
	}

	id := uuid.NewString()
	if err := os.WriteFile(path, []byte(id), 0644); err != nil {
		return "", fmt.Errorf("persist device id: %w", err)
	}
	return id, nil
}

// LoadEnv loads a project .env file when present. Missing files are fine;
// the environment may already carry the keys.
func LoadEnv(baseDir string) {
	path := filepath.Join(baseDir, ".env")
	if _, err := os.Stat(path); err == nil {
		godotenv.Load(path)
	}
}

// GetMirrorURL returns the mirror URL, env override first.
func GetMirrorURL() string {
	if v := os.Getenv("EVP_MIRROR_URL"); v != "" {
		return v
	}
	cfg, err := Load()
	if err == nil && cfg.Mirror.URL != "" {
		return cfg.Mirror.URL
	}
	return defaultMirrorURL
}

// GetIdentityURL returns the identity provider URL, env override first.
func GetIdentityURL() string {
	if v := os.Getenv("EVP_IDENTITY_URL"); v != "" {
		return v
	}
	cfg, err := Load()
	if err == nil && cfg.Identity.URL != "" {
		return cfg.Identity.URL
	}
	return defaultIdentityURL
}

// GetWeatherBaseURL returns the weather API base URL, env override first.
func GetWeatherBaseURL() string {
	if v := os.Getenv("EVP_WEATHER_URL"); v != "" {
		return v
	}
	cfg, err := Load()
	if err == nil && cfg.Weather.BaseURL != "" {
		return cfg.Weather.BaseURL
	}
	return defaultWeatherURL
}

// GetWeatherAPIKey returns the weather API key from the environment
// (EVP_WEATHER_API_KEY, typically via the project .env) or the config file.
func GetWeatherAPIKey() string {
	if v := os.Getenv("EVP_WEATHER_API_KEY"); v != "" {
		return v
	}
	cfg, err := Load()
	if err == nil {
		return cfg.Weather.APIKey
	}
	return ""
}

// AutoSyncEnabled reports whether mutating commands should drain the outbox.
// EVP_AUTO_SYNC overrides config; the default is on.
func AutoSyncEnabled() bool {
	if v := os.Getenv("EVP_AUTO_SYNC"); v != "" {
		return v == "1" || v == "true"
	}
	cfg, err := Load()
	if err == nil && cfg.Mirror.Auto.Enabled != nil {
		return *cfg.Mirror.Auto.Enabled
	}
	return true
}

// AutoSyncTimeout returns the bound on a post-mutation drain pass.
func AutoSyncTimeout() time.Duration {
	cfg, err := Load()
	if err == nil && cfg.Mirror.Auto.Timeout != "" {
		if d, err := time.ParseDuration(cfg.Mirror.Auto.Timeout); err == nil && d > 0 {
			return d
		}
	}
	return defaultAutoTimeout
}

// Package config loads modsmith's TOML configuration file.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/modsmith/modsmith/pkg/errors"
)

// Config is the user configuration, read from
// $XDG_CONFIG_HOME/modsmith/config.toml (or ~/.config/modsmith/config.toml).
type Config struct {
	Instance  Instance  `toml:"instance"`
	Providers Providers `toml:"providers"`
	Cache     Cache     `toml:"cache"`
}

// Instance locates the game installation downloads go into.
type Instance struct {
	Dir         string `toml:"dir"`
	GameVersion string `toml:"game_version"`
	Loader      string `toml:"loader"`
}

// Providers carries per-provider settings.
type Providers struct {
	Modrinth Modrinth `toml:"modrinth"`
	Flame    Flame    `toml:"flame"`
}

// Modrinth settings. The user agent identifies the tool per API policy.
type Modrinth struct {
	UserAgent string `toml:"user_agent"`
}

// Flame settings. The API key is required for any CurseForge request.
type Flame struct {
	APIKey string `toml:"api_key"`
}

// Cache controls metadata caching.
type Cache struct {
	// TTL for cached provider responses, e.g. "1h".
	TTL duration `toml:"ttl"`

	// Redis, when set, replaces the file cache with a shared backend.
	Redis Redis `toml:"redis"`
}

// Redis connection settings. An empty Addr disables Redis.
type Redis struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// duration lets TOML carry values like "30m" or "24h".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Providers: Providers{
			Modrinth: Modrinth{UserAgent: "modsmith"},
		},
		Cache: Cache{TTL: duration{time.Hour}},
	}
}

// TTL returns the configured cache TTL, falling back to one hour.
func (c Cache) EffectiveTTL() time.Duration {
	if c.TTL.Duration <= 0 {
		return time.Hour
	}
	return c.TTL.Duration
}

// Path returns the default config file location.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "modsmith", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "modsmith", "config.toml"), nil
}

// Load reads the config file at path. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "failed to read %s", path)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "failed to parse %s", path)
	}
	return cfg, nil
}

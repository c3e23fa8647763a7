// Package config provides configuration loading and defaults for the
// presencecord daemon.
//
// Configuration is loaded from a TOML file in the user's data directory.
// It holds the Discord bot credentials, the Steam accounts to track, the
// poll cadence, notification filters, and daemon behavior.
package config

//go:generate go run ../../cmd/genconfig

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // tracker.time_zone must load on hosts without a zoneinfo database

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"
	"tools.zach/dev/presencecord/internal/atomicfile"
	"tools.zach/dev/presencecord/internal/migrate"
	"tools.zach/dev/presencecord/internal/paths"
)

// ///////////////////////////////////////////////
// Configuration Types
// ///////////////////////////////////////////////

// Config represents the top-level application configuration.
type Config struct {
	// Version is the config schema version used for migrations.
	Version int `toml:"version"`
	// Discord holds the bot credentials and the notification channel.
	Discord DiscordConfig `toml:"discord"`
	// Steam holds the Web API keys and the accounts to track.
	Steam SteamConfig `toml:"steam"`
	// Tracker holds poll loop settings.
	Tracker TrackerConfig `toml:"tracker"`
	// Notify holds notification filtering and queueing settings.
	Notify NotifyConfig `toml:"notify"`
	// HTTP holds the status server settings.
	HTTP HTTPConfig `toml:"http"`
	// Log holds logging settings.
	Log LogConfig `toml:"log"`
}

// DiscordConfig holds Discord bot settings.
type DiscordConfig struct {
	// Token is the bot token used for the REST API.
	Token string `toml:"token"`
	// ChannelID is the snowflake of the channel notifications are posted to.
	ChannelID string `toml:"channel_id"`
}

// SteamConfig holds Steam Web API settings.
type SteamConfig struct {
	// APIKeys are Steam Web API keys. Only the first is used.
	APIKeys []string `toml:"api_keys"`
	// IDs are the SteamID64 values of the tracked accounts.
	IDs []uint64 `toml:"ids"`
	// BaseURL overrides the Steam Web API endpoint.
	BaseURL string `toml:"base_url,omitempty"`
	// TimeoutSeconds bounds a whole sample fetch.
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// TrackerConfig holds poll loop settings.
type TrackerConfig struct {
	// RefreshIntervalSeconds is the sleep between poll cycles.
	RefreshIntervalSeconds int `toml:"refresh_interval_seconds"`
	// TimeZone is the IANA zone notification timestamps are rendered in.
	TimeZone string `toml:"time_zone"`
}

// NotifyConfig holds notification settings.
type NotifyConfig struct {
	// MutedActivities are glob patterns; starting or stopping a matching
	// game is not notified.
	MutedActivities []string `toml:"muted_activities"`
	// QueueSize is the number of notifications that may wait for delivery.
	QueueSize int `toml:"queue_size"`
}

// HTTPConfig holds the status server settings.
type HTTPConfig struct {
	// Listen is the address the status server binds. Empty disables it.
	Listen string `toml:"listen"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is the minimum log level (trace, debug, info, warn, error).
	Level string `toml:"level"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation.
	MaxSizeMB int `toml:"max_size_mb"`
}

// ///////////////////////////////////////////////
// Default Configuration
// ///////////////////////////////////////////////

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: migrate.Config.CurrentVersion,
		Steam: SteamConfig{
			APIKeys:        []string{},
			IDs:            []uint64{},
			TimeoutSeconds: 20,
		},
		Tracker: TrackerConfig{
			RefreshIntervalSeconds: 30,
			TimeZone:               "UTC",
		},
		Notify: NotifyConfig{
			MutedActivities: []string{},
			QueueSize:       64,
		},
		HTTP: HTTPConfig{
			Listen: "127.0.0.1:8787",
		},
		Log: LogConfig{
			Level:     "info",
			MaxSizeMB: 10,
		},
	}
}

// ExampleConfig returns a Config suitable for generating config.default.toml.
func ExampleConfig() *Config {
	return DefaultConfig()
}

// ///////////////////////////////////////////////
// PeekVersion
// ///////////////////////////////////////////////

// PeekVersion reads just the version field from raw TOML bytes.
// Returns 1 if the version field is missing or zero.
func PeekVersion(data []byte) int {
	var v struct {
		Version int `toml:"version"`
	}
	if err := toml.Unmarshal(data, &v); err != nil {
		return 1
	}
	if v.Version == 0 {
		return 1
	}
	return v.Version
}

// ///////////////////////////////////////////////
// Loading and Saving
// ///////////////////////////////////////////////

// Load reads and parses the configuration file from dataDir/config.toml.
// If the file doesn't exist, returns DefaultConfig.
func Load(dataDir string) (*Config, error) {
	path := filepath.Join(dataDir, paths.ConfigFile)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	version := PeekVersion(data)
	shouldMigrate := migrate.Config.NeedsMigration(version, false)
	if shouldMigrate {
		if backupErr := os.WriteFile(path+".bak", data, 0o600); backupErr != nil {
			slog.Warn("failed to write config backup", "error", backupErr)
		}
		var migrateErr error
		data, _, migrateErr = migrate.Config.Run(data, version)
		if migrateErr != nil {
			return nil, fmt.Errorf("migrate config: %w", migrateErr)
		}
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.Version = migrate.Config.CurrentVersion

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	if shouldMigrate {
		if err := cfg.Save(path); err != nil {
			slog.Warn("failed to save migrated config", "error", err)
		}
	}

	return cfg, nil
}

// Save writes the config to disk as TOML using atomic file write. The file
// holds credentials so it is written owner-only.
func (c *Config) Save(path string) error {
	return atomicfile.WriteWith(path, 0o600, func(w *bytes.Buffer) error {
		if err := toml.NewEncoder(w).Encode(c); err != nil {
			return fmt.Errorf("encoding config: %w", err)
		}
		return nil
	})
}

// ///////////////////////////////////////////////
// Validation
// ///////////////////////////////////////////////

// validLogLevels is the set of accepted log level strings.
var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true,
}

// Validate checks that all configuration values are within acceptable ranges.
func (c *Config) Validate() error {
	if c.Tracker.RefreshIntervalSeconds <= 0 {
		return fmt.Errorf("refresh_interval_seconds must be > 0, got %d", c.Tracker.RefreshIntervalSeconds)
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	if c.Steam.TimeoutSeconds <= 0 {
		return fmt.Errorf("steam.timeout_seconds must be > 0, got %d", c.Steam.TimeoutSeconds)
	}

	if c.Notify.QueueSize <= 0 {
		return fmt.Errorf("notify.queue_size must be > 0, got %d", c.Notify.QueueSize)
	}

	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log.level %q: must be trace, debug, info, warn, or error", c.Log.Level)
	}

	if c.Discord.ChannelID != "" {
		if _, err := strconv.ParseUint(c.Discord.ChannelID, 10, 64); err != nil {
			return fmt.Errorf("invalid discord.channel_id %q: must be a numeric snowflake", c.Discord.ChannelID)
		}
	}

	for _, p := range c.Notify.MutedActivities {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid notify.muted_activities pattern %q", p)
		}
	}

	return nil
}

// ///////////////////////////////////////////////
// Accessors
// ///////////////////////////////////////////////

// APIKey returns the first configured Steam API key, or "" if none is set.
func (c *Config) APIKey() string {
	if len(c.Steam.APIKeys) == 0 {
		return ""
	}
	return c.Steam.APIKeys[0]
}

// RefreshInterval returns the poll interval as a duration.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.Tracker.RefreshIntervalSeconds) * time.Second
}

// SteamTimeout returns the sample fetch bound as a duration.
func (c *Config) SteamTimeout() time.Duration {
	return time.Duration(c.Steam.TimeoutSeconds) * time.Second
}

// Location loads the configured time zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Tracker.TimeZone == "" {
		return nil, fmt.Errorf("tracker.time_zone must be set")
	}
	loc, err := time.LoadLocation(c.Tracker.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid tracker.time_zone %q: %w", c.Tracker.TimeZone, err)
	}
	return loc, nil
}

// ///////////////////////////////////////////////
// Tracked Accounts
// ///////////////////////////////////////////////

// AddID appends id to the tracked accounts. It reports false if id was
// already tracked.
func (c *Config) AddID(id uint64) bool {
	if slices.Contains(c.Steam.IDs, id) {
		return false
	}
	c.Steam.IDs = append(c.Steam.IDs, id)
	return true
}

// RemoveID drops id from the tracked accounts. It reports false if id was
// not tracked.
func (c *Config) RemoveID(id uint64) bool {
	i := slices.Index(c.Steam.IDs, id)
	if i < 0 {
		return false
	}
	c.Steam.IDs = slices.Delete(c.Steam.IDs, i, i+1)
	return true
}

// ParseSteamID parses a SteamID64 given on the command line.
func ParseSteamID(s string) (uint64, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid steam id %q: must be a positive SteamID64", s)
	}
	return id, nil
}

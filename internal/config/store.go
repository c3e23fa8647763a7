package config

import (
	"log/slog"
	"strings"
	"sync"
)

// Store holds the live configuration for a running daemon. Readers get the
// current snapshot; [Store.Reload] swaps it after a file change.
type Store struct {
	dataDir string

	mu  sync.RWMutex
	cfg *Config
}

// NewStore wraps an already loaded config.
func NewStore(dataDir string, cfg *Config) *Store {
	return &Store{dataDir: dataDir, cfg: cfg}
}

// Current returns the active configuration. Callers must not modify it.
func (s *Store) Current() *Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Reload re-reads config.toml. If the file no longer parses or validates the
// previous configuration stays active and the error is returned.
func (s *Store) Reload() error {
	cfg, err := Load(s.dataDir)
	if err != nil {
		slog.Warn("config reload rejected, keeping previous config", "error", err)
		return err
	}

	s.mu.Lock()
	prev := s.cfg
	s.cfg = cfg
	s.mu.Unlock()

	if prev != nil {
		if keys := restartRequired(prev, cfg); len(keys) > 0 {
			slog.Warn("config changes need a restart to apply", "keys", strings.Join(keys, ","))
		}
	}
	slog.Info("config reloaded", "tracked", len(cfg.Steam.IDs), "api_keys", len(cfg.Steam.APIKeys))
	return nil
}

// restartRequired lists the keys that differ between prev and next but are
// only read at startup. Tracked ids, API keys and muted activities are read
// every cycle and never appear here.
func restartRequired(prev, next *Config) []string {
	var keys []string
	if prev.Tracker.TimeZone != next.Tracker.TimeZone {
		keys = append(keys, "tracker.time_zone")
	}
	if prev.Tracker.RefreshIntervalSeconds != next.Tracker.RefreshIntervalSeconds {
		keys = append(keys, "tracker.refresh_interval_seconds")
	}
	if prev.Discord != next.Discord {
		keys = append(keys, "discord")
	}
	if prev.Steam.BaseURL != next.Steam.BaseURL || prev.Steam.TimeoutSeconds != next.Steam.TimeoutSeconds {
		keys = append(keys, "steam.base_url/timeout_seconds")
	}
	if prev.Notify.QueueSize != next.Notify.QueueSize {
		keys = append(keys, "notify.queue_size")
	}
	if prev.HTTP != next.HTTP {
		keys = append(keys, "http.listen")
	}
	if prev.Log != next.Log {
		keys = append(keys, "log")
	}
	return keys
}

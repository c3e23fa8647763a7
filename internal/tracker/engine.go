// Package tracker runs the poll loop: sample every tracked account, diff
// against the last snapshot, replace the snapshot, and hand rendered
// notifications to the notifier.
package tracker

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"tools.zach/dev/presencecord/internal/logger"
	"tools.zach/dev/presencecord/internal/metrics"
	"tools.zach/dev/presencecord/internal/presence"
)

// ///////////////////////////////////////////////
// Collaborators
// ///////////////////////////////////////////////

// Sampler fetches the current state of the given accounts. Accounts that do
// not resolve are omitted; a non-nil error means the whole fetch failed.
type Sampler interface {
	Fetch(ctx context.Context, apiKey string, ids []uint64) (presence.Snapshot, error)
}

// Notifier accepts rendered messages. Deliver must not block.
type Notifier interface {
	Deliver(msg presence.Message)
}

// Settings are the per-cycle inputs read from live configuration.
type Settings struct {
	// APIKey is the Steam Web API key used for this cycle.
	APIKey string
	// IDs are the SteamID64 values to sample.
	IDs []uint64
	// MutedActivities are glob patterns; activity changes for matching
	// game names are not notified.
	MutedActivities []string
}

// SettingsFunc returns the settings for the next cycle. It is called once
// per cycle so configuration edits apply without a restart.
type SettingsFunc func() Settings

// ///////////////////////////////////////////////
// Engine
// ///////////////////////////////////////////////

// Options configures an [Engine].
type Options struct {
	// Interval is the sleep between cycles.
	Interval time.Duration
	// Location is the zone notification times are rendered in.
	Location *time.Location
	// History receives every emitted change. Optional.
	History *History
	// Now overrides the clock. Used by tests.
	Now func() time.Time
}

// Engine drives the poll loop. Cycles never overlap.
type Engine struct {
	sampler  Sampler
	notifier Notifier
	store    *presence.Store
	settings SettingsFunc

	interval time.Duration
	loc      *time.Location
	history  *History
	now      func() time.Time

	// cycleMu serializes Cycle so manual and timed cycles cannot interleave.
	cycleMu sync.Mutex
}

// New creates an Engine. store is owned by the engine from here on; other
// goroutines may only read it.
func New(sampler Sampler, notifier Notifier, store *presence.Store, settings SettingsFunc, opts Options) *Engine {
	if opts.Interval <= 0 {
		opts.Interval = 30 * time.Second
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Engine{
		sampler:  sampler,
		notifier: notifier,
		store:    store,
		settings: settings,
		interval: opts.Interval,
		loc:      opts.Location,
		history:  opts.History,
		now:      opts.Now,
	}
}

// Run cycles immediately and then once per interval until ctx is done.
func (e *Engine) Run(ctx context.Context) {
	slog.Info("poll loop started", "interval", e.interval.String())
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("poll loop stopped")
			return
		case <-timer.C:
		}

		e.Cycle(ctx)
		if ctx.Err() != nil {
			slog.Info("poll loop stopped")
			return
		}
		logger.Trace(slog.Default(), "poll loop idle", "next_in", e.interval.String())
		timer.Reset(e.interval)
	}
}

// Cycle runs one fetch-diff-replace-notify pass and returns the changes it
// emitted, in notification order.
//
// Accounts are visited in ascending id order. Only accounts present in both
// the previous snapshot and the fetch are diffed. On a successful fetch the
// snapshot is replaced by the fetch result as a whole, so accounts missing
// from it are forgotten. On a failed fetch nothing changes.
func (e *Engine) Cycle(ctx context.Context) []presence.Change {
	e.cycleMu.Lock()
	defer e.cycleMu.Unlock()

	start := time.Now()
	s := e.settings()
	prev := e.store.Read()

	cur, err := e.sampler.Fetch(ctx, s.APIKey, s.IDs)
	if err != nil {
		metrics.IncSampleFailure()
		slog.Warn("sample fetch failed, skipping cycle", "tracked", len(s.IDs), "error", err)
		return nil
	}
	if len(cur) < len(s.IDs) {
		slog.Debug("some accounts did not resolve", "tracked", len(s.IDs), "resolved", len(cur))
	}

	at := e.now()
	ids := make([]uint64, 0, len(cur))
	for id := range cur {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	var out []presence.Change
	for _, id := range ids {
		before, seen := prev[id]
		if !seen {
			logger.Trace(slog.Default(), "first sighting", "steam_id", id, "name", cur[id].ProfileName)
			continue
		}
		for _, c := range presence.Diff(before, cur[id]) {
			c.SteamID = id
			c.At = at
			if muted(c, s.MutedActivities) {
				slog.Debug("activity change muted", "steam_id", id, "activity", c.Activity)
				continue
			}
			out = append(out, c)
		}
	}

	e.store.Replace(cur)

	for _, c := range out {
		metrics.IncChange(c.Kind.String())
		if e.history != nil {
			e.history.Add(c)
		}
		msg := Render(c, e.loc)
		slog.Info("presence change", "steam_id", c.SteamID, "kind", c.Kind.String(), "title", msg.Title)
		e.notifier.Deliver(msg)
	}

	metrics.ObserveCycle(time.Since(start), len(cur))
	slog.Debug("cycle complete", "observed", len(cur), "changes", len(out), "duration", time.Since(start).String())
	return out
}

// muted reports whether c is an activity change for a game matching one of
// patterns.
func muted(c presence.Change, patterns []string) bool {
	if c.Kind != presence.ActivityStarted && c.Kind != presence.ActivityStopped {
		return false
	}
	for _, p := range patterns {
		ok, err := doublestar.Match(p, c.Activity)
		if err != nil {
			slog.Warn("invalid muted_activities pattern", "pattern", p, "error", err)
			continue
		}
		if ok {
			return true
		}
	}
	return false
}

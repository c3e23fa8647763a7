package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"tools.zach/dev/presencecord/internal/config"
	"tools.zach/dev/presencecord/internal/discord"
	"tools.zach/dev/presencecord/internal/logger"
	"tools.zach/dev/presencecord/internal/metrics"
	"tools.zach/dev/presencecord/internal/presence"
	"tools.zach/dev/presencecord/internal/server"
	"tools.zach/dev/presencecord/internal/steam"
	"tools.zach/dev/presencecord/internal/tracker"
	"tools.zach/dev/presencecord/internal/watch"
)

const (
	// historySize is the number of change events kept for /events.
	historySize = 100
	// sendTimeout bounds one Discord post, retries included.
	sendTimeout = 30 * time.Second
	// shutdownTimeout bounds draining the notification queue and the
	// status server on exit.
	shutdownTimeout = 10 * time.Second
	// reloadSettle is how long the config file must be quiet before it is
	// re-read.
	reloadSettle = 250 * time.Millisecond
	// steamRetries and discordRetries cap retryablehttp attempts on 429/5xx.
	steamRetries   = 2
	discordRetries = 3
)

// daemonOptions holds flags for [runDaemon].
type daemonOptions struct {
	// Foreground tees log output to Stderr.
	Foreground bool
	Stderr     io.Writer
}

func newRunCmd(root *rootOptions) *cobra.Command {
	var foreground bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the tracking daemon",
		Long:  "Run polls Steam on the configured interval and posts every presence change to the Discord channel until interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDaemon(cmd.Context(), root.paths(), daemonOptions{
				Foreground: foreground,
				Stderr:     cmd.ErrOrStderr(),
			})
		},
	}
	cmd.Flags().BoolVar(&foreground, "foreground", false, "Also write log lines to stderr")
	return cmd
}

// ///////////////////////////////////////////////
// Daemon
// ///////////////////////////////////////////////

// runDaemon starts every component and blocks until ctx is done or a
// shutdown signal arrives. Only startup failures are returned; once the
// poll loop is running, errors are logged and counted.
func runDaemon(ctx context.Context, dp DataPaths, opts daemonOptions) error {
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	if err := os.MkdirAll(dp.Root, 0o700); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	if alive, pid := checkStalePID(dp); alive {
		return fmt.Errorf("daemon already running (pid %d)", pid)
	}

	if _, err := writeDefaultConfig(dp.Config(), false); err != nil {
		fmt.Fprintf(opts.Stderr, "warning: failed to write default config: %v\n", err)
	}

	cfg, err := config.Load(dp.Root)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	var tee io.Writer
	if opts.Foreground {
		tee = opts.Stderr
	}
	log, logCloser, err := logger.New(logger.Options{
		Path:      dp.Log(),
		Level:     logger.ParseLevel(cfg.Log.Level),
		MaxSizeMB: cfg.Log.MaxSizeMB,
		Tee:       tee,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logCloser.Close()
	prevLog := slog.Default()
	slog.SetDefault(log)
	defer slog.SetDefault(prevLog)

	slog.Info("presencecord starting",
		"version", resolveVersion(),
		"data_dir", dp.Root,
		"tracked", len(cfg.Steam.IDs),
		"time_zone", loc.String(),
	)

	token := pidToken()
	pidFile, err := writePID(dp, token)
	if err != nil {
		slog.Error("failed to write PID file", "error", err)
		return err
	}
	defer removePID(dp, token, pidFile)

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	if cfg.APIKey() == "" {
		slog.Warn("steam.api_keys is empty; every poll will fail until a key is configured")
	}
	if cfg.Discord.Token == "" || cfg.Discord.ChannelID == "" {
		slog.Warn("discord token or channel_id missing; notifications will not be delivered")
	}

	cfgStore := config.NewStore(dp.Root, cfg)
	sampler := steam.NewClient(steam.Options{
		BaseURL:  cfg.Steam.BaseURL,
		Timeout:  cfg.SteamTimeout(),
		RetryMax: steamRetries,
	})
	sender := discord.NewClient(cfg.Discord.Token, cfg.Discord.ChannelID, discord.Options{
		RetryMax: discordRetries,
	})
	dispatcher := discord.NewDispatcher(sender, cfg.Notify.QueueSize, sendTimeout)
	store := presence.NewStore()
	history := tracker.NewHistory(historySize)

	engine := tracker.New(sampler, dispatcher, store, settingsFrom(cfgStore), tracker.Options{
		Interval: cfg.RefreshInterval(),
		Location: loc,
		History:  history,
	})

	var srv *http.Server
	if cfg.HTTP.Listen != "" {
		ln, err := net.Listen("tcp", cfg.HTTP.Listen)
		if err != nil {
			_ = dispatcher.Close(context.Background())
			return fmt.Errorf("listen %s: %w", cfg.HTTP.Listen, err)
		}
		gin.SetMode(gin.ReleaseMode)
		srv = server.NewServer(cfg.HTTP.Listen, server.NewRouter(store, history).Handler())
		go func() {
			if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("status server stopped", "error", err)
			}
		}()
		slog.Info("status server listening", "addr", ln.Addr().String())
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh, stopSignals := signalChannel()
	defer stopSignals()
	go func() {
		select {
		case sig := <-sigCh:
			slog.Info("received shutdown signal", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	if w, err := watch.New(dp.Config()); err != nil {
		slog.Warn("config watcher unavailable, hot reload disabled", "error", err)
	} else {
		defer w.Close()
		if w.Polling() {
			slog.Info("using polling mode for config watching")
		}
		go watch.OnChange(ctx, w, reloadSettle, func() {
			_ = cfgStore.Reload()
		})
	}

	engine.Run(ctx)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if srv != nil {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("status server shutdown", "error", err)
		}
	}
	if err := dispatcher.Close(shutdownCtx); err != nil {
		slog.Warn("pending notifications dropped at shutdown", "error", err)
	}
	slog.Info("presencecord stopped")
	return nil
}

// settingsFrom reads the per-cycle tracker inputs from the live config, so
// `track add` and hand edits take effect on the next cycle.
func settingsFrom(s *config.Store) tracker.SettingsFunc {
	return func() tracker.Settings {
		cfg := s.Current()
		return tracker.Settings{
			APIKey:          cfg.APIKey(),
			IDs:             slices.Clone(cfg.Steam.IDs),
			MutedActivities: slices.Clone(cfg.Notify.MutedActivities),
		}
	}
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/bnema/edc/internal/adapters/journal/tail"
	"github.com/bnema/edc/internal/adapters/metrics"
	"github.com/bnema/edc/internal/adapters/render/hud"
	"github.com/bnema/edc/internal/application"
	"github.com/bnema/edc/internal/ports"
)

const metricsShutdownTimeout = 2 * time.Second

func newWatchCmd(app *app) *cobra.Command {
	var (
		dir          string
		metricsAddr  string
		logFile      string
		pollInterval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow the live journal and show the HUD",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := app.settings.Load(cmd.Context())
			if err != nil {
				return err
			}

			if logFile == "" {
				logFile = app.defaultLogFile()
			}
			out, err := openLogFile(logFile)
			if err != nil {
				return err
			}
			defer out.Close()

			logger, err := newLogger(out, logLevel(cmd, settings))
			if err != nil {
				return err
			}

			journalDir := app.resolveJournalDir(dir, settings.JournalDir)
			logger.Info("starting watch", "journal_dir", journalDir, "settings", app.settings.Path())

			var recorder ports.Metrics = ports.NopMetrics{}
			reg := prometheus.NewRegistry()
			if metricsAddr != "" {
				recorder = metrics.New(reg)
			}

			store := application.NewStore(application.NewSnapshot(settings.Thresholds, app.reference))
			engine := application.NewEngine(store, logger, recorder, app.clock)
			follower := tail.NewSupervisor(engine, tail.Options{
				Dir:          journalDir,
				Fs:           app.fs,
				PollInterval: pollInterval,
				Watch:        true,
				Logger:       logger,
				Clock:        app.clock,
			})

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			g, gctx := errgroup.WithContext(ctx)

			g.Go(func() error {
				if err := follower.Run(gctx); err != nil {
					return fmt.Errorf("follow journal: %w", err)
				}
				return nil
			})

			if metricsAddr != "" {
				g.Go(func() error {
					return serveMetrics(gctx, metricsAddr, reg, logger)
				})
			}

			watchSettings(gctx, app, engine, logger, func(saved string) {
				if next := app.resolveJournalDir(dir, saved); next != journalDir {
					journalDir = next
					follower.SwitchDir(next)
				}
			})

			g.Go(func() error {
				defer cancel()
				return app.runHUD(gctx, store, cmd.InOrStdin(), cmd.OutOrStdout(), hud.RenderOptions{})
			})

			return g.Wait()
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "journal directory (default EDC_JOURNAL_DIR, settings, then the platform default)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. 127.0.0.1:9477")
	cmd.Flags().StringVar(&logFile, "log-file", "", "log file (default edc.log next to the settings file)")
	cmd.Flags().DurationVar(&pollInterval, "poll", tail.DefaultPollInterval, "journal poll interval")

	return cmd
}

func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving metrics", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve metrics: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown metrics server: %w", err)
		}
		return nil
	}
}

// watchSettings reloads thresholds into the engine whenever the settings
// file changes on disk, and passes the saved journal directory to onDir.
func watchSettings(ctx context.Context, app *app, engine *application.Engine, logger *slog.Logger, onDir func(saved string)) {
	path := app.settings.Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		logger.Warn("settings watch disabled", "error", err)
		return
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.OnConfigChange(func(evt fsnotify.Event) {
		if ctx.Err() != nil {
			return
		}
		settings, err := app.settings.Load(ctx)
		if err != nil {
			logger.Warn("reload settings", "error", err)
			return
		}
		onDir(settings.JournalDir)
		if err := engine.SetThresholds(settings.Thresholds); err != nil {
			logger.Warn("apply thresholds", "error", err)
			return
		}
		logger.Info("settings reloaded", "op", evt.Op.String(),
			"exploration_high_value", settings.Thresholds.ExplorationHighValue,
			"exobiology_high_value", settings.Thresholds.ExobiologyHighValue)
	})
	v.WatchConfig()
}

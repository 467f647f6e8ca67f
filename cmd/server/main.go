// Package main is the entry point for the OnAir server.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/bbernstein/onair-go/internal/api"
	"github.com/bbernstein/onair-go/internal/config"
	"github.com/bbernstein/onair-go/internal/database"
	"github.com/bbernstein/onair-go/internal/database/repositories"
	"github.com/bbernstein/onair-go/internal/logging"
	"github.com/bbernstein/onair-go/internal/services/device"
	"github.com/bbernstein/onair-go/internal/services/export"
	importservice "github.com/bbernstein/onair-go/internal/services/import"
	"github.com/bbernstein/onair-go/internal/services/pubsub"
	"github.com/bbernstein/onair-go/internal/services/rundown"
	"github.com/bbernstein/onair-go/internal/services/sequencer"
	"github.com/bbernstein/onair-go/internal/services/translate"
	"github.com/bbernstein/onair-go/internal/telemetry"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var (
	logger zerolog.Logger
	cfg    *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "onair",
	Short: "OnAir - newsroom rundown and playout server",
	Long:  "OnAir plans broadcast rundowns, translates them into playout queues and drives a vMix switcher.",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the OnAir server",
	Long:  "Start the HTTP API, websocket streams and the playout sequencer",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads .env and the environment, then configures logging.
func loadConfig() {
	envErr := godotenv.Load()
	cfg = config.Load()
	logger = logging.Setup(cfg.Env)
	if envErr != nil {
		logger.Debug().Msg("no .env file found, using environment variables")
	}
}

// openDatabase connects and brings the schema up to date. metrics may be nil.
func openDatabase(metrics *telemetry.Metrics) (*gorm.DB, error) {
	db, err := database.Connect(database.Config{
		URL:         cfg.DatabaseURL,
		MaxIdleConn: 5,
		MaxOpenConn: 10,
		Debug:       cfg.IsDevelopment(),
		Logger:      logger,
		Metrics:     metrics,
	})
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		_ = database.Close(db)
		return nil, err
	}
	if err := backfillRundownTotals(db); err != nil {
		logger.Warn().Err(err).Msg("rundown total backfill failed")
	}
	return db, nil
}

// resolveDefaultTarget applies the stored setting over the environment default.
func resolveDefaultTarget(ctx context.Context, settings *repositories.SettingRepository, c *config.Config) config.DeviceTarget {
	target := c.DefaultTarget()
	value, ok, err := settings.Get(ctx, repositories.SettingDefaultTarget)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to read default switcher setting")
		return target
	}
	if !ok || value == "" {
		return target
	}
	saved, err := config.ParseDeviceTarget(target.Name, value)
	if err != nil {
		logger.Warn().Err(err).Str("value", value).Msg("ignoring invalid default switcher setting")
		return target
	}
	logger.Info().Str("target", saved.Address()).Msg("loaded saved default switcher")
	return saved
}

func runServe(cmd *cobra.Command, args []string) error {
	loadConfig()
	printBanner(cmd.OutOrStdout(), cfg)

	metrics := telemetry.New()

	db, err := openDatabase(metrics)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()

	programs := repositories.NewProgramRepository(db)
	rundowns := repositories.NewRundownRepository(db)
	stories := repositories.NewStoryRepository(db)
	assets := repositories.NewAssetRepository(db)
	playlists := repositories.NewPlaylistRepository(db)
	logs := repositories.NewPlayoutLogRepository(db)
	settings := repositories.NewSettingRepository(db)

	target := resolveDefaultTarget(cmd.Context(), settings, cfg)

	ps := pubsub.New()

	adapter := device.New(device.Config{
		Target:    target,
		TakeDelay: cfg.TakeDelay,
		StopFade:  cfg.StopFade,
		QueueSize: device.DefaultQueueSize,
	}, device.NewHTTPTransport(cfg.VMixTimeout), metrics, logger)

	seq := sequencer.New(adapter,
		sequencer.WithTarget(target),
		sequencer.WithPubSub(ps),
		sequencer.WithLogSink(logs),
		sequencer.WithMetrics(metrics),
		sequencer.WithLogger(logger),
		sequencer.WithTickInterval(cfg.TickInterval),
	)

	server := api.New(api.Deps{
		Programs:       programs,
		Rundowns:       rundowns,
		Stories:        stories,
		Assets:         assets,
		Playlists:      playlists,
		Logs:           logs,
		Settings:       settings,
		RundownService: rundown.NewService(rundowns, programs, assets, ps, logger),
		Translator:     translate.New(assets, programs, target),
		Exporter:       export.NewService(rundowns, programs, stories, assets, Version),
		Importer:       importservice.NewService(rundowns, programs, stories, assets),
		Sequencer:      seq,
		Device:         adapter,
		PubSub:         ps,
		Metrics:        metrics,
		Logger:         logger,
		Version:        Version,
	})

	httpServer := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: server.Router(api.RouterConfig{
			CORSOrigins: []string{cfg.CORSOrigin, "http://localhost:3000", "http://localhost:4000"},
			Debug:       cfg.IsDevelopment(),
		}),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", httpServer.Addr).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down server...")

	// Stop playout before the database closes
	seq.Close()
	adapter.Close()
	ps.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("server stopped")
	return nil
}

// printBanner prints the startup banner.
func printBanner(w io.Writer, c *config.Config) {
	target := c.DefaultTarget()
	_, _ = fmt.Fprintln(w, "============================================")
	_, _ = fmt.Fprintln(w, "  OnAir Server")
	_, _ = fmt.Fprintf(w, "  Version: %s\n", Version)
	_, _ = fmt.Fprintf(w, "  Build:   %s\n", BuildTime)
	_, _ = fmt.Fprintf(w, "  Commit:  %s\n", GitCommit)
	_, _ = fmt.Fprintln(w, "============================================")
	_, _ = fmt.Fprintf(w, "  Environment: %s\n", c.Env)
	_, _ = fmt.Fprintf(w, "  Port:        %s\n", c.Port)
	_, _ = fmt.Fprintf(w, "  Database:    %s\n", c.DatabaseURL)
	_, _ = fmt.Fprintf(w, "  vMix:        %s\n", target.Address())
	_, _ = fmt.Fprintln(w, "============================================")
}

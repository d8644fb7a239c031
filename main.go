package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/padel-ladder/internal/club"
	"github.com/mauv0809/padel-ladder/internal/config"
	"github.com/mauv0809/padel-ladder/internal/database"
	server "github.com/mauv0809/padel-ladder/internal/http"
	"github.com/mauv0809/padel-ladder/internal/metrics"
	"github.com/mauv0809/padel-ladder/internal/notifier"
	"github.com/mauv0809/padel-ladder/internal/notifier/slack"
	"github.com/mauv0809/padel-ladder/internal/playtomic"
	"github.com/mauv0809/padel-ladder/internal/processor"
	"github.com/mauv0809/padel-ladder/internal/pubsub"
	"github.com/mauv0809/padel-ladder/internal/ranking"
)

func main() {
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()

	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()
	log.Info("Database initialization time recorded", "duration_ms", time.Since(startTime).Milliseconds())

	clubStore := club.New(db)
	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()

	var notif notifier.Notifier = notifier.NewLogNotifier()
	if cfg.Slack.Enabled() {
		notif = slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc)
	} else {
		log.Warn("Slack is not configured, division changes will only be logged")
	}

	ps, err := pubsub.New(context.Background(), cfg.ProjectID)
	if err != nil {
		log.Fatalf("Failed to initialize pubsub: %s", err)
	}
	defer ps.Close()

	var engineOpts []ranking.Option
	if cfg.Rating.StrictScores {
		engineOpts = append(engineOpts, ranking.WithStrictScores())
	}
	if cfg.Rating.Policy == config.PolicyLevel {
		engineOpts = append(engineOpts, ranking.WithPolicy(ranking.LevelPolicy()))
	}
	procCfg := processor.Config{
		InitialRating:   cfg.Rating.InitialRating,
		DefaultLanguage: ranking.ParseLanguage(cfg.Rating.DefaultLanguage),
		TenantID:        cfg.TenantID,
	}
	if cfg.TenantID != "" {
		procCfg.Playtomic = playtomic.NewClient()
	}
	proc := processor.New(clubStore, ranking.NewEngine(nil, engineOpts...), notif, metricsSvc, ps, procCfg)

	s := server.NewServer(clubStore, metricsHandler, proc, ps)

	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	log.Info("Server process shutting down")
}

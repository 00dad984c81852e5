package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Fandor1in/padel-miniapp/internal/auth"
	"github.com/Fandor1in/padel-miniapp/internal/config"
	server "github.com/Fandor1in/padel-miniapp/internal/http"
	"github.com/Fandor1in/padel-miniapp/internal/league"
	"github.com/Fandor1in/padel-miniapp/internal/metrics"
	"github.com/Fandor1in/padel-miniapp/internal/notifier/slack"
	"github.com/Fandor1in/padel-miniapp/internal/processor"
	"github.com/Fandor1in/padel-miniapp/internal/pubsub"
	"github.com/Fandor1in/padel-miniapp/internal/tablestore"
	"github.com/Fandor1in/padel-miniapp/internal/telegram"
	"github.com/charmbracelet/log"
)

func main() {
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()

	storeClient := tablestore.NewClient(cfg.Store.BaseURL, cfg.Store.APIKey, cfg.Store.BaseID)
	leagueStore := league.New(storeClient, cfg.Store.Tables)

	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()
	notifier := slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc)
	pubsubClient := pubsub.New(cfg.ProjectID)
	proc := processor.New(leagueStore, notifier, metricsSvc, pubsubClient, cfg.Rating, cfg.Confirm)

	verifier := telegram.NewVerifier(cfg.Telegram.BotToken, time.Duration(cfg.Telegram.MaxInitDataAge)*time.Second)
	sessions := auth.New(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTL)*time.Second)

	s := server.NewServer(cfg, proc, verifier, sessions, metricsSvc, metricsHandler)

	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine
	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
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

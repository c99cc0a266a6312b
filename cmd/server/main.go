package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/limaJavier/invigilation/internal/api"
	"github.com/limaJavier/invigilation/internal/config"
	"github.com/limaJavier/invigilation/internal/logging"
	"github.com/limaJavier/invigilation/pkg/engine"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	flag.Parse()

	// A missing .env file is fine, the environment may already be set
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	logger := logging.Setup(cfg.Log)

	// 1. Construct the engine
	dutyEngine := engine.New(engine.WithPolicy(cfg.Policy), engine.WithLogger(logger))

	// 2. Bootstrap the API
	registry := prometheus.NewRegistry()
	server := api.NewServer(cfg.Server, dutyEngine, registry, registry, logger)

	httpServer := &http.Server{
		Addr:              cfg.Address(),
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 3. Start the server
	go func() {
		log.Info().Str("address", cfg.Address()).Str("back_to_back", string(cfg.Policy.BackToBack)).Str("quota_overrun", string(cfg.Policy.QuotaOverrun)).Msg("Server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// 4. Wait for shutdown signal
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	<-signalChan

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to shut down gracefully")
	}
	log.Info().Msg("Server stopped")
}

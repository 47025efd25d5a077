package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/slunch-api/internal/api"
	"github.com/slunch-api/internal/config"
	"github.com/slunch-api/internal/database"
	"github.com/slunch-api/internal/push"
	"github.com/slunch-api/internal/replay"
	"github.com/slunch-api/internal/repository"
	"github.com/slunch-api/internal/service"
	"github.com/slunch-api/pkg/logger"
)

func main() {
	migrateDown := flag.Bool("migrate-down", false, "roll back the last migration and exit")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		bootLog := bootLogger()
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	log.Info().Msg("Starting Slunch API server...")

	// Initialize database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if *migrateDown {
		if err := db.MigrateDown(cfg.Database.MigrationsPath); err != nil {
			log.Fatal().Err(err).Msg("Failed to roll back migration")
		}
		return
	}

	if err := db.RunMigrations(cfg.Database.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	ctx := context.Background()
	deps := service.Deps{}
	healthChecks := map[string]api.HealthChecker{"database": db}

	// Replay protection is optional
	if cfg.Redis.URL != "" {
		replayStore, err := replay.NewRedisStore(cfg.Redis.URL, 2*cfg.Security.SignatureWindow)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer replayStore.Close()
		deps.Replay = replayStore
		healthChecks["redis"] = replayStore
		log.Info().Msg("Signature replay guard enabled")
	} else {
		log.Warn().Msg("REDIS_URL not set, signature replay guard disabled")
	}

	if cfg.Push.CredentialsFile != "" {
		sender, err := push.NewFCMSender(ctx, cfg.Push.CredentialsFile, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialise push messaging")
		}
		deps.Sender = sender
	} else {
		log.Warn().Msg("FIREBASE_CREDENTIALS_FILE not set, notifications will only be logged")
		deps.Sender = push.NewLogSender(log)
	}

	// Initialize repositories and services
	repos := repository.New(db)
	services := service.NewServices(repos, cfg, deps, log)

	router := api.NewRouter(services, cfg, log, healthChecks)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		return
	}

	log.Info().Msg("Server exited gracefully")
}

// bootLogger is used before configuration is available
func bootLogger() zerolog.Logger {
	return logger.New(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
}

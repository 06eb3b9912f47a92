package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/subject-catalog/internal/config"
	"github.com/stemsi/subject-catalog/internal/database"
	"github.com/stemsi/subject-catalog/internal/handler"
	"github.com/stemsi/subject-catalog/internal/logger"
	"github.com/stemsi/subject-catalog/internal/middleware"
	"github.com/stemsi/subject-catalog/internal/repository"
	"github.com/stemsi/subject-catalog/internal/router"
	"github.com/stemsi/subject-catalog/internal/service"
	"github.com/stemsi/subject-catalog/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("data_file", cfg.DataFile).
		Msg("Starting subject catalog")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Write Rate Limiter ────────────────────────────────────────────
	var writeLimiter middleware.Limiter
	if cfg.WriteRateLimit > 0 {
		rdb, err := database.NewRedisClient(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		if rdb != nil {
			defer rdb.Close()
			writeLimiter = middleware.NewRedisLimiter(rdb, cfg.WriteRateLimit, time.Minute)
		} else {
			mem := middleware.NewMemoryLimiter(cfg.WriteRateLimit, time.Minute)
			go mem.RunCleanup(ctx)
			writeLimiter = mem
		}
	}

	// ─── Wire Store, Service, Handlers ─────────────────────────────────
	subjectRepo := repository.NewSubjectRepository(cfg.DataFile, log)
	subjectService := service.NewSubjectService(subjectRepo, log)

	handlers := &router.Handlers{
		Subject: handler.NewSubjectHandler(subjectService),
		System:  handler.NewSystemHandler(cfg.DataFile),
	}

	r := router.SetupRouter(handlers, writeLimiter, cfg, log)

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}

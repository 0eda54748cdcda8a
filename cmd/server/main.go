package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AzizSouissi/store-inventory-suite/internal/config"
	"github.com/AzizSouissi/store-inventory-suite/internal/infra"
	"github.com/AzizSouissi/store-inventory-suite/internal/model"
	"github.com/AzizSouissi/store-inventory-suite/internal/repository"
	"github.com/AzizSouissi/store-inventory-suite/internal/router"
	"github.com/AzizSouissi/store-inventory-suite/internal/service"
	"github.com/AzizSouissi/store-inventory-suite/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bootstrap accounts so a fresh deployment is immediately usable.
	authSvc := service.NewAuthService(repository.NewUserRepository(db), cfg.JWTSecret, cfg.JWTExpirationHours)
	if err := authSvc.EnsureUser(ctx, cfg.BootstrapAdminUsername, cfg.BootstrapAdminPassword, model.RoleAdmin); err != nil {
		log.Fatal().Err(err).Msg("failed to bootstrap admin user")
	}
	if err := authSvc.EnsureUser(ctx, cfg.BootstrapStaffUsername, cfg.BootstrapStaffPassword, model.RoleStaff); err != nil {
		log.Fatal().Err(err).Msg("failed to bootstrap staff user")
	}

	r, alertWorker := router.New(cfg, db, rdb)

	// Goroutine worker pool for async low-stock checks and digest emails.
	worker.StartWorkerPool(ctx, rdb, alertWorker, cfg.WorkerPoolSize)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("inventory backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}

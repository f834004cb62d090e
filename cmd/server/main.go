package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/cumroad/commerce-soap/internal/api"
	"github.com/cumroad/commerce-soap/internal/infrastructure/db/sqlite"
	"github.com/cumroad/commerce-soap/internal/pkg/config"
	"github.com/cumroad/commerce-soap/pkg/logger"
)

func main() {
	// .env is optional; real deployments configure through the environment.
	_ = godotenv.Load()

	cfg := config.Load()

	log := logger.New(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	db, err := sqlite.Open(cfg.SQLite.Path)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.SQLite.Path).Msg("open database")
	}
	defer db.Close()

	if err := sqlite.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	e := api.NewRouter(db, cfg, log)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/lmoretti/referral-api/internal/api"
	"github.com/lmoretti/referral-api/internal/auth"
	"github.com/lmoretti/referral-api/internal/config"
	"github.com/lmoretti/referral-api/internal/database"
	"github.com/lmoretti/referral-api/internal/logger"
	"github.com/lmoretti/referral-api/internal/services"
)

func main() {
	// A .env file is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Init(cfg.Environment)

	// Set up the database pool
	db, err := database.New(cfg.DatabasePath, cfg.MaxConns, cfg.MaxIdleConns)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up services
	hasher := auth.NewHasher(0)
	tokens := auth.NewTokenService([]byte(cfg.AuthSecret), cfg.TokenTTL)
	userService := services.NewUserService(db, hasher, cfg.StoreTimeout)

	// Set up router
	router := api.NewRouter(db, userService, tokens)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}

// @title Eventboard API
// @version 1.0
// @description Events with a host and attendees; session cookie authentication.
// @BasePath /api
// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name token
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"eventboard/config"
	_ "eventboard/docs"
	"eventboard/internal/adapters/auth"
	delivery "eventboard/internal/delivery/http"
	"eventboard/internal/delivery/http/controllers"
	"eventboard/internal/repository/postgres"
	"eventboard/internal/services"
)

func main() {
	cfg, err := config.Load()
	logger := config.NewLogger()
	slog.SetDefault(logger)
	if err != nil {
		logger.Error("can't load configuration", "error", err)
		os.Exit(1)
	}
	if cfg.WeakJWTSecret() {
		logger.Warn("JWT_SECRET is shorter than recommended", "min_bytes", config.MinJWTSecretLen)
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("can't open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = db.PingContext(pingCtx)
	pingCancel()
	if err != nil {
		logger.Error("can't reach database", "error", err)
		os.Exit(1)
	}

	jwtService, err := auth.NewJWTService(cfg.JWTSecret)
	if err != nil {
		logger.Error("can't create token service", "error", err)
		os.Exit(1)
	}
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)

	userRepo := postgres.NewUserRepository(db)
	eventRepo := postgres.NewEventRepository(db)

	userService := services.NewUserService(userRepo, hasher, jwtService, jwtService, config.SessionTTL, cfg.RequestTimeout)
	eventService := services.NewEventService(eventRepo, cfg.RequestTimeout)

	router := delivery.NewRouter(delivery.RouterDeps{
		Logger:         logger,
		Users:          controllers.NewUserController(logger, userService, config.SessionTTL, cfg.IsProduction()),
		Events:         controllers.NewEventController(logger, eventService),
		Auth:           userService,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
		return
	}
	logger.Info("server stopped gracefully")
}

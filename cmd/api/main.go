package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"conduit/config"
	"conduit/internal/database"
	"conduit/internal/handlers"
	"conduit/internal/jobs"
	"conduit/internal/logging"
	"conduit/internal/middleware"
	"conduit/internal/repository"
	"conduit/internal/services"
	"conduit/internal/telemetry"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logging.Init(cfg.IsDevelopment())

	shutdownTelemetry, err := telemetry.Init(ctx, cfg.OTelServiceName, cfg.OTelEndpoint)
	if err != nil {
		logging.Logger().Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			logging.Logger().Error().Err(err).Msg("failed to shutdown telemetry")
		}
	}()

	if err := middleware.InitMetrics(); err != nil {
		logging.Logger().Fatal().Err(err).Msg("failed to initialize metrics")
	}

	if err := database.Connect(cfg.DatabaseURL, cfg.IsDevelopment()); err != nil {
		logging.Logger().Fatal().Err(err).Msg("failed to initialize database")
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		logging.Logger().Fatal().Err(err).Msg("failed to run database migrations")
	}

	redisAddr := parseRedisAddr(cfg.RedisURL)
	jobClient, err := jobs.NewClient(redisAddr)
	if err != nil {
		logging.Logger().Fatal().Err(err).Msg("failed to create job client")
	}
	defer jobClient.Close()

	userRepo := repository.NewUserRepository(database.DB)
	userService := services.NewUserService(userRepo, jobClient, cfg.JWTSecret, cfg.TokenTTL)

	healthHandler := handlers.NewHealthHandler(redisAddr)
	userHandler := handlers.NewUserHandler(userService)

	e := echo.New()
	e.HideBanner = true

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(otelecho.Middleware(cfg.OTelServiceName, otelecho.WithSkipper(func(c echo.Context) bool {
		return c.Path() == "/api/health"
	})))
	e.Use(middleware.Metrics())
	e.HTTPErrorHandler = middleware.ErrorHandler

	if cfg.IsDevelopment() {
		e.Use(echomiddleware.Logger())
	}

	api := e.Group("/api")

	api.GET("/health", healthHandler.Check)

	api.POST("/users", userHandler.Register)
	api.POST("/users/login", userHandler.Login)

	// Roster routes are public; a token, when present, identifies the caller
	// without gating access.
	optionalAuth := middleware.OptionalJWTAuth(cfg.JWTSecret)
	api.GET("/users/roster", userHandler.Roster, optionalAuth)
	api.GET("/users/stats", userHandler.Roster, optionalAuth)

	auth := api.Group("")
	auth.Use(middleware.JWTAuth(cfg.JWTSecret))
	auth.GET("/user", userHandler.GetCurrentUser)
	auth.PUT("/user", userHandler.Update)
	auth.DELETE("/users/:email", userHandler.Delete)

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		logging.Logger().Info().Str("port", cfg.Port).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logging.Logger().Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Logger().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logging.Logger().Error().Err(err).Msg("failed to shutdown server")
	}
}

func parseRedisAddr(redisURL string) string {
	return strings.TrimPrefix(redisURL, "redis://")
}

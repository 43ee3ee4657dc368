package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/forgo/iglesia/api/internal/app"
	"github.com/forgo/iglesia/api/internal/config"
	"github.com/forgo/iglesia/api/internal/database"
	"github.com/forgo/iglesia/api/internal/handler"
	"github.com/forgo/iglesia/api/internal/jobs"
	"github.com/forgo/iglesia/api/internal/middleware"
	"github.com/forgo/iglesia/api/pkg/jwt"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logging
	level := slog.LevelInfo
	if cfg.IsDevelopment() {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize document store
	var (
		store  database.DocumentStore
		pinger handler.Pinger
	)
	if cfg.UsesMemoryStore() {
		store = database.NewMemoryStore()
		slog.Warn("using in-memory document store; data is lost on exit")
	} else {
		db := database.NewSurrealDB(database.Config{
			Host:      cfg.Database.Host,
			Port:      cfg.Database.Port,
			User:      cfg.Database.User,
			Password:  cfg.Database.Password,
			Namespace: cfg.Database.Namespace,
			Database:  cfg.Database.Database,
		})

		connectCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := db.Connect(connectCtx)
		cancel()
		if err != nil {
			slog.Error("failed to connect to database", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer func() { _ = db.Close() }()

		slog.Info("connected to database",
			slog.String("host", cfg.Database.Host),
			slog.String("namespace", cfg.Database.Namespace),
			slog.String("database", cfg.Database.Database),
		)
		store = database.NewSurrealDocuments(db)
		pinger = db
	}

	// Initialize JWT service
	jwtService, err := jwt.NewService(jwt.Config{
		PrivateKeyPath: cfg.JWT.PrivateKeyPath,
		PublicKeyPath:  cfg.JWT.PublicKeyPath,
		Issuer:         cfg.JWT.Issuer,
		ExpirationMins: cfg.JWT.ExpirationMins,
	})
	if err != nil {
		slog.Error("failed to initialize JWT service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var metrics *middleware.Metrics
	if cfg.Metrics.Enabled {
		metrics = middleware.NewMetrics(cfg.Metrics.Namespace)
	}

	var limiter *middleware.RateLimiter
	if cfg.Server.AuthRateLimit > 0 {
		limiter = middleware.NewRateLimiter(middleware.RateLimitConfig{Rate: cfg.Server.AuthRateLimit})
		defer limiter.Stop()
	}

	api, err := app.New(app.Config{
		Store:              store,
		JWT:                jwtService,
		DB:                 pinger,
		Production:         cfg.IsProduction(),
		AllowedOrigins:     cfg.Server.AllowedOrigins,
		Metrics:            metrics,
		CredentialsLimiter: limiter,
	})
	if err != nil {
		slog.Error("failed to initialize API", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Background jobs
	purger := jobs.NewRevocationPurger(api.Tokens, cfg.Jobs.RevocationPurgeInterval)
	purger.Start()

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      api.Handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
			slog.String("db_driver", cfg.Database.Driver),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}
	purger.Stop()

	slog.Info("server exited")
}

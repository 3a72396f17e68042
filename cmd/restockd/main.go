package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"

	"github.com/restockd/restockd/internal/api"
	"github.com/restockd/restockd/internal/config"
	"github.com/restockd/restockd/internal/extract"
	"github.com/restockd/restockd/internal/fetch"
	"github.com/restockd/restockd/internal/monitor"
	"github.com/restockd/restockd/internal/notify"
	"github.com/restockd/restockd/internal/siteconfig"
	"github.com/restockd/restockd/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Product store
	var productStore store.Store
	switch cfg.Store.Driver {
	case "postgres":
		pg, err := store.NewPostgresStore(ctx, store.PostgresConfig{
			DatabaseURL: cfg.Store.DatabaseURL,
			MaxConns:    cfg.Store.MaxConns,
		})
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pg.Close()
		productStore = pg
	default:
		fs, err := store.NewFileStore(cfg.Store.ProductFile)
		if err != nil {
			logger.Error("failed to open product file", "error", err)
			os.Exit(1)
		}
		productStore = fs
	}

	// Site configs
	resolver, err := siteconfig.LoadFile(cfg.Checker.SiteConfigFile)
	if err != nil {
		logger.Error("failed to load site configs", "error", err)
		os.Exit(1)
	}

	// Extraction engine
	fetcher := fetch.New(fetch.Options{
		Timeout:   cfg.Checker.FetchTimeout,
		UserAgent: cfg.Checker.UserAgent,
	})
	engine := extract.NewEngine(resolver, fetcher, cfg.Checker.CacheTTL, logger)

	// Notifier: Redis stream when configured, log otherwise
	var notifier notify.Notifier = notify.NewLogNotifier(logger)
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		notifier = notify.NewStreamNotifier(redisClient, cfg.Redis.Stream, logger)
	}

	mon := monitor.New(productStore, engine, notifier, logger, monitor.Options{
		ConcurrentLimit: cfg.Checker.ConcurrentLimit,
		PacingDelay:     cfg.Checker.PacingDelay,
	})

	handlers := api.NewHandlers(mon, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "https://localhost:*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", handlers.Health)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", handlers.ListProducts)
		r.Post("/products", handlers.AddProduct)
		r.Delete("/products", handlers.RemoveProduct)
		r.Post("/check", handlers.CheckAll)
	})

	server := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down server...")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", "error", err)
		}
	}()

	logger.Info("server starting", "addr", server.Addr, "store", cfg.Store.Driver)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

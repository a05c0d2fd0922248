package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Aakash694/EcoFinds/api-gateway/internal/handlers"
	"github.com/Aakash694/EcoFinds/api-gateway/internal/notify"
	redisClient "github.com/Aakash694/EcoFinds/api-gateway/internal/redis"
	"github.com/Aakash694/EcoFinds/api-gateway/internal/service"
	"github.com/Aakash694/EcoFinds/api-gateway/internal/stream"
	"github.com/Aakash694/EcoFinds/internal/catalog"
	"github.com/Aakash694/EcoFinds/internal/render"
	"github.com/Aakash694/EcoFinds/shared/config"
	"github.com/Aakash694/EcoFinds/shared/logging"
	"github.com/Aakash694/EcoFinds/shared/models"
	"go.uber.org/zap"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load .env: %v\n", err)
		os.Exit(1)
	}

	// Load configuration from environment variables
	cfg := loadConfig()

	logger, err := logging.New("api-gateway", cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting api gateway", zap.String("addr", cfg.ServerAddr), zap.String("events", cfg.EventsBackend))

	listings, err := loadSeed(cfg.SeedFile)
	if err != nil {
		logger.Fatal("failed to load seed catalog", zap.Error(err))
	}
	store := catalog.NewStore(catalog.WithListings(listings), catalog.WithLogger(logger))
	logger.Info("catalog ready", zap.Int("listings", store.Len()))

	renderer, err := render.NewRenderer(time.Now)
	if err != nil {
		logger.Fatal("failed to parse templates", zap.Error(err))
	}

	// Initialize services
	board := notify.NewBoard(cfg.ToastTTL, logger)
	defer board.Close()

	publishers := connectPublishers(cfg, logger)
	marketplace := service.NewMarketplaceService(store, board, logger, publishers...)
	board.OnShow(marketplace.PublishToast)

	// Initialize HTTP handlers
	trusted, err := handlers.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		logger.Fatal("invalid TRUSTED_PROXIES", zap.Error(err))
	}
	handler := handlers.NewHandler(marketplace, renderer, logger, handlers.Options{
		PostLimit:      cfg.PostLimit,
		PostWindow:     cfg.PostWindow,
		TrustedProxies: trusted,
	})
	router := handler.SetupRoutes()

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("api gateway listening", zap.String("addr", cfg.ServerAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	// Graceful shutdown with 30 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	if err := marketplace.Close(); err != nil {
		logger.Warn("failed to close publishers", zap.Error(err))
	}

	logger.Info("server stopped gracefully")
}

// Config holds application configuration
type Config struct {
	ServerAddr string
	LogLevel   string
	SeedFile   string // empty uses the built-in sample catalog
	ToastTTL   time.Duration
	PostLimit  int
	PostWindow time.Duration
	// TrustedProxies lists proxy IPs or CIDRs allowed to set X-Forwarded-For
	TrustedProxies []string
	EventsBackend  string // "redis", "nats", "both" or "none"
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	NatsURL        string
}

// loadConfig loads configuration from environment variables
func loadConfig() *Config {
	return &Config{
		ServerAddr:     config.GetEnv("SERVER_ADDR", ":8080"),
		LogLevel:       config.GetEnv("LOG_LEVEL", "info"),
		SeedFile:       config.GetEnv("SEED_FILE", ""),
		ToastTTL:       config.GetEnvDuration("TOAST_TTL", notify.DefaultTTL),
		PostLimit:      config.GetEnvInt("RATE_LIMIT", 10),
		PostWindow:     config.GetEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		TrustedProxies: splitList(config.GetEnv("TRUSTED_PROXIES", "")),
		EventsBackend:  strings.ToLower(config.GetEnv("EVENTS_BACKEND", "redis")),
		RedisAddr:      config.GetEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  config.GetEnv("REDIS_PASSWORD", ""),
		RedisDB:        config.GetEnvInt("REDIS_DB", 0),
		NatsURL:        config.GetEnv("NATS_URL", "nats://localhost:4222"),
	}
}

func loadSeed(path string) ([]models.Listing, error) {
	if path == "" {
		return catalog.DefaultSeed()
	}
	return catalog.LoadSeedFile(path)
}

// connectPublishers connects the configured event backends. A backend that
// cannot be reached is skipped with a warning; the marketplace works without events.
func connectPublishers(cfg *Config, logger *zap.Logger) []service.Publisher {
	var publishers []service.Publisher

	if cfg.EventsBackend == "redis" || cfg.EventsBackend == "both" {
		rc, err := redisClient.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Warn("redis unavailable, listing events will not be published", zap.Error(err))
		} else {
			logger.Info("connected to redis", zap.String("addr", cfg.RedisAddr))
			publishers = append(publishers, rc)
		}
	}

	if cfg.EventsBackend == "nats" || cfg.EventsBackend == "both" {
		pub, err := stream.NewPublisher(context.Background(), cfg.NatsURL, logger)
		if err != nil {
			logger.Warn("nats unavailable, listing events will not be published", zap.Error(err))
		} else {
			logger.Info("connected to nats", zap.String("url", cfg.NatsURL))
			publishers = append(publishers, pub)
		}
	}

	return publishers
}

// splitList splits a comma separated value, dropping empty entries
func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

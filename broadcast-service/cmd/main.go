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

	"github.com/Aakash694/EcoFinds/broadcast-service/internal/consumer"
	redisClient "github.com/Aakash694/EcoFinds/broadcast-service/internal/redis"
	wsHandler "github.com/Aakash694/EcoFinds/broadcast-service/internal/websocket"
	"github.com/Aakash694/EcoFinds/shared/config"
	"github.com/Aakash694/EcoFinds/shared/logging"
	"github.com/Aakash694/EcoFinds/shared/retry"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load .env: %v\n", err)
		os.Exit(1)
	}

	// Load configuration
	cfg := loadConfig()

	logger, err := logging.New("broadcast-service", cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize WebSocket manager
	wsManager := wsHandler.NewManager(logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		wsManager.Run(gctx)
		return nil
	})

	sources := 0
	if cfg.useSource("redis") {
		subscriber, err := connectRedis(ctx, cfg, logger)
		if err != nil {
			logger.Fatal("failed to subscribe to redis", zap.Error(err))
		}
		defer subscriber.Close()

		g.Go(func() error {
			logger.Info("forwarding redis pub/sub events to websocket clients")
			if err := subscriber.Listen(gctx, wsManager); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("redis listener: %w", err)
			}
			return nil
		})
		sources++
	}

	if cfg.useSource("nats") {
		var natsConsumer *consumer.NATSConsumer
		err := retry.Do(ctx, logger, cfg.ConnectAttempts, time.Second, func() error {
			var err error
			natsConsumer, err = consumer.NewNATSConsumer(cfg.NatsURL, logger)
			return err
		})
		if err != nil {
			logger.Fatal("failed to connect to nats", zap.Error(err))
		}
		defer natsConsumer.Close()

		g.Go(func() error {
			logger.Info("forwarding nats events to websocket clients")
			return natsConsumer.Start(gctx, wsManager)
		})
		sources++
	}

	if sources == 0 {
		logger.Warn("no event source configured, clients will only receive welcome messages",
			zap.String("sources", cfg.Sources))
	}

	// Initialize HTTP server for WebSocket connections
	handler := wsHandler.NewHandler(wsManager, logger)
	router := handler.SetupRoutes()

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server in goroutine
	go func() {
		logger.Info("broadcast service listening", zap.String("addr", cfg.ServerAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// Wait for interrupt signal or a failed event source
	<-gctx.Done()
	logger.Info("shutting down server")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	if err := g.Wait(); err != nil {
		logger.Error("event source failed", zap.Error(err))
	}

	logger.Info("server stopped gracefully")
}

func connectRedis(ctx context.Context, cfg *Config, logger *zap.Logger) (*redisClient.Subscriber, error) {
	var subscriber *redisClient.Subscriber
	err := retry.Do(ctx, logger, cfg.ConnectAttempts, time.Second, func() error {
		s, err := redisClient.NewSubscriber(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, logger)
		if err != nil {
			return err
		}
		if err := s.SubscribeToAll(ctx); err != nil {
			s.Close()
			return err
		}
		subscriber = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info("subscribed to listing events", zap.String("addr", cfg.RedisAddr))
	return subscriber, nil
}

// Config holds application configuration
type Config struct {
	ServerAddr      string
	LogLevel        string
	Sources         string // comma separated: "redis", "nats"
	ConnectAttempts int
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	NatsURL         string
}

// loadConfig loads configuration from environment variables
func loadConfig() *Config {
	return &Config{
		ServerAddr:      config.GetEnv("SERVER_ADDR", ":8081"),
		LogLevel:        config.GetEnv("LOG_LEVEL", "info"),
		Sources:         strings.ToLower(config.GetEnv("EVENT_SOURCES", "redis")),
		ConnectAttempts: config.GetEnvInt("CONNECT_ATTEMPTS", 5),
		RedisAddr:       config.GetEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   config.GetEnv("REDIS_PASSWORD", ""),
		RedisDB:         config.GetEnvInt("REDIS_DB", 0),
		NatsURL:         config.GetEnv("NATS_URL", "nats://localhost:4222"),
	}
}

func (c *Config) useSource(name string) bool {
	for _, s := range strings.Split(c.Sources, ",") {
		if strings.TrimSpace(s) == name {
			return true
		}
	}
	return false
}

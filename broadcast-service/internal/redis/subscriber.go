package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Aakash694/EcoFinds/shared/models"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Broadcaster receives events for live clients
type Broadcaster interface {
	Broadcast(category string, payload []byte)
}

// Subscriber wraps Redis Pub/Sub functionality
type Subscriber struct {
	client *redis.Client
	pubsub *redis.PubSub
	logger *zap.Logger
}

// NewSubscriber creates a new Redis Pub/Sub subscriber
func NewSubscriber(ctx context.Context, addr, password string, db int, logger *zap.Logger) (*Subscriber, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Subscriber{
		client: rdb,
		logger: logger,
	}, nil
}

// SubscribeToAll subscribes to the events of every category using pattern matching
// Pattern: "listing_events:*"
func (s *Subscriber) SubscribeToAll(ctx context.Context) error {
	pubsub := s.client.PSubscribe(ctx, models.ChannelPrefix+"*")

	// Wait for the subscription to be confirmed
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return fmt.Errorf("failed to subscribe: %w", err)
	}
	s.pubsub = pubsub
	return nil
}

// Listen forwards messages to b until ctx is cancelled.
// This is a blocking operation - run in a goroutine
func (s *Subscriber) Listen(ctx context.Context, b Broadcaster) error {
	if s.pubsub == nil {
		return fmt.Errorf("not subscribed to any channel")
	}

	ch := s.pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return fmt.Errorf("subscription closed")
			}
			s.dispatch(msg.Channel, msg.Payload, b)
		}
	}
}

// dispatch checks a raw Pub/Sub message and hands it to b
func (s *Subscriber) dispatch(channel, payload string, b Broadcaster) {
	category := extractCategoryFromChannel(channel)
	if category == "" {
		s.logger.Warn("message on unexpected channel", zap.String("channel", channel))
		return
	}

	var event models.ListingEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		s.logger.Warn("failed to parse message", zap.String("channel", channel), zap.Error(err))
		return
	}

	s.logger.Debug("event received",
		zap.String("event_id", event.EventID),
		zap.String("type", event.Type),
		zap.String("category", category),
	)
	b.Broadcast(category, []byte(payload))
}

// extractCategoryFromChannel extracts the category from a channel name
// Example: "listing_events:sports" -> "sports"
func extractCategoryFromChannel(channel string) string {
	category, ok := strings.CutPrefix(channel, models.ChannelPrefix)
	if !ok {
		return ""
	}
	return category
}

// Close closes the subscriber
func (s *Subscriber) Close() error {
	if s.pubsub != nil {
		s.pubsub.Close()
	}
	return s.client.Close()
}

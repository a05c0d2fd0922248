package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Aakash694/EcoFinds/shared/models"
	"github.com/redis/go-redis/v9"
)

// Client wraps the Redis client with marketplace event publishing
type Client struct {
	client *redis.Client
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{client: rdb}, nil
}

// Name identifies the publisher in logs
func (c *Client) Name() string {
	return "redis"
}

// Publish sends an event to Redis Pub/Sub on the channel of its category.
// The broadcast service picks it up for real-time WebSocket updates.
func (c *Client) Publish(ctx context.Context, event *models.ListingEvent) error {
	eventJSON, err := encodeEvent(event)
	if err != nil {
		return err
	}

	channel := models.EventChannel(event.Category)
	if err := c.client.Publish(ctx, channel, eventJSON).Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", channel, err)
	}
	return nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.client.Close()
}

func encodeEvent(event *models.ListingEvent) ([]byte, error) {
	if event.Category == "" {
		return nil, fmt.Errorf("event %s has no category", event.EventID)
	}
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}
	return data, nil
}

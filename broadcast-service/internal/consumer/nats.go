package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Aakash694/EcoFinds/shared/models"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Broadcaster receives events for live clients
type Broadcaster interface {
	Broadcast(category string, payload []byte)
}

// NATSConsumer consumes listing events from NATS and forwards them to live clients
type NATSConsumer struct {
	conn   *nats.Conn
	sub    *nats.Subscription
	logger *zap.Logger
}

// NewNATSConsumer creates a new NATS consumer
func NewNATSConsumer(natsURL string, logger *zap.Logger) (*NATSConsumer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	conn, err := nats.Connect(natsURL, nats.Name("ecofinds-broadcast-service"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSConsumer{
		conn:   conn,
		logger: logger,
	}, nil
}

// Start subscribes to every category and blocks until ctx is cancelled.
// Subject pattern: "listing.events.*" matches listing.events.cars, listing.events.all, ...
func (c *NATSConsumer) Start(ctx context.Context, b Broadcaster) error {
	subject := models.SubjectPrefix + "*"
	sub, err := c.conn.Subscribe(subject, func(msg *nats.Msg) {
		c.handleMessage(msg, b)
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	c.sub = sub
	c.logger.Info("subscribed to nats subject", zap.String("subject", subject))

	// Keep consumer running until context is cancelled
	<-ctx.Done()
	return nil
}

// handleMessage processes a single listing event message
func (c *NATSConsumer) handleMessage(msg *nats.Msg, b Broadcaster) {
	category, ok := strings.CutPrefix(msg.Subject, models.SubjectPrefix)
	if !ok || category == "" {
		c.logger.Warn("message on unexpected subject", zap.String("subject", msg.Subject))
		return
	}

	var event models.ListingEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		c.logger.Warn("failed to unmarshal event", zap.String("subject", msg.Subject), zap.Error(err))
		return
	}

	c.logger.Debug("event received",
		zap.String("event_id", event.EventID),
		zap.String("type", event.Type),
		zap.String("category", category),
	)
	b.Broadcast(category, msg.Data)
}

// Close closes the NATS connection
func (c *NATSConsumer) Close() error {
	if c.sub != nil {
		c.sub.Unsubscribe()
	}
	c.conn.Close()
	return nil
}

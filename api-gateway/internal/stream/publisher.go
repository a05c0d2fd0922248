// Package stream publishes marketplace events to NATS JetStream.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Aakash694/EcoFinds/shared/models"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"
)

// StreamName is the JetStream stream holding listing events
const StreamName = "LISTING_EVENTS"

// StreamConfig describes LISTING_EVENTS. Events only feed live views, so they
// are kept in memory for a short while.
func StreamConfig() jetstream.StreamConfig {
	return jetstream.StreamConfig{
		Name:        StreamName,
		Description: "Listing and toast events for live marketplace views",
		Subjects:    []string{models.SubjectPrefix + "*"},
		Storage:     jetstream.MemoryStorage,
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      time.Hour,
		Replicas:    1,
	}
}

// Publisher sends events to JetStream and waits for the server ack
type Publisher struct {
	conn   *nats.Conn
	js     jetstream.JetStream
	logger *zap.Logger
}

// NewPublisher connects to NATS and makes sure the stream exists
func NewPublisher(ctx context.Context, url string, logger *zap.Logger) (*Publisher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	conn, err := nats.Connect(url, nats.Name("ecofinds-api-gateway"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := js.CreateOrUpdateStream(ctx, StreamConfig()); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create/update stream: %w", err)
	}
	logger.Info("jetstream stream ready", zap.String("stream", StreamName))

	return &Publisher{conn: conn, js: js, logger: logger}, nil
}

// Name identifies the publisher in logs
func (p *Publisher) Name() string {
	return "nats"
}

// Publish sends the event on the subject of its category
func (p *Publisher) Publish(ctx context.Context, event *models.ListingEvent) error {
	subject, data, err := encode(event)
	if err != nil {
		return err
	}

	ack, err := p.js.Publish(ctx, subject, data, jetstream.WithMsgID(event.EventID))
	if err != nil {
		return fmt.Errorf("failed to publish to JetStream: %w", err)
	}

	p.logger.Debug("published event",
		zap.String("subject", subject),
		zap.Uint64("seq", ack.Sequence),
	)
	return nil
}

// Close drains the NATS connection
func (p *Publisher) Close() error {
	return p.conn.Drain()
}

func encode(event *models.ListingEvent) (string, []byte, error) {
	if event.Category == "" {
		return "", nil, fmt.Errorf("event %s has no category", event.EventID)
	}
	data, err := json.Marshal(event)
	if err != nil {
		return "", nil, fmt.Errorf("failed to marshal event: %w", err)
	}
	return models.EventSubject(event.Category), data, nil
}

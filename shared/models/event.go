package models

import "time"

// Event types carried by ListingEvent
const (
	EventListingCreated = "listing.created"
	EventToast          = "toast"
)

// Toast kinds
const (
	ToastSuccess = "success"
	ToastError   = "error"
)

// ListingEvent represents something that happened in the marketplace.
// It is sent to:
// 1. Redis Pub/Sub (for real-time WebSocket broadcast)
// 2. NATS JetStream (same broadcast, for deployments without Redis)
type ListingEvent struct {
	EventID       string    `json:"event_id"`
	Type          string    `json:"type"`
	ListingID     int64     `json:"listing_id,omitempty"`
	Title         string    `json:"title,omitempty"`
	Category      string    `json:"category"`
	Location      string    `json:"location,omitempty"`
	Price         int64     `json:"price,omitempty"`
	CategoryCount int       `json:"category_count,omitempty"`
	Message       string    `json:"message,omitempty"`
	Kind          string    `json:"kind,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// Prefixes of the Redis channels and NATS subjects events are published on.
// The category (or AllFilter for toasts) completes the name.
const (
	ChannelPrefix = "listing_events:"
	SubjectPrefix = "listing.events."
)

// EventChannel returns the Redis Pub/Sub channel for a category
func EventChannel(category string) string {
	return ChannelPrefix + category
}

// EventSubject returns the NATS subject for a category
func EventSubject(category string) string {
	return SubjectPrefix + category
}

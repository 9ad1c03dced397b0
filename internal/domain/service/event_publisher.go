package service

import (
	"context"
	"time"
)

// MatchEvent is emitted once per newly created chat.
type MatchEvent struct {
	RequestID  string    `json:"request_id,omitempty"` // For distributed tracing
	ChatID     string    `json:"chat_id"`
	ProfileIDs [2]string `json:"profile_ids"`
	MatchedAt  time.Time `json:"matched_at"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishMatchEvent publishes a match event for downstream consumers
	PublishMatchEvent(ctx context.Context, event *MatchEvent) error

	// Close releases any resources held by the publisher
	Close() error
}

package service

import (
	"context"
)

// ShareEvent is the queue representation of a push request, published by the
// async dispatch path and consumed by the Pub/Sub push ingress.
type ShareEvent struct {
	RequestID   string `json:"request_id,omitempty"` // For distributed tracing.
	RecipientID string `json:"recipientId"`
	Type        string `json:"type"`
	Content     string `json:"content,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	FromName    string `json:"fromName,omitempty"`
	Timestamp   string `json:"timestamp,omitempty"`
}

// EventPublisher defines the interface for publishing share events to a
// message queue for asynchronous dispatch.
type EventPublisher interface {
	// PublishShareEvent publishes a share event for async processing.
	PublishShareEvent(ctx context.Context, event *ShareEvent) error

	// Close releases any resources held by the publisher.
	Close() error
}

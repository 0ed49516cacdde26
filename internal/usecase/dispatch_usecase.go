package usecase

import (
	"context"
)

// PushRequest is one request to notify a partner about a shared item.
// Content, ImageURL, FromName and Timestamp are optional; missing values are
// filled with defaults before delivery.
type PushRequest struct {
	RequestID   string `json:"-"` // For distributed tracing, set by the handler.
	RecipientID string `json:"recipientId"`
	Type        string `json:"type"`
	Content     string `json:"content"`
	ImageURL    string `json:"imageUrl"`
	FromName    string `json:"fromName"`
	Timestamp   string `json:"timestamp"`
}

// DispatchSummary aggregates the outcome of one fan-out.
type DispatchSummary struct {
	SentTo    int `json:"sentTo"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// DispatchUsecase defines the interface for push dispatch use cases
type DispatchUsecase interface {
	// Dispatch resolves the recipient's device tokens and fans the
	// notification out to all of them, returning per-run counts. A recipient
	// with no registered tokens yields a zero summary, not an error.
	Dispatch(ctx context.Context, req *PushRequest) (*DispatchSummary, error)

	// DispatchAsync validates the request and enqueues it for background
	// delivery instead of sending inline.
	DispatchAsync(ctx context.Context, req *PushRequest) error
}

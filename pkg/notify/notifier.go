// Package notify is a small client for the dispatcher's send endpoint. It is
// fire-and-forget: the composer flow that shares a photo or note must never
// block or fail because a push could not be delivered, so every error is
// logged and swallowed.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

const defaultTimeout = 10 * time.Second

// Notification is the body posted to the dispatcher.
type Notification struct {
	RecipientID string `json:"recipientId"`
	Type        string `json:"type"`
	Content     string `json:"content,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	FromName    string `json:"fromName,omitempty"`
	Timestamp   string `json:"timestamp,omitempty"`
}

// Notifier posts notifications to a dispatcher endpoint.
type Notifier struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

// New creates a Notifier targeting the dispatcher's send endpoint, e.g.
// "http://dispatcher:8080/send-push".
func New(endpoint string, logger *slog.Logger) *Notifier {
	return &Notifier{
		endpoint: endpoint,
		client:   &http.Client{Timeout: defaultTimeout},
		logger:   logger,
	}
}

// Notify sends the notification and discards the outcome. It never returns
// an error; delivery problems only show up in the logs.
func (n *Notifier) Notify(ctx context.Context, notification *Notification) {
	body, err := json.Marshal(notification)
	if err != nil {
		n.logger.LogAttrs(ctx, slog.LevelError, "Failed to encode notification",
			slog.String("error", err.Error()),
		)

		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(body))
	if err != nil {
		n.logger.LogAttrs(ctx, slog.LevelError, "Failed to build notification request",
			slog.String("error", err.Error()),
		)

		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		n.logger.LogAttrs(ctx, slog.LevelWarn, "Push dispatch failed",
			slog.String("recipient_id", notification.RecipientID),
			slog.String("error", err.Error()),
		)

		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		n.logger.LogAttrs(ctx, slog.LevelWarn, "Push dispatch rejected",
			slog.String("recipient_id", notification.RecipientID),
			slog.Int("status", resp.StatusCode),
		)
	}
}

package service

import (
	"context"

	"pairpost/internal/domain/entity"
)

// PushSender delivers one logical notification to a set of device tokens.
type PushSender interface {
	// Send fans the data payload out to every token concurrently and returns
	// one DeliveryResult per token, in input order. Per-device failures are
	// reported in the results, never as the error return; the error return is
	// reserved for failures that abort the whole fan-out (missing credentials,
	// rejected OAuth2 exchange).
	Send(ctx context.Context, tokens []string, data map[string]string) ([]entity.DeliveryResult, error)
}

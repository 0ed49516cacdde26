package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"pairpost/internal/domain/entity"
	domainerrors "pairpost/internal/domain/errors"
	"pairpost/internal/domain/repository"
	"pairpost/internal/domain/service"
	"pairpost/internal/usecase"
)

const defaultFromName = "Someone"

type dispatchService struct {
	tokenRepo repository.DeviceTokenRepository
	sender    service.PushSender
	publisher service.EventPublisher
	logger    *slog.Logger
}

// NewDispatchService creates a new dispatch service instance
func NewDispatchService(
	tokenRepo repository.DeviceTokenRepository,
	sender service.PushSender,
	publisher service.EventPublisher,
	logger *slog.Logger,
) usecase.DispatchUsecase {
	return &dispatchService{
		tokenRepo: tokenRepo,
		sender:    sender,
		publisher: publisher,
		logger:    logger,
	}
}

// Dispatch resolves the recipient's tokens and fans the notification out.
func (s *dispatchService) Dispatch(ctx context.Context, req *usecase.PushRequest) (*usecase.DispatchSummary, error) {
	if err := validatePushRequest(req); err != nil {
		return nil, err
	}

	deviceTokens, err := s.tokenRepo.FindTokensByUser(ctx, req.RecipientID)
	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelError, "Error fetching tokens",
			slog.String("recipient_id", req.RecipientID),
			slog.String("error", err.Error()),
		)

		return nil, domainerrors.NewStoreError(err, "Failed to fetch tokens")
	}

	if len(deviceTokens) == 0 {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "No device tokens for user",
			slog.String("recipient_id", req.RecipientID),
		)

		return &usecase.DispatchSummary{}, nil
	}

	tokens := make([]string, 0, len(deviceTokens))
	for _, deviceToken := range deviceTokens {
		tokens = append(tokens, deviceToken.Token)
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "Resolved recipient tokens",
		slog.String("recipient_id", req.RecipientID),
		slog.Int("tokens", len(tokens)),
	)

	results, err := s.sender.Send(ctx, tokens, buildPushData(req))
	if err != nil {
		return nil, err
	}

	summary := &usecase.DispatchSummary{SentTo: len(tokens)}
	for _, result := range results {
		if result.Delivered {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
	}

	if summary.Failed > 0 {
		reasons := make([]string, 0, summary.Failed)
		for _, result := range results {
			if !result.Delivered {
				reasons = append(reasons, result.Error)
			}
		}
		s.logger.LogAttrs(ctx, slog.LevelError, "FCM send errors",
			slog.String("recipient_id", req.RecipientID),
			slog.Int("failed", summary.Failed),
			slog.Any("errors", reasons),
		)
	}

	return summary, nil
}

// DispatchAsync validates the request and publishes it for background delivery.
func (s *dispatchService) DispatchAsync(ctx context.Context, req *usecase.PushRequest) error {
	if err := validatePushRequest(req); err != nil {
		return err
	}

	event := &service.ShareEvent{
		RequestID:   req.RequestID,
		RecipientID: req.RecipientID,
		Type:        req.Type,
		Content:     req.Content,
		ImageURL:    req.ImageURL,
		FromName:    req.FromName,
		Timestamp:   req.Timestamp,
	}

	if err := s.publisher.PublishShareEvent(ctx, event); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelError, "Failed to publish share event",
			slog.String("recipient_id", req.RecipientID),
			slog.String("error", err.Error()),
		)

		return err
	}

	return nil
}

func validatePushRequest(req *usecase.PushRequest) error {
	if req == nil || strings.TrimSpace(req.RecipientID) == "" || strings.TrimSpace(req.Type) == "" {
		return domainerrors.ErrValidation.WithMessage("recipientId and type required")
	}
	if !entity.PushKind(req.Type).Valid() {
		return domainerrors.ErrValidation.WithMessage("unsupported notification type")
	}

	return nil
}

// buildPushData flattens the request into the FCM data payload. Every value
// must be a string; absent fields get their documented defaults.
func buildPushData(req *usecase.PushRequest) map[string]string {
	fromName := req.FromName
	if fromName == "" {
		fromName = defaultFromName
	}

	timestamp := req.Timestamp
	if timestamp == "" {
		timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	return map[string]string{
		"type":      req.Type,
		"content":   req.Content,
		"imageUrl":  req.ImageURL,
		"fromName":  fromName,
		"timestamp": timestamp,
	}
}

package handler

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"pairpost/config"
	deliverycontext "pairpost/internal/delivery/context"
	"pairpost/internal/delivery/http/response"
	"pairpost/internal/domain/constants"
	domainerrors "pairpost/internal/domain/errors"
	"pairpost/internal/domain/service"
	"pairpost/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"google.golang.org/api/idtoken"
)

const noTokensMessage = "No device tokens found for user"

// PubSubMessage represents the structure of a Pub/Sub push message
type PubSubMessage struct {
	Message struct {
		Data        string            `json:"data"`
		Attributes  map[string]string `json:"attributes,omitempty"`
		MessageID   string            `json:"messageId"`
		PublishTime string            `json:"publishTime"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// sendPushRequest is the client-facing dispatch body.
type sendPushRequest struct {
	RecipientID string `json:"recipientId"`
	Type        string `json:"type"`
	Content     string `json:"content"`
	ImageURL    string `json:"imageUrl"`
	FromName    string `json:"fromName"`
	Timestamp   string `json:"timestamp"`
}

// PushHandler handles client dispatch requests and Pub/Sub push messages
type PushHandler struct {
	verifyPushAuth bool
	logger         *slog.Logger
	dispatchSvc    usecase.DispatchUsecase
}

// PushHandlerParams holds dependencies for the PushHandler
type PushHandlerParams struct {
	fx.In

	Config      *config.Config
	Logger      *slog.Logger
	DispatchSvc usecase.DispatchUsecase
}

// NewPushHandler creates a new push handler
func NewPushHandler(params PushHandlerParams) *PushHandler {
	// Only verify push tokens when real Google Pub/Sub delivers to us
	verifyPushAuth := params.Config.PubSub != nil &&
		params.Config.PubSub.Provider == constants.PubSubProviderGoogle &&
		params.Config.Env.Env != constants.EnvDevelop

	return &PushHandler{
		verifyPushAuth: verifyPushAuth,
		logger:         params.Logger,
		dispatchSvc:    params.DispatchSvc,
	}
}

// SendPush dispatches a notification inline and reports per-run counts.
func (h *PushHandler) SendPush(c echo.Context) error {
	var req sendPushRequest
	if err := c.Bind(&req); err != nil {
		return domainerrors.ErrValidation.WithMessage("invalid request body")
	}

	summary, err := h.dispatchSvc.Dispatch(c.Request().Context(), h.toPushRequest(c, &req))
	if err != nil {
		return err
	}

	if summary.SentTo == 0 {
		return response.OK(c, http.StatusOK, response.NoRecipients{
			OK:      true,
			Message: noTokensMessage,
			SentTo:  0,
		})
	}

	return response.OK(c, http.StatusOK, response.DispatchSummary{
		OK:        true,
		SentTo:    summary.SentTo,
		Succeeded: summary.Succeeded,
		Failed:    summary.Failed,
	})
}

// SendPushAsync validates the request and enqueues it, returning before any
// delivery happens.
func (h *PushHandler) SendPushAsync(c echo.Context) error {
	var req sendPushRequest
	if err := c.Bind(&req); err != nil {
		return domainerrors.ErrValidation.WithMessage("invalid request body")
	}

	if err := h.dispatchSvc.DispatchAsync(c.Request().Context(), h.toPushRequest(c, &req)); err != nil {
		return err
	}

	return response.OK(c, http.StatusAccepted, response.Ack{OK: true})
}

// HandlePush handles incoming Pub/Sub push messages
func (h *PushHandler) HandlePush(c echo.Context) error {
	ctx := c.Request().Context()

	// Verify Pub/Sub token in production for Google provider
	if h.verifyPushAuth {
		if err := verifyPubSubToken(c.Request()); err != nil {
			h.logger.Warn("[Dispatcher] Invalid Pub/Sub token", slog.Any("error", err))

			return c.NoContent(http.StatusUnauthorized)
		}
	}

	// Parse Pub/Sub message
	var pushMsg PubSubMessage
	if err := c.Bind(&pushMsg); err != nil {
		h.logger.Error("[Dispatcher] Failed to parse push message", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	// Decode base64 message data
	data, err := base64.StdEncoding.DecodeString(pushMsg.Message.Data)
	if err != nil {
		h.logger.Error("[Dispatcher] Failed to decode message data", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	// Parse share event
	var event service.ShareEvent
	if err := json.Unmarshal(data, &event); err != nil {
		h.logger.Error("[Dispatcher] Failed to parse share event", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	// Extract request_id for distributed tracing
	// Priority: message attributes > event field > existing context
	requestID := h.extractRequestID(c, &pushMsg, &event)

	reqLogger := h.logger.With(slog.String("request_id", requestID))
	ctx = deliverycontext.WithRequestID(ctx, requestID)
	ctx = deliverycontext.WithLogger(ctx, reqLogger)

	reqLogger.Info("[Dispatcher] Processing share event",
		slog.String("recipient_id", event.RecipientID),
		slog.String("type", event.Type),
	)

	summary, err := h.dispatchSvc.Dispatch(ctx, &usecase.PushRequest{
		RequestID:   requestID,
		RecipientID: event.RecipientID,
		Type:        event.Type,
		Content:     event.Content,
		ImageURL:    event.ImageURL,
		FromName:    event.FromName,
		Timestamp:   event.Timestamp,
	})
	if err != nil {
		retryable := isStoreError(err)
		reqLogger.Error("[Dispatcher] Failed to process share event",
			slog.String("recipient_id", event.RecipientID),
			slog.Any("error", err),
			slog.Bool("retryable", retryable),
		)
		// Return 503 for retryable errors to trigger Pub/Sub retry
		// Return 200 for non-retryable errors to prevent infinite retries
		if retryable {
			return c.NoContent(http.StatusServiceUnavailable)
		}

		return c.NoContent(http.StatusOK)
	}

	reqLogger.Info("[Dispatcher] Share event processed",
		slog.String("recipient_id", event.RecipientID),
		slog.Int("sent_to", summary.SentTo),
		slog.Int("succeeded", summary.Succeeded),
		slog.Int("failed", summary.Failed),
	)

	return c.NoContent(http.StatusOK)
}

// toPushRequest maps the wire body onto the usecase input, attaching the
// request ID for tracing.
func (h *PushHandler) toPushRequest(c echo.Context, req *sendPushRequest) *usecase.PushRequest {
	return &usecase.PushRequest{
		RequestID:   deliverycontext.GetRequestID(c),
		RecipientID: req.RecipientID,
		Type:        req.Type,
		Content:     req.Content,
		ImageURL:    req.ImageURL,
		FromName:    req.FromName,
		Timestamp:   req.Timestamp,
	}
}

// extractRequestID extracts request_id from message attributes, event, or generates a new one
func (h *PushHandler) extractRequestID(c echo.Context, pushMsg *PubSubMessage, event *service.ShareEvent) string {
	// 1. Try message attributes (from Pub/Sub)
	if requestID, ok := pushMsg.Message.Attributes["request_id"]; ok && requestID != "" {
		return requestID
	}

	// 2. Try event field (from JSON payload)
	if event.RequestID != "" {
		return event.RequestID
	}

	// 3. Fall back to the request-scoped ID set by the middleware
	return deliverycontext.GetRequestID(c)
}

// isStoreError reports whether the dispatch failed on the token store, the
// one failure class worth a Pub/Sub redelivery.
func isStoreError(err error) bool {
	var storeErr *domainerrors.StoreError

	return errors.As(err, &storeErr)
}

// verifyPubSubToken verifies the JWT token from Google Pub/Sub push requests
// Reference: https://cloud.google.com/pubsub/docs/push#authenticating_standard_push_requests
func verifyPubSubToken(req *http.Request) error {
	// Get the Authorization header
	authHeader := req.Header.Get("Authorization")
	if authHeader == "" {
		return errors.New("missing authorization header")
	}

	// Extract Bearer token
	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return errors.New("invalid authorization header format")
	}
	token := strings.TrimPrefix(authHeader, bearerPrefix)

	// Construct the expected audience (the push endpoint URL)
	scheme := "https"
	if req.TLS == nil {
		scheme = "http" // For local development
	}
	audience := fmt.Sprintf("%s://%s%s", scheme, req.Host, req.URL.Path)

	// Validate the token using Google's ID token validator
	ctx := req.Context()
	payload, err := idtoken.Validate(ctx, token, audience)
	if err != nil {
		return errors.Wrap(err, "failed to validate token")
	}

	// Verify the token is from Google Pub/Sub
	if payload.Issuer != "accounts.google.com" && payload.Issuer != "https://accounts.google.com" {
		return errors.Errorf("invalid issuer: %s", payload.Issuer)
	}

	// Verify email is verified (if email claim exists)
	if emailVerified, ok := payload.Claims["email_verified"].(bool); ok && !emailVerified {
		return errors.New("email not verified")
	}

	return nil
}

package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pairpost/config"
	httpmiddleware "pairpost/internal/delivery/http/middleware"
	"pairpost/internal/delivery/http/validator"
	deliverymiddleware "pairpost/internal/delivery/middleware"
	domainerrors "pairpost/internal/domain/errors"
	mockUsecase "pairpost/internal/mocks/usecase"
	"pairpost/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type pushHandlerFixtures struct {
	echo        *echo.Echo
	dispatchSvc *mockUsecase.MockDispatchUsecase
}

func createTestPushHandler(t *testing.T) pushHandlerFixtures {
	dispatchSvc := mockUsecase.NewMockDispatchUsecase(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := &config.Config{}
	cfg.Env.Env = "develop"

	h := NewPushHandler(PushHandlerParams{
		Config:      cfg,
		Logger:      logger,
		DispatchSvc: dispatchSvc,
	})

	e := echo.New()
	e.Validator = validator.New()
	requestID := deliverymiddleware.NewRequestIDMiddleware(logger)
	e.Use(requestID.Process)
	e.HTTPErrorHandler = httpmiddleware.NewErrorMiddleware(logger).HandleHTTPError
	e.POST("/send-push", h.SendPush)
	e.POST("/send-push-async", h.SendPushAsync)
	e.POST("/push", h.HandlePush)

	return pushHandlerFixtures{echo: e, dispatchSvc: dispatchSvc}
}

func postJSON(e *echo.Echo, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	return rec
}

func TestSendPush_Success(t *testing.T) {
	fx := createTestPushHandler(t)

	fx.dispatchSvc.EXPECT().
		Dispatch(mock.Anything, mock.AnythingOfType("*usecase.PushRequest")).
		Run(func(_ context.Context, req *usecase.PushRequest) {
			assert.Equal(t, "u1", req.RecipientID)
			assert.Equal(t, "image", req.Type)
			assert.Equal(t, "http://x/img.jpg", req.ImageURL)
			assert.Equal(t, "Alex", req.FromName)
			assert.NotEmpty(t, req.RequestID)
		}).
		Return(&usecase.DispatchSummary{SentTo: 2, Succeeded: 1, Failed: 1}, nil)

	rec := postJSON(fx.echo, "/send-push", `{"recipientId":"u1","type":"image","imageUrl":"http://x/img.jpg","fromName":"Alex"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true,"sentTo":2,"succeeded":1,"failed":1}`, rec.Body.String())
}

func TestSendPush_NoTokens(t *testing.T) {
	fx := createTestPushHandler(t)

	fx.dispatchSvc.EXPECT().
		Dispatch(mock.Anything, mock.AnythingOfType("*usecase.PushRequest")).
		Return(&usecase.DispatchSummary{}, nil)

	rec := postJSON(fx.echo, "/send-push", `{"recipientId":"u1","type":"note"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true,"message":"No device tokens found for user","sentTo":0}`, rec.Body.String())
}

func TestSendPush_ValidationFailure(t *testing.T) {
	fx := createTestPushHandler(t)

	fx.dispatchSvc.EXPECT().
		Dispatch(mock.Anything, mock.AnythingOfType("*usecase.PushRequest")).
		Return(nil, domainerrors.ErrValidation.WithMessage("recipientId and type required"))

	rec := postJSON(fx.echo, "/send-push", `{"type":"note"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "recipientId and type required", body["error"])
}

func TestSendPush_UpstreamAuthFailure(t *testing.T) {
	fx := createTestPushHandler(t)

	fx.dispatchSvc.EXPECT().
		Dispatch(mock.Anything, mock.AnythingOfType("*usecase.PushRequest")).
		Return(nil, domainerrors.NewUpstreamAuthError(`{"error":"invalid_grant"}`))

	rec := postJSON(fx.echo, "/send-push", `{"recipientId":"u1","type":"note"}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "failed to get access token")
	assert.Contains(t, body["error"], "invalid_grant")
}

func TestSendPushAsync_Accepted(t *testing.T) {
	fx := createTestPushHandler(t)

	fx.dispatchSvc.EXPECT().
		DispatchAsync(mock.Anything, mock.AnythingOfType("*usecase.PushRequest")).
		Return(nil)

	rec := postJSON(fx.echo, "/send-push-async", `{"recipientId":"u1","type":"note","content":"hi"}`)

	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

func pubSubBody(t *testing.T, event map[string]any, attributes map[string]string) string {
	t.Helper()

	data, err := json.Marshal(event)
	require.NoError(t, err)

	msg := map[string]any{
		"message": map[string]any{
			"data":        base64.StdEncoding.EncodeToString(data),
			"attributes":  attributes,
			"messageId":   "m1",
			"publishTime": "2026-09-01T10:00:00Z",
		},
		"subscription": "projects/local/subscriptions/share-sub",
	}

	body, err := json.Marshal(msg)
	require.NoError(t, err)

	return string(body)
}

func TestHandlePush_ProcessesEvent(t *testing.T) {
	fx := createTestPushHandler(t)

	fx.dispatchSvc.EXPECT().
		Dispatch(mock.Anything, mock.AnythingOfType("*usecase.PushRequest")).
		Run(func(_ context.Context, req *usecase.PushRequest) {
			assert.Equal(t, "u1", req.RecipientID)
			assert.Equal(t, "note", req.Type)
			assert.Equal(t, "req-42", req.RequestID)
		}).
		Return(&usecase.DispatchSummary{SentTo: 1, Succeeded: 1}, nil)

	body := pubSubBody(t,
		map[string]any{"recipientId": "u1", "type": "note", "content": "hi"},
		map[string]string{"request_id": "req-42"},
	)

	rec := postJSON(fx.echo, "/push", body)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHandlePush_StoreFailureTriggersRetry(t *testing.T) {
	fx := createTestPushHandler(t)

	fx.dispatchSvc.EXPECT().
		Dispatch(mock.Anything, mock.AnythingOfType("*usecase.PushRequest")).
		Return(nil, domainerrors.NewStoreError(errors.New("connection reset"), "Failed to fetch tokens"))

	body := pubSubBody(t, map[string]any{"recipientId": "u1", "type": "note"}, nil)

	rec := postJSON(fx.echo, "/push", body)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandlePush_NonRetryableFailureAcks(t *testing.T) {
	fx := createTestPushHandler(t)

	fx.dispatchSvc.EXPECT().
		Dispatch(mock.Anything, mock.AnythingOfType("*usecase.PushRequest")).
		Return(nil, domainerrors.ErrValidation.WithMessage("unsupported notification type"))

	body := pubSubBody(t, map[string]any{"recipientId": "u1", "type": "video"}, nil)

	rec := postJSON(fx.echo, "/push", body)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHandlePush_MalformedData(t *testing.T) {
	fx := createTestPushHandler(t)

	body := `{"message":{"data":"not-base64!!","messageId":"m1"},"subscription":"s"}`

	rec := postJSON(fx.echo, "/push", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	fx.dispatchSvc.AssertNotCalled(t, "Dispatch")
}

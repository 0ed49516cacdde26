package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"pairpost/internal/domain/entity"
	domainerrors "pairpost/internal/domain/errors"
	domainservice "pairpost/internal/domain/service"
	mockRepo "pairpost/internal/mocks/repository"
	mockService "pairpost/internal/mocks/service"
	"pairpost/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// dispatchServiceFixtures holds all test dependencies for dispatch service tests.
type dispatchServiceFixtures struct {
	service   usecase.DispatchUsecase
	tokenRepo *mockRepo.MockDeviceTokenRepository
	sender    *mockService.MockPushSender
	publisher *mockService.MockEventPublisher
}

func createTestDispatchService(t *testing.T) dispatchServiceFixtures {
	tokenRepo := mockRepo.NewMockDeviceTokenRepository(t)
	sender := mockService.NewMockPushSender(t)
	publisher := mockService.NewMockEventPublisher(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := NewDispatchService(tokenRepo, sender, publisher, logger)

	return dispatchServiceFixtures{
		service:   service,
		tokenRepo: tokenRepo,
		sender:    sender,
		publisher: publisher,
	}
}

func deviceTokensFor(userID string, tokens ...string) []*entity.DeviceToken {
	out := make([]*entity.DeviceToken, 0, len(tokens))
	for _, token := range tokens {
		out = append(out, &entity.DeviceToken{UserID: userID, Token: token})
	}

	return out
}

func TestDispatchService_Dispatch_AllDelivered(t *testing.T) {
	fx := createTestDispatchService(t)

	ctx := context.Background()
	req := &usecase.PushRequest{
		RecipientID: "partner-1",
		Type:        "image",
		ImageURL:    "https://cdn.example.com/photo.jpg",
		FromName:    "Alex",
		Timestamp:   "2026-09-01T10:00:00Z",
	}

	fx.tokenRepo.EXPECT().
		FindTokensByUser(ctx, "partner-1").
		Return(deviceTokensFor("partner-1", "tok-a", "tok-b"), nil)

	fx.sender.EXPECT().
		Send(ctx, []string{"tok-a", "tok-b"}, mock.Anything).
		Run(func(_ context.Context, _ []string, data map[string]string) {
			assert.Equal(t, "image", data["type"])
			assert.Equal(t, "", data["content"])
			assert.Equal(t, "https://cdn.example.com/photo.jpg", data["imageUrl"])
			assert.Equal(t, "Alex", data["fromName"])
			assert.Equal(t, "2026-09-01T10:00:00Z", data["timestamp"])
		}).
		Return([]entity.DeliveryResult{
			{Token: "tok-a", Delivered: true},
			{Token: "tok-b", Delivered: true},
		}, nil)

	summary, err := fx.service.Dispatch(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, &usecase.DispatchSummary{SentTo: 2, Succeeded: 2, Failed: 0}, summary)
}

func TestDispatchService_Dispatch_PartialFailure(t *testing.T) {
	fx := createTestDispatchService(t)

	ctx := context.Background()
	req := &usecase.PushRequest{RecipientID: "partner-1", Type: "note", Content: "hi"}

	fx.tokenRepo.EXPECT().
		FindTokensByUser(ctx, "partner-1").
		Return(deviceTokensFor("partner-1", "tok-a", "tok-b", "tok-c"), nil)

	fx.sender.EXPECT().
		Send(ctx, []string{"tok-a", "tok-b", "tok-c"}, mock.Anything).
		Return([]entity.DeliveryResult{
			{Token: "tok-a", Delivered: true},
			{Token: "tok-b", Error: "UNREGISTERED"},
			{Token: "tok-c", Delivered: true},
		}, nil)

	summary, err := fx.service.Dispatch(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, &usecase.DispatchSummary{SentTo: 3, Succeeded: 2, Failed: 1}, summary)
}

func TestDispatchService_Dispatch_NoTokens(t *testing.T) {
	fx := createTestDispatchService(t)

	ctx := context.Background()
	req := &usecase.PushRequest{RecipientID: "partner-1", Type: "note"}

	fx.tokenRepo.EXPECT().
		FindTokensByUser(ctx, "partner-1").
		Return([]*entity.DeviceToken{}, nil)

	summary, err := fx.service.Dispatch(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, &usecase.DispatchSummary{}, summary)
	fx.sender.AssertNotCalled(t, "Send")
}

func TestDispatchService_Dispatch_DefaultsPayloadFields(t *testing.T) {
	fx := createTestDispatchService(t)

	ctx := context.Background()
	req := &usecase.PushRequest{RecipientID: "partner-1", Type: "note"}

	fx.tokenRepo.EXPECT().
		FindTokensByUser(ctx, "partner-1").
		Return(deviceTokensFor("partner-1", "tok-a"), nil)

	fx.sender.EXPECT().
		Send(ctx, []string{"tok-a"}, mock.Anything).
		Run(func(_ context.Context, _ []string, data map[string]string) {
			assert.Equal(t, "Someone", data["fromName"])
			assert.Equal(t, "", data["content"])
			assert.Equal(t, "", data["imageUrl"])

			ts, err := time.Parse(time.RFC3339, data["timestamp"])
			assert.NoError(t, err)
			assert.WithinDuration(t, time.Now(), ts, time.Minute)
		}).
		Return([]entity.DeliveryResult{{Token: "tok-a", Delivered: true}}, nil)

	_, err := fx.service.Dispatch(ctx, req)
	require.NoError(t, err)
}

func TestDispatchService_Dispatch_Validation(t *testing.T) {
	fx := createTestDispatchService(t)

	ctx := context.Background()

	cases := []struct {
		name    string
		req     *usecase.PushRequest
		message string
	}{
		{name: "nil request", req: nil, message: "recipientId and type required"},
		{name: "missing recipientId", req: &usecase.PushRequest{Type: "note"}, message: "recipientId and type required"},
		{name: "missing type", req: &usecase.PushRequest{RecipientID: "partner-1"}, message: "recipientId and type required"},
		{name: "unknown type", req: &usecase.PushRequest{RecipientID: "partner-1", Type: "video"}, message: "unsupported notification type"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			summary, err := fx.service.Dispatch(ctx, tc.req)
			require.Error(t, err)
			assert.Nil(t, summary)

			var appErr domainerrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, 400, appErr.HTTPCode())
			assert.Contains(t, err.Error(), tc.message)
		})
	}
}

func TestDispatchService_Dispatch_StoreFailure(t *testing.T) {
	fx := createTestDispatchService(t)

	ctx := context.Background()
	req := &usecase.PushRequest{RecipientID: "partner-1", Type: "note"}

	fx.tokenRepo.EXPECT().
		FindTokensByUser(ctx, "partner-1").
		Return(nil, errors.New("connection reset"))

	summary, err := fx.service.Dispatch(ctx, req)
	require.Error(t, err)
	assert.Nil(t, summary)

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 500, appErr.HTTPCode())
	assert.Equal(t, "Failed to fetch tokens", appErr.Message())
}

func TestDispatchService_Dispatch_SenderFailureAborts(t *testing.T) {
	fx := createTestDispatchService(t)

	ctx := context.Background()
	req := &usecase.PushRequest{RecipientID: "partner-1", Type: "note"}

	fx.tokenRepo.EXPECT().
		FindTokensByUser(ctx, "partner-1").
		Return(deviceTokensFor("partner-1", "tok-a"), nil)

	fx.sender.EXPECT().
		Send(ctx, []string{"tok-a"}, mock.Anything).
		Return(nil, domainerrors.NewUpstreamAuthError("invalid_grant"))

	summary, err := fx.service.Dispatch(ctx, req)
	require.Error(t, err)
	assert.Nil(t, summary)
	assert.Contains(t, err.Error(), "failed to get access token")
}

func TestDispatchService_DispatchAsync_PublishesEvent(t *testing.T) {
	fx := createTestDispatchService(t)

	ctx := context.Background()
	req := &usecase.PushRequest{
		RequestID:   "req-123",
		RecipientID: "partner-1",
		Type:        "image",
		ImageURL:    "https://cdn.example.com/photo.jpg",
	}

	fx.publisher.EXPECT().
		PublishShareEvent(ctx, mock.AnythingOfType("*service.ShareEvent")).
		Run(func(_ context.Context, event *domainservice.ShareEvent) {
			assert.Equal(t, "req-123", event.RequestID)
			assert.Equal(t, "partner-1", event.RecipientID)
			assert.Equal(t, "image", event.Type)
			assert.Equal(t, "https://cdn.example.com/photo.jpg", event.ImageURL)
		}).
		Return(nil)

	err := fx.service.DispatchAsync(ctx, req)
	require.NoError(t, err)
}

func TestDispatchService_DispatchAsync_ValidationStillApplies(t *testing.T) {
	fx := createTestDispatchService(t)

	err := fx.service.DispatchAsync(context.Background(), &usecase.PushRequest{Type: "note"})
	require.Error(t, err)
	fx.publisher.AssertNotCalled(t, "PublishShareEvent")
}

func TestDispatchService_DispatchAsync_PublishFailure(t *testing.T) {
	fx := createTestDispatchService(t)

	ctx := context.Background()
	req := &usecase.PushRequest{RecipientID: "partner-1", Type: "note"}

	fx.publisher.EXPECT().
		PublishShareEvent(ctx, mock.AnythingOfType("*service.ShareEvent")).
		Return(errors.New("topic unavailable"))

	err := fx.service.DispatchAsync(ctx, req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "topic unavailable")
}

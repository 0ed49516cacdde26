package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	httpmiddleware "pairpost/internal/delivery/http/middleware"
	"pairpost/internal/delivery/http/validator"
	"pairpost/internal/domain/entity"
	domainerrors "pairpost/internal/domain/errors"
	mockUsecase "pairpost/internal/mocks/usecase"
	"pairpost/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type deviceHandlerFixtures struct {
	echo         *echo.Echo
	registrarSvc *mockUsecase.MockRegistrarUsecase
}

func createTestDeviceHandler(t *testing.T) deviceHandlerFixtures {
	registrarSvc := mockUsecase.NewMockRegistrarUsecase(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	h := NewDeviceHandler(DeviceHandlerParams{
		Logger:       logger,
		RegistrarSvc: registrarSvc,
	})

	e := echo.New()
	e.Validator = validator.New()
	e.HTTPErrorHandler = httpmiddleware.NewErrorMiddleware(logger).HandleHTTPError
	e.POST("/register-device", h.RegisterDevice)
	e.GET("/health", HealthCheck)

	return deviceHandlerFixtures{echo: e, registrarSvc: registrarSvc}
}

func postJSON(e *echo.Echo, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	return rec
}

func TestRegisterDevice_Success(t *testing.T) {
	fx := createTestDeviceHandler(t)

	fx.registrarSvc.EXPECT().
		RegisterToken(mock.Anything, mock.AnythingOfType("*usecase.RegisterTokenInput")).
		Return(&entity.DeviceToken{UserID: "u1", Token: "tok-a"}, nil)

	rec := postJSON(fx.echo, "/register-device", `{"userId":"u1","token":"tok-a","deviceInfo":{"platform":"android"}}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

func TestRegisterDevice_MissingFields(t *testing.T) {
	fx := createTestDeviceHandler(t)

	rec := postJSON(fx.echo, "/register-device", `{"userId":"u1"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "userId and token required", body["error"])
	fx.registrarSvc.AssertNotCalled(t, "RegisterToken")
}

func TestRegisterDevice_StoreFailure(t *testing.T) {
	fx := createTestDeviceHandler(t)

	fx.registrarSvc.EXPECT().
		RegisterToken(mock.Anything, mock.AnythingOfType("*usecase.RegisterTokenInput")).
		Return(nil, domainerrors.NewStoreError(assertErr{}, "failed to save device token"))

	rec := postJSON(fx.echo, "/register-device", `{"userId":"u1","token":"tok-a"}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "failed to save device token", body["error"])
}

func TestRegisterDevice_PassesDeviceInfoThrough(t *testing.T) {
	fx := createTestDeviceHandler(t)

	fx.registrarSvc.EXPECT().
		RegisterToken(mock.Anything, mock.AnythingOfType("*usecase.RegisterTokenInput")).
		Run(func(_ context.Context, input *usecase.RegisterTokenInput) {
			assert.Equal(t, "u1", input.UserID)
			assert.Equal(t, "tok-a", input.Token)
			assert.Equal(t, "ios", input.DeviceInfo["platform"])
		}).
		Return(&entity.DeviceToken{}, nil)

	rec := postJSON(fx.echo, "/register-device", `{"userId":"u1","token":"tok-a","deviceInfo":{"platform":"ios"}}`)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthCheck(t *testing.T) {
	fx := createTestDeviceHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	fx.echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

// assertErr is a trivial error used as an underlying store failure.
type assertErr struct{}

func (assertErr) Error() string { return "duplicate key" }

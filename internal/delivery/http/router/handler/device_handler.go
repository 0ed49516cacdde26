package handler

import (
	"log/slog"
	"net/http"

	"pairpost/internal/delivery/http/response"
	domainerrors "pairpost/internal/domain/errors"
	"pairpost/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// registerDeviceRequest is the registration body sent by the app on launch
// and on every FCM token rotation.
type registerDeviceRequest struct {
	UserID     string         `json:"userId" validate:"required"`
	Token      string         `json:"token" validate:"required"`
	DeviceInfo map[string]any `json:"deviceInfo"`
}

// DeviceHandler handles device token registration requests.
type DeviceHandler struct {
	logger       *slog.Logger
	registrarSvc usecase.RegistrarUsecase
}

// DeviceHandlerParams holds dependencies for the DeviceHandler
type DeviceHandlerParams struct {
	fx.In

	Logger       *slog.Logger
	RegistrarSvc usecase.RegistrarUsecase
}

// NewDeviceHandler creates a new device handler
func NewDeviceHandler(params DeviceHandlerParams) *DeviceHandler {
	return &DeviceHandler{
		logger:       params.Logger,
		registrarSvc: params.RegistrarSvc,
	}
}

// RegisterDevice upserts a (user, token) registration.
func (h *DeviceHandler) RegisterDevice(c echo.Context) error {
	var req registerDeviceRequest
	if err := c.Bind(&req); err != nil {
		return domainerrors.ErrValidation.WithMessage("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return domainerrors.ErrValidation.WithMessage("userId and token required")
	}

	_, err := h.registrarSvc.RegisterToken(c.Request().Context(), &usecase.RegisterTokenInput{
		UserID:     req.UserID,
		Token:      req.Token,
		DeviceInfo: req.DeviceInfo,
	})
	if err != nil {
		return err
	}

	return response.OK(c, http.StatusOK, response.Ack{OK: true})
}

// HealthCheck reports liveness.
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

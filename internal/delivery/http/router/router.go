// Package router contains routing and server setup for the registrar HTTP delivery.
package router

import (
	"pairpost/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	DeviceHandler *handler.DeviceHandler
}

// router holds all the handlers that need to be registered.
type router struct {
	deviceHandler *handler.DeviceHandler
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		deviceHandler: params.DeviceHandler,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Device token registration, called on every app start and token refresh
	e.POST("/register-device", r.deviceHandler.RegisterDevice)
}

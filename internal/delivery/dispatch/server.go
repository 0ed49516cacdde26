// Package dispatch hosts the dispatcher's Echo server, which serves both the
// client-facing send endpoints and the Pub/Sub push ingress.
package dispatch

import (
	"context"
	"log/slog"
	"net"
	"strconv"

	"pairpost/config"
	"pairpost/internal/delivery"
	"pairpost/internal/delivery/dispatch/handler"
	httpmiddleware "pairpost/internal/delivery/http/middleware"
	"pairpost/internal/delivery/http/validator"
	sharedmiddleware "pairpost/internal/delivery/middleware"
	"pairpost/internal/domain/lifecycle"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	slogecho "github.com/samber/slog-echo"
	"go.uber.org/fx"
)

type dispatchServer struct {
	cfg    *config.Config
	logger *slog.Logger
	server *echo.Echo
}

// ServerParams holds dependencies for the dispatcher server
type ServerParams struct {
	fx.In

	Lc          fx.Lifecycle
	Cfg         *config.Config
	Logger      *slog.Logger
	PushHandler *handler.PushHandler
}

// NewServer creates the dispatcher HTTP server
func NewServer(params ServerParams) (delivery.Delivery, error) {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomiddleware.Recover())
	e.Use(sharedmiddleware.CORS)
	requestIDMiddleware := sharedmiddleware.NewRequestIDMiddleware(params.Logger)
	e.Use(requestIDMiddleware.Process)
	e.Use(slogecho.New(params.Logger))
	e.Validator = validator.New()

	errorMiddleware := httpmiddleware.NewErrorMiddleware(params.Logger)
	e.HTTPErrorHandler = errorMiddleware.HandleHTTPError

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// Client-facing dispatch endpoints
	e.POST("/send-push", params.PushHandler.SendPush)
	e.POST("/send-push-async", params.PushHandler.SendPushAsync)

	// Pub/Sub push ingress
	e.POST("/push", params.PushHandler.HandlePush)

	srv := &dispatchServer{
		cfg:    params.Cfg,
		logger: params.Logger,
		server: e,
	}

	params.Lc.Append(fx.Hook{
		OnStop: srv.stop,
	})

	return srv, nil
}

// Serve starts the dispatcher HTTP server
func (s *dispatchServer) Serve(ctx context.Context) error {
	hostPort := net.JoinHostPort("0.0.0.0", strconv.Itoa(s.cfg.HTTP.Port))
	s.logger.Info("Starting Dispatcher HTTP server", slog.String("hostPort", hostPort))
	if err := s.server.Start(hostPort); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// stop gracefully shuts down the dispatcher server
func (s *dispatchServer) stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
	defer cancel()

	s.logger.Info("Shutting down Dispatcher HTTP server")

	return errors.WithStack(s.server.Shutdown(shutdownCtx))
}

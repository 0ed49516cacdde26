package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const allowedHeaders = "authorization, x-client-info, apikey, content-type"

// CORS allows the mobile clients to call either service from any origin.
// Preflight requests get an empty 200, which is what the app's HTTP client
// expects.
func CORS(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set(echo.HeaderAccessControlAllowOrigin, "*")
		c.Response().Header().Set(echo.HeaderAccessControlAllowHeaders, allowedHeaders)

		if c.Request().Method == http.MethodOptions {
			return c.NoContent(http.StatusOK)
		}

		return next(c)
	}
}

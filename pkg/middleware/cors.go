package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const (
	corsAllowHeaders = "authorization, x-client-info, apikey, content-type, idempotency-key"
	corsAllowMethods = "POST, GET, OPTIONS, PUT, DELETE, PATCH"
)

// CORS opens every route to all origins and answers preflight requests with
// 200 and an empty body, which is what the browser client expects.
func CORS() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set("Access-Control-Allow-Origin", "*")
			h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
			h.Set("Access-Control-Allow-Methods", corsAllowMethods)
			h.Set("Access-Control-Max-Age", "86400")
			h.Set("Access-Control-Allow-Credentials", "false")
			h.Set("Access-Control-Expose-Headers", "Content-Disposition")

			if c.Request().Method == http.MethodOptions {
				return c.NoContent(http.StatusOK)
			}
			return next(c)
		}
	}
}

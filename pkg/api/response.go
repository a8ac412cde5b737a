package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Envelope is the success body of every handler: {"data": ...}.
type Envelope[T any] struct {
	Data T `json:"data"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Kind    string `json:"kind,omitempty"`
}

// ErrorEnvelope is the failure body: {"error": {"code", "message", "kind"}}.
type ErrorEnvelope struct {
	Error ErrorBody `json:"error"`
}

func Success[T any](c echo.Context, data T) error {
	return c.JSON(http.StatusOK, Envelope[T]{Data: data})
}

func Failure(c echo.Context, status int, body ErrorBody) error {
	return c.JSON(status, ErrorEnvelope{Error: body})
}

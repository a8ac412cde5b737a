package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"shipping-system/pkg/api"
	apperrors "shipping-system/pkg/errors"
)

// ActionErrorResponse flattens any action failure into the handler's code
// with HTTP 500. The fine-grained kind travels in the "kind" field.
func ActionErrorResponse(c echo.Context, handlerCode string, err error, logger *zap.Logger) error {
	logger = ContextLogger(c, logger)
	kind := apperrors.KindOf(err)
	message := err.Error()

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		kind = apperrors.KindValidation
		message = ValidationMessage(validationErrors)
	}

	if kind == apperrors.KindInternal || kind == apperrors.KindPersistence || kind == apperrors.KindConfiguration {
		logger.Error("action failed",
			zap.String("code", handlerCode),
			zap.String("kind", string(kind)),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	} else {
		logger.Warn("action rejected",
			zap.String("code", handlerCode),
			zap.String("kind", string(kind)),
			zap.String("message", message),
		)
	}

	return api.Failure(c, http.StatusInternalServerError, api.ErrorBody{
		Code:    handlerCode,
		Message: message,
		Kind:    string(kind),
	})
}

// ErrorResponse answers errors raised outside an action, e.g. by middleware.
func ErrorResponse(c echo.Context, err error, logger *zap.Logger) error {
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		if httpErr.Err != nil {
			logger.Error("HTTP error",
				zap.Int("code", httpErr.Code),
				zap.String("message", httpErr.Message),
				zap.Error(httpErr.Err),
				zap.Any("context", httpErr.Context),
			)
		}
		return api.Failure(c, httpErr.Code, api.ErrorBody{
			Code:    strings.ToUpper(strings.ReplaceAll(http.StatusText(httpErr.Code), " ", "_")),
			Message: httpErr.Message,
		})
	}

	logger.Error("unexpected error", zap.Error(err))
	return api.Failure(c, http.StatusInternalServerError, api.ErrorBody{
		Code:    "INTERNAL_ERROR",
		Message: "Internal server error",
	})
}

func ValidationMessage(errs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		if e.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("field '%s' failed on '%s=%s'", e.Field(), e.Tag(), e.Param()))
			continue
		}
		msgs = append(msgs, fmt.Sprintf("field '%s' failed on '%s'", e.Field(), e.Tag()))
	}
	return "Validation failed: " + strings.Join(msgs, "; ")
}

// ContextLogger returns the request-scoped logger set by InjectLogger.
func ContextLogger(c echo.Context, fallback *zap.Logger) *zap.Logger {
	if l, ok := c.Get("logger").(*zap.Logger); ok && l != nil {
		return l
	}
	return fallback
}

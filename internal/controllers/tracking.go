package controllers

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"shipping-system/internal/dto"
	"shipping-system/internal/services"
	"shipping-system/pkg/api"
	apperrors "shipping-system/pkg/errors"
	"shipping-system/pkg/utils"
)

const (
	trackingFailedCode       = "TRACKING_FAILED"
	updateTrackingFailedCode = "UPDATE_TRACKING_FAILED"
	shipmentNotFoundCode     = "SHIPMENT_NOT_FOUND"
	trackingInfoFailedCode   = "TRACKING_INFO_FAILED"
)

type TrackingController struct {
	trackingService services.TrackingServiceInterface
	logger          *zap.Logger
}

func NewTrackingController(trackingService services.TrackingServiceInterface, logger *zap.Logger) *TrackingController {
	return &TrackingController{trackingService: trackingService, logger: logger}
}

func (c *TrackingController) Track(ctx echo.Context) error {
	body, err := readBody(ctx)
	if err != nil {
		return utils.ActionErrorResponse(ctx, trackingFailedCode, err, c.logger)
	}
	var in dto.TrackShipmentDTO
	if err := bindPayload(ctx, body, &in); err != nil {
		return utils.ActionErrorResponse(ctx, trackingFailedCode, err, c.logger)
	}

	res, err := c.trackingService.Track(ctx.Request().Context(), in)
	if errors.Is(err, services.ErrShipmentNotFound) {
		return api.Failure(ctx, http.StatusNotFound, api.ErrorBody{Code: shipmentNotFoundCode, Message: err.Error()})
	}
	if err != nil {
		return utils.ActionErrorResponse(ctx, trackingFailedCode, err, c.logger)
	}
	return api.Success(ctx, res)
}

func (c *TrackingController) UpdateStatus(ctx echo.Context) error {
	body, err := readBody(ctx)
	if err != nil {
		return utils.ActionErrorResponse(ctx, updateTrackingFailedCode, err, c.logger)
	}
	var in dto.UpdateTrackingStatusDTO
	if err := bindPayload(ctx, body, &in); err != nil {
		return utils.ActionErrorResponse(ctx, updateTrackingFailedCode, err, c.logger)
	}

	res, err := c.trackingService.UpdateStatus(ctx.Request().Context(), in)
	if err != nil {
		return utils.ActionErrorResponse(ctx, updateTrackingFailedCode, err, c.logger)
	}
	return api.Success(ctx, res)
}

// TrackingInfo serves POST /functions/v1/get-tracking-info. Every failure,
// an unknown number included, is a 400.
func (c *TrackingController) TrackingInfo(ctx echo.Context) error {
	body, err := readBody(ctx)
	if err != nil {
		return c.trackingInfoFailure(ctx, err)
	}
	var in dto.TrackingInfoDTO
	if err := bindPayload(ctx, body, &in); err != nil {
		return c.trackingInfoFailure(ctx, err)
	}

	res, err := c.trackingService.TrackingInfo(ctx.Request().Context(), in)
	if err != nil {
		return c.trackingInfoFailure(ctx, err)
	}
	return api.Success(ctx, res)
}

func (c *TrackingController) trackingInfoFailure(ctx echo.Context, err error) error {
	kind, message := apperrors.KindOf(err), err.Error()
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		kind, message = apperrors.KindValidation, utils.ValidationMessage(validationErrors)
	}

	utils.ContextLogger(ctx, c.logger).Warn("tracking info failed", zap.String("kind", string(kind)), zap.Error(err))
	return api.Failure(ctx, http.StatusBadRequest, api.ErrorBody{
		Code:    trackingInfoFailedCode,
		Message: message,
		Kind:    string(kind),
	})
}

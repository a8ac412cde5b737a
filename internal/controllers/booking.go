package controllers

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"shipping-system/internal/dto"
	"shipping-system/internal/services"
	"shipping-system/pkg/api"
	apperrors "shipping-system/pkg/errors"
	"shipping-system/pkg/utils"
)

const (
	bookingFailedCode = "SERVICE_BOOKING_FAILED"
	bookingSection    = "bookingData"
)

type BookingController struct {
	bookingService services.BookingServiceInterface
	logger         *zap.Logger
}

func NewBookingController(bookingService services.BookingServiceInterface, logger *zap.Logger) *BookingController {
	return &BookingController{bookingService: bookingService, logger: logger}
}

func (c *BookingController) Handle(ctx echo.Context) error {
	req, err := readAction(ctx)
	if err != nil {
		return utils.ActionErrorResponse(ctx, bookingFailedCode, err, c.logger)
	}

	result, err := c.dispatch(ctx, req)
	if err != nil {
		return utils.ActionErrorResponse(ctx, bookingFailedCode, err, c.logger)
	}
	return api.Success(ctx, result)
}

func (c *BookingController) dispatch(ctx echo.Context, req *actionRequest) (interface{}, error) {
	reqCtx := ctx.Request().Context()
	payload := req.Section(bookingSection)

	switch req.Action {
	case "get_available_slots":
		var in dto.AvailableSlotsDTO
		if err := bindPayload(ctx, payload, &in); err != nil {
			return nil, err
		}
		return c.bookingService.GetAvailableSlots(reqCtx, in)

	case "create_booking":
		var in dto.CreateBookingDTO
		if err := bindPayload(ctx, payload, &in); err != nil {
			return nil, err
		}
		in.IdempotencyKey = headerIdempotencyKey(ctx, in.IdempotencyKey)
		return c.bookingService.CreateBooking(reqCtx, in)

	case "get_customer_bookings":
		var in dto.CustomerBookingsDTO
		if err := bindPayload(ctx, payload, &in); err != nil {
			return nil, err
		}
		return c.bookingService.GetCustomerBookings(reqCtx, in)

	case "get_all_bookings":
		return c.bookingService.GetAllBookings(reqCtx)

	case "update_booking_status":
		var in dto.UpdateBookingStatusDTO
		if err := bindPayload(ctx, payload, &in); err != nil {
			return nil, err
		}
		return c.bookingService.UpdateStatus(reqCtx, in)

	case "cancel_booking":
		var in dto.CancelBookingDTO
		if err := bindPayload(ctx, payload, &in); err != nil {
			return nil, err
		}
		return c.bookingService.CancelBooking(reqCtx, in)

	default:
		return nil, apperrors.NewUnknownActionError(req.Action)
	}
}

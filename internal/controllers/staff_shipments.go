package controllers

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"shipping-system/internal/dto"
	"shipping-system/internal/services"
	"shipping-system/pkg/api"
	"shipping-system/pkg/utils"
)

const staffShipmentsFailedCode = "GET_SHIPMENTS_FAILED"

type StaffShipmentController struct {
	staffShipmentService services.StaffShipmentServiceInterface
	logger               *zap.Logger
}

func NewStaffShipmentController(staffShipmentService services.StaffShipmentServiceInterface, logger *zap.Logger) *StaffShipmentController {
	return &StaffShipmentController{staffShipmentService: staffShipmentService, logger: logger}
}

func (c *StaffShipmentController) List(ctx echo.Context) error {
	body, err := readBody(ctx)
	if err != nil {
		return utils.ActionErrorResponse(ctx, staffShipmentsFailedCode, err, c.logger)
	}
	var in dto.StaffShipmentsDTO
	if err := bindPayload(ctx, body, &in); err != nil {
		return utils.ActionErrorResponse(ctx, staffShipmentsFailedCode, err, c.logger)
	}

	res, err := c.staffShipmentService.List(ctx.Request().Context(), in)
	if err != nil {
		return utils.ActionErrorResponse(ctx, staffShipmentsFailedCode, err, c.logger)
	}
	return api.Success(ctx, res)
}

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
	consolidationFailedCode = "CONSOLIDATION_FAILED"
	consolidationSection    = "consolidationData"
)

type ConsolidationController struct {
	consolidationService services.ConsolidationServiceInterface
	logger               *zap.Logger
}

func NewConsolidationController(consolidationService services.ConsolidationServiceInterface, logger *zap.Logger) *ConsolidationController {
	return &ConsolidationController{consolidationService: consolidationService, logger: logger}
}

func (c *ConsolidationController) Handle(ctx echo.Context) error {
	req, err := readAction(ctx)
	if err != nil {
		return utils.ActionErrorResponse(ctx, consolidationFailedCode, err, c.logger)
	}

	result, err := c.dispatch(ctx, req)
	if err != nil {
		return utils.ActionErrorResponse(ctx, consolidationFailedCode, err, c.logger)
	}
	return api.Success(ctx, result)
}

func (c *ConsolidationController) dispatch(ctx echo.Context, req *actionRequest) (interface{}, error) {
	reqCtx := ctx.Request().Context()
	payload := req.Section(consolidationSection)

	switch req.Action {
	case "create_consolidation_request":
		var in dto.CreateConsolidationDTO
		if err := bindPayload(ctx, payload, &in); err != nil {
			return nil, err
		}
		return c.consolidationService.CreateRequest(reqCtx, in)

	case "add_package_to_consolidation":
		var in dto.AddPackageDTO
		if err := bindPayload(ctx, payload, &in); err != nil {
			return nil, err
		}
		return c.consolidationService.AddPackage(reqCtx, in)

	case "remove_package_from_consolidation":
		var in dto.RemovePackageDTO
		if err := bindPayload(ctx, payload, &in); err != nil {
			return nil, err
		}
		return c.consolidationService.RemovePackage(reqCtx, in)

	case "get_customer_consolidations":
		var in dto.CustomerConsolidationsDTO
		if err := bindPayload(ctx, payload, &in); err != nil {
			return nil, err
		}
		return c.consolidationService.GetCustomerConsolidations(reqCtx, in)

	case "get_available_packages":
		var in dto.AvailablePackagesDTO
		if err := bindPayload(ctx, payload, &in); err != nil {
			return nil, err
		}
		return c.consolidationService.GetAvailablePackages(reqCtx, in)

	case "calculate_savings":
		var in dto.CalculateSavingsDTO
		if err := bindPayload(ctx, payload, &in); err != nil {
			return nil, err
		}
		return c.consolidationService.CalculateSavings(reqCtx, in)

	case "update_consolidation_status":
		var in dto.UpdateConsolidationStatusDTO
		if err := bindPayload(ctx, payload, &in); err != nil {
			return nil, err
		}
		return c.consolidationService.UpdateStatus(reqCtx, in)

	default:
		return nil, apperrors.NewUnknownActionError(req.Action)
	}
}

package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"shipping-system/internal/dto"
	"shipping-system/internal/services"
	"shipping-system/pkg/api"
	apperrors "shipping-system/pkg/errors"
	"shipping-system/pkg/utils"
)

const (
	accountFailedCode = "ACCOUNT_MANAGEMENT_FAILED"
	unauthorizedCode  = "UNAUTHORIZED"
	accountSection    = "accountData"
)

type AccountController struct {
	accountService services.AccountServiceInterface
	logger         *zap.Logger
}

func NewAccountController(accountService services.AccountServiceInterface, logger *zap.Logger) *AccountController {
	return &AccountController{accountService: accountService, logger: logger}
}

// Handle serves POST /functions/v1/manage-customer-account. The account is
// always the one owned by the authenticated subject.
func (c *AccountController) Handle(ctx echo.Context) error {
	userID := subject(ctx)
	if userID == "" {
		return api.Failure(ctx, http.StatusUnauthorized, api.ErrorBody{Code: unauthorizedCode, Message: "Authorization header required"})
	}

	req, err := readAction(ctx)
	if err != nil {
		return utils.ActionErrorResponse(ctx, accountFailedCode, err, c.logger)
	}

	result, err := c.dispatch(ctx, userID, req)
	if err != nil {
		return utils.ActionErrorResponse(ctx, accountFailedCode, err, c.logger)
	}
	return api.Success(ctx, result)
}

func (c *AccountController) dispatch(ctx echo.Context, userID string, req *actionRequest) (interface{}, error) {
	reqCtx := ctx.Request().Context()
	payload := req.Section(accountSection)

	switch req.Action {
	case "create_account":
		var in dto.CreateAccountDTO
		if err := bindPayload(ctx, payload, &in); err != nil {
			return nil, err
		}
		return c.accountService.CreateAccount(reqCtx, userID, in)

	case "get_account":
		return c.accountService.GetAccount(reqCtx, userID)

	case "update_account":
		var in dto.UpdateAccountDTO
		if err := bindPayload(ctx, payload, &in); err != nil {
			return nil, err
		}
		return c.accountService.UpdateAccount(reqCtx, userID, in)

	case "get_addresses":
		return c.accountService.GetAddresses(reqCtx, userID)

	case "add_address":
		var in dto.AddressDTO
		if err := bindPayload(ctx, payload, &in); err != nil {
			return nil, err
		}
		return c.accountService.AddAddress(reqCtx, userID, in)

	case "update_address":
		var in dto.AddressDTO
		if err := bindPayload(ctx, payload, &in); err != nil {
			return nil, err
		}
		return c.accountService.UpdateAddress(reqCtx, userID, in)

	case "delete_address":
		var in dto.AddressDTO
		if err := bindPayload(ctx, payload, &in); err != nil {
			return nil, err
		}
		return c.accountService.DeleteAddress(reqCtx, userID, in)

	default:
		return nil, apperrors.NewUnknownActionError(req.Action)
	}
}

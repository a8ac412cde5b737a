package controllers

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"shipping-system/internal/dto"
	"shipping-system/internal/services"
	"shipping-system/pkg/api"
	"shipping-system/pkg/utils"
)

const (
	emailFailedCode    = "EMAIL_NOTIFICATION_FAILED"
	whatsAppFailedCode = "WHATSAPP_NOTIFICATION_FAILED"
)

type NotificationController struct {
	notificationService services.NotificationServiceInterface
	logger              *zap.Logger
}

func NewNotificationController(notificationService services.NotificationServiceInterface, logger *zap.Logger) *NotificationController {
	return &NotificationController{notificationService: notificationService, logger: logger}
}

// SendEmail serves POST /functions/v1/send-email-notification. A delivery
// failure is still a 200 with status "failed" in the body.
func (c *NotificationController) SendEmail(ctx echo.Context) error {
	body, err := readBody(ctx)
	if err != nil {
		return utils.ActionErrorResponse(ctx, emailFailedCode, err, c.logger)
	}
	var in dto.SendEmailDTO
	if err := bindPayload(ctx, body, &in); err != nil {
		return utils.ActionErrorResponse(ctx, emailFailedCode, err, c.logger)
	}

	res, err := c.notificationService.SendEmail(ctx.Request().Context(), in)
	if err != nil {
		return utils.ActionErrorResponse(ctx, emailFailedCode, err, c.logger)
	}
	return api.Success(ctx, res)
}

// SendWhatsApp serves POST /functions/v1/send-whatsapp-notification. Like
// email, a rejected message is reported in the body, not the status code.
func (c *NotificationController) SendWhatsApp(ctx echo.Context) error {
	body, err := readBody(ctx)
	if err != nil {
		return utils.ActionErrorResponse(ctx, whatsAppFailedCode, err, c.logger)
	}
	var in dto.SendWhatsAppDTO
	if err := bindPayload(ctx, body, &in); err != nil {
		return utils.ActionErrorResponse(ctx, whatsAppFailedCode, err, c.logger)
	}

	res, err := c.notificationService.SendWhatsApp(ctx.Request().Context(), in)
	if err != nil {
		return utils.ActionErrorResponse(ctx, whatsAppFailedCode, err, c.logger)
	}
	return api.Success(ctx, res)
}

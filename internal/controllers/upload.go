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
	photoUploadFailedCode    = "PHOTO_UPLOAD_FAILED"
	documentUploadFailedCode = "DOCUMENT_UPLOAD_FAILED"
)

type UploadController struct {
	uploadService services.UploadServiceInterface
	logger        *zap.Logger
}

func NewUploadController(uploadService services.UploadServiceInterface, logger *zap.Logger) *UploadController {
	return &UploadController{uploadService: uploadService, logger: logger}
}

// PackagePhoto serves POST /functions/v1/upload-package-photo. The uploader
// is recorded when the request is authenticated.
func (c *UploadController) PackagePhoto(ctx echo.Context) error {
	body, err := readBody(ctx)
	if err != nil {
		return utils.ActionErrorResponse(ctx, photoUploadFailedCode, err, c.logger)
	}
	var in dto.UploadPhotoDTO
	if err := bindPayload(ctx, body, &in); err != nil {
		return utils.ActionErrorResponse(ctx, photoUploadFailedCode, err, c.logger)
	}

	res, err := c.uploadService.UploadPackagePhoto(ctx.Request().Context(), subject(ctx), in)
	if err != nil {
		return utils.ActionErrorResponse(ctx, photoUploadFailedCode, err, c.logger)
	}
	return api.Success(ctx, res)
}

// CustomerDocument serves POST /functions/v1/upload-customer-document.
func (c *UploadController) CustomerDocument(ctx echo.Context) error {
	body, err := readBody(ctx)
	if err != nil {
		return utils.ActionErrorResponse(ctx, documentUploadFailedCode, err, c.logger)
	}
	var in dto.UploadDocumentDTO
	if err := bindPayload(ctx, body, &in); err != nil {
		return utils.ActionErrorResponse(ctx, documentUploadFailedCode, err, c.logger)
	}

	res, err := c.uploadService.UploadCustomerDocument(ctx.Request().Context(), subject(ctx), in)
	if err != nil {
		return utils.ActionErrorResponse(ctx, documentUploadFailedCode, err, c.logger)
	}
	return api.Success(ctx, res)
}

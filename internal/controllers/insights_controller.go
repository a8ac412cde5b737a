package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"shipping-system/internal/services"
	apperrors "shipping-system/pkg/errors"
	"shipping-system/pkg/utils"
)

type InsightsController struct {
	exportService services.InsightsExportServiceInterface
	logger        *zap.Logger
}

func NewInsightsController(exportService services.InsightsExportServiceInterface, logger *zap.Logger) *InsightsController {
	return &InsightsController{exportService: exportService, logger: logger}
}

// Export streams the business insights workbook as an attachment.
func (c *InsightsController) Export(ctx echo.Context) error {
	f, err := c.exportService.BuildWorkbook(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusInternalServerError, "Failed to build insights export", err, nil),
			c.logger,
		)
	}
	defer f.Close()

	fileName := fmt.Sprintf("business_insights_%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}

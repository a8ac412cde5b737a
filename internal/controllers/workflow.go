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

const workflowFailedCode = "WORKFLOW_ORCHESTRATOR_FAILED"

type WorkflowController struct {
	workflowService services.WorkflowServiceInterface
	logger          *zap.Logger
}

func NewWorkflowController(workflowService services.WorkflowServiceInterface, logger *zap.Logger) *WorkflowController {
	return &WorkflowController{workflowService: workflowService, logger: logger}
}

// Handle serves POST /functions/v1/workflow-orchestrator. Workflow payload
// fields sit next to "action" at the top level.
func (c *WorkflowController) Handle(ctx echo.Context) error {
	req, err := readAction(ctx)
	if err != nil {
		return utils.ActionErrorResponse(ctx, workflowFailedCode, err, c.logger)
	}

	result, err := c.dispatch(ctx, req)
	if err != nil {
		return utils.ActionErrorResponse(ctx, workflowFailedCode, err, c.logger)
	}
	return api.Success(ctx, result)
}

func (c *WorkflowController) dispatch(ctx echo.Context, req *actionRequest) (interface{}, error) {
	reqCtx := ctx.Request().Context()

	switch req.Action {
	case "create_workflow":
		var in dto.CreateWorkflowDTO
		if err := bindPayload(ctx, req.Body, &in); err != nil {
			return nil, err
		}
		in.IdempotencyKey = headerIdempotencyKey(ctx, in.IdempotencyKey)
		return c.workflowService.CreateWorkflow(reqCtx, in)

	case "assign_staff":
		var in dto.AssignStaffDTO
		if err := bindPayload(ctx, req.Body, &in); err != nil {
			return nil, err
		}
		return c.workflowService.AssignStaff(reqCtx, in)

	case "update_status":
		var in dto.UpdateWorkflowStatusDTO
		if err := bindPayload(ctx, req.Body, &in); err != nil {
			return nil, err
		}
		return c.workflowService.UpdateStatus(reqCtx, in)

	case "send_communication":
		var in dto.SendCommunicationDTO
		if err := bindPayload(ctx, req.Body, &in); err != nil {
			return nil, err
		}
		return c.workflowService.SendCommunication(reqCtx, in)

	case "get_unified_timeline":
		var in dto.TimelineRequestDTO
		if err := bindPayload(ctx, req.Body, &in); err != nil {
			return nil, err
		}
		return c.workflowService.GetUnifiedTimeline(reqCtx, in)

	case "get_business_insights":
		return c.workflowService.GetBusinessInsights(reqCtx)

	default:
		return nil, apperrors.NewUnknownActionError(req.Action)
	}
}

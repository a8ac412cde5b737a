package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"shipping-system/internal/dto"
	"shipping-system/internal/entities"
	"shipping-system/internal/repositories"
	apperrors "shipping-system/pkg/errors"
	"shipping-system/pkg/utils"
)

const (
	defaultWorkflowType  = "shipment"
	defaultPriority      = 3
	defaultSourceChannel = "customer_portal"
	defaultMessageType   = "status_update"

	insightsCacheKey = "insights:business"
)

type WorkflowServiceInterface interface {
	CreateWorkflow(ctx context.Context, in dto.CreateWorkflowDTO) (*dto.WorkflowResultDTO, error)
	AssignStaff(ctx context.Context, in dto.AssignStaffDTO) (*dto.WorkflowResultDTO, error)
	UpdateStatus(ctx context.Context, in dto.UpdateWorkflowStatusDTO) (*dto.WorkflowResultDTO, error)
	SendCommunication(ctx context.Context, in dto.SendCommunicationDTO) (*dto.CommunicationResultDTO, error)
	GetUnifiedTimeline(ctx context.Context, in dto.TimelineRequestDTO) (*dto.TimelineDTO, error)
	GetBusinessInsights(ctx context.Context) (*dto.BusinessInsightsDTO, error)
}

type WorkflowService struct {
	txManager    repositories.TxManagerInterface
	workflowRepo repositories.WorkflowRepositoryInterface
	commRepo     repositories.CommunicationRepositoryInterface
	insightsRepo repositories.InsightsRepositoryInterface
	cache        repositories.CacheRepositoryInterface
	insightsTTL  time.Duration
	outbox       *Outbox
	idempotency  *IdempotencyStore
	logger       *zap.Logger
	now          func() time.Time
}

func NewWorkflowService(
	txManager repositories.TxManagerInterface,
	workflowRepo repositories.WorkflowRepositoryInterface,
	commRepo repositories.CommunicationRepositoryInterface,
	insightsRepo repositories.InsightsRepositoryInterface,
	cache repositories.CacheRepositoryInterface,
	insightsTTL time.Duration,
	outbox *Outbox,
	idempotency *IdempotencyStore,
	logger *zap.Logger,
) WorkflowServiceInterface {
	return &WorkflowService{
		txManager:    txManager,
		workflowRepo: workflowRepo,
		commRepo:     commRepo,
		insightsRepo: insightsRepo,
		cache:        cache,
		insightsTTL:  insightsTTL,
		outbox:       outbox,
		idempotency:  idempotency,
		logger:       logger,
		now:          time.Now,
	}
}

// notify inserts one communication for wf and queues its delivery.
func (s *WorkflowService) notify(ctx context.Context, tx pgx.Tx, wf *entities.WorkflowInstance, c entities.CommunicationThread) (*entities.CommunicationThread, error) {
	c.WorkflowID = wf.ID
	created, err := s.commRepo.CreateCommunication(ctx, tx, c)
	if err != nil {
		return nil, err
	}
	if err := s.outbox.EnqueueCommunication(ctx, tx, wf, created); err != nil {
		return nil, err
	}
	return created, nil
}

func (s *WorkflowService) CreateWorkflow(ctx context.Context, in dto.CreateWorkflowDTO) (*dto.WorkflowResultDTO, error) {
	return withIdempotency(ctx, s.idempotency, "create_workflow", in.IdempotencyKey, func(ctx context.Context) (*dto.WorkflowResultDTO, error) {
		return s.createWorkflow(ctx, in)
	})
}

func (s *WorkflowService) createWorkflow(ctx context.Context, in dto.CreateWorkflowDTO) (*dto.WorkflowResultDTO, error) {
	wf := entities.WorkflowInstance{
		TrackingNumber:   in.TrackingNumber,
		CustomerID:       null.StringFrom(in.CustomerID),
		WorkflowStatus:   entities.WorkflowStatusIntake,
		WorkflowType:     defaultString(in.WorkflowType, defaultWorkflowType),
		PriorityLevel:    utils.ValueOr(in.PriorityLevel, defaultPriority),
		SourceChannel:    defaultString(in.SourceChannel, defaultSourceChannel),
		IntakeAt:         s.now(),
		EstimatedRevenue: utils.ValueOr(in.EstimatedRevenue, 0),
	}

	var created *entities.WorkflowInstance
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		created, err = s.workflowRepo.CreateWorkflow(ctx, tx, wf)
		if err != nil {
			return err
		}
		_, err = s.notify(ctx, tx, created, entities.CommunicationThread{
			ParticipantType: entities.ParticipantCustomer,
			ParticipantID:   created.CustomerID,
			MessageContent:  fmt.Sprintf("Your %s request has been received. Tracking: %s", created.WorkflowType, created.TrackingNumber),
			MessageType:     defaultMessageType,
			Channel:         entities.ChannelEmail,
		})
		return err
	})
	if err != nil {
		s.logger.Error("failed to create workflow", zap.String("tracking_number", in.TrackingNumber), zap.Error(err))
		return nil, apperrors.NewPersistenceError(err, "Failed to create workflow instance")
	}
	s.outbox.Notify(ctx, "create_workflow")

	s.logger.Info("workflow created", zap.String("tracking_number", created.TrackingNumber), zap.String("workflow_id", created.ID))
	return &dto.WorkflowResultDTO{Workflow: created, Message: "Workflow created successfully with cross-connection"}, nil
}

func (s *WorkflowService) AssignStaff(ctx context.Context, in dto.AssignStaffDTO) (*dto.WorkflowResultDTO, error) {
	var updated *entities.WorkflowInstance
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		updated, err = s.workflowRepo.AssignStaff(ctx, tx, in.TrackingNumber, in.StaffID, s.now())
		if err != nil {
			return err
		}
		_, err = s.notify(ctx, tx, updated, entities.CommunicationThread{
			ParticipantType: entities.ParticipantStaff,
			ParticipantID:   null.StringFrom(in.StaffID),
			MessageContent:  fmt.Sprintf("New %s assigned: %s", updated.WorkflowType, updated.TrackingNumber),
			MessageType:     "alert",
			Channel:         entities.ChannelInApp,
		})
		return err
	})
	if err != nil {
		s.logger.Error("failed to assign staff", zap.String("tracking_number", in.TrackingNumber), zap.Error(err))
		return nil, apperrors.NewPersistenceError(err, "Failed to assign staff")
	}
	s.outbox.Notify(ctx, "assign_staff")

	return &dto.WorkflowResultDTO{Workflow: updated, Message: "Staff assigned successfully"}, nil
}

func (s *WorkflowService) UpdateStatus(ctx context.Context, in dto.UpdateWorkflowStatusDTO) (*dto.WorkflowResultDTO, error) {
	status := in.Status()
	if status == "" {
		return nil, apperrors.NewValidationError("messageContent is required")
	}

	var updated *entities.WorkflowInstance
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		updated, err = s.workflowRepo.UpdateStatus(ctx, tx, in.TrackingNumber, status, s.now())
		if err != nil {
			return err
		}
		_, err = s.notify(ctx, tx, updated, entities.CommunicationThread{
			ParticipantType: entities.ParticipantCustomer,
			ParticipantID:   updated.CustomerID,
			MessageContent:  fmt.Sprintf("Status updated to: %s", status),
			MessageType:     defaultMessageType,
			Channel:         entities.ChannelEmail,
		})
		return err
	})
	if err != nil {
		s.logger.Error("failed to update workflow status", zap.String("tracking_number", in.TrackingNumber), zap.Error(err))
		return nil, apperrors.NewPersistenceError(err, "Failed to update workflow status")
	}
	s.outbox.Notify(ctx, "update_status")

	if status == entities.WorkflowStatusCompleted {
		s.invalidateInsights(ctx)
	}
	return &dto.WorkflowResultDTO{Workflow: updated, Message: "Status updated successfully"}, nil
}

func (s *WorkflowService) SendCommunication(ctx context.Context, in dto.SendCommunicationDTO) (*dto.CommunicationResultDTO, error) {
	participantType := defaultString(in.ParticipantType, entities.ParticipantCustomer)
	participantID := in.ParticipantID
	if participantID == "" {
		switch participantType {
		case entities.ParticipantCustomer:
			participantID = in.CustomerID
		case entities.ParticipantStaff:
			participantID = in.StaffID
		}
	}

	var created *entities.CommunicationThread
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		wf, err := s.workflowRepo.FindByTrackingNumber(ctx, tx, in.TrackingNumber)
		if err != nil {
			return err
		}
		created, err = s.notify(ctx, tx, wf, entities.CommunicationThread{
			ParticipantType: participantType,
			ParticipantID:   null.NewString(participantID, participantID != ""),
			MessageContent:  in.MessageContent,
			MessageType:     defaultString(in.MessageType, defaultMessageType),
			Channel:         defaultString(in.Channel, entities.ChannelInApp),
			ParentMessageID: null.NewString(in.ParentMessageID, in.ParentMessageID != ""),
		})
		return err
	})
	if err != nil {
		s.logger.Error("failed to send communication", zap.String("tracking_number", in.TrackingNumber), zap.Error(err))
		return nil, apperrors.NewPersistenceError(err, "Failed to send communication")
	}
	s.outbox.Notify(ctx, "send_communication")

	return &dto.CommunicationResultDTO{Communication: created, Message: "Communication sent successfully"}, nil
}

func (s *WorkflowService) GetUnifiedTimeline(ctx context.Context, in dto.TimelineRequestDTO) (*dto.TimelineDTO, error) {
	timeline, err := s.commRepo.GetTimeline(ctx, in.TrackingNumber)
	if err != nil {
		return nil, apperrors.NewPersistenceError(err, "Failed to get unified timeline")
	}
	return &dto.TimelineDTO{Timeline: timeline, Count: len(timeline)}, nil
}

// GetBusinessInsights reads the three reporting views concurrently. Results
// are cached for insightsTTL.
func (s *WorkflowService) GetBusinessInsights(ctx context.Context) (*dto.BusinessInsightsDTO, error) {
	if cached := s.cachedInsights(ctx); cached != nil {
		return cached, nil
	}

	var out dto.BusinessInsightsDTO
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		out.DailyRevenue, err = s.insightsRepo.GetDailyRevenue(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		out.StaffPerformance, err = s.insightsRepo.GetStaffPerformance(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		out.CustomerInsights, err = s.insightsRepo.GetCustomerInsights(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperrors.NewPersistenceError(err, "Failed to get business insights")
	}

	out.Summary = summarizeInsights(out.DailyRevenue, len(out.CustomerInsights))
	s.storeInsights(ctx, &out)
	return &out, nil
}

func summarizeInsights(days []entities.DailyRevenue, customers int) dto.InsightsSummaryDTO {
	summary := dto.InsightsSummaryDTO{TotalCustomers: customers, DaysReported: len(days)}
	var satisfaction float64
	for _, day := range days {
		summary.TotalWorkflows += day.TotalWorkflows
		summary.TotalRevenue += day.DailyRevenue
		satisfaction += day.AvgSatisfaction
	}
	if len(days) > 0 {
		summary.AvgSatisfaction = satisfaction / float64(len(days))
	}
	return summary
}

func (s *WorkflowService) cachedInsights(ctx context.Context) *dto.BusinessInsightsDTO {
	if s.cache == nil || s.insightsTTL <= 0 {
		return nil
	}
	raw, err := s.cache.Get(ctx, insightsCacheKey)
	if err != nil {
		if !errors.Is(err, repositories.ErrCacheMiss) {
			s.logger.Warn("insights cache read failed", zap.Error(err))
		}
		return nil
	}
	var out dto.BusinessInsightsDTO
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return &out
}

func (s *WorkflowService) storeInsights(ctx context.Context, out *dto.BusinessInsightsDTO) {
	if s.cache == nil || s.insightsTTL <= 0 {
		return
	}
	encoded, err := json.Marshal(out)
	if err == nil {
		err = s.cache.Set(ctx, insightsCacheKey, encoded, s.insightsTTL)
	}
	if err != nil {
		s.logger.Warn("insights cache write failed", zap.Error(err))
	}
}

func (s *WorkflowService) invalidateInsights(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, insightsCacheKey); err != nil {
		s.logger.Warn("insights cache invalidation failed", zap.Error(err))
	}
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

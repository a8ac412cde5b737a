package services

import (
	"context"

	"go.uber.org/zap"

	"shipping-system/internal/dto"
	"shipping-system/internal/entities"
	"shipping-system/internal/repositories"
	apperrors "shipping-system/pkg/errors"
	"shipping-system/pkg/utils"
)

const defaultStaffPageSize = 50

type StaffShipmentServiceInterface interface {
	List(ctx context.Context, in dto.StaffShipmentsDTO) (*dto.StaffShipmentsResultDTO, error)
}

// StaffShipmentService backs the staff dashboard: one page of shipments plus
// counts of the work still open.
type StaffShipmentService struct {
	shipmentRepo repositories.ShipmentRepositoryInterface
	logger       *zap.Logger
}

func NewStaffShipmentService(shipmentRepo repositories.ShipmentRepositoryInterface, logger *zap.Logger) StaffShipmentServiceInterface {
	return &StaffShipmentService{shipmentRepo: shipmentRepo, logger: logger}
}

func (s *StaffShipmentService) List(ctx context.Context, in dto.StaffShipmentsDTO) (*dto.StaffShipmentsResultDTO, error) {
	limit := utils.ValueOr(in.Limit, defaultStaffPageSize)
	offset := utils.ValueOr(in.Offset, 0)
	if limit < 1 || offset < 0 {
		return nil, apperrors.NewValidationError("Limit must be positive and offset must not be negative")
	}

	shipments, err := s.shipmentRepo.ListShipments(ctx, entities.ShipmentFilter{
		Status: in.StatusFilter,
		Search: in.SearchTerm,
		Limit:  uint64(limit),
		Offset: uint64(offset),
	})
	if err != nil {
		return nil, apperrors.NewPersistenceError(err, "Failed to get shipments")
	}

	// The list is still useful without the dashboard counters.
	var stats dto.ShipmentStatsDTO
	counts, err := s.shipmentRepo.CountOpenByStatus(ctx)
	if err != nil {
		s.logger.Warn("failed to count open shipments", zap.Error(err))
	} else {
		stats = shipmentStats(counts)
	}

	return &dto.StaffShipmentsResultDTO{
		Shipments: shipments,
		Stats:     stats,
		Pagination: dto.PaginationDTO{
			Limit:  limit,
			Offset: offset,
			Total:  len(shipments),
		},
	}, nil
}

func shipmentStats(counts map[string]int) dto.ShipmentStatsDTO {
	stats := dto.ShipmentStatsDTO{
		Pending:    counts[entities.ShipmentStatusPending],
		Received:   counts[entities.ShipmentStatusReceived],
		Processing: counts[entities.ShipmentStatusProcessing],
		Shipped:    counts[entities.ShipmentStatusShipped],
		Delivered:  counts[entities.ShipmentStatusDelivered],
	}
	for _, n := range counts {
		stats.Total += n
	}
	return stats
}

package services

import (
	"context"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"shipping-system/internal/dto"
	"shipping-system/internal/entities"
	"shipping-system/internal/repositories"
	apperrors "shipping-system/pkg/errors"
)

type ConsolidationServiceInterface interface {
	CreateRequest(ctx context.Context, in dto.CreateConsolidationDTO) (*entities.ConsolidationRequest, error)
	AddPackage(ctx context.Context, in dto.AddPackageDTO) (*entities.ConsolidationItem, error)
	RemovePackage(ctx context.Context, in dto.RemovePackageDTO) (*dto.RemovePackageResultDTO, error)
	GetCustomerConsolidations(ctx context.Context, in dto.CustomerConsolidationsDTO) ([]entities.ConsolidationRequest, error)
	GetAvailablePackages(ctx context.Context, in dto.AvailablePackagesDTO) ([]entities.Shipment, error)
	CalculateSavings(ctx context.Context, in dto.CalculateSavingsDTO) (*dto.SavingsDTO, error)
	UpdateStatus(ctx context.Context, in dto.UpdateConsolidationStatusDTO) (*entities.ConsolidationRequest, error)
}

type ConsolidationService struct {
	txManager         repositories.TxManagerInterface
	consolidationRepo repositories.ConsolidationRepositoryInterface
	shipmentRepo      repositories.ShipmentRepositoryInterface
	logger            *zap.Logger
}

func NewConsolidationService(
	txManager repositories.TxManagerInterface,
	consolidationRepo repositories.ConsolidationRepositoryInterface,
	shipmentRepo repositories.ShipmentRepositoryInterface,
	logger *zap.Logger,
) ConsolidationServiceInterface {
	return &ConsolidationService{
		txManager:         txManager,
		consolidationRepo: consolidationRepo,
		shipmentRepo:      shipmentRepo,
		logger:            logger,
	}
}

func (s *ConsolidationService) CreateRequest(ctx context.Context, in dto.CreateConsolidationDTO) (*entities.ConsolidationRequest, error) {
	created, err := s.consolidationRepo.CreateRequest(ctx, nil, entities.ConsolidationRequest{
		CustomerID:          in.CustomerID,
		ConsolidationName:   null.NewString(in.ConsolidationName, in.ConsolidationName != ""),
		Status:              "pending",
		DestinationCountry:  in.DestinationCountry,
		SpecialInstructions: null.NewString(in.SpecialInstructions, in.SpecialInstructions != ""),
	})
	if err != nil {
		return nil, apperrors.NewPersistenceError(err, "Failed to create consolidation request")
	}
	created.Items = []entities.ConsolidationItem{}
	return created, nil
}

func (s *ConsolidationService) AddPackage(ctx context.Context, in dto.AddPackageDTO) (*entities.ConsolidationItem, error) {
	item := entities.ConsolidationItem{
		ConsolidationRequestID: in.ConsolidationRequestID,
		ShipmentID:             null.NewString(in.ShipmentID, in.ShipmentID != ""),
		TrackingNumber:         in.TrackingNumber,
		PackageDescription:     null.NewString(in.PackageDescription, in.PackageDescription != ""),
		Dimensions:             null.NewString(in.Dimensions, in.Dimensions != ""),
	}
	if in.WeightLbs != nil {
		item.WeightLbs = null.Float64From(*in.WeightLbs)
	}

	var created *entities.ConsolidationItem
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		// Items and totals change under the request row lock.
		if err := s.consolidationRepo.LockRequest(ctx, tx, in.ConsolidationRequestID); err != nil {
			return err
		}
		var err error
		created, err = s.consolidationRepo.AddItem(ctx, tx, item)
		if err != nil {
			return err
		}
		_, err = s.recomputeTotals(ctx, tx, in.ConsolidationRequestID)
		return err
	})
	if err != nil {
		return nil, apperrors.NewPersistenceError(err, "Failed to add package to consolidation")
	}
	return created, nil
}

func (s *ConsolidationService) RemovePackage(ctx context.Context, in dto.RemovePackageDTO) (*dto.RemovePackageResultDTO, error) {
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.consolidationRepo.LockRequest(ctx, tx, in.ConsolidationRequestID); err != nil {
			return err
		}
		if err := s.consolidationRepo.RemoveItem(ctx, tx, in.ItemID, in.ConsolidationRequestID); err != nil {
			return err
		}
		_, err := s.recomputeTotals(ctx, tx, in.ConsolidationRequestID)
		return err
	})
	if err != nil {
		return nil, apperrors.NewPersistenceError(err, "Failed to remove package from consolidation")
	}
	return &dto.RemovePackageResultDTO{Success: true}, nil
}

// recomputeTotals derives the request totals from its current items. Running
// it twice in a row yields the same totals.
func (s *ConsolidationService) recomputeTotals(ctx context.Context, tx pgx.Tx, requestID string) (entities.ConsolidationTotals, error) {
	packages, weight, err := s.consolidationRepo.SumItems(ctx, tx, requestID)
	if err != nil {
		return entities.ConsolidationTotals{}, err
	}
	_, _, savings := ConsolidationQuote(packages, weight)
	totals := entities.ConsolidationTotals{
		TotalPackages:    packages,
		TotalWeight:      weight,
		EstimatedSavings: savings,
	}
	if err := s.consolidationRepo.UpdateTotals(ctx, tx, requestID, totals); err != nil {
		return totals, err
	}
	s.logger.Debug("consolidation totals updated",
		zap.String("consolidation_id", requestID),
		zap.Int("total_packages", packages),
		zap.Float64("total_weight", weight),
	)
	return totals, nil
}

func (s *ConsolidationService) GetCustomerConsolidations(ctx context.Context, in dto.CustomerConsolidationsDTO) ([]entities.ConsolidationRequest, error) {
	list, err := s.consolidationRepo.GetCustomerConsolidations(ctx, in.CustomerID)
	if err != nil {
		return nil, apperrors.NewPersistenceError(err, "Failed to get customer consolidations")
	}
	return list, nil
}

func (s *ConsolidationService) GetAvailablePackages(ctx context.Context, in dto.AvailablePackagesDTO) ([]entities.Shipment, error) {
	list, err := s.shipmentRepo.GetAvailableForConsolidation(ctx, in.CustomerEmail)
	if err != nil {
		return nil, apperrors.NewPersistenceError(err, "Failed to get available packages")
	}
	return list, nil
}

// CalculateSavings quotes a prospective consolidation. Packages without a
// weight are assumed to weigh five pounds.
func (s *ConsolidationService) CalculateSavings(_ context.Context, in dto.CalculateSavingsDTO) (*dto.SavingsDTO, error) {
	var weight float64
	for _, pkg := range in.Packages {
		if pkg.WeightLbs != nil && *pkg.WeightLbs > 0 {
			weight += *pkg.WeightLbs
		} else {
			weight += defaultPackageWeight
		}
	}
	individual, consolidated, savings := ConsolidationQuote(len(in.Packages), weight)
	return &dto.SavingsDTO{
		IndividualCost:    individual,
		ConsolidatedCost:  consolidated,
		Savings:           savings,
		SavingsPercentage: SavingsPercentage(individual, savings),
	}, nil
}

func (s *ConsolidationService) UpdateStatus(ctx context.Context, in dto.UpdateConsolidationStatusDTO) (*entities.ConsolidationRequest, error) {
	updated, err := s.consolidationRepo.UpdateStatus(ctx, nil, in.ConsolidationID, in.Status,
		null.NewString(in.ConsolidatedShipmentID, in.ConsolidatedShipmentID != ""))
	if err != nil {
		return nil, apperrors.NewPersistenceError(err, "Failed to update consolidation status")
	}
	return updated, nil
}

package seeders

import (
	"context"
	"fmt"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"shipping-system/internal/entities"
	"shipping-system/internal/repositories"
)

// Run inserts the sample staff, customers and shipments in one transaction.
// Re-running it leaves existing rows in place.
func Run(ctx context.Context, db *pgxpool.Pool, logger *zap.Logger) error {
	participants := repositories.NewParticipantRepository(db, logger)
	shipments := repositories.NewShipmentRepository(db, logger)

	return repositories.NewTxManager(db).RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := seedStaff(ctx, tx, participants, logger); err != nil {
			return err
		}
		if err := seedCustomers(ctx, tx, participants, logger); err != nil {
			return err
		}
		return seedShipments(ctx, tx, shipments, logger, time.Now())
	})
}

func seedStaff(ctx context.Context, tx pgx.Tx, repo repositories.ParticipantRepositoryInterface, logger *zap.Logger) error {
	for _, s := range staffData {
		if _, err := repo.UpsertStaff(ctx, tx, s); err != nil {
			return err
		}
	}
	logger.Info("staff users seeded", zap.Int("count", len(staffData)))
	return nil
}

func seedCustomers(ctx context.Context, tx pgx.Tx, repo repositories.ParticipantRepositoryInterface, logger *zap.Logger) error {
	for _, c := range customersData {
		_, err := repo.UpsertCustomer(ctx, tx, entities.CustomerAccount{
			FullName: c.FullName,
			Email:    null.StringFrom(c.Email),
			Phone:    null.NewString(c.Phone, c.Phone != ""),
		})
		if err != nil {
			return err
		}
	}
	logger.Info("customer accounts seeded", zap.Int("count", len(customersData)))
	return nil
}

func seedShipments(ctx context.Context, tx pgx.Tx, repo repositories.ShipmentRepositoryInterface, logger *zap.Logger, now time.Time) error {
	for _, s := range shipmentsData {
		if s.CustomerIndex < 0 || s.CustomerIndex >= len(customersData) {
			return fmt.Errorf("shipment %s: no customer at index %d", s.TrackingNumber, s.CustomerIndex)
		}
		customer := customersData[s.CustomerIndex]

		err := repo.CreateShipment(ctx, tx, entities.Shipment{
			TrackingNumber:     s.TrackingNumber,
			CustomerName:       customer.FullName,
			CustomerEmail:      null.StringFrom(customer.Email),
			DestinationAddress: s.DestinationAddress,
			DestinationCountry: s.DestinationCountry,
			PackageType:        s.PackageType,
			PackageDescription: null.StringFrom(s.Description),
			ServiceType:        s.ServiceType,
			WeightLbs:          null.Float64From(s.WeightLbs),
			Dimensions:         null.NewString(s.Dimensions, s.Dimensions != ""),
			Status:             s.Status,
			EstimatedDelivery:  null.TimeFrom(now.AddDate(0, 0, s.DeliveryInDays)),
			ReceivedAt:         null.TimeFrom(now.AddDate(0, 0, -2)),
		})
		if err != nil {
			return err
		}
	}
	logger.Info("shipments seeded", zap.Int("count", len(shipmentsData)))
	return nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"shipping-system/internal/dto"
	"shipping-system/internal/entities"
	"shipping-system/internal/events"
	"shipping-system/internal/repositories"
	apperrors "shipping-system/pkg/errors"
)

const (
	facilityLocation     = "Jamaica, NY 11436"
	defaultScanLocation  = "Chrisdan Enterprises - Jamaica, NY"
	defaultScanDevice    = "Web Scanner"
	trackingNotFoundText = "Tracking number not found. Please check your tracking number and try again."
)

// ErrShipmentNotFound is returned by Track for an unknown tracking number.
var ErrShipmentNotFound = errors.New(trackingNotFoundText)

type TrackingServiceInterface interface {
	Track(ctx context.Context, in dto.TrackShipmentDTO) (*dto.TrackShipmentResultDTO, error)
	TrackingInfo(ctx context.Context, in dto.TrackingInfoDTO) (*dto.TrackingInfoResultDTO, error)
	UpdateStatus(ctx context.Context, in dto.UpdateTrackingStatusDTO) (*dto.UpdateTrackingResultDTO, error)
}

type TrackingService struct {
	txManager    repositories.TxManagerInterface
	shipmentRepo repositories.ShipmentRepositoryInterface
	outbox       *Outbox
	logger       *zap.Logger
	now          func() time.Time
}

func NewTrackingService(
	txManager repositories.TxManagerInterface,
	shipmentRepo repositories.ShipmentRepositoryInterface,
	outbox *Outbox,
	logger *zap.Logger,
) TrackingServiceInterface {
	return &TrackingService{
		txManager:    txManager,
		shipmentRepo: shipmentRepo,
		outbox:       outbox,
		logger:       logger,
		now:          time.Now,
	}
}

var statusInfos = map[string]dto.StatusInfoDTO{
	entities.ShipmentStatusDelivered: {Display: "Delivered", Description: "Package has been delivered successfully", Progress: 100, Color: "green"},
	entities.ShipmentStatusShipped:   {Display: "In Transit", Description: "Package is on its way to destination", Progress: 75, Color: "blue"},
	entities.ShipmentStatusReceived:  {Display: "Received", Description: "Package received at our facility", Progress: 25, Color: "yellow"},
}

func StatusInfo(status string) dto.StatusInfoDTO {
	if info, ok := statusInfos[status]; ok {
		return info
	}
	return dto.StatusInfoDTO{Display: "Processing", Description: "Package is being processed", Progress: 10, Color: "gray"}
}

// Transit days per destination; anything not listed takes defaultDeliveryDays.
var deliveryDays = map[string]int{
	"Jamaica":             7,
	"Guyana":              10,
	"Trinidad and Tobago": 8,
	"Barbados":            9,
	"Suriname":            12,
	"French Guiana":       14,
	"Belize":              11,
	"Costa Rica":          10,
	"Panama":              9,
	"Nicaragua":           12,
	"Honduras":            13,
	"Guatemala":           11,
}

const defaultDeliveryDays = 10

func DeliveryDays(country string) int {
	if days, ok := deliveryDays[country]; ok {
		return days
	}
	return defaultDeliveryDays
}

// EstimateDelivery returns the stored estimate, or one derived from the
// creation (else receipt) date and the destination's transit days.
func EstimateDelivery(shipment *entities.Shipment) null.Time {
	if shipment.EstimatedDelivery.Valid || shipment.DestinationCountry == "" {
		return shipment.EstimatedDelivery
	}
	start := shipment.CreatedAt
	if start.IsZero() && shipment.ReceivedAt.Valid {
		start = shipment.ReceivedAt.Time
	}
	if start.IsZero() {
		return shipment.EstimatedDelivery
	}
	return null.TimeFrom(start.AddDate(0, 0, DeliveryDays(shipment.DestinationCountry)))
}

// detailedStatusInfos back the customer tracking page, which also shows the
// pre-receipt and processing stages.
var detailedStatusInfos = map[string]dto.StatusInfoDTO{
	entities.ShipmentStatusReceived:   {Display: "Package Received", Description: "Your package has been received at our facility and is being processed.", Progress: 25, Color: "blue"},
	entities.ShipmentStatusProcessing: {Display: "Processing", Description: "Your package is being processed and prepared for shipment.", Progress: 50, Color: "yellow"},
	entities.ShipmentStatusShipped:    {Display: "Shipped", Description: "Your package has been shipped and is on its way to the destination.", Progress: 75, Color: "indigo"},
	entities.ShipmentStatusDelivered:  {Display: "Delivered", Description: "Your package has been successfully delivered.", Progress: 100, Color: "green"},
	entities.ShipmentStatusPending:    {Display: "Pending", Description: "Your shipment request is being reviewed.", Progress: 10, Color: "gray"},
}

func DetailedStatusInfo(status string) dto.StatusInfoDTO {
	if info, ok := detailedStatusInfos[status]; ok {
		return info
	}
	display := status
	if status != "" {
		display = strings.ToUpper(status[:1]) + status[1:]
	}
	return dto.StatusInfoDTO{Display: display, Description: "Package status: " + status, Progress: 0, Color: "gray"}
}

func (s *TrackingService) Track(ctx context.Context, in dto.TrackShipmentDTO) (*dto.TrackShipmentResultDTO, error) {
	if in.TrackingNumber == "" {
		return nil, apperrors.NewValidationError("Tracking number is required")
	}

	shipment, err := s.shipmentRepo.FindByTrackingNumber(ctx, nil, in.TrackingNumber)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, ErrShipmentNotFound
	}
	if err != nil {
		return nil, apperrors.NewPersistenceError(err, "Failed to fetch shipment")
	}

	trackingEvents, err := s.shipmentRepo.GetTrackingEvents(ctx, shipment.ID)
	if err != nil {
		s.logger.Warn("failed to load tracking events", zap.String("tracking_number", in.TrackingNumber), zap.Error(err))
		trackingEvents = nil
	}
	if len(trackingEvents) == 0 {
		trackingEvents = []entities.TrackingEvent{{
			ID:               "default-1",
			ShipmentID:       shipment.ID,
			EventType:        entities.ShipmentStatusReceived,
			EventDescription: null.StringFrom("Package received at facility"),
			Location:         null.StringFrom(facilityLocation),
			Timestamp:        shipment.CreatedAt,
		}}
	}

	status := defaultString(shipment.Status, entities.ShipmentStatusReceived)
	lastUpdated := trackingEvents[len(trackingEvents)-1].Timestamp
	if lastUpdated.IsZero() {
		lastUpdated = shipment.CreatedAt
	}

	return &dto.TrackShipmentResultDTO{
		Shipment: dto.TrackedShipmentDTO{
			ID:                 shipment.ID,
			TrackingNumber:     shipment.TrackingNumber,
			CustomerName:       shipment.CustomerName,
			DestinationAddress: shipment.DestinationAddress,
			DestinationCountry: shipment.DestinationCountry,
			PackageType:        shipment.PackageType,
			ServiceType:        shipment.ServiceType,
			Status:             status,
			CreatedAt:          shipment.CreatedAt,
			EstimatedDelivery:  shipment.EstimatedDelivery,
		},
		TrackingEvents: trackingEvents,
		StatusInfo:     StatusInfo(status),
		LastUpdated:    lastUpdated,
	}, nil
}

// TrackingInfo is the detailed lookup: events newest first, and an estimated
// delivery date even when none was stored.
func (s *TrackingService) TrackingInfo(ctx context.Context, in dto.TrackingInfoDTO) (*dto.TrackingInfoResultDTO, error) {
	if in.TrackingNumber == "" {
		return nil, apperrors.NewValidationError("Tracking number is required")
	}

	shipment, err := s.shipmentRepo.FindByTrackingNumber(ctx, nil, in.TrackingNumber)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NewValidationError("Tracking number not found")
	}
	if err != nil {
		return nil, apperrors.NewPersistenceError(err, "Failed to get shipment")
	}

	trackingEvents, err := s.shipmentRepo.GetTrackingEvents(ctx, shipment.ID)
	if err != nil {
		s.logger.Warn("failed to load tracking events", zap.String("tracking_number", in.TrackingNumber), zap.Error(err))
		trackingEvents = []entities.TrackingEvent{}
	}
	slices.Reverse(trackingEvents)

	lastUpdated := shipment.CreatedAt
	if len(trackingEvents) > 0 {
		lastUpdated = trackingEvents[0].Timestamp
	}

	detailed := *shipment
	detailed.EstimatedDelivery = EstimateDelivery(shipment)
	return &dto.TrackingInfoResultDTO{
		Shipment:       detailed,
		TrackingEvents: trackingEvents,
		StatusInfo:     DetailedStatusInfo(shipment.Status),
		LastUpdated:    lastUpdated,
	}, nil
}

// UpdateStatus records a scan: the shipment status, a tracking event and a
// scan log commit together. Customer-facing statuses also queue an email.
func (s *TrackingService) UpdateStatus(ctx context.Context, in dto.UpdateTrackingStatusDTO) (*dto.UpdateTrackingResultDTO, error) {
	if in.TrackingNumber == "" || in.NewStatus == "" || in.StaffEmail == "" {
		return nil, apperrors.NewValidationError("Missing required fields: tracking_number, new_status, staff_email")
	}
	location := defaultString(in.Location, defaultScanLocation)
	now := s.now()

	var shipment *entities.Shipment
	queued := false
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		shipment, err = s.shipmentRepo.FindByTrackingNumber(ctx, tx, in.TrackingNumber)
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewValidationError("Shipment not found with that tracking number")
		}
		if err != nil {
			return err
		}

		if err := s.shipmentRepo.UpdateStatus(ctx, tx, shipment.ID, in.NewStatus, now); err != nil {
			return err
		}
		if _, err := s.shipmentRepo.CreateTrackingEvent(ctx, tx, entities.TrackingEvent{
			ShipmentID:       shipment.ID,
			EventType:        in.NewStatus,
			EventDescription: null.StringFrom(fmt.Sprintf("Package %s by %s", in.NewStatus, in.StaffEmail)),
			Location:         null.StringFrom(location),
			StaffMember:      null.StringFrom(in.StaffEmail),
			Timestamp:        now,
			Notes:            null.StringFrom(in.Notes),
		}); err != nil {
			return err
		}
		if err := s.shipmentRepo.CreateScanLog(ctx, tx, entities.ScanLog{
			ShipmentID:    shipment.ID,
			Barcode:       in.TrackingNumber,
			ScanType:      in.NewStatus,
			ScannedBy:     in.StaffEmail,
			ScanTimestamp: now,
			DeviceInfo:    defaultString(in.DeviceInfo, defaultScanDevice),
			Location:      location,
		}); err != nil {
			return err
		}

		if _, notifiable := statusInfos[in.NewStatus]; !notifiable || !shipment.CustomerEmail.Valid || shipment.CustomerEmail.String == "" {
			return nil
		}
		payload := events.ShipmentPayload{
			ShipmentID:     shipment.ID,
			TrackingNumber: shipment.TrackingNumber,
			Status:         in.NewStatus,
			CustomerName:   shipment.CustomerName,
			CustomerEmail:  shipment.CustomerEmail.String,
			Destination:    shipment.DestinationCountry,
			Location:       location,
			OccurredAt:     now,
		}
		if shipment.EstimatedDelivery.Valid {
			payload.EstimatedDelivery = shipment.EstimatedDelivery.Time.Format("2006-01-02")
		}
		queued = true
		return s.outbox.Enqueue(ctx, tx, events.AggregateShipment, shipment.ID, events.EventShipmentStatusChange,
			"shipment."+in.NewStatus, payload)
	})
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindValidation {
			return nil, err
		}
		s.logger.Error("failed to update tracking status", zap.String("tracking_number", in.TrackingNumber), zap.Error(err))
		return nil, apperrors.NewPersistenceError(err, "Failed to update shipment")
	}
	if queued {
		s.outbox.Notify(ctx, "update_tracking_status")
	}

	s.logger.Info("tracking status updated",
		zap.String("tracking_number", in.TrackingNumber),
		zap.String("new_status", in.NewStatus),
		zap.String("staff_email", in.StaffEmail),
	)
	return &dto.UpdateTrackingResultDTO{
		Success:        true,
		ShipmentID:     shipment.ID,
		TrackingNumber: in.TrackingNumber,
		NewStatus:      in.NewStatus,
		Timestamp:      now,
	}, nil
}

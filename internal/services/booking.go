package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"shipping-system/internal/dto"
	"shipping-system/internal/entities"
	"shipping-system/internal/repositories"
	"shipping-system/pkg/customvalidator"
	apperrors "shipping-system/pkg/errors"
)

const confirmationAttempts = 3

type BookingServiceInterface interface {
	GetAvailableSlots(ctx context.Context, in dto.AvailableSlotsDTO) (*dto.AvailableSlotsResultDTO, error)
	CreateBooking(ctx context.Context, in dto.CreateBookingDTO) (*entities.ServiceBooking, error)
	GetCustomerBookings(ctx context.Context, in dto.CustomerBookingsDTO) ([]entities.ServiceBooking, error)
	GetAllBookings(ctx context.Context) ([]entities.BookingWithCustomer, error)
	UpdateStatus(ctx context.Context, in dto.UpdateBookingStatusDTO) (*entities.ServiceBooking, error)
	CancelBooking(ctx context.Context, in dto.CancelBookingDTO) (*entities.ServiceBooking, error)
}

type BookingService struct {
	txManager   repositories.TxManagerInterface
	bookingRepo repositories.BookingRepositoryInterface
	idempotency *IdempotencyStore
	logger      *zap.Logger
	confirm     func() string
}

func NewBookingService(
	txManager repositories.TxManagerInterface,
	bookingRepo repositories.BookingRepositoryInterface,
	idempotency *IdempotencyStore,
	logger *zap.Logger,
) BookingServiceInterface {
	return &BookingService{
		txManager:   txManager,
		bookingRepo: bookingRepo,
		idempotency: idempotency,
		logger:      logger,
		confirm:     func() string { return NewConfirmationNumber(time.Now()) },
	}
}

const base36 = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewConfirmationNumber returns "CE", the last six digits of the millisecond
// clock and three random base-36 characters, e.g. CE482913K7Q.
func NewConfirmationNumber(now time.Time) string {
	millis := strconv.FormatInt(now.UnixMilli(), 10)
	if len(millis) > 6 {
		millis = millis[len(millis)-6:]
	}
	suffix := make([]byte, 3)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(base36))))
		if err != nil {
			n = big.NewInt(now.UnixNano() % int64(len(base36)))
		}
		suffix[i] = base36[n.Int64()]
	}
	return "CE" + millis + string(suffix)
}

// availableSlots keeps the order of customvalidator.TimeSlots.
func availableSlots(booked []string) []string {
	taken := make(map[string]struct{}, len(booked))
	for _, slot := range booked {
		taken[slot] = struct{}{}
	}
	free := make([]string, 0, len(customvalidator.TimeSlots))
	for _, slot := range customvalidator.TimeSlots {
		if _, ok := taken[slot]; !ok {
			free = append(free, slot)
		}
	}
	return free
}

func (s *BookingService) GetAvailableSlots(ctx context.Context, in dto.AvailableSlotsDTO) (*dto.AvailableSlotsResultDTO, error) {
	booked, err := s.bookingRepo.GetBookedSlots(ctx, nil, in.Date)
	if err != nil {
		return nil, apperrors.NewPersistenceError(err, "Failed to get available slots")
	}
	return &dto.AvailableSlotsResultDTO{AvailableSlots: availableSlots(booked), BookedSlots: booked}, nil
}

func (s *BookingService) CreateBooking(ctx context.Context, in dto.CreateBookingDTO) (*entities.ServiceBooking, error) {
	return withIdempotency(ctx, s.idempotency, "create_booking", in.IdempotencyKey, func(ctx context.Context) (*entities.ServiceBooking, error) {
		return s.createBooking(ctx, in)
	})
}

func (s *BookingService) createBooking(ctx context.Context, in dto.CreateBookingDTO) (*entities.ServiceBooking, error) {
	booking := entities.ServiceBooking{
		CustomerID:          in.CustomerID,
		ServiceType:         in.ServiceType,
		BookingDate:         in.BookingDate,
		TimeSlot:            in.TimeSlot,
		PickupAddressID:     null.NewString(in.PickupAddressID, in.PickupAddressID != ""),
		DeliveryAddressID:   null.NewString(in.DeliveryAddressID, in.DeliveryAddressID != ""),
		SpecialInstructions: null.NewString(in.SpecialInstructions, in.SpecialInstructions != ""),
		Status:              entities.BookingStatusPending,
		EstimatedCost:       ServiceCost(in.ServiceType),
	}

	var created *entities.ServiceBooking
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		// The slot check and the insert both run under the date lock.
		if err := s.bookingRepo.LockDate(ctx, tx, in.BookingDate); err != nil {
			return err
		}
		booked, err := s.bookingRepo.GetBookedSlots(ctx, tx, in.BookingDate)
		if err != nil {
			return err
		}
		for _, slot := range booked {
			if slot == in.TimeSlot {
				return apperrors.NewValidationError("Time slot %s on %s is already booked", in.TimeSlot, in.BookingDate)
			}
		}

		for attempt := 1; attempt <= confirmationAttempts; attempt++ {
			booking.ConfirmationNumber = s.confirm()
			created, err = s.bookingRepo.CreateBooking(ctx, tx, booking)
			if !errors.Is(err, repositories.ErrConfirmationTaken) {
				return err
			}
			s.logger.Warn("confirmation number collision", zap.String("confirmation_number", booking.ConfirmationNumber), zap.Int("attempt", attempt))
		}
		return fmt.Errorf("could not allocate a unique confirmation number after %d attempts", confirmationAttempts)
	})
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindValidation {
			return nil, err
		}
		s.logger.Error("failed to create booking", zap.String("customer_id", in.CustomerID), zap.Error(err))
		return nil, apperrors.NewPersistenceError(err, "Failed to create booking")
	}

	s.logger.Info("booking created",
		zap.String("booking_id", created.ID),
		zap.String("confirmation_number", created.ConfirmationNumber),
		zap.String("booking_date", created.BookingDate),
		zap.String("time_slot", created.TimeSlot),
	)
	return created, nil
}

func (s *BookingService) GetCustomerBookings(ctx context.Context, in dto.CustomerBookingsDTO) ([]entities.ServiceBooking, error) {
	list, err := s.bookingRepo.GetCustomerBookings(ctx, in.CustomerID)
	if err != nil {
		return nil, apperrors.NewPersistenceError(err, "Failed to get customer bookings")
	}
	return list, nil
}

func (s *BookingService) GetAllBookings(ctx context.Context) ([]entities.BookingWithCustomer, error) {
	list, err := s.bookingRepo.GetAllBookings(ctx)
	if err != nil {
		return nil, apperrors.NewPersistenceError(err, "Failed to get bookings")
	}
	return list, nil
}

func (s *BookingService) UpdateStatus(ctx context.Context, in dto.UpdateBookingStatusDTO) (*entities.ServiceBooking, error) {
	updated, err := s.bookingRepo.UpdateStatus(ctx, nil, in.BookingID, in.Status)
	if err != nil {
		return nil, apperrors.NewPersistenceError(err, "Failed to update booking")
	}
	return updated, nil
}

func (s *BookingService) CancelBooking(ctx context.Context, in dto.CancelBookingDTO) (*entities.ServiceBooking, error) {
	updated, err := s.bookingRepo.UpdateStatus(ctx, nil, in.BookingID, entities.BookingStatusCancelled)
	if err != nil {
		return nil, apperrors.NewPersistenceError(err, "Failed to cancel booking")
	}
	return updated, nil
}

package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"shipping-system/internal/dto"
	"shipping-system/internal/entities"
	"shipping-system/internal/repositories"
	apperrors "shipping-system/pkg/errors"
	"shipping-system/pkg/utils"
)

// AccountServiceInterface manages the profile of the signed-in customer.
// userID is the auth subject; every call is scoped to that user's account.
type AccountServiceInterface interface {
	CreateAccount(ctx context.Context, userID string, in dto.CreateAccountDTO) (*entities.CustomerAccount, error)
	GetAccount(ctx context.Context, userID string) (*entities.CustomerAccount, error)
	UpdateAccount(ctx context.Context, userID string, in dto.UpdateAccountDTO) (*entities.CustomerAccount, error)
	GetAddresses(ctx context.Context, userID string) ([]entities.CustomerAddress, error)
	AddAddress(ctx context.Context, userID string, in dto.AddressDTO) (*entities.CustomerAddress, error)
	UpdateAddress(ctx context.Context, userID string, in dto.AddressDTO) (*entities.CustomerAddress, error)
	DeleteAddress(ctx context.Context, userID string, in dto.AddressDTO) (*dto.DeleteAddressResultDTO, error)
}

type AccountService struct {
	txManager       repositories.TxManagerInterface
	participantRepo repositories.ParticipantRepositoryInterface
	logger          *zap.Logger
	now             func() time.Time
}

func NewAccountService(
	txManager repositories.TxManagerInterface,
	participantRepo repositories.ParticipantRepositoryInterface,
	logger *zap.Logger,
) AccountServiceInterface {
	return &AccountService{
		txManager:       txManager,
		participantRepo: participantRepo,
		logger:          logger,
		now:             time.Now,
	}
}

func checkUserID(userID string) error {
	if userID == "" {
		return apperrors.NewValidationError("Authorization header required")
	}
	if _, err := uuid.Parse(userID); err != nil {
		return apperrors.NewValidationError("Invalid token")
	}
	return nil
}

func (s *AccountService) CreateAccount(ctx context.Context, userID string, in dto.CreateAccountDTO) (*entities.CustomerAccount, error) {
	if err := checkUserID(userID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.FullName) == "" {
		return nil, apperrors.NewValidationError("Full name is required")
	}

	created, err := s.participantRepo.CreateCustomerAccount(ctx, nil, entities.CustomerAccount{
		UserID:                null.StringFrom(userID),
		FullName:              in.FullName,
		Email:                 null.NewString(in.Email, in.Email != ""),
		Phone:                 null.NewString(in.Phone, in.Phone != ""),
		WhatsAppNotifications: utils.ValueOr(in.WhatsAppNotifications, true),
		EmailNotifications:    utils.ValueOr(in.EmailNotifications, true),
		SMSNotifications:      utils.ValueOr(in.SMSNotifications, false),
	})
	if errors.Is(err, apperrors.ErrAlreadyExists) {
		return nil, apperrors.NewConflictError("An account already exists for this user")
	}
	if err != nil {
		return nil, apperrors.NewPersistenceError(err, "Failed to create account")
	}
	s.logger.Info("customer account created", zap.String("account_id", created.ID), zap.String("user_id", userID))
	return created, nil
}

// GetAccount returns nil without an error when the user has no account yet.
func (s *AccountService) GetAccount(ctx context.Context, userID string) (*entities.CustomerAccount, error) {
	if err := checkUserID(userID); err != nil {
		return nil, err
	}
	account, err := s.participantRepo.FindCustomerByUserID(ctx, nil, userID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewPersistenceError(err, "Failed to get account")
	}
	return account, nil
}

func (s *AccountService) UpdateAccount(ctx context.Context, userID string, in dto.UpdateAccountDTO) (*entities.CustomerAccount, error) {
	if err := checkUserID(userID); err != nil {
		return nil, err
	}
	updated, err := s.participantRepo.UpdateCustomerAccount(ctx, nil, userID, entities.CustomerAccountPatch{
		FullName:              in.FullName,
		Phone:                 in.Phone,
		PrimaryAddressID:      in.PrimaryAddressID,
		WhatsAppNotifications: in.WhatsAppNotifications,
		EmailNotifications:    in.EmailNotifications,
		SMSNotifications:      in.SMSNotifications,
	}, s.now())
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NewValidationError("Customer account not found")
	}
	if err != nil {
		return nil, apperrors.NewPersistenceError(err, "Failed to update account")
	}
	return updated, nil
}

// account resolves the caller's customer account; address actions need it to
// scope every query to addresses the caller owns.
func (s *AccountService) account(ctx context.Context, tx pgx.Tx, userID string) (*entities.CustomerAccount, error) {
	if err := checkUserID(userID); err != nil {
		return nil, err
	}
	account, err := s.participantRepo.FindCustomerByUserID(ctx, tx, userID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NewValidationError("Customer account not found")
	}
	if err != nil {
		return nil, apperrors.NewPersistenceError(err, "Failed to get account")
	}
	return account, nil
}

func (s *AccountService) GetAddresses(ctx context.Context, userID string) ([]entities.CustomerAddress, error) {
	account, err := s.account(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	addresses, err := s.participantRepo.ListAddresses(ctx, account.ID)
	if err != nil {
		return nil, apperrors.NewPersistenceError(err, "Failed to get addresses")
	}
	return addresses, nil
}

// AddAddress keeps at most one default address per customer.
func (s *AccountService) AddAddress(ctx context.Context, userID string, in dto.AddressDTO) (*entities.CustomerAddress, error) {
	street, city, country := utils.ValueOr(in.StreetAddress, ""), utils.ValueOr(in.City, ""), utils.ValueOr(in.Country, "")
	if street == "" || city == "" || country == "" {
		return nil, apperrors.NewValidationError("Street address, city, and country are required")
	}

	var created *entities.CustomerAddress
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		account, err := s.account(ctx, tx, userID)
		if err != nil {
			return err
		}
		isDefault := utils.ValueOr(in.IsDefault, false)
		if isDefault {
			if err := s.participantRepo.ClearDefaultAddress(ctx, tx, account.ID); err != nil {
				return err
			}
		}
		created, err = s.participantRepo.CreateAddress(ctx, tx, entities.CustomerAddress{
			CustomerID:    account.ID,
			AddressType:   defaultString(utils.ValueOr(in.AddressType, ""), entities.AddressTypeDelivery),
			StreetAddress: street,
			City:          city,
			StateProvince: null.StringFromPtr(in.StateProvince),
			PostalCode:    null.StringFromPtr(in.PostalCode),
			Country:       country,
			IsDefault:     isDefault,
		})
		return err
	})
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindValidation {
			return nil, err
		}
		return nil, apperrors.NewPersistenceError(err, "Failed to add address")
	}
	return created, nil
}

func (s *AccountService) UpdateAddress(ctx context.Context, userID string, in dto.AddressDTO) (*entities.CustomerAddress, error) {
	if in.AddressID == "" {
		return nil, apperrors.NewValidationError("Address ID is required")
	}

	var updated *entities.CustomerAddress
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		account, err := s.account(ctx, tx, userID)
		if err != nil {
			return err
		}
		if utils.ValueOr(in.IsDefault, false) {
			if err := s.participantRepo.ClearDefaultAddress(ctx, tx, account.ID); err != nil {
				return err
			}
		}
		updated, err = s.participantRepo.UpdateAddress(ctx, tx, account.ID, in.AddressID, entities.CustomerAddressPatch{
			AddressType:   in.AddressType,
			StreetAddress: in.StreetAddress,
			City:          in.City,
			StateProvince: in.StateProvince,
			PostalCode:    in.PostalCode,
			Country:       in.Country,
			IsDefault:     in.IsDefault,
		}, s.now())
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewValidationError("Address not found")
		}
		return err
	})
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindValidation {
			return nil, err
		}
		return nil, apperrors.NewPersistenceError(err, "Failed to update address")
	}
	return updated, nil
}

func (s *AccountService) DeleteAddress(ctx context.Context, userID string, in dto.AddressDTO) (*dto.DeleteAddressResultDTO, error) {
	if in.AddressID == "" {
		return nil, apperrors.NewValidationError("Address ID is required")
	}
	account, err := s.account(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	err = s.participantRepo.DeleteAddress(ctx, nil, account.ID, in.AddressID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NewValidationError("Address not found")
	}
	if err != nil {
		return nil, apperrors.NewPersistenceError(err, "Failed to delete address")
	}
	return &dto.DeleteAddressResultDTO{Success: true}, nil
}

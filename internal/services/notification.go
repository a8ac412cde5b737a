package services

import (
	"context"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"shipping-system/internal/dto"
	"shipping-system/internal/entities"
	"shipping-system/internal/repositories"
	apperrors "shipping-system/pkg/errors"
	"shipping-system/pkg/mailer"
)

const (
	demoEmailMessage   = "Demo email logged - add email service credentials to enable actual sending"
	sentEmailMessage   = "Email sent successfully"
	failedEmailMessage = "Failed to send email"

	demoWhatsAppMessage   = "Demo notification logged - add WhatsApp credentials to enable actual sending"
	sentWhatsAppMessage   = "WhatsApp message sent successfully"
	failedWhatsAppMessage = "Failed to send WhatsApp message"

	defaultWhatsAppType = "shipment_update"
)

type NotificationServiceInterface interface {
	SendEmail(ctx context.Context, in dto.SendEmailDTO) (*dto.SendEmailResultDTO, error)
	SendWhatsApp(ctx context.Context, in dto.SendWhatsAppDTO) (*dto.SendWhatsAppResultDTO, error)
	// DeliverEmail and DeliverWhatsApp write the log row in tx, so a redelivered
	// outbox event never leaves a second row behind.
	DeliverEmail(ctx context.Context, tx pgx.Tx, in dto.SendEmailDTO) (*dto.SendEmailResultDTO, error)
	DeliverWhatsApp(ctx context.Context, tx pgx.Tx, in dto.SendWhatsAppDTO) (*dto.SendWhatsAppResultDTO, error)
}

type NotificationService struct {
	mailer   mailer.Mailer
	whatsApp mailer.WhatsAppSender
	renderer *mailer.Renderer
	logRepo  repositories.NotificationLogRepositoryInterface
	logger   *zap.Logger
	now      func() time.Time
}

func NewNotificationService(
	m mailer.Mailer,
	whatsApp mailer.WhatsAppSender,
	renderer *mailer.Renderer,
	logRepo repositories.NotificationLogRepositoryInterface,
	logger *zap.Logger,
) NotificationServiceInterface {
	return &NotificationService{
		mailer:   m,
		whatsApp: whatsApp,
		renderer: renderer,
		logRepo:  logRepo,
		logger:   logger,
		now:      time.Now,
	}
}

// SendEmail renders, sends and logs one email. A failed delivery is reported
// in the result status, not as an error.
func (s *NotificationService) SendEmail(ctx context.Context, in dto.SendEmailDTO) (*dto.SendEmailResultDTO, error) {
	return s.DeliverEmail(ctx, nil, in)
}

func (s *NotificationService) DeliverEmail(ctx context.Context, tx pgx.Tx, in dto.SendEmailDTO) (*dto.SendEmailResultDTO, error) {
	html, text := in.HTMLContent, in.TextContent
	useTemplate := in.TemplateType != "" && in.TemplateData != nil
	if in.ToEmail == "" || in.Subject == "" || (!useTemplate && html == "" && text == "") {
		return nil, apperrors.NewValidationError("To email, subject, and content are required")
	}

	if useTemplate {
		var err error
		html, text, err = s.renderer.Render(in.TemplateType, in.TemplateData)
		if err != nil {
			return nil, err
		}
	}

	entry := entities.NotificationLog{
		CustomerID:       null.NewString(in.CustomerID, in.CustomerID != ""),
		ShipmentID:       null.NewString(in.ShipmentID, in.ShipmentID != ""),
		NotificationType: defaultString(in.TemplateType, "general"),
		Channel:          entities.ChannelEmail,
		Recipient:        in.ToEmail,
		Subject:          null.StringFrom(in.Subject),
		MessageContent:   null.StringFrom(defaultString(text, html)),
	}

	result := &dto.SendEmailResultDTO{}
	sendErr := s.mailer.Send(ctx, mailer.Email{To: in.ToEmail, Subject: in.Subject, HTML: html, Text: text})
	switch {
	case sendErr != nil:
		entry.Status = entities.NotificationFailed
		entry.ErrorMessage = null.StringFrom(sendErr.Error())
		result.Message = failedEmailMessage
		s.logger.Warn("email delivery failed", zap.String("recipient", in.ToEmail), zap.Error(sendErr))
	case s.mailer.Demo():
		entry.Status = entities.NotificationDemo
		result.Message = demoEmailMessage
	default:
		entry.Status = entities.NotificationSent
		entry.SentAt = null.TimeFrom(s.now())
		result.Message = sentEmailMessage
	}
	result.Status = entry.Status

	logged, err := s.logRepo.CreateLog(ctx, tx, entry)
	if err != nil {
		return nil, apperrors.NewPersistenceError(err, "Failed to log notification")
	}
	result.NotificationLog = logged
	return result, nil
}

// SendWhatsApp sends and logs one text message. Like email, a rejected
// message is a "failed" result rather than an error.
func (s *NotificationService) SendWhatsApp(ctx context.Context, in dto.SendWhatsAppDTO) (*dto.SendWhatsAppResultDTO, error) {
	return s.DeliverWhatsApp(ctx, nil, in)
}

func (s *NotificationService) DeliverWhatsApp(ctx context.Context, tx pgx.Tx, in dto.SendWhatsAppDTO) (*dto.SendWhatsAppResultDTO, error) {
	if in.PhoneNumber == "" || in.Message == "" {
		return nil, apperrors.NewValidationError("Phone number and message are required")
	}
	if s.whatsApp == nil {
		return nil, apperrors.NewConfigurationError("WhatsApp sender is not configured")
	}

	entry := entities.NotificationLog{
		CustomerID:       null.NewString(in.CustomerID, in.CustomerID != ""),
		ShipmentID:       null.NewString(in.ShipmentID, in.ShipmentID != ""),
		NotificationType: defaultString(in.TemplateName, defaultWhatsAppType),
		Channel:          entities.ChannelWhatsApp,
		Recipient:        in.PhoneNumber,
		MessageContent:   null.StringFrom(in.Message),
	}

	result := &dto.SendWhatsAppResultDTO{}
	sendErr := s.whatsApp.SendWhatsApp(ctx, mailer.WhatsAppMessage{To: in.PhoneNumber, Body: in.Message})
	switch {
	case sendErr != nil:
		entry.Status = entities.NotificationFailed
		entry.ErrorMessage = null.StringFrom(sendErr.Error())
		result.Message = failedWhatsAppMessage
		s.logger.Warn("whatsapp delivery failed", zap.String("recipient", in.PhoneNumber), zap.Error(sendErr))
	case s.whatsApp.Demo():
		entry.Status = entities.NotificationDemo
		result.Message = demoWhatsAppMessage
	default:
		entry.Status = entities.NotificationSent
		entry.SentAt = null.TimeFrom(s.now())
		result.Message = sentWhatsAppMessage
	}
	result.Status = entry.Status

	logged, err := s.logRepo.CreateLog(ctx, tx, entry)
	if err != nil {
		return nil, apperrors.NewPersistenceError(err, "Failed to log notification")
	}
	result.NotificationLog = logged
	return result, nil
}

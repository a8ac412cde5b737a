package routes

import (
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"shipping-system/internal/controllers"
	"shipping-system/internal/listeners"
	"shipping-system/internal/repositories"
	"shipping-system/internal/services"
	"shipping-system/pkg/broker"
	"shipping-system/pkg/config"
	apperrors "shipping-system/pkg/errors"
	"shipping-system/pkg/eventbus"
	"shipping-system/pkg/filestorage"
	"shipping-system/pkg/mailer"
	"shipping-system/pkg/middleware"
	"shipping-system/pkg/service"
	"shipping-system/pkg/utils"
)

type Loggers struct {
	Main       *zap.Logger
	Workflow   *zap.Logger
	Booking    *zap.Logger
	Tracking   *zap.Logger
	Dispatcher *zap.Logger
}

// NewLoggers names one child logger per area of the service.
func NewLoggers(base *zap.Logger) *Loggers {
	return &Loggers{
		Main:       base,
		Workflow:   base.Named("workflow"),
		Booking:    base.Named("booking"),
		Tracking:   base.Named("tracking"),
		Dispatcher: base.Named("dispatcher"),
	}
}

// Dependencies are the external clients wired into repositories and services.
// Cache and JWT may be nil: without Redis idempotency and the insights cache
// are skipped, without JWT the handlers are public. Without Files the upload
// handlers are not registered.
type Dependencies struct {
	DB        *pgxpool.Pool
	Cache     repositories.CacheRepositoryInterface
	Bus       *eventbus.Bus
	Mailer    mailer.Mailer
	WhatsApp  mailer.WhatsAppSender
	Renderer  *mailer.Renderer
	Publisher broker.Publisher
	JWT       service.JWTService
	Files     filestorage.FileStorageInterface
}

const uploadPathPrefix = "/functions/v1/upload-"

// InitRouter registers middleware and every route, and returns the outbox
// dispatcher built from the same repositories for the caller to run.
func InitRouter(e *echo.Echo, deps Dependencies, loggers *Loggers, cfg *config.Config) *listeners.OutboxDispatcher {
	loggers.Main.Info("InitRouter: building routes")
	applyMiddleware(e, loggers.Main)

	// --- repositories ---
	txManager := repositories.NewTxManager(deps.DB)
	workflowRepo := repositories.NewWorkflowRepository(deps.DB, loggers.Workflow)
	commRepo := repositories.NewCommunicationRepository(deps.DB, loggers.Workflow)
	insightsRepo := repositories.NewInsightsRepository(deps.DB, loggers.Workflow)
	consolidationRepo := repositories.NewConsolidationRepository(deps.DB, loggers.Main)
	shipmentRepo := repositories.NewShipmentRepository(deps.DB, loggers.Tracking)
	bookingRepo := repositories.NewBookingRepository(deps.DB, loggers.Booking)
	notificationRepo := repositories.NewNotificationLogRepository(deps.DB, loggers.Main)
	outboxRepo := repositories.NewOutboxRepository(deps.DB, loggers.Dispatcher)
	participantRepo := repositories.NewParticipantRepository(deps.DB, loggers.Dispatcher)
	mediaRepo := repositories.NewMediaRepository(deps.DB, loggers.Tracking)

	// --- services ---
	outbox := services.NewOutbox(outboxRepo, deps.Bus, loggers.Dispatcher)
	idempotency := services.NewIdempotencyStore(deps.Cache, cfg.Cache.IdempotencyTTL, cfg.Cache.IdempotencyPendingTTL, loggers.Main)

	workflowService := services.NewWorkflowService(txManager, workflowRepo, commRepo, insightsRepo,
		deps.Cache, cfg.Cache.InsightsTTL, outbox, idempotency, loggers.Workflow)
	consolidationService := services.NewConsolidationService(txManager, consolidationRepo, shipmentRepo, loggers.Main)
	bookingService := services.NewBookingService(txManager, bookingRepo, idempotency, loggers.Booking)
	notificationService := services.NewNotificationService(deps.Mailer, deps.WhatsApp, deps.Renderer, notificationRepo, loggers.Main)
	trackingService := services.NewTrackingService(txManager, shipmentRepo, outbox, loggers.Tracking)
	exportService := services.NewInsightsExportService(workflowService, loggers.Workflow)
	accountService := services.NewAccountService(txManager, participantRepo, loggers.Main)
	staffShipmentService := services.NewStaffShipmentService(shipmentRepo, loggers.Tracking)

	// --- controllers ---
	workflowController := controllers.NewWorkflowController(workflowService, loggers.Workflow)
	consolidationController := controllers.NewConsolidationController(consolidationService, loggers.Main)
	bookingController := controllers.NewBookingController(bookingService, loggers.Booking)
	notificationController := controllers.NewNotificationController(notificationService, loggers.Main)
	trackingController := controllers.NewTrackingController(trackingService, loggers.Tracking)
	insightsController := controllers.NewInsightsController(exportService, loggers.Workflow)
	accountController := controllers.NewAccountController(accountService, loggers.Main)
	staffShipmentController := controllers.NewStaffShipmentController(staffShipmentService, loggers.Tracking)

	var cachePinger controllers.Pinger
	if deps.Cache != nil {
		cachePinger = deps.Cache
	}
	healthController := controllers.NewHealthController(deps.DB, cachePinger, loggers.Main)

	// --- routes ---
	e.GET("/healthz", healthController.Check)

	var guards []echo.MiddlewareFunc
	if deps.JWT != nil {
		guards = append(guards, middleware.NewAuthMiddleware(deps.JWT, loggers.Main).Auth)
	}

	functions := e.Group("/functions/v1", guards...)
	functions.POST("/workflow-orchestrator", workflowController.Handle)
	functions.POST("/package-consolidation", consolidationController.Handle)
	functions.POST("/service-booking-system", bookingController.Handle)
	functions.POST("/send-email-notification", notificationController.SendEmail)
	functions.POST("/track-shipment", trackingController.Track)
	functions.POST("/update-tracking-status", trackingController.UpdateStatus)
	functions.POST("/get-tracking-info", trackingController.TrackingInfo)
	functions.POST("/get-staff-shipments", staffShipmentController.List)
	functions.POST("/send-whatsapp-notification", notificationController.SendWhatsApp)
	functions.POST("/manage-customer-account", accountController.Handle)

	if deps.Files != nil {
		uploadController := controllers.NewUploadController(
			services.NewUploadService(deps.Files, mediaRepo, participantRepo, loggers.Tracking), loggers.Tracking)
		uploadLimit := echomw.BodyLimit(cfg.Storage.MaxUploadSize)
		functions.POST("/upload-package-photo", uploadController.PackagePhoto, uploadLimit)
		functions.POST("/upload-customer-document", uploadController.CustomerDocument, uploadLimit)
		e.Static("/uploads", cfg.Storage.Path)
	} else {
		loggers.Main.Warn("file storage not configured, upload handlers disabled")
	}

	api := e.Group("/api", guards...)
	api.GET("/insights/export", insightsController.Export)

	dispatcher := listeners.NewOutboxDispatcher(txManager, outboxRepo, commRepo, workflowRepo, participantRepo,
		notificationService, deps.Publisher, cfg.Dispatcher, cfg.Server.TrackingBaseURL, loggers.Dispatcher)
	if deps.Bus != nil {
		dispatcher.Register(deps.Bus)
	}

	loggers.Main.Info("InitRouter: routes ready")
	return dispatcher
}

func applyMiddleware(e *echo.Echo, logger *zap.Logger) {
	e.Use(echomw.RecoverWithConfig(echomw.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("panic recovered",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				_ = utils.ErrorResponse(c, apperrors.NewHttpError(http.StatusInternalServerError, "Internal server error", err, nil), logger)
			}
			return err
		},
	}))
	e.Use(echomw.RequestID())
	e.Use(middleware.InjectLogger(logger))
	e.Use(middleware.RequestLogger(logger))
	// Uploads carry their own, larger limit on the route.
	e.Use(echomw.BodyLimitWithConfig(echomw.BodyLimitConfig{
		Limit: "1M",
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Request().URL.Path, uploadPathPrefix)
		},
	}))
	e.Use(middleware.CORS())
}

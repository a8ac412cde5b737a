package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"shipping-system/internal/repositories"
	"shipping-system/internal/routes"
	"shipping-system/pkg/broker"
	"shipping-system/pkg/config"
	"shipping-system/pkg/customvalidator"
	"shipping-system/pkg/database/postgresql"
	"shipping-system/pkg/eventbus"
	"shipping-system/pkg/filestorage"
	"shipping-system/pkg/mailer"
	"shipping-system/pkg/service"
	"shipping-system/pkg/utils"
)

func newServeCommand(cfg *config.Config, logger *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP handlers and the outbox dispatcher",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), cfg, logger)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	e := echo.New()
	e.HideBanner = true
	v := validator.New()
	if err := customvalidator.RegisterCustomValidations(v); err != nil {
		return err
	}
	e.Validator = utils.NewValidator(v)

	renderer, err := mailer.NewRenderer(mailer.DefaultCompany)
	if err != nil {
		return err
	}

	deps := routes.Dependencies{
		DB:       pool,
		Bus:      eventbus.New(logger.Named("eventbus")),
		Renderer: renderer,
	}

	if cfg.Redis.Address != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, running without cache and idempotency", zap.Error(err), zap.String("address", cfg.Redis.Address))
		} else {
			deps.Cache = repositories.NewRedisCacheRepository(redisClient)
		}
	}

	if cfg.Email.ResendAPIKey != "" {
		deps.Mailer = mailer.NewResendMailer(cfg.Email.ResendURL, cfg.Email.ResendAPIKey, cfg.Email.From, cfg.Email.Timeout)
	} else {
		logger.Warn("RESEND_API_KEY not set, emails are logged only")
		deps.Mailer = mailer.NewDemoMailer(logger.Named("mailer"))
	}

	if cfg.WhatsApp.AccessToken != "" && cfg.WhatsApp.PhoneNumberID != "" {
		deps.WhatsApp = mailer.NewGraphWhatsApp(cfg.WhatsApp.APIURL, cfg.WhatsApp.PhoneNumberID, cfg.WhatsApp.AccessToken, cfg.WhatsApp.Timeout)
	} else {
		logger.Warn("WhatsApp credentials not set, WhatsApp messages are logged only")
		deps.WhatsApp = mailer.NewDemoWhatsApp(logger.Named("whatsapp"))
	}

	files, err := filestorage.NewLocalFileStorage(cfg.Storage.Path, cfg.Storage.PublicURL)
	if err != nil {
		return err
	}
	deps.Files = files

	if cfg.Broker.AMQPURL != "" {
		rabbit, err := broker.NewRabbitMq(cfg.Broker.AMQPURL, cfg.Broker.Exchange)
		if err != nil {
			return err
		}
		deps.Publisher = rabbit
	} else {
		deps.Publisher = broker.NewLogPublisher(logger.Named("broker"))
	}
	defer deps.Publisher.Close()

	if cfg.Auth.JWTSecret != "" {
		deps.JWT = service.NewJWTService(cfg.Auth.JWTSecret)
	}

	dispatcher := routes.InitRouter(e, deps, routes.NewLoggers(logger), cfg)

	dispatcherDone := make(chan struct{})
	go func() {
		defer close(dispatcherDone)
		dispatcher.Run(ctx)
	}()

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		serverErrors <- e.Start(":" + cfg.Server.Port)
	}()

	select {
	case err := <-serverErrors:
		stop()
		<-dispatcherDone
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	<-dispatcherDone

	logger.Info("server stopped gracefully")
	return nil
}

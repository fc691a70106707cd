package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/whistleblow-portal/internal/api/http"
	"github.com/spec-kit/whistleblow-portal/internal/api/http/handlers"
	"github.com/spec-kit/whistleblow-portal/internal/auth"
	"github.com/spec-kit/whistleblow-portal/internal/config"
	"github.com/spec-kit/whistleblow-portal/internal/credentials"
	"github.com/spec-kit/whistleblow-portal/internal/events"
	"github.com/spec-kit/whistleblow-portal/internal/observability"
	"github.com/spec-kit/whistleblow-portal/internal/persistence"
	"github.com/spec-kit/whistleblow-portal/internal/repository"
	"github.com/spec-kit/whistleblow-portal/internal/service"
	"github.com/spec-kit/whistleblow-portal/internal/storage"
	"github.com/spec-kit/whistleblow-portal/internal/upload"
	"github.com/spec-kit/whistleblow-portal/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	broker, err := persistence.NewAMQP(cfg.Notification, logger)
	if err != nil {
		logger.Fatal("failed to connect amqp", zap.Error(err))
	}
	defer broker.Close()

	store, err := storage.New(cfg.Storage, logger)
	if err != nil {
		logger.Fatal("failed to init storage", zap.Error(err))
	}

	pool := pg.PoolHandle()
	reportRepo := repository.NewReportRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)
	attachmentRepo := repository.NewAttachmentRepository(pool)
	adminRepo := repository.NewAdminUserRepository(pool)
	settingRepo := repository.NewSettingRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	loginThrottle := auth.NewRedisThrottle(redis.Client, logger, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginWindow())
	submitThrottle := auth.NewRedisThrottle(redis.Client, logger, cfg.Auth.SubmitMaxPerWindow, cfg.Auth.SubmitWindow())

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		AdminRepo:      adminRepo,
		ReportRepo:     reportRepo,
		LoginThrottle:  loginThrottle,
		SubmitThrottle: submitThrottle,
	})
	reportService := service.NewReportService(service.ReportDependencies{
		ReportRepo:     reportRepo,
		MessageRepo:    messageRepo,
		AttachmentRepo: attachmentRepo,
		Generator:      credentials.NewGenerator(cfg.Auth.SecretLength),
		Dispatcher:     dispatcher,
		BcryptCost:     cfg.Auth.BcryptCost,
	})
	adminService := service.NewAdminService(*cfg, adminRepo, logger)
	settingsService := service.NewSettingsService(settingRepo)
	attachmentService := service.NewAttachmentService(attachmentRepo, store)
	exportService := service.NewExportService(reportService)
	notificationService := service.NewNotificationService(*cfg, adminRepo, broker, logger)

	if err := adminService.EnsureSuperAdmin(ctx); err != nil {
		logger.Fatal("failed to ensure super admin", zap.Error(err))
	}

	worker.StartNotificationWorker(dispatcher, notificationService, logger)

	authMiddleware := auth.NewMiddleware(authService.TokenManager(), adminRepo, reportRepo)
	intake := upload.NewIntake(store, logger, cfg.Upload)

	app := fiber.New(fiber.Config{
		BodyLimit: int(cfg.Upload.MaxFileSizeByte)*cfg.Upload.MaxFiles + 1024*1024,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Public:         handlers.NewPublicHandler(reportService, authService, settingsService, intake),
		Whistleblower:  handlers.NewWhistleblowerHandler(authService, reportService, intake),
		Admin:          handlers.NewAdminHandler(authService, reportService, exportService, intake),
		Users:          handlers.NewUsersHandler(adminService),
		Settings:       handlers.NewSettingsHandler(settingsService),
		Attachments:    handlers.NewAttachmentsHandler(attachmentService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}

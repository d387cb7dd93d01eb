package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/complaint-service/internal/api/http"
	"github.com/spec-kit/complaint-service/internal/api/http/handlers"
	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/config"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/mail"
	"github.com/spec-kit/complaint-service/internal/observability"
	"github.com/spec-kit/complaint-service/internal/otp"
	"github.com/spec-kit/complaint-service/internal/persistence"
	"github.com/spec-kit/complaint-service/internal/repository"
	"github.com/spec-kit/complaint-service/internal/service"
	"github.com/spec-kit/complaint-service/internal/worker"
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

	pool := pg.PoolHandle()
	accountRepo := repository.NewAccountRepository(pool)
	complaintRepo := repository.NewComplaintRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)

	ledger := buildLedger(cfg, redis, logger)

	var federated auth.FederatedVerifier
	if cfg.Google.ClientID != "" {
		verifier, err := auth.NewGoogleVerifier(ctx, cfg.Google.ClientID)
		if err != nil {
			logger.Fatal("failed to init google verifier", zap.Error(err))
		}
		federated = verifier
	} else {
		logger.Warn("GOOGLE_CLIENT_ID not provided; federated login disabled")
	}

	mailer, err := mail.NewSMTPDispatcher(
		cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
	if err != nil {
		logger.Fatal("failed to init smtp client", zap.Error(err))
	}

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(
		dispatcher, accountRepo, complaintRepo, mailer, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		AccountRepo: accountRepo,
		Ledger:      ledger,
		Federated:   federated,
		Mailer:      mailer,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	accountService := service.NewAccountService(accountRepo, logger)
	complaintService := service.NewComplaintService(
		complaintRepo, messageRepo, accountRepo, dispatcher, logger)
	reportService := service.NewReportService(complaintRepo, logger)

	authMiddleware := auth.NewMiddleware(authService.TokenManager(), accountRepo)
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(accountService),
		Complaints:     handlers.NewComplaintsHandler(complaintService),
		Messages:       handlers.NewMessagesHandler(complaintService),
		Reports:        handlers.NewReportsHandler(reportService),
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

func buildLedger(cfg *config.Config, redis *persistence.Redis, logger *zap.Logger) otp.Ledger {
	if strings.EqualFold(cfg.Auth.OTPBackend, "redis") && redis != nil && redis.Client != nil {
		logger.Info("using redis otp ledger")
		return otp.NewRedisLedger(redis.Client, cfg.Auth.OTPWindow())
	}
	logger.Info("using in-memory otp ledger")
	return otp.NewMemoryLedger(cfg.Auth.OTPWindow())
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}

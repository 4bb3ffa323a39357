package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/payment-ops/internal/api/http"
	"github.com/spec-kit/payment-ops/internal/api/http/handlers"
	"github.com/spec-kit/payment-ops/internal/auth"
	"github.com/spec-kit/payment-ops/internal/config"
	"github.com/spec-kit/payment-ops/internal/events"
	"github.com/spec-kit/payment-ops/internal/lookup"
	"github.com/spec-kit/payment-ops/internal/observability"
	"github.com/spec-kit/payment-ops/internal/persistence"
	"github.com/spec-kit/payment-ops/internal/repository"
	"github.com/spec-kit/payment-ops/internal/service"
	"github.com/spec-kit/payment-ops/internal/triage"
	"github.com/spec-kit/payment-ops/internal/worker"
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
	paymentRepo := repository.NewPaymentRepository(pool)
	customerRepo := repository.NewCustomerRepository(pool)
	caseRepo := repository.NewCaseRepository(pool)
	runRepo := repository.NewRunRepository(pool)
	operatorRepo := repository.NewOperatorRepository(pool)

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	customerLookup := lookup.NewCustomerLookup(customerRepo, redis.Client, cfg.Redis.CustomerTTL(), logger)

	policy := triage.Policy{
		RetryLimit:          cfg.Triage.RetryLimit,
		RetryWindow:         cfg.Triage.RetryWindow(),
		HighValueCents:      cfg.Triage.HighValueCents,
		ElevatedCents:       cfg.Triage.ElevatedValueCents,
		WorkerCount:         cfg.Triage.WorkerCount,
		CollaboratorBackoff: cfg.Triage.Backoff(),
	}
	coordinator := triage.NewCoordinator(policy, triage.Dependencies{
		Payments:  paymentRepo,
		Customers: customerLookup,
		Cases:     caseRepo,
		Logger:    logger,
	})

	triageService := service.NewTriageService(service.TriageDependencies{
		Coordinator: coordinator,
		PaymentRepo: paymentRepo,
		RunRepo:     runRepo,
		Dispatcher:  dispatcher,
		Metrics:     metrics,
		Logger:      logger,
		BatchLimit:  cfg.Triage.BatchLimit,
	})

	authService := service.NewAuthService(cfg.Auth, operatorRepo)
	if err := authService.EnsureBootstrapAdmin(ctx, cfg.Auth.BootstrapAdminName, cfg.Auth.BootstrapAdminSecret); err != nil {
		logger.Fatal("failed to bootstrap admin operator", zap.Error(err))
	}
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), operatorRepo)

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	triageWorker := worker.NewTriageWorker(triageService, cfg.Triage.RunInterval(), logger)
	triageWorker.Start(ctx)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Operators:      handlers.NewOperatorsHandler(authService),
		Payments:       handlers.NewPaymentsHandler(paymentRepo, caseRepo, triageService),
		Runs:           handlers.NewRunsHandler(triageService, metrics),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}

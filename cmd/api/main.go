package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/hanamaru-english/class-api/internal/api/handler"
	"github.com/hanamaru-english/class-api/internal/api/router"
	"github.com/hanamaru-english/class-api/internal/app"
	"github.com/hanamaru-english/class-api/internal/config"
	"github.com/hanamaru-english/class-api/internal/flow"
	"github.com/hanamaru-english/class-api/internal/notify"
	"github.com/hanamaru-english/class-api/internal/repository"
	"github.com/hanamaru-english/class-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create database pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Failed to reach database", zap.Error(err))
	}

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath, logger)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	classRepo := repository.NewClassRepository(pool)
	recurringRepo := repository.NewRecurringClassRepository(pool)
	subscriptionRepo := repository.NewSubscriptionRepository(pool)
	instructorRepo := repository.NewInstructorRepository(pool)
	customerRepo := repository.NewCustomerRepository(pool)

	var notifier service.ConflictNotifier
	if cfg.TelegramToken != "" && cfg.AdminChatID != 0 {
		tn, err := notify.NewTelegramNotifier(cfg.TelegramToken, cfg.AdminChatID, logger)
		if err != nil {
			logger.Fatal("Failed to create telegram notifier", zap.Error(err))
		}
		notifier = tn
	}

	bookingSvc := service.NewBookingService(classRepo, subscriptionRepo, instructorRepo, customerRepo, logger)
	subscriptionSvc := service.NewSubscriptionService(subscriptionRepo, recurringRepo, customerRepo, instructorRepo, logger)
	instructorSvc := service.NewInstructorService(instructorRepo, logger)
	generatorSvc := service.NewGeneratorService(classRepo, recurringRepo, subscriptionRepo, bookingSvc, notifier, logger)

	scheduler := app.NewScheduler(generatorSvc, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	h := handler.New(bookingSvc, subscriptionSvc, instructorSvc, generatorSvc, flow.NewManager())
	engine := router.Setup(h, logger)
	server := app.NewServer(cfg.HTTPAddr, engine, logger)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start()
	}()

	select {
	case err := <-errChan:
		if err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	}

	if err := server.Shutdown(context.Background()); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}

	logger.Info("Server stopped")
}

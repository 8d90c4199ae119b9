package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hanamaru-english/class-api/internal/schedule"
	"github.com/hanamaru-english/class-api/internal/service"
)

// Scheduler runs the background month-generation task.
type Scheduler struct {
	generator *service.GeneratorService
	logger    *zap.Logger
	stopChan  chan struct{}
}

func NewScheduler(generator *service.GeneratorService, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		generator: generator,
		logger:    logger,
		stopChan:  make(chan struct{}),
	}
}

// Start launches the background tasks.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler")

	go s.runGenerationTask(ctx)
}

// Stop signals the background tasks to exit.
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	close(s.stopChan)
}

// runGenerationTask regenerates the current and next month once per day.
// Generation is idempotent, so re-running a finished month is a no-op.
func (s *Scheduler) runGenerationTask(ctx context.Context) {
	s.generateMonths(ctx)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.generateMonths(ctx)
		case <-s.stopChan:
			s.logger.Info("Generation task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Generation task cancelled")
			return
		}
	}
}

type monthTarget struct {
	year  int
	month time.Month
}

func (s *Scheduler) generateMonths(ctx context.Context) {
	now := time.Now().In(schedule.JST)
	nextYear, nextMonth := schedule.NextMonth(now)

	targets := []monthTarget{
		{now.Year(), now.Month()},
		{nextYear, nextMonth},
	}

	for _, target := range targets {
		result, err := s.generator.GenerateMonthlyClasses(ctx, target.year, target.month)
		if err != nil {
			s.logger.Error("Month generation failed",
				zap.Int("year", target.year),
				zap.Int("month", int(target.month)),
				zap.Error(err))
			continue
		}

		s.logger.Info("Month generation finished",
			zap.Int("year", target.year),
			zap.Int("month", int(target.month)),
			zap.Int("created", len(result.Created)),
			zap.Int("conflicts", len(result.Conflicts)),
			zap.Int("failures", len(result.Failures)))
	}
}

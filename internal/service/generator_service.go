package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hanamaru-english/class-api/internal/model"
	"github.com/hanamaru-english/class-api/internal/repository/base"
	"github.com/hanamaru-english/class-api/internal/schedule"
)

// ConflictNotifier pushes generation conflicts to an admin channel. Optional.
type ConflictNotifier interface {
	GenerationConflicts(ctx context.Context, year int, month time.Month, conflicts []GenerationConflict) error
}

// GenerationConflict is an occurrence that needs a human decision: either an
// instance created even though the instructor looked unavailable, or an
// occurrence that could not be written because another class already holds
// the instructor's slot (ClassID is zero then).
type GenerationConflict struct {
	ClassID          int64     `json:"class_id"`
	RecurringClassID int64     `json:"recurring_class_id"`
	InstructorID     int64     `json:"instructor_id"`
	StartsAt         time.Time `json:"starts_at"`
	Reason           string    `json:"reason"`
}

// TemplateFailure records a template whose generation aborted partway.
type TemplateFailure struct {
	RecurringClassID int64  `json:"recurring_class_id"`
	Error            string `json:"error"`
}

// GenerationResult is the outcome of one month-generation run.
type GenerationResult struct {
	Created   []*model.ClassInstance `json:"created"`
	Conflicts []GenerationConflict   `json:"conflicts"`
	Failures  []TemplateFailure      `json:"failures"`
}

// GeneratorService materializes recurring-class templates into concrete
// class instances month by month.
type GeneratorService struct {
	classRepo        ClassRepo
	recurringRepo    RecurringClassRepo
	subscriptionRepo SubscriptionRepo
	booking          *BookingService
	notifier         ConflictNotifier
	logger           *zap.Logger
}

func NewGeneratorService(
	classRepo ClassRepo,
	recurringRepo RecurringClassRepo,
	subscriptionRepo SubscriptionRepo,
	booking *BookingService,
	notifier ConflictNotifier,
	logger *zap.Logger,
) *GeneratorService {
	return &GeneratorService{
		classRepo:        classRepo,
		recurringRepo:    recurringRepo,
		subscriptionRepo: subscriptionRepo,
		booking:          booking,
		notifier:         notifier,
		logger:           logger,
	}
}

// GenerateMonthlyClasses creates a class instance for every due occurrence
// of every active template in the target month. Re-running for the same
// month creates nothing new. A failure in one template does not abort the
// others; failures are collected per template.
func (s *GeneratorService) GenerateMonthlyClasses(ctx context.Context, year int, month time.Month) (*GenerationResult, error) {
	if year == 0 || month < time.January || month > time.December {
		return nil, newError(ErrTypeMissingParameters, "valid year and month are required")
	}

	monthStart, monthEnd := schedule.MonthBounds(year, month)

	templates, err := s.recurringRepo.ActiveInRange(ctx, monthStart, monthEnd)
	if err != nil {
		return nil, fmt.Errorf("get active recurring classes: %w", err)
	}

	result := &GenerationResult{}
	for _, tpl := range templates {
		created, conflicts, err := s.generateForTemplate(ctx, tpl, year, month)
		result.Created = append(result.Created, created...)
		result.Conflicts = append(result.Conflicts, conflicts...)
		if err != nil {
			s.logger.Error("Template generation failed",
				zap.Int64("recurring_class_id", tpl.ID),
				zap.Error(err),
			)
			result.Failures = append(result.Failures, TemplateFailure{
				RecurringClassID: tpl.ID,
				Error:            err.Error(),
			})
			continue
		}
	}

	if s.notifier != nil && len(result.Conflicts) > 0 {
		if err := s.notifier.GenerationConflicts(ctx, year, month, result.Conflicts); err != nil {
			s.logger.Error("Failed to notify generation conflicts", zap.Error(err))
		}
	}

	s.logger.Info("Monthly class generation finished",
		zap.Int("year", year),
		zap.Int("month", int(month)),
		zap.Int("templates", len(templates)),
		zap.Int("created", len(result.Created)),
		zap.Int("conflicts", len(result.Conflicts)),
		zap.Int("failures", len(result.Failures)),
	)

	return result, nil
}

func (s *GeneratorService) generateForTemplate(ctx context.Context, tpl *model.RecurringClass, year int, month time.Month) ([]*model.ClassInstance, []GenerationConflict, error) {
	sub, err := s.subscriptionRepo.GetByID(ctx, tpl.SubscriptionID)
	if err != nil {
		return nil, nil, fmt.Errorf("get subscription: %w", err)
	}
	if sub == nil {
		return nil, nil, fmt.Errorf("subscription %d not found", tpl.SubscriptionID)
	}

	var created []*model.ClassInstance
	var conflicts []GenerationConflict

	for _, date := range schedule.WeekdayDatesIn(year, month, time.Weekday(tpl.Weekday)) {
		startsAt := schedule.At(date, tpl.StartHour, tpl.StartMinute)

		if startsAt.Before(tpl.StartsFrom) {
			continue
		}
		if tpl.EndsAt != nil && !startsAt.Before(*tpl.EndsAt) {
			continue
		}
		if sub.EndsAt != nil && !startsAt.Before(*sub.EndsAt) {
			continue
		}

		exists, err := s.classRepo.ExistsForRecurringAt(ctx, tpl.ID, startsAt)
		if err != nil {
			return created, conflicts, fmt.Errorf("check existing instance: %w", err)
		}
		if exists {
			continue
		}

		// Availability is re-checked but does not block: template-driven
		// generation favors completeness and leaves conflicts to an admin.
		conflictReason := ""
		available, err := s.booking.CheckInstructorAvailability(ctx, tpl.InstructorID, startsAt)
		if err != nil {
			conflictReason = "availability check failed: " + err.Error()
		} else if !available {
			conflictReason = "instructor unavailable or already booked"
		}

		class := &model.ClassInstance{
			ClassCode:        newClassCode(),
			CustomerID:       sub.CustomerID,
			InstructorID:     tpl.InstructorID,
			Status:           model.ClassStatusBooked,
			StartsAt:         startsAt,
			IsFreeTrial:      false,
			RecurringClassID: &tpl.ID,
			ChildIDs:         tpl.ChildIDs,
		}

		if err := s.classRepo.Create(ctx, class); err != nil {
			if base.IsUniqueViolation(err) {
				exists, checkErr := s.classRepo.ExistsForRecurringAt(ctx, tpl.ID, startsAt)
				if checkErr != nil {
					return created, conflicts, fmt.Errorf("recheck existing instance: %w", checkErr)
				}
				if exists {
					// A concurrent run created it first.
					continue
				}
				// The instructor's slot is held by a class outside this
				// template. The occurrence cannot be written, so it is
				// surfaced for an admin to resolve by hand.
				conflicts = append(conflicts, GenerationConflict{
					RecurringClassID: tpl.ID,
					InstructorID:     tpl.InstructorID,
					StartsAt:         startsAt,
					Reason:           "instructor slot already held by another class",
				})
				continue
			}
			return created, conflicts, fmt.Errorf("create instance at %s: %w", startsAt, err)
		}

		created = append(created, class)
		if conflictReason != "" {
			conflicts = append(conflicts, GenerationConflict{
				ClassID:          class.ID,
				RecurringClassID: tpl.ID,
				InstructorID:     tpl.InstructorID,
				StartsAt:         startsAt,
				Reason:           conflictReason,
			})
		}
	}

	return created, conflicts, nil
}

package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hanamaru-english/class-api/internal/model"
)

// InstructorService manages instructor availability records.
type InstructorService struct {
	instructorRepo InstructorRepo
	logger         *zap.Logger
}

func NewInstructorService(instructorRepo InstructorRepo, logger *zap.Logger) *InstructorService {
	return &InstructorService{instructorRepo: instructorRepo, logger: logger}
}

func (s *InstructorService) requireInstructor(ctx context.Context, id int64) error {
	if id == 0 {
		return newError(ErrTypeMissingParameters, "instructor id is required")
	}
	instructor, err := s.instructorRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get instructor: %w", err)
	}
	if instructor == nil {
		return newError(ErrTypeInvalidClassData, "instructor not found")
	}
	return nil
}

// SetOneOff marks a single timestamp available or unavailable. The latest
// instruction for an instant wins.
func (s *InstructorService) SetOneOff(ctx context.Context, instructorID int64, at time.Time, kind model.AvailabilityKind) (*model.InstructorAvailability, error) {
	if err := s.requireInstructor(ctx, instructorID); err != nil {
		return nil, err
	}
	if at.IsZero() {
		return nil, newError(ErrTypeMissingParameters, "time is required")
	}
	if kind != model.AvailabilityAvailable && kind != model.AvailabilityUnavailable {
		return nil, newError(ErrTypeMissingParameters, "kind must be available or unavailable")
	}

	entry := &model.InstructorAvailability{
		InstructorID: instructorID,
		StartsAt:     at,
		Kind:         kind,
	}
	if err := s.instructorRepo.AddOneOff(ctx, entry); err != nil {
		return nil, fmt.Errorf("add one-off availability: %w", err)
	}

	s.logger.Info("One-off availability set",
		zap.Int64("instructor_id", instructorID),
		zap.Time("starts_at", at),
		zap.String("kind", string(kind)),
	)

	return entry, nil
}

// AddRecurring opens a weekly availability slot.
func (s *InstructorService) AddRecurring(ctx context.Context, instructorID int64, weekday, hour, minute int) (*model.InstructorRecurringAvailability, error) {
	if err := s.requireInstructor(ctx, instructorID); err != nil {
		return nil, err
	}
	if weekday < 0 || weekday > 6 || hour < 0 || hour > 23 || (minute != 0 && minute != 30) {
		return nil, newError(ErrTypeMissingParameters, "weekday, hour and a half-hour minute are required")
	}

	entry := &model.InstructorRecurringAvailability{
		InstructorID: instructorID,
		Weekday:      weekday,
		StartHour:    hour,
		StartMinute:  minute,
	}
	if err := s.instructorRepo.AddRecurring(ctx, entry); err != nil {
		return nil, fmt.Errorf("add recurring availability: %w", err)
	}

	s.logger.Info("Recurring availability added",
		zap.Int64("instructor_id", instructorID),
		zap.Int("weekday", weekday),
		zap.Int("hour", hour),
		zap.Int("minute", minute),
	)

	return entry, nil
}

// RemoveRecurring closes a weekly availability slot.
func (s *InstructorService) RemoveRecurring(ctx context.Context, instructorID int64, weekday, hour, minute int) error {
	if err := s.requireInstructor(ctx, instructorID); err != nil {
		return err
	}

	if err := s.instructorRepo.RemoveRecurring(ctx, instructorID, weekday, hour, minute); err != nil {
		return fmt.Errorf("remove recurring availability: %w", err)
	}

	s.logger.Info("Recurring availability removed",
		zap.Int64("instructor_id", instructorID),
		zap.Int("weekday", weekday),
		zap.Int("hour", hour),
		zap.Int("minute", minute),
	)

	return nil
}

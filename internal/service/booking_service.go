package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hanamaru-english/class-api/internal/model"
	"github.com/hanamaru-english/class-api/internal/repository/base"
	"github.com/hanamaru-english/class-api/internal/schedule"
)

// BookingService owns cancellation, rebooking and the pre-booking conflict
// checks.
type BookingService struct {
	classRepo        ClassRepo
	subscriptionRepo SubscriptionRepo
	instructorRepo   InstructorRepo
	customerRepo     CustomerRepo
	logger           *zap.Logger

	now func() time.Time
}

func NewBookingService(
	classRepo ClassRepo,
	subscriptionRepo SubscriptionRepo,
	instructorRepo InstructorRepo,
	customerRepo CustomerRepo,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		classRepo:        classRepo,
		subscriptionRepo: subscriptionRepo,
		instructorRepo:   instructorRepo,
		customerRepo:     customerRepo,
		logger:           logger,
		now:              time.Now,
	}
}

// newClassCode generates a short human-readable class code.
func newClassCode() string {
	return "C-" + strings.ToUpper(uuid.NewString()[:8])
}

// CancelClass cancels a class on behalf of its customer. Before the
// previous-day deadline this grants a rebooking window; on or after the
// deadline the request is rejected and the same-day support flow applies.
func (s *BookingService) CancelClass(ctx context.Context, classID int64) (*model.ClassInstance, error) {
	if classID == 0 {
		return nil, newError(ErrTypeMissingParameters, "class id is required")
	}

	class, err := s.classRepo.GetByID(ctx, classID)
	if err != nil {
		return nil, fmt.Errorf("get class: %w", err)
	}
	if class == nil {
		return nil, newError(ErrTypeInvalidClassData, "class not found")
	}
	if class.IsFreeTrial {
		return nil, newError(ErrTypeInvalidClassData, "free trial classes go through the decline flow")
	}
	if !class.CanBeCanceled() {
		return nil, newError(ErrTypeInvalidClassData, "class is not active")
	}

	now := s.now()
	if schedule.IsPastPreviousDayDeadline(now, class.StartsAt) {
		return nil, newError(ErrTypePastRebookingDeadline, "same-day cancellation must go through support")
	}

	until := schedule.RebookableUntil(now)
	if until.Before(class.StartsAt) {
		// The window must always cover the original scheduled time.
		until = schedule.RebookableUntil(class.StartsAt)
	}

	if err := s.classRepo.Cancel(ctx, class.ID, model.ClassStatusCanceledByCustomer, &until); err != nil {
		return nil, fmt.Errorf("cancel class: %w", err)
	}

	class.Status = model.ClassStatusCanceledByCustomer
	class.RebookableUntil = &until

	s.logger.Info("Class canceled by customer",
		zap.Int64("class_id", class.ID),
		zap.String("class_code", class.ClassCode),
		zap.Time("rebookable_until", until),
	)

	return class, nil
}

// CancelClassByInstructor cancels a class from the instructor side. The
// customer keeps a rebooking window regardless of the deadline.
func (s *BookingService) CancelClassByInstructor(ctx context.Context, classID int64) (*model.ClassInstance, error) {
	if classID == 0 {
		return nil, newError(ErrTypeMissingParameters, "class id is required")
	}

	class, err := s.classRepo.GetByID(ctx, classID)
	if err != nil {
		return nil, fmt.Errorf("get class: %w", err)
	}
	if class == nil {
		return nil, newError(ErrTypeInvalidClassData, "class not found")
	}
	if !class.CanBeCanceled() {
		return nil, newError(ErrTypeInvalidClassData, "class is not active")
	}

	until := schedule.RebookableUntil(s.now())
	if until.Before(class.StartsAt) {
		until = schedule.RebookableUntil(class.StartsAt)
	}

	if err := s.classRepo.Cancel(ctx, class.ID, model.ClassStatusCanceledByInstructor, &until); err != nil {
		return nil, fmt.Errorf("cancel class: %w", err)
	}

	class.Status = model.ClassStatusCanceledByInstructor
	class.RebookableUntil = &until

	s.logger.Info("Class canceled by instructor",
		zap.Int64("class_id", class.ID),
		zap.Int64("instructor_id", class.InstructorID),
	)

	return class, nil
}

// DeclineFreeTrial declines a free trial class. No rebooking window is
// granted.
func (s *BookingService) DeclineFreeTrial(ctx context.Context, classID int64) (*model.ClassInstance, error) {
	if classID == 0 {
		return nil, newError(ErrTypeMissingParameters, "class id is required")
	}

	class, err := s.classRepo.GetByID(ctx, classID)
	if err != nil {
		return nil, fmt.Errorf("get class: %w", err)
	}
	if class == nil {
		return nil, newError(ErrTypeInvalidClassData, "class not found")
	}
	if !class.IsFreeTrial {
		return nil, newError(ErrTypeInvalidClassData, "class is not a free trial")
	}
	if class.Status.IsTerminal() {
		return nil, newError(ErrTypeInvalidClassData, "class is already closed")
	}

	if err := s.classRepo.UpdateStatus(ctx, class.ID, model.ClassStatusDeclined); err != nil {
		return nil, fmt.Errorf("decline free trial: %w", err)
	}

	class.Status = model.ClassStatusDeclined

	s.logger.Info("Free trial declined", zap.Int64("class_id", class.ID))

	return class, nil
}

// RebookRequest carries everything a rebooking write needs.
type RebookRequest struct {
	ClassID      int64
	StartsAt     time.Time
	InstructorID int64
	ChildIDs     []int64

	// Confirmed acknowledges advisory conflicts reported on a previous
	// attempt.
	Confirmed bool
}

// RebookClass books a replacement class against a canceled class's rebooking
// credit. Advisory conflicts (child overlap, double booking) are reported as
// ErrTypeConfirmationRequired unless the request confirms them; availability
// and deadline violations always reject.
func (s *BookingService) RebookClass(ctx context.Context, req RebookRequest) (*model.ClassInstance, error) {
	if req.ClassID == 0 || req.InstructorID == 0 || req.StartsAt.IsZero() {
		return nil, newError(ErrTypeMissingParameters, "class id, instructor id and start time are required")
	}

	original, err := s.classRepo.GetByID(ctx, req.ClassID)
	if err != nil {
		return nil, fmt.Errorf("get class: %w", err)
	}
	if original == nil {
		return nil, newError(ErrTypeInvalidClassData, "class not found")
	}
	if !original.HasRebookingCredit() {
		return nil, newError(ErrTypeInvalidClassData, "class has no rebooking credit")
	}

	instructor, err := s.instructorRepo.GetByID(ctx, req.InstructorID)
	if err != nil {
		return nil, fmt.Errorf("get instructor: %w", err)
	}
	if instructor == nil || !instructor.IsActive {
		return nil, newError(ErrTypeInvalidClassData, "instructor not found")
	}

	now := s.now()

	sub, err := s.subscriptionRepo.GetActiveByCustomer(ctx, original.CustomerID, now)
	if err != nil {
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	if sub == nil {
		return nil, newError(ErrTypeNoSubscription, "no active subscription")
	}
	if sub.EndsAt != nil && !req.StartsAt.Before(*sub.EndsAt) {
		return nil, newError(ErrTypeOutdatedSubscription, "subscription ends before the requested class")
	}

	if !schedule.WithinRebookingWindow(now, *original.RebookableUntil) {
		return nil, newError(ErrTypePastRebookingDeadline, "rebooking window has expired")
	}
	if schedule.PastRebookingCutoff(now, req.StartsAt) {
		return nil, newError(ErrTypePastRebookingDeadline, "rebooking closes 3 hours before the class")
	}
	if !schedule.IsBookable(req.StartsAt) {
		return nil, newError(ErrTypeInvalidClassData, "requested time is outside business hours")
	}

	// Availability is a hard gate; the checks below it are advisory.
	available, err := s.CheckInstructorAvailability(ctx, req.InstructorID, req.StartsAt)
	if err != nil {
		return nil, fmt.Errorf("check instructor availability: %w", err)
	}
	if !available {
		return nil, newError(ErrTypeInstructorUnavailable, "instructor is not available at the requested time")
	}

	if !req.Confirmed {
		childNames, err := s.CheckChildConflicts(ctx, req.StartsAt, req.InstructorID, req.ChildIDs)
		if err != nil {
			return nil, fmt.Errorf("check child conflicts: %w", err)
		}
		doubleBooked, err := s.CheckDoubleBooking(ctx, original.CustomerID, req.StartsAt)
		if err != nil {
			return nil, fmt.Errorf("check double booking: %w", err)
		}
		if len(childNames) > 0 || doubleBooked {
			return nil, &Error{
				Type:                ErrTypeConfirmationRequired,
				Message:             "schedule conflicts found, confirm to proceed",
				ConflictingChildren: childNames,
				DoubleBooked:        doubleBooked,
			}
		}
	}

	childIDs := req.ChildIDs
	if len(childIDs) == 0 {
		childIDs = original.ChildIDs
	}

	replacement := &model.ClassInstance{
		ClassCode:      newClassCode(),
		CustomerID:     original.CustomerID,
		InstructorID:   req.InstructorID,
		Status:         model.ClassStatusRebooked,
		StartsAt:       req.StartsAt,
		RebookedFromID: &original.ID,
		ChildIDs:       childIDs,
	}

	if err := s.classRepo.Rebook(ctx, original.ID, replacement); err != nil {
		if base.IsUniqueViolation(err) {
			return nil, newError(ErrTypeInstructorConflict, "the slot was just taken")
		}
		return nil, fmt.Errorf("rebook class: %w", err)
	}

	s.logger.Info("Class rebooked",
		zap.Int64("original_class_id", original.ID),
		zap.Int64("class_id", replacement.ID),
		zap.String("class_code", replacement.ClassCode),
		zap.Time("starts_at", replacement.StartsAt),
	)

	return replacement, nil
}

// CheckDoubleBooking reports whether the customer already has an active
// class at exactly the given instant. Advisory: the caller decides whether
// to prompt or reject.
func (s *BookingService) CheckDoubleBooking(ctx context.Context, customerID int64, at time.Time) (bool, error) {
	if customerID == 0 || at.IsZero() {
		return false, newError(ErrTypeMissingParameters, "customer id and time are required")
	}

	classes, err := s.classRepo.FindActiveByCustomerAt(ctx, customerID, at)
	if err != nil {
		return false, fmt.Errorf("find classes: %w", err)
	}
	return len(classes) > 0, nil
}

// CheckChildConflicts returns the names of children already scheduled in an
// overlapping class with a different instructor. Advisory.
func (s *BookingService) CheckChildConflicts(ctx context.Context, at time.Time, instructorID int64, childIDs []int64) ([]string, error) {
	if at.IsZero() {
		return nil, newError(ErrTypeMissingParameters, "time is required")
	}

	var conflicted []int64
	for _, childID := range childIDs {
		classes, err := s.classRepo.FindActiveByChildBetween(ctx, childID,
			at.Add(-schedule.ClassDuration), at.Add(schedule.ClassDuration))
		if err != nil {
			return nil, fmt.Errorf("find child classes: %w", err)
		}
		for _, class := range classes {
			if class.InstructorID != instructorID && schedule.Overlaps(class.StartsAt, at) {
				conflicted = append(conflicted, childID)
				break
			}
		}
	}
	if len(conflicted) == 0 {
		return nil, nil
	}

	children, err := s.customerRepo.ChildrenByIDs(ctx, conflicted)
	if err != nil {
		return nil, fmt.Errorf("get children: %w", err)
	}

	names := make([]string, 0, len(children))
	for _, child := range children {
		names = append(names, child.Name)
	}
	return names, nil
}

// CheckInstructorAvailability reports whether the instructor can take a
// class at the instant: a one-off available entry or a weekly template slot,
// no one-off unavailable override, and no overlapping active class.
func (s *BookingService) CheckInstructorAvailability(ctx context.Context, instructorID int64, at time.Time) (bool, error) {
	if instructorID == 0 || at.IsZero() {
		return false, newError(ErrTypeMissingParameters, "instructor id and time are required")
	}

	oneOff, err := s.instructorRepo.OneOffAt(ctx, instructorID, at)
	if err != nil {
		return false, fmt.Errorf("get one-off availability: %w", err)
	}
	if oneOff != nil && oneOff.Kind == model.AvailabilityUnavailable {
		return false, nil
	}

	available := oneOff != nil && oneOff.Kind == model.AvailabilityAvailable
	if !available {
		jst := at.In(schedule.JST)
		available, err = s.instructorRepo.HasRecurringAt(ctx, instructorID,
			int(jst.Weekday()), jst.Hour(), jst.Minute())
		if err != nil {
			return false, fmt.Errorf("check recurring availability: %w", err)
		}
	}
	if !available {
		return false, nil
	}

	classes, err := s.classRepo.FindActiveByInstructorBetween(ctx, instructorID,
		at.Add(-schedule.ClassDuration), at.Add(schedule.ClassDuration))
	if err != nil {
		return false, fmt.Errorf("find instructor classes: %w", err)
	}
	for _, class := range classes {
		if schedule.Overlaps(class.StartsAt, at) {
			return false, nil
		}
	}
	return true, nil
}

// ListCustomerClasses returns the customer's classes in [from, to).
func (s *BookingService) ListCustomerClasses(ctx context.Context, customerID int64, from, to time.Time) ([]*model.ClassInstance, error) {
	return s.classRepo.ListByCustomer(ctx, customerID, from, to)
}

// ListInstructorClasses returns the instructor's classes in [from, to).
func (s *BookingService) ListInstructorClasses(ctx context.Context, instructorID int64, from, to time.Time) ([]*model.ClassInstance, error) {
	return s.classRepo.ListByInstructor(ctx, instructorID, from, to)
}

// ListMonthClasses returns every class of the JST month. A non-zero
// instructorID narrows the listing to that instructor.
func (s *BookingService) ListMonthClasses(ctx context.Context, year int, month time.Month, instructorID int64) ([]*model.ClassInstance, error) {
	from, to := schedule.MonthBounds(year, month)
	if instructorID != 0 {
		return s.classRepo.ListByInstructor(ctx, instructorID, from, to)
	}
	return s.classRepo.ListBetween(ctx, from, to)
}

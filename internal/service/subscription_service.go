package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hanamaru-english/class-api/internal/model"
	"github.com/hanamaru-english/class-api/internal/schedule"
)

// WeeklySlot is a customer's chosen regular time.
type WeeklySlot struct {
	Weekday      int     `json:"weekday"`
	Hour         int     `json:"hour"`
	Minute       int     `json:"minute"`
	InstructorID int64   `json:"instructor_id"`
	ChildIDs     []int64 `json:"child_ids"`
}

// SubscriptionService owns the subscription lifecycle and the recurring
// slot templates it carries.
type SubscriptionService struct {
	subscriptionRepo SubscriptionRepo
	recurringRepo    RecurringClassRepo
	customerRepo     CustomerRepo
	instructorRepo   InstructorRepo
	logger           *zap.Logger

	now func() time.Time
}

func NewSubscriptionService(
	subscriptionRepo SubscriptionRepo,
	recurringRepo RecurringClassRepo,
	customerRepo CustomerRepo,
	instructorRepo InstructorRepo,
	logger *zap.Logger,
) *SubscriptionService {
	return &SubscriptionService{
		subscriptionRepo: subscriptionRepo,
		recurringRepo:    recurringRepo,
		customerRepo:     customerRepo,
		instructorRepo:   instructorRepo,
		logger:           logger,
		now:              time.Now,
	}
}

func (s *SubscriptionService) validateSlot(ctx context.Context, slot WeeklySlot) error {
	if slot.InstructorID == 0 {
		return newError(ErrTypeMissingParameters, "slot instructor id is required")
	}
	if !schedule.SlotBookable(time.Weekday(slot.Weekday), slot.Hour, slot.Minute) {
		return newError(ErrTypeInvalidClassData,
			fmt.Sprintf("slot %d %02d:%02d is outside business hours", slot.Weekday, slot.Hour, slot.Minute))
	}

	instructor, err := s.instructorRepo.GetByID(ctx, slot.InstructorID)
	if err != nil {
		return fmt.Errorf("get instructor: %w", err)
	}
	if instructor == nil || !instructor.IsActive {
		return newError(ErrTypeInvalidClassData, "instructor not found")
	}
	return nil
}

// CreateSubscription subscribes a customer to a plan and records the chosen
// weekly slots as recurring-class templates. Slots are validated against the
// business-hours grid server-side.
func (s *SubscriptionService) CreateSubscription(ctx context.Context, customerID, planID int64, startsAt time.Time, slots []WeeklySlot) (*model.Subscription, error) {
	if customerID == 0 || planID == 0 || startsAt.IsZero() {
		return nil, newError(ErrTypeMissingParameters, "customer id, plan id and start date are required")
	}
	if len(slots) == 0 {
		return nil, newError(ErrTypeMissingParameters, "at least one weekly slot is required")
	}

	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	if customer == nil {
		return nil, newError(ErrTypeInvalidClassData, "customer not found")
	}

	plan, err := s.subscriptionRepo.GetPlan(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("get plan: %w", err)
	}
	if plan == nil {
		return nil, newError(ErrTypeInvalidClassData, "plan not found")
	}
	if len(slots) > plan.WeeklyClassCount {
		return nil, newError(ErrTypeInvalidClassData,
			fmt.Sprintf("plan allows %d weekly classes, got %d slots", plan.WeeklyClassCount, len(slots)))
	}

	for _, slot := range slots {
		if err := s.validateSlot(ctx, slot); err != nil {
			return nil, err
		}
	}

	sub := &model.Subscription{
		CustomerID: customerID,
		PlanID:     planID,
		StartsAt:   startsAt,
	}
	if err := s.subscriptionRepo.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("create subscription: %w", err)
	}
	sub.Plan = plan

	for _, slot := range slots {
		rc := &model.RecurringClass{
			SubscriptionID: sub.ID,
			InstructorID:   slot.InstructorID,
			Weekday:        slot.Weekday,
			StartHour:      slot.Hour,
			StartMinute:    slot.Minute,
			StartsFrom:     startsAt,
			ChildIDs:       slot.ChildIDs,
		}
		if err := s.recurringRepo.Create(ctx, rc); err != nil {
			return nil, fmt.Errorf("create recurring class: %w", err)
		}
	}

	s.logger.Info("Subscription created",
		zap.Int64("subscription_id", sub.ID),
		zap.Int64("customer_id", customerID),
		zap.String("plan", plan.Name),
		zap.Int("slots", len(slots)),
	)

	return sub, nil
}

// ChangeRecurringSlot moves a regular time: the old template is closed at
// effectiveFrom and a new one opens from it, so already-generated instances
// before the boundary stay valid.
func (s *SubscriptionService) ChangeRecurringSlot(ctx context.Context, recurringClassID int64, slot WeeklySlot, effectiveFrom time.Time) (*model.RecurringClass, error) {
	if recurringClassID == 0 || effectiveFrom.IsZero() {
		return nil, newError(ErrTypeMissingParameters, "recurring class id and effective date are required")
	}

	old, err := s.recurringRepo.GetByID(ctx, recurringClassID)
	if err != nil {
		return nil, fmt.Errorf("get recurring class: %w", err)
	}
	if old == nil {
		return nil, newError(ErrTypeInvalidClassData, "recurring class not found")
	}
	if old.EndsAt != nil && !effectiveFrom.Before(*old.EndsAt) {
		return nil, newError(ErrTypeInvalidClassData, "recurring class is already closed")
	}

	if err := s.validateSlot(ctx, slot); err != nil {
		return nil, err
	}

	if err := s.recurringRepo.End(ctx, old.ID, effectiveFrom); err != nil {
		return nil, fmt.Errorf("end recurring class: %w", err)
	}

	childIDs := slot.ChildIDs
	if len(childIDs) == 0 {
		childIDs = old.ChildIDs
	}

	replacement := &model.RecurringClass{
		SubscriptionID: old.SubscriptionID,
		InstructorID:   slot.InstructorID,
		Weekday:        slot.Weekday,
		StartHour:      slot.Hour,
		StartMinute:    slot.Minute,
		StartsFrom:     effectiveFrom,
		ChildIDs:       childIDs,
	}
	if err := s.recurringRepo.Create(ctx, replacement); err != nil {
		return nil, fmt.Errorf("create recurring class: %w", err)
	}

	s.logger.Info("Recurring slot changed",
		zap.Int64("old_recurring_class_id", old.ID),
		zap.Int64("recurring_class_id", replacement.ID),
		zap.Time("effective_from", effectiveFrom),
	)

	return replacement, nil
}

// CancelSubscription sets the termination date and closes every open
// template from it.
func (s *SubscriptionService) CancelSubscription(ctx context.Context, subscriptionID int64, at time.Time) error {
	if subscriptionID == 0 {
		return newError(ErrTypeMissingParameters, "subscription id is required")
	}
	if at.IsZero() {
		at = s.now()
	}

	sub, err := s.subscriptionRepo.GetByID(ctx, subscriptionID)
	if err != nil {
		return fmt.Errorf("get subscription: %w", err)
	}
	if sub == nil {
		return newError(ErrTypeInvalidClassData, "subscription not found")
	}
	if sub.EndsAt != nil && sub.EndsAt.Before(at) {
		return newError(ErrTypeOutdatedSubscription, "subscription is already terminated")
	}

	if err := s.subscriptionRepo.End(ctx, subscriptionID, at); err != nil {
		return fmt.Errorf("end subscription: %w", err)
	}
	if err := s.recurringRepo.EndBySubscription(ctx, subscriptionID, at); err != nil {
		return fmt.Errorf("end recurring classes: %w", err)
	}

	s.logger.Info("Subscription canceled",
		zap.Int64("subscription_id", subscriptionID),
		zap.Time("ends_at", at),
	)

	return nil
}

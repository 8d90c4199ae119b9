package service

import (
	"context"
	"time"

	"github.com/hanamaru-english/class-api/internal/model"
)

// Services depend on these narrow store interfaces rather than on the pgx
// repositories directly, so tests can substitute in-memory fakes.

type ClassRepo interface {
	Create(ctx context.Context, class *model.ClassInstance) error
	GetByID(ctx context.Context, id int64) (*model.ClassInstance, error)
	Cancel(ctx context.Context, id int64, status model.ClassStatus, rebookableUntil *time.Time) error
	UpdateStatus(ctx context.Context, id int64, status model.ClassStatus) error
	Rebook(ctx context.Context, originalID int64, replacement *model.ClassInstance) error
	FindActiveByCustomerAt(ctx context.Context, customerID int64, at time.Time) ([]*model.ClassInstance, error)
	FindActiveByChildBetween(ctx context.Context, childID int64, from, to time.Time) ([]*model.ClassInstance, error)
	FindActiveByInstructorBetween(ctx context.Context, instructorID int64, from, to time.Time) ([]*model.ClassInstance, error)
	ExistsForRecurringAt(ctx context.Context, recurringClassID int64, at time.Time) (bool, error)
	ListByCustomer(ctx context.Context, customerID int64, from, to time.Time) ([]*model.ClassInstance, error)
	ListByInstructor(ctx context.Context, instructorID int64, from, to time.Time) ([]*model.ClassInstance, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]*model.ClassInstance, error)
}

type RecurringClassRepo interface {
	Create(ctx context.Context, rc *model.RecurringClass) error
	GetByID(ctx context.Context, id int64) (*model.RecurringClass, error)
	ActiveInRange(ctx context.Context, from, to time.Time) ([]*model.RecurringClass, error)
	ListBySubscription(ctx context.Context, subscriptionID int64) ([]*model.RecurringClass, error)
	End(ctx context.Context, id int64, at time.Time) error
	EndBySubscription(ctx context.Context, subscriptionID int64, at time.Time) error
}

type SubscriptionRepo interface {
	Create(ctx context.Context, sub *model.Subscription) error
	GetByID(ctx context.Context, id int64) (*model.Subscription, error)
	GetActiveByCustomer(ctx context.Context, customerID int64, at time.Time) (*model.Subscription, error)
	End(ctx context.Context, id int64, at time.Time) error
	GetPlan(ctx context.Context, planID int64) (*model.Plan, error)
}

type InstructorRepo interface {
	GetByID(ctx context.Context, id int64) (*model.Instructor, error)
	OneOffAt(ctx context.Context, instructorID int64, at time.Time) (*model.InstructorAvailability, error)
	HasRecurringAt(ctx context.Context, instructorID int64, weekday, hour, minute int) (bool, error)
	AddOneOff(ctx context.Context, a *model.InstructorAvailability) error
	AddRecurring(ctx context.Context, a *model.InstructorRecurringAvailability) error
	RemoveRecurring(ctx context.Context, instructorID int64, weekday, hour, minute int) error
}

type CustomerRepo interface {
	GetByID(ctx context.Context, id int64) (*model.Customer, error)
	ChildrenByIDs(ctx context.Context, ids []int64) ([]*model.Child, error)
}

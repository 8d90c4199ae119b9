package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hanamaru-english/class-api/internal/model"
	"github.com/hanamaru-english/class-api/internal/repository/base"
)

type SubscriptionRepository struct {
	*base.Repository
}

func NewSubscriptionRepository(pool *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{Repository: base.NewRepository(pool)}
}

// Create inserts a subscription.
func (r *SubscriptionRepository) Create(ctx context.Context, sub *model.Subscription) error {
	query := `
		INSERT INTO subscriptions (customer_id, plan_id, starts_at, ends_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.QueryRow(ctx, query, sub.CustomerID, sub.PlanID, sub.StartsAt, sub.EndsAt).
		Scan(&sub.ID, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create subscription: %w", err)
	}
	return nil
}

// GetByID returns the subscription with its plan, or nil.
func (r *SubscriptionRepository) GetByID(ctx context.Context, id int64) (*model.Subscription, error) {
	query := `
		SELECT s.id, s.customer_id, s.plan_id, s.starts_at, s.ends_at, s.created_at, s.updated_at,
		       p.id, p.name, p.weekly_class_count
		FROM subscriptions s
		JOIN plans p ON p.id = s.plan_id
		WHERE s.id = $1
	`

	var sub model.Subscription
	var plan model.Plan
	err := r.QueryRow(ctx, query, id).Scan(
		&sub.ID, &sub.CustomerID, &sub.PlanID, &sub.StartsAt, &sub.EndsAt, &sub.CreatedAt, &sub.UpdatedAt,
		&plan.ID, &plan.Name, &plan.WeeklyClassCount,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get subscription by id: %w", err)
	}

	sub.Plan = &plan
	return &sub, nil
}

// GetActiveByCustomer returns the subscription covering the given instant for
// the customer, or nil when none does.
func (r *SubscriptionRepository) GetActiveByCustomer(ctx context.Context, customerID int64, at time.Time) (*model.Subscription, error) {
	query := `
		SELECT s.id, s.customer_id, s.plan_id, s.starts_at, s.ends_at, s.created_at, s.updated_at,
		       p.id, p.name, p.weekly_class_count
		FROM subscriptions s
		JOIN plans p ON p.id = s.plan_id
		WHERE s.customer_id = $1 AND s.starts_at <= $2 AND (s.ends_at IS NULL OR s.ends_at > $2)
		ORDER BY s.starts_at DESC
		LIMIT 1
	`

	var sub model.Subscription
	var plan model.Plan
	err := r.QueryRow(ctx, query, customerID, at).Scan(
		&sub.ID, &sub.CustomerID, &sub.PlanID, &sub.StartsAt, &sub.EndsAt, &sub.CreatedAt, &sub.UpdatedAt,
		&plan.ID, &plan.Name, &plan.WeeklyClassCount,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active subscription: %w", err)
	}

	sub.Plan = &plan
	return &sub, nil
}

// End sets the customer-requested termination date.
func (r *SubscriptionRepository) End(ctx context.Context, id int64, at time.Time) error {
	query := `UPDATE subscriptions SET ends_at = $2, updated_at = now() WHERE id = $1`

	affected, err := r.ExecAffected(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("end subscription: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("subscription not found")
	}
	return nil
}

// GetPlan returns the plan or nil.
func (r *SubscriptionRepository) GetPlan(ctx context.Context, planID int64) (*model.Plan, error) {
	query := `SELECT id, name, weekly_class_count FROM plans WHERE id = $1`

	var plan model.Plan
	err := r.QueryRow(ctx, query, planID).Scan(&plan.ID, &plan.Name, &plan.WeeklyClassCount)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get plan by id: %w", err)
	}
	return &plan, nil
}

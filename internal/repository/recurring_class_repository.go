package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hanamaru-english/class-api/internal/model"
	"github.com/hanamaru-english/class-api/internal/repository/base"
)

type RecurringClassRepository struct {
	*base.Repository
}

func NewRecurringClassRepository(pool *pgxpool.Pool) *RecurringClassRepository {
	return &RecurringClassRepository{Repository: base.NewRepository(pool)}
}

const recurringColumns = `id, subscription_id, instructor_id, weekday, start_hour, start_minute,
	starts_from, ends_at, created_at, updated_at`

func scanRecurring(row pgx.Row) (*model.RecurringClass, error) {
	var rc model.RecurringClass
	err := row.Scan(
		&rc.ID,
		&rc.SubscriptionID,
		&rc.InstructorID,
		&rc.Weekday,
		&rc.StartHour,
		&rc.StartMinute,
		&rc.StartsFrom,
		&rc.EndsAt,
		&rc.CreatedAt,
		&rc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rc, nil
}

// Create inserts the template and its child links in one transaction.
func (r *RecurringClassRepository) Create(ctx context.Context, rc *model.RecurringClass) error {
	tx, err := r.Pool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO recurring_classes (subscription_id, instructor_id, weekday, start_hour, start_minute, starts_from, ends_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err = tx.QueryRow(
		ctx, query,
		rc.SubscriptionID,
		rc.InstructorID,
		rc.Weekday,
		rc.StartHour,
		rc.StartMinute,
		rc.StartsFrom,
		rc.EndsAt,
	).Scan(&rc.ID, &rc.CreatedAt, &rc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create recurring class: %w", err)
	}

	for _, childID := range rc.ChildIDs {
		_, err := tx.Exec(ctx,
			`INSERT INTO recurring_class_children (recurring_class_id, child_id) VALUES ($1, $2)`,
			rc.ID, childID)
		if err != nil {
			return fmt.Errorf("attach child %d: %w", childID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// GetByID returns the template or nil when it does not exist.
func (r *RecurringClassRepository) GetByID(ctx context.Context, id int64) (*model.RecurringClass, error) {
	query := `SELECT ` + recurringColumns + ` FROM recurring_classes WHERE id = $1`

	rc, err := scanRecurring(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get recurring class by id: %w", err)
	}

	if rc.ChildIDs, err = r.childIDs(ctx, rc.ID); err != nil {
		return nil, err
	}
	return rc, nil
}

// ActiveInRange returns templates whose effective period intersects
// [from, to): starts_from before the range end and not ended before the
// range start.
func (r *RecurringClassRepository) ActiveInRange(ctx context.Context, from, to time.Time) ([]*model.RecurringClass, error) {
	query := `
		SELECT ` + recurringColumns + `
		FROM recurring_classes
		WHERE starts_from < $2 AND (ends_at IS NULL OR ends_at >= $1)
		ORDER BY weekday, start_hour, start_minute
	`

	return r.queryRecurring(ctx, query, from, to)
}

// ListBySubscription returns every template of a subscription, closed ones
// included.
func (r *RecurringClassRepository) ListBySubscription(ctx context.Context, subscriptionID int64) ([]*model.RecurringClass, error) {
	query := `
		SELECT ` + recurringColumns + `
		FROM recurring_classes
		WHERE subscription_id = $1
		ORDER BY weekday, start_hour, start_minute
	`

	return r.queryRecurring(ctx, query, subscriptionID)
}

// End closes the template from the given instant. Generated instances after
// the boundary are not touched here; the generator skips the closed period.
func (r *RecurringClassRepository) End(ctx context.Context, id int64, at time.Time) error {
	query := `UPDATE recurring_classes SET ends_at = $2, updated_at = now() WHERE id = $1`

	affected, err := r.ExecAffected(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("end recurring class: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("recurring class not found")
	}
	return nil
}

// EndBySubscription closes every open template of the subscription.
func (r *RecurringClassRepository) EndBySubscription(ctx context.Context, subscriptionID int64, at time.Time) error {
	query := `
		UPDATE recurring_classes
		SET ends_at = $2, updated_at = now()
		WHERE subscription_id = $1 AND (ends_at IS NULL OR ends_at > $2)
	`

	if _, err := r.ExecAffected(ctx, query, subscriptionID, at); err != nil {
		return fmt.Errorf("end recurring classes by subscription: %w", err)
	}
	return nil
}

func (r *RecurringClassRepository) queryRecurring(ctx context.Context, query string, args ...interface{}) ([]*model.RecurringClass, error) {
	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query recurring classes: %w", err)
	}
	defer rows.Close()

	var templates []*model.RecurringClass
	for rows.Next() {
		rc, err := scanRecurring(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recurring class: %w", err)
		}
		templates = append(templates, rc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recurring classes: %w", err)
	}

	for _, rc := range templates {
		if rc.ChildIDs, err = r.childIDs(ctx, rc.ID); err != nil {
			return nil, err
		}
	}
	return templates, nil
}

func (r *RecurringClassRepository) childIDs(ctx context.Context, recurringClassID int64) ([]int64, error) {
	rows, err := r.Query(ctx,
		`SELECT child_id FROM recurring_class_children WHERE recurring_class_id = $1 ORDER BY child_id`,
		recurringClassID)
	if err != nil {
		return nil, fmt.Errorf("get recurring class children: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan child id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recurring class children: %w", err)
	}
	return ids, nil
}

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

type ClassRepository struct {
	*base.Repository
}

func NewClassRepository(pool *pgxpool.Pool) *ClassRepository {
	return &ClassRepository{Repository: base.NewRepository(pool)}
}

const classColumns = `id, class_code, customer_id, instructor_id, status, starts_at,
	is_free_trial, recurring_class_id, rebooked_from_id, rebookable_until, created_at, updated_at`

func scanClass(row pgx.Row) (*model.ClassInstance, error) {
	var c model.ClassInstance
	err := row.Scan(
		&c.ID,
		&c.ClassCode,
		&c.CustomerID,
		&c.InstructorID,
		&c.Status,
		&c.StartsAt,
		&c.IsFreeTrial,
		&c.RecurringClassID,
		&c.RebookedFromID,
		&c.RebookableUntil,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts the class and its attendance rows in one transaction.
func (r *ClassRepository) Create(ctx context.Context, class *model.ClassInstance) error {
	tx, err := r.Pool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := createClassTx(ctx, tx, class); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func createClassTx(ctx context.Context, tx pgx.Tx, class *model.ClassInstance) error {
	query := `
		INSERT INTO class_instances (class_code, customer_id, instructor_id, status, starts_at,
			is_free_trial, recurring_class_id, rebooked_from_id, rebookable_until)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	err := tx.QueryRow(
		ctx, query,
		class.ClassCode,
		class.CustomerID,
		class.InstructorID,
		class.Status,
		class.StartsAt,
		class.IsFreeTrial,
		class.RecurringClassID,
		class.RebookedFromID,
		class.RebookableUntil,
	).Scan(&class.ID, &class.CreatedAt, &class.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create class: %w", err)
	}

	for _, childID := range class.ChildIDs {
		_, err := tx.Exec(ctx,
			`INSERT INTO class_children (class_id, child_id) VALUES ($1, $2)`,
			class.ID, childID)
		if err != nil {
			return fmt.Errorf("attach child %d: %w", childID, err)
		}
	}
	return nil
}

// GetByID returns the class or nil when it does not exist.
func (r *ClassRepository) GetByID(ctx context.Context, id int64) (*model.ClassInstance, error) {
	query := `SELECT ` + classColumns + ` FROM class_instances WHERE id = $1`

	class, err := scanClass(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get class by id: %w", err)
	}

	if class.ChildIDs, err = r.childIDs(ctx, class.ID); err != nil {
		return nil, err
	}
	return class, nil
}

// Cancel moves the class to a cancellation status and records the rebooking
// window it granted.
func (r *ClassRepository) Cancel(ctx context.Context, id int64, status model.ClassStatus, rebookableUntil *time.Time) error {
	query := `
		UPDATE class_instances
		SET status = $2, rebookable_until = $3, updated_at = now()
		WHERE id = $1
	`

	affected, err := r.ExecAffected(ctx, query, id, status, rebookableUntil)
	if err != nil {
		return fmt.Errorf("cancel class: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("class not found")
	}
	return nil
}

// UpdateStatus sets the status only.
func (r *ClassRepository) UpdateStatus(ctx context.Context, id int64, status model.ClassStatus) error {
	query := `UPDATE class_instances SET status = $2, updated_at = now() WHERE id = $1`

	affected, err := r.ExecAffected(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("update class status: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("class not found")
	}
	return nil
}

// Rebook writes the replacement class and consumes the original's rebooking
// credit atomically. The partial unique index on (instructor_id, starts_at)
// rejects a concurrent booking of the same slot here.
func (r *ClassRepository) Rebook(ctx context.Context, originalID int64, replacement *model.ClassInstance) error {
	tx, err := r.Pool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := createClassTx(ctx, tx, replacement); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx,
		`UPDATE class_instances SET rebookable_until = NULL, updated_at = now() WHERE id = $1`,
		originalID)
	if err != nil {
		return fmt.Errorf("consume rebooking credit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("original class not found")
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// FindActiveByCustomerAt returns booked/rebooked classes of the customer
// starting at exactly the given instant.
func (r *ClassRepository) FindActiveByCustomerAt(ctx context.Context, customerID int64, at time.Time) ([]*model.ClassInstance, error) {
	query := `
		SELECT ` + classColumns + `
		FROM class_instances
		WHERE customer_id = $1 AND starts_at = $2 AND status IN ('booked', 'rebooked')
	`

	return r.queryClasses(ctx, query, customerID, at)
}

// FindActiveByChildBetween returns booked/rebooked classes a child attends
// with starts_at in [from, to).
func (r *ClassRepository) FindActiveByChildBetween(ctx context.Context, childID int64, from, to time.Time) ([]*model.ClassInstance, error) {
	query := `
		SELECT ` + classColumns + `
		FROM class_instances
		WHERE status IN ('booked', 'rebooked')
		  AND starts_at >= $2 AND starts_at < $3
		  AND id IN (SELECT class_id FROM class_children WHERE child_id = $1)
	`

	return r.queryClasses(ctx, query, childID, from, to)
}

// FindActiveByInstructorBetween returns booked/rebooked classes of the
// instructor with starts_at in [from, to).
func (r *ClassRepository) FindActiveByInstructorBetween(ctx context.Context, instructorID int64, from, to time.Time) ([]*model.ClassInstance, error) {
	query := `
		SELECT ` + classColumns + `
		FROM class_instances
		WHERE instructor_id = $1 AND starts_at >= $2 AND starts_at < $3
		  AND status IN ('booked', 'rebooked')
	`

	return r.queryClasses(ctx, query, instructorID, from, to)
}

// ExistsForRecurringAt reports whether the template already has an instance
// at the exact instant. Re-running the month generator relies on this.
func (r *ClassRepository) ExistsForRecurringAt(ctx context.Context, recurringClassID int64, at time.Time) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM class_instances
			WHERE recurring_class_id = $1 AND starts_at = $2
		)
	`

	var exists bool
	if err := r.QueryRow(ctx, query, recurringClassID, at).Scan(&exists); err != nil {
		return false, fmt.Errorf("check recurring instance exists: %w", err)
	}
	return exists, nil
}

// ListByCustomer returns the customer's classes in [from, to) ordered by
// start time.
func (r *ClassRepository) ListByCustomer(ctx context.Context, customerID int64, from, to time.Time) ([]*model.ClassInstance, error) {
	query := `
		SELECT ` + classColumns + `
		FROM class_instances
		WHERE customer_id = $1 AND starts_at >= $2 AND starts_at < $3
		ORDER BY starts_at
	`

	return r.queryClasses(ctx, query, customerID, from, to)
}

// ListByInstructor returns the instructor's classes in [from, to) ordered by
// start time.
func (r *ClassRepository) ListByInstructor(ctx context.Context, instructorID int64, from, to time.Time) ([]*model.ClassInstance, error) {
	query := `
		SELECT ` + classColumns + `
		FROM class_instances
		WHERE instructor_id = $1 AND starts_at >= $2 AND starts_at < $3
		ORDER BY starts_at
	`

	return r.queryClasses(ctx, query, instructorID, from, to)
}

// ListBetween returns every class starting in [from, to) ordered by start
// time.
func (r *ClassRepository) ListBetween(ctx context.Context, from, to time.Time) ([]*model.ClassInstance, error) {
	query := `
		SELECT ` + classColumns + `
		FROM class_instances
		WHERE starts_at >= $1 AND starts_at < $2
		ORDER BY starts_at
	`

	return r.queryClasses(ctx, query, from, to)
}

func (r *ClassRepository) queryClasses(ctx context.Context, query string, args ...interface{}) ([]*model.ClassInstance, error) {
	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query classes: %w", err)
	}
	defer rows.Close()

	var classes []*model.ClassInstance
	for rows.Next() {
		class, err := scanClass(rows)
		if err != nil {
			return nil, fmt.Errorf("scan class: %w", err)
		}
		classes = append(classes, class)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate classes: %w", err)
	}

	for _, class := range classes {
		if class.ChildIDs, err = r.childIDs(ctx, class.ID); err != nil {
			return nil, err
		}
	}
	return classes, nil
}

func (r *ClassRepository) childIDs(ctx context.Context, classID int64) ([]int64, error) {
	rows, err := r.Query(ctx,
		`SELECT child_id FROM class_children WHERE class_id = $1 ORDER BY child_id`, classID)
	if err != nil {
		return nil, fmt.Errorf("get class children: %w", err)
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
		return nil, fmt.Errorf("iterate class children: %w", err)
	}
	return ids, nil
}

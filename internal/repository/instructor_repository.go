package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hanamaru-english/class-api/internal/model"
	"github.com/hanamaru-english/class-api/internal/repository/base"
)

type InstructorRepository struct {
	*base.Repository
}

func NewInstructorRepository(pool *pgxpool.Pool) *InstructorRepository {
	return &InstructorRepository{Repository: base.NewRepository(pool)}
}

// GetByID returns the instructor or nil.
func (r *InstructorRepository) GetByID(ctx context.Context, id int64) (*model.Instructor, error) {
	query := `SELECT id, name, email, is_active, created_at FROM instructors WHERE id = $1`

	var ins model.Instructor
	err := r.QueryRow(ctx, query, id).Scan(&ins.ID, &ins.Name, &ins.Email, &ins.IsActive, &ins.CreatedAt)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get instructor by id: %w", err)
	}
	return &ins, nil
}

// OneOffAt returns the instructor's one-off availability entry at the exact
// instant, or nil when none exists.
func (r *InstructorRepository) OneOffAt(ctx context.Context, instructorID int64, at time.Time) (*model.InstructorAvailability, error) {
	query := `
		SELECT id, instructor_id, starts_at, kind, created_at
		FROM instructor_availabilities
		WHERE instructor_id = $1 AND starts_at = $2
		LIMIT 1
	`

	var a model.InstructorAvailability
	err := r.QueryRow(ctx, query, instructorID, at).
		Scan(&a.ID, &a.InstructorID, &a.StartsAt, &a.Kind, &a.CreatedAt)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get one-off availability: %w", err)
	}
	return &a, nil
}

// HasRecurringAt reports whether the instructor has a weekly template slot
// at the weekday and time of day.
func (r *InstructorRepository) HasRecurringAt(ctx context.Context, instructorID int64, weekday, hour, minute int) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM instructor_recurring_availabilities
			WHERE instructor_id = $1 AND weekday = $2 AND start_hour = $3 AND start_minute = $4
		)
	`

	var exists bool
	if err := r.QueryRow(ctx, query, instructorID, weekday, hour, minute).Scan(&exists); err != nil {
		return false, fmt.Errorf("check recurring availability: %w", err)
	}
	return exists, nil
}

// AddOneOff records a one-off available/unavailable entry. An entry for the
// same instant is replaced: the latest instruction wins.
func (r *InstructorRepository) AddOneOff(ctx context.Context, a *model.InstructorAvailability) error {
	query := `
		INSERT INTO instructor_availabilities (instructor_id, starts_at, kind)
		VALUES ($1, $2, $3)
		ON CONFLICT (instructor_id, starts_at) DO UPDATE SET kind = EXCLUDED.kind
		RETURNING id, created_at
	`

	err := r.QueryRow(ctx, query, a.InstructorID, a.StartsAt, a.Kind).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("add one-off availability: %w", err)
	}
	return nil
}

// AddRecurring records a weekly availability template slot.
func (r *InstructorRepository) AddRecurring(ctx context.Context, a *model.InstructorRecurringAvailability) error {
	query := `
		INSERT INTO instructor_recurring_availabilities (instructor_id, weekday, start_hour, start_minute)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (instructor_id, weekday, start_hour, start_minute) DO NOTHING
		RETURNING id, created_at
	`

	err := r.QueryRow(ctx, query, a.InstructorID, a.Weekday, a.StartHour, a.StartMinute).
		Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		if base.IsNotFound(err) {
			// Conflict path: the slot already exists, nothing to report.
			return nil
		}
		return fmt.Errorf("add recurring availability: %w", err)
	}
	return nil
}

// RemoveRecurring deletes a weekly availability template slot.
func (r *InstructorRepository) RemoveRecurring(ctx context.Context, instructorID int64, weekday, hour, minute int) error {
	query := `
		DELETE FROM instructor_recurring_availabilities
		WHERE instructor_id = $1 AND weekday = $2 AND start_hour = $3 AND start_minute = $4
	`

	if _, err := r.ExecAffected(ctx, query, instructorID, weekday, hour, minute); err != nil {
		return fmt.Errorf("remove recurring availability: %w", err)
	}
	return nil
}

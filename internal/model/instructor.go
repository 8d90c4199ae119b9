package model

import "time"

type Instructor struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type AvailabilityKind string

const (
	AvailabilityAvailable   AvailabilityKind = "available"
	AvailabilityUnavailable AvailabilityKind = "unavailable"
)

// InstructorAvailability is a one-off entry: a single timestamp the
// instructor explicitly opened or blocked.
type InstructorAvailability struct {
	ID           int64            `json:"id"`
	InstructorID int64            `json:"instructor_id"`
	StartsAt     time.Time        `json:"starts_at"`
	Kind         AvailabilityKind `json:"kind"`
	CreatedAt    time.Time        `json:"created_at"`
}

// InstructorRecurringAvailability is a weekly template slot the instructor
// is generally available at.
type InstructorRecurringAvailability struct {
	ID           int64     `json:"id"`
	InstructorID int64     `json:"instructor_id"`
	Weekday      int       `json:"weekday"` // 0 = Sunday, 6 = Saturday
	StartHour    int       `json:"start_hour"`
	StartMinute  int       `json:"start_minute"`
	CreatedAt    time.Time `json:"created_at"`
}

package model

import "time"

// Plan defines how many classes a week a subscription grants.
type Plan struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	WeeklyClassCount int    `json:"weekly_class_count"`
}

// Subscription links a customer to a plan for a period of time.
type Subscription struct {
	ID         int64      `json:"id"`
	CustomerID int64      `json:"customer_id"`
	PlanID     int64      `json:"plan_id"`
	StartsAt   time.Time  `json:"starts_at"`
	EndsAt     *time.Time `json:"ends_at"` // customer-requested termination date
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	Plan *Plan `json:"plan,omitempty"`
}

// ActiveAt reports whether the subscription covers the given instant.
func (s *Subscription) ActiveAt(t time.Time) bool {
	if t.Before(s.StartsAt) {
		return false
	}
	if s.EndsAt != nil && !t.Before(*s.EndsAt) {
		return false
	}
	return true
}

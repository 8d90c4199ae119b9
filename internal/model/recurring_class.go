package model

import "time"

// RecurringClass is a weekly slot template owned by a subscription. The month
// generator expands it into concrete ClassInstance rows. Editing a regular
// time closes the old template (EndsAt) and opens a new one, so history stays
// intact.
type RecurringClass struct {
	ID             int64      `json:"id"`
	SubscriptionID int64      `json:"subscription_id"`
	InstructorID   int64      `json:"instructor_id"`
	Weekday        int        `json:"weekday"` // 0 = Sunday, 6 = Saturday
	StartHour      int        `json:"start_hour"`
	StartMinute    int        `json:"start_minute"`
	StartsFrom     time.Time  `json:"starts_from"`
	EndsAt         *time.Time `json:"ends_at"`
	ChildIDs       []int64    `json:"child_ids"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ActiveOn reports whether the template covers the given instant.
func (r *RecurringClass) ActiveOn(t time.Time) bool {
	if t.Before(r.StartsFrom) {
		return false
	}
	if r.EndsAt != nil && !t.Before(*r.EndsAt) {
		return false
	}
	return true
}

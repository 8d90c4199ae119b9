package model

import "time"

type ClassStatus string

const (
	ClassStatusBooked               ClassStatus = "booked"
	ClassStatusRebooked             ClassStatus = "rebooked"
	ClassStatusCompleted            ClassStatus = "completed"
	ClassStatusCanceledByCustomer   ClassStatus = "canceledByCustomer"
	ClassStatusCanceledByInstructor ClassStatus = "canceledByInstructor"
	ClassStatusPending              ClassStatus = "pending"
	ClassStatusDeclined             ClassStatus = "declined"
)

// ActiveStatuses are the statuses that occupy an instructor slot.
// Used by every conflict / double-booking query.
var ActiveStatuses = []ClassStatus{
	ClassStatusBooked,
	ClassStatusRebooked,
}

// TerminalStatuses never transition back to an active status.
var TerminalStatuses = []ClassStatus{
	ClassStatusCompleted,
	ClassStatusCanceledByCustomer,
	ClassStatusCanceledByInstructor,
	ClassStatusDeclined,
}

// IsActive reports whether the status occupies a slot.
func (s ClassStatus) IsActive() bool {
	return s == ClassStatusBooked || s == ClassStatusRebooked
}

// IsTerminal reports whether the status is final.
func (s ClassStatus) IsTerminal() bool {
	switch s {
	case ClassStatusCompleted, ClassStatusCanceledByCustomer,
		ClassStatusCanceledByInstructor, ClassStatusDeclined:
		return true
	}
	return false
}

// ClassInstance is a single scheduled class occurrence. Created either by the
// month generator (from a RecurringClass) or by an explicit booking/rebooking.
type ClassInstance struct {
	ID               int64       `json:"id"`
	ClassCode        string      `json:"class_code"`
	CustomerID       int64       `json:"customer_id"`
	InstructorID     int64       `json:"instructor_id"`
	Status           ClassStatus `json:"status"`
	StartsAt         time.Time   `json:"starts_at"`
	IsFreeTrial      bool        `json:"is_free_trial"`
	RecurringClassID *int64      `json:"recurring_class_id"`
	RebookedFromID   *int64      `json:"rebooked_from_id"`
	RebookableUntil  *time.Time  `json:"rebookable_until"`
	ChildIDs         []int64     `json:"child_ids"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`

	// Loaded separately when the caller needs display data.
	Children []*Child `json:"children,omitempty"`
}

// CanBeCanceled reports whether the class is in a state a customer can cancel.
func (c *ClassInstance) CanBeCanceled() bool {
	return c.Status.IsActive()
}

// HasRebookingCredit reports whether a canceled class still grants a
// replacement booking. The credit is consumed by clearing RebookableUntil.
func (c *ClassInstance) HasRebookingCredit() bool {
	return (c.Status == ClassStatusCanceledByCustomer || c.Status == ClassStatusCanceledByInstructor) &&
		c.RebookableUntil != nil
}

// Package flow tracks the multi-step rebooking interaction. Sessions are
// request-scoped server state, not persisted: abandoning the flow loses
// nothing but the in-progress selection.
package flow

import "time"

// Step is a stage of the rebooking flow.
type Step string

const (
	StepNone             Step = ""
	StepSelectClass      Step = "selectClass"
	StepSelectInstructor Step = "selectInstructor"
	StepSelectDateTime   Step = "selectDateTime"
	StepConfirmRebooking Step = "confirmRebooking"
	StepComplete         Step = "complete"
)

// Entry is how the user reached the selection: instructor-first or
// date-first.
type Entry string

const (
	EntryByInstructor Entry = "instructor"
	EntryByDateTime   Entry = "dateTime"
)

// Session is the state of one rebooking flow.
type Session struct {
	Step         Step
	Entry        Entry
	ClassID      int64
	InstructorID int64
	StartsAt     time.Time

	// Remaining is the rebookable-class count reported at completion; when
	// nonzero the flow loops back to class selection.
	Remaining int
}

var transitions = map[Step][]Step{
	StepNone:             {StepSelectClass},
	StepSelectClass:      {StepSelectInstructor, StepSelectDateTime},
	StepSelectInstructor: {StepSelectDateTime, StepConfirmRebooking},
	StepSelectDateTime:   {StepSelectInstructor, StepConfirmRebooking},
	StepConfirmRebooking: {StepComplete},
	StepComplete:         {StepSelectClass},
}

// CanAdvance reports whether the flow may move from one step to another.
func CanAdvance(from, to Step) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

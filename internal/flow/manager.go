package flow

import (
	"fmt"
	"sync"
	"time"
)

// Manager holds active rebooking sessions keyed by an opaque session id.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Current returns a copy of the session, or nil when none exists.
func (m *Manager) Current(sessionID string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if s, ok := m.sessions[sessionID]; ok {
		copied := *s
		return &copied
	}
	return nil
}

// Begin starts a flow at class selection with the given rebookable count.
func (m *Manager) Begin(sessionID string, remaining int) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := &Session{Step: StepSelectClass, Remaining: remaining}
	m.sessions[sessionID] = s
	copied := *s
	return &copied
}

// SelectClass records the chosen class and branches to the instructor-first
// or date-first sub-flow. Callers gate on the rebooking deadline before
// calling; a class past its deadline never reaches here.
func (m *Manager) SelectClass(sessionID string, classID int64, entry Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[sessionID]
	if !ok || s.Step != StepSelectClass {
		return fmt.Errorf("flow is not at class selection")
	}

	next := StepSelectInstructor
	if entry == EntryByDateTime {
		next = StepSelectDateTime
	}
	if !CanAdvance(s.Step, next) {
		return fmt.Errorf("cannot advance from %s to %s", s.Step, next)
	}

	s.ClassID = classID
	s.Entry = entry
	s.Step = next
	return nil
}

// SelectInstructor records the instructor choice.
func (m *Manager) SelectInstructor(sessionID string, instructorID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[sessionID]
	if !ok || s.Step != StepSelectInstructor {
		return fmt.Errorf("flow is not at instructor selection")
	}

	s.InstructorID = instructorID
	if s.StartsAt.IsZero() {
		s.Step = StepSelectDateTime
	} else {
		s.Step = StepConfirmRebooking
	}
	return nil
}

// SelectDateTime records the target slot.
func (m *Manager) SelectDateTime(sessionID string, startsAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[sessionID]
	if !ok || s.Step != StepSelectDateTime {
		return fmt.Errorf("flow is not at date selection")
	}

	s.StartsAt = startsAt
	if s.InstructorID == 0 {
		s.Step = StepSelectInstructor
	} else {
		s.Step = StepConfirmRebooking
	}
	return nil
}

// Complete finishes the flow after a successful rebooking write. The
// remaining count decrements; when classes remain the flow loops back to
// class selection, otherwise the session is dropped.
func (m *Manager) Complete(sessionID string) (remaining int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[sessionID]
	if !ok || s.Step != StepConfirmRebooking {
		return 0, fmt.Errorf("flow is not at confirmation")
	}

	if s.Remaining > 0 {
		s.Remaining--
	}
	remaining = s.Remaining

	if remaining > 0 {
		*s = Session{Step: StepSelectClass, Remaining: remaining}
		return remaining, nil
	}

	delete(m.sessions, sessionID)
	return 0, nil
}

// Clear drops the session.
func (m *Manager) Clear(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, sessionID)
}

package flow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanAdvance(t *testing.T) {
	tests := []struct {
		name     string
		from, to Step
		want     bool
	}{
		{"start the flow", StepNone, StepSelectClass, true},
		{"class to instructor", StepSelectClass, StepSelectInstructor, true},
		{"class to date", StepSelectClass, StepSelectDateTime, true},
		{"instructor and date swap", StepSelectInstructor, StepSelectDateTime, true},
		{"confirm to complete", StepConfirmRebooking, StepComplete, true},
		{"complete loops back", StepComplete, StepSelectClass, true},
		{"no skipping to confirm", StepSelectClass, StepConfirmRebooking, false},
		{"no going backwards", StepConfirmRebooking, StepSelectClass, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanAdvance(tt.from, tt.to))
		})
	}
}

func TestFlowInstructorFirst(t *testing.T) {
	m := NewManager()
	m.Begin("s1", 1)

	require.NoError(t, m.SelectClass("s1", 42, EntryByInstructor))
	assert.Equal(t, StepSelectInstructor, m.Current("s1").Step)

	require.NoError(t, m.SelectInstructor("s1", 7))
	assert.Equal(t, StepSelectDateTime, m.Current("s1").Step)

	require.NoError(t, m.SelectDateTime("s1", time.Date(2025, time.March, 17, 17, 0, 0, 0, time.UTC)))
	s := m.Current("s1")
	assert.Equal(t, StepConfirmRebooking, s.Step)
	assert.Equal(t, int64(42), s.ClassID)
	assert.Equal(t, int64(7), s.InstructorID)
}

func TestFlowDateFirst(t *testing.T) {
	m := NewManager()
	m.Begin("s1", 1)

	require.NoError(t, m.SelectClass("s1", 42, EntryByDateTime))
	assert.Equal(t, StepSelectDateTime, m.Current("s1").Step)

	require.NoError(t, m.SelectDateTime("s1", time.Date(2025, time.March, 17, 17, 0, 0, 0, time.UTC)))
	assert.Equal(t, StepSelectInstructor, m.Current("s1").Step)

	require.NoError(t, m.SelectInstructor("s1", 7))
	assert.Equal(t, StepConfirmRebooking, m.Current("s1").Step)
}

func TestCompleteLoopsWhileClassesRemain(t *testing.T) {
	m := NewManager()
	m.Begin("s1", 2)

	advance := func() {
		require.NoError(t, m.SelectClass("s1", 42, EntryByInstructor))
		require.NoError(t, m.SelectInstructor("s1", 7))
		require.NoError(t, m.SelectDateTime("s1", time.Date(2025, time.March, 17, 17, 0, 0, 0, time.UTC)))
	}

	advance()
	remaining, err := m.Complete("s1")
	require.NoError(t, err)
	assert.Equal(t, 1, remaining)

	// Looped back to class selection with a fresh selection state.
	s := m.Current("s1")
	require.NotNil(t, s)
	assert.Equal(t, StepSelectClass, s.Step)
	assert.Zero(t, s.ClassID)

	advance()
	remaining, err = m.Complete("s1")
	require.NoError(t, err)
	assert.Zero(t, remaining)
	assert.Nil(t, m.Current("s1"), "session dropped when nothing remains")
}

func TestOutOfOrderCallsRejected(t *testing.T) {
	m := NewManager()

	assert.Error(t, m.SelectClass("missing", 1, EntryByInstructor))

	m.Begin("s1", 1)
	assert.Error(t, m.SelectInstructor("s1", 7), "instructor before class selection")
	_, err := m.Complete("s1")
	assert.Error(t, err)
}

func TestCurrentReturnsCopy(t *testing.T) {
	m := NewManager()
	m.Begin("s1", 1)

	s := m.Current("s1")
	s.Step = StepComplete

	assert.Equal(t, StepSelectClass, m.Current("s1").Step)
}

func TestClear(t *testing.T) {
	m := NewManager()
	m.Begin("s1", 1)
	m.Clear("s1")

	assert.Nil(t, m.Current("s1"))
}

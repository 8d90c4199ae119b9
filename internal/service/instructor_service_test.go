package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hanamaru-english/class-api/internal/model"
)

func newInstructorFixture() (*InstructorService, *mockInstructorRepo) {
	repo := newMockInstructorRepo()
	repo.instructors[1] = &model.Instructor{ID: 1, Name: "Sato", IsActive: true}
	return NewInstructorService(repo, zap.NewNop()), repo
}

func TestSetOneOff(t *testing.T) {
	svc, repo := newInstructorFixture()
	at := jst(2025, time.March, 17, 17, 0)

	entry, err := svc.SetOneOff(context.Background(), 1, at, model.AvailabilityUnavailable)
	require.NoError(t, err)

	assert.Equal(t, model.AvailabilityUnavailable, entry.Kind)
	require.Len(t, repo.oneOffs[1], 1)

	_, err = svc.SetOneOff(context.Background(), 1, at, model.AvailabilityKind("busy"))
	assert.True(t, IsType(err, ErrTypeMissingParameters))

	_, err = svc.SetOneOff(context.Background(), 99, at, model.AvailabilityAvailable)
	assert.True(t, IsType(err, ErrTypeInvalidClassData))
}

func TestAddRecurring(t *testing.T) {
	svc, repo := newInstructorFixture()

	entry, err := svc.AddRecurring(context.Background(), 1, int(time.Monday), 17, 30)
	require.NoError(t, err)
	assert.Equal(t, 17, entry.StartHour)
	assert.True(t, repo.recurring[recurringSlotKey{1, int(time.Monday), 17, 30}])

	tests := []struct {
		name                  string
		weekday, hour, minute int
	}{
		{"weekday out of range", 7, 17, 0},
		{"hour out of range", 1, 24, 0},
		{"off-grid minute", 1, 17, 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddRecurring(context.Background(), 1, tt.weekday, tt.hour, tt.minute)
			assert.True(t, IsType(err, ErrTypeMissingParameters))
		})
	}
}

func TestRemoveRecurring(t *testing.T) {
	svc, repo := newInstructorFixture()
	repo.recurring[recurringSlotKey{1, int(time.Monday), 17, 0}] = true

	err := svc.RemoveRecurring(context.Background(), 1, int(time.Monday), 17, 0)
	require.NoError(t, err)
	assert.False(t, repo.recurring[recurringSlotKey{1, int(time.Monday), 17, 0}])
}

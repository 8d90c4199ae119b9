package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hanamaru-english/class-api/internal/model"
)

type generatorFixture struct {
	svc         *GeneratorService
	classes     *mockClassRepo
	recurring   *mockRecurringRepo
	subs        *mockSubscriptionRepo
	instructors *mockInstructorRepo
	notifier    *mockNotifier
}

func newGeneratorFixture() *generatorFixture {
	f := &generatorFixture{
		classes:     newMockClassRepo(),
		recurring:   newMockRecurringRepo(),
		subs:        newMockSubscriptionRepo(),
		instructors: newMockInstructorRepo(),
		notifier:    &mockNotifier{},
	}
	booking := NewBookingService(f.classes, f.subs, f.instructors, newMockCustomerRepo(), zap.NewNop())
	f.svc = NewGeneratorService(f.classes, f.recurring, f.subs, booking, f.notifier, zap.NewNop())
	return f
}

// seedTemplate registers a subscription and a Wednesday 17:00 template active
// from January 2025, with an always-available instructor.
func (f *generatorFixture) seedTemplate() *model.RecurringClass {
	sub := f.subs.add(&model.Subscription{
		CustomerID: 1,
		PlanID:     1,
		StartsAt:   jst(2025, time.January, 1, 0, 0),
	})
	f.instructors.instructors[1] = &model.Instructor{ID: 1, Name: "Sato", IsActive: true}
	f.instructors.alwaysAvailable(1)

	return f.recurring.add(&model.RecurringClass{
		SubscriptionID: sub.ID,
		InstructorID:   1,
		Weekday:        int(time.Wednesday),
		StartHour:      17,
		StartMinute:    0,
		StartsFrom:     jst(2025, time.January, 1, 0, 0),
		ChildIDs:       []int64{10},
	})
}

func TestGenerateMonthlyClasses(t *testing.T) {
	f := newGeneratorFixture()
	tpl := f.seedTemplate()

	result, err := f.svc.GenerateMonthlyClasses(context.Background(), 2025, time.March)
	require.NoError(t, err)

	// March 2025 Wednesdays: 5, 12, 19, 26.
	require.Len(t, result.Created, 4)
	days := make([]int, 0, 4)
	for _, class := range result.Created {
		assert.Equal(t, model.ClassStatusBooked, class.Status)
		assert.Equal(t, int64(1), class.CustomerID)
		require.NotNil(t, class.RecurringClassID)
		assert.Equal(t, tpl.ID, *class.RecurringClassID)
		assert.Equal(t, []int64{10}, class.ChildIDs)
		assert.Equal(t, 17, class.StartsAt.Hour())
		assert.NotEmpty(t, class.ClassCode)
		days = append(days, class.StartsAt.Day())
	}
	assert.ElementsMatch(t, []int{5, 12, 19, 26}, days)
	assert.Empty(t, result.Conflicts)
	assert.Empty(t, result.Failures)
}

func TestGenerateMonthlyClassesIsIdempotent(t *testing.T) {
	f := newGeneratorFixture()
	f.seedTemplate()

	first, err := f.svc.GenerateMonthlyClasses(context.Background(), 2025, time.March)
	require.NoError(t, err)
	require.Len(t, first.Created, 4)

	second, err := f.svc.GenerateMonthlyClasses(context.Background(), 2025, time.March)
	require.NoError(t, err)
	assert.Empty(t, second.Created)
	assert.Len(t, f.classes.classes, 4)
}

func TestGenerateMonthlyClassesHonorsTemplateBounds(t *testing.T) {
	f := newGeneratorFixture()
	tpl := f.seedTemplate()

	// Active only for the middle of the month: occurrences on the 5th and
	// 26th fall outside [starts_from, ends_at).
	tpl.StartsFrom = jst(2025, time.March, 10, 0, 0)
	ends := jst(2025, time.March, 24, 0, 0)
	tpl.EndsAt = &ends

	result, err := f.svc.GenerateMonthlyClasses(context.Background(), 2025, time.March)
	require.NoError(t, err)

	days := make([]int, 0, len(result.Created))
	for _, class := range result.Created {
		days = append(days, class.StartsAt.Day())
	}
	assert.ElementsMatch(t, []int{12, 19}, days)
}

func TestGenerateMonthlyClassesStopsAtSubscriptionEnd(t *testing.T) {
	f := newGeneratorFixture()
	f.seedTemplate()

	ends := jst(2025, time.March, 15, 0, 0)
	for _, sub := range f.subs.subs {
		sub.EndsAt = &ends
	}

	result, err := f.svc.GenerateMonthlyClasses(context.Background(), 2025, time.March)
	require.NoError(t, err)

	days := make([]int, 0, len(result.Created))
	for _, class := range result.Created {
		days = append(days, class.StartsAt.Day())
	}
	assert.ElementsMatch(t, []int{5, 12}, days)
}

func TestGenerateMonthlyClassesFlagsConflicts(t *testing.T) {
	f := newGeneratorFixture()
	tpl := f.seedTemplate()

	// Block one occurrence with a one-off unavailable entry. The instance is
	// still created; the conflict goes to the admin channel.
	blocked := jst(2025, time.March, 12, 17, 0)
	f.instructors.oneOffs[1] = []*model.InstructorAvailability{
		{InstructorID: 1, StartsAt: blocked, Kind: model.AvailabilityUnavailable},
	}

	result, err := f.svc.GenerateMonthlyClasses(context.Background(), 2025, time.March)
	require.NoError(t, err)

	assert.Len(t, result.Created, 4, "conflicting occurrence is still created")
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, tpl.ID, result.Conflicts[0].RecurringClassID)
	assert.True(t, result.Conflicts[0].StartsAt.Equal(blocked))

	assert.Equal(t, 1, f.notifier.calls)
	assert.Len(t, f.notifier.conflicts, 1)
}

func TestGenerateMonthlyClassesFlagsHeldSlots(t *testing.T) {
	f := newGeneratorFixture()
	tpl := f.seedTemplate()

	// Every write loses to the unique index on (instructor_id, starts_at):
	// another customer's class already holds each slot. No instance for the
	// template itself exists, so this is not the idempotence path; the
	// occurrences must surface as conflicts instead of vanishing.
	f.classes.createErr = &pgconn.PgError{Code: "23505"}

	result, err := f.svc.GenerateMonthlyClasses(context.Background(), 2025, time.March)
	require.NoError(t, err)

	assert.Empty(t, result.Created)
	assert.Empty(t, result.Failures)
	require.Len(t, result.Conflicts, 4)
	for _, c := range result.Conflicts {
		assert.Zero(t, c.ClassID)
		assert.Equal(t, tpl.ID, c.RecurringClassID)
		assert.Contains(t, c.Reason, "already held")
	}

	assert.Equal(t, 1, f.notifier.calls)
}

func TestGenerateMonthlyClassesIsolatesTemplateFailures(t *testing.T) {
	f := newGeneratorFixture()
	f.seedTemplate()

	// A template pointing at a missing subscription fails alone.
	f.recurring.add(&model.RecurringClass{
		SubscriptionID: 999,
		InstructorID:   1,
		Weekday:        int(time.Friday),
		StartHour:      18,
		StartMinute:    0,
		StartsFrom:     jst(2025, time.January, 1, 0, 0),
	})

	result, err := f.svc.GenerateMonthlyClasses(context.Background(), 2025, time.March)
	require.NoError(t, err)

	assert.Len(t, result.Created, 4, "healthy template still generated")
	require.Len(t, result.Failures, 1)
	assert.Equal(t, int64(2), result.Failures[0].RecurringClassID)
}

func TestGenerateMonthlyClassesValidation(t *testing.T) {
	f := newGeneratorFixture()

	_, err := f.svc.GenerateMonthlyClasses(context.Background(), 0, time.March)
	assert.True(t, IsType(err, ErrTypeMissingParameters))

	_, err = f.svc.GenerateMonthlyClasses(context.Background(), 2025, time.Month(13))
	assert.True(t, IsType(err, ErrTypeMissingParameters))
}

package service

import (
	"context"
	"time"

	"github.com/hanamaru-english/class-api/internal/model"
	"github.com/hanamaru-english/class-api/internal/schedule"
)

// In-memory fakes for the store interfaces. They keep just enough behavior
// for the services under test: ID assignment, status filtering and the
// template range queries.

type mockClassRepo struct {
	classes map[int64]*model.ClassInstance
	nextID  int64

	createErr error
	rebookErr error
}

func newMockClassRepo() *mockClassRepo {
	return &mockClassRepo{classes: make(map[int64]*model.ClassInstance), nextID: 1}
}

func (m *mockClassRepo) add(class *model.ClassInstance) *model.ClassInstance {
	class.ID = m.nextID
	m.nextID++
	m.classes[class.ID] = class
	return class
}

func (m *mockClassRepo) Create(_ context.Context, class *model.ClassInstance) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.add(class)
	return nil
}

func (m *mockClassRepo) GetByID(_ context.Context, id int64) (*model.ClassInstance, error) {
	return m.classes[id], nil
}

func (m *mockClassRepo) Cancel(_ context.Context, id int64, status model.ClassStatus, rebookableUntil *time.Time) error {
	class := m.classes[id]
	class.Status = status
	class.RebookableUntil = rebookableUntil
	return nil
}

func (m *mockClassRepo) UpdateStatus(_ context.Context, id int64, status model.ClassStatus) error {
	m.classes[id].Status = status
	return nil
}

func (m *mockClassRepo) Rebook(_ context.Context, originalID int64, replacement *model.ClassInstance) error {
	if m.rebookErr != nil {
		return m.rebookErr
	}
	m.add(replacement)
	m.classes[originalID].RebookableUntil = nil
	return nil
}

func (m *mockClassRepo) FindActiveByCustomerAt(_ context.Context, customerID int64, at time.Time) ([]*model.ClassInstance, error) {
	var out []*model.ClassInstance
	for _, c := range m.classes {
		if c.CustomerID == customerID && c.Status.IsActive() && c.StartsAt.Equal(at) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockClassRepo) FindActiveByChildBetween(_ context.Context, childID int64, from, to time.Time) ([]*model.ClassInstance, error) {
	var out []*model.ClassInstance
	for _, c := range m.classes {
		if !c.Status.IsActive() || c.StartsAt.Before(from) || !c.StartsAt.Before(to) {
			continue
		}
		for _, id := range c.ChildIDs {
			if id == childID {
				out = append(out, c)
				break
			}
		}
	}
	return out, nil
}

func (m *mockClassRepo) FindActiveByInstructorBetween(_ context.Context, instructorID int64, from, to time.Time) ([]*model.ClassInstance, error) {
	var out []*model.ClassInstance
	for _, c := range m.classes {
		if c.InstructorID == instructorID && c.Status.IsActive() &&
			!c.StartsAt.Before(from) && c.StartsAt.Before(to) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockClassRepo) ExistsForRecurringAt(_ context.Context, recurringClassID int64, at time.Time) (bool, error) {
	for _, c := range m.classes {
		if c.RecurringClassID != nil && *c.RecurringClassID == recurringClassID && c.StartsAt.Equal(at) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockClassRepo) ListByCustomer(_ context.Context, customerID int64, from, to time.Time) ([]*model.ClassInstance, error) {
	var out []*model.ClassInstance
	for _, c := range m.classes {
		if c.CustomerID == customerID && !c.StartsAt.Before(from) && c.StartsAt.Before(to) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockClassRepo) ListByInstructor(_ context.Context, instructorID int64, from, to time.Time) ([]*model.ClassInstance, error) {
	var out []*model.ClassInstance
	for _, c := range m.classes {
		if c.InstructorID == instructorID && !c.StartsAt.Before(from) && c.StartsAt.Before(to) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockClassRepo) ListBetween(_ context.Context, from, to time.Time) ([]*model.ClassInstance, error) {
	var out []*model.ClassInstance
	for _, c := range m.classes {
		if !c.StartsAt.Before(from) && c.StartsAt.Before(to) {
			out = append(out, c)
		}
	}
	return out, nil
}

type mockRecurringRepo struct {
	templates map[int64]*model.RecurringClass
	nextID    int64
}

func newMockRecurringRepo() *mockRecurringRepo {
	return &mockRecurringRepo{templates: make(map[int64]*model.RecurringClass), nextID: 1}
}

func (m *mockRecurringRepo) add(rc *model.RecurringClass) *model.RecurringClass {
	rc.ID = m.nextID
	m.nextID++
	m.templates[rc.ID] = rc
	return rc
}

func (m *mockRecurringRepo) Create(_ context.Context, rc *model.RecurringClass) error {
	m.add(rc)
	return nil
}

func (m *mockRecurringRepo) GetByID(_ context.Context, id int64) (*model.RecurringClass, error) {
	return m.templates[id], nil
}

func (m *mockRecurringRepo) ActiveInRange(_ context.Context, from, to time.Time) ([]*model.RecurringClass, error) {
	var out []*model.RecurringClass
	for _, rc := range m.templates {
		if rc.StartsFrom.Before(to) && (rc.EndsAt == nil || !rc.EndsAt.Before(from)) {
			out = append(out, rc)
		}
	}
	return out, nil
}

func (m *mockRecurringRepo) ListBySubscription(_ context.Context, subscriptionID int64) ([]*model.RecurringClass, error) {
	var out []*model.RecurringClass
	for _, rc := range m.templates {
		if rc.SubscriptionID == subscriptionID {
			out = append(out, rc)
		}
	}
	return out, nil
}

func (m *mockRecurringRepo) End(_ context.Context, id int64, at time.Time) error {
	m.templates[id].EndsAt = &at
	return nil
}

func (m *mockRecurringRepo) EndBySubscription(_ context.Context, subscriptionID int64, at time.Time) error {
	for _, rc := range m.templates {
		if rc.SubscriptionID == subscriptionID && rc.EndsAt == nil {
			end := at
			rc.EndsAt = &end
		}
	}
	return nil
}

type mockSubscriptionRepo struct {
	subs   map[int64]*model.Subscription
	plans  map[int64]*model.Plan
	nextID int64
}

func newMockSubscriptionRepo() *mockSubscriptionRepo {
	return &mockSubscriptionRepo{
		subs:   make(map[int64]*model.Subscription),
		plans:  make(map[int64]*model.Plan),
		nextID: 1,
	}
}

func (m *mockSubscriptionRepo) add(sub *model.Subscription) *model.Subscription {
	sub.ID = m.nextID
	m.nextID++
	m.subs[sub.ID] = sub
	return sub
}

func (m *mockSubscriptionRepo) Create(_ context.Context, sub *model.Subscription) error {
	m.add(sub)
	return nil
}

func (m *mockSubscriptionRepo) GetByID(_ context.Context, id int64) (*model.Subscription, error) {
	return m.subs[id], nil
}

func (m *mockSubscriptionRepo) GetActiveByCustomer(_ context.Context, customerID int64, at time.Time) (*model.Subscription, error) {
	for _, sub := range m.subs {
		if sub.CustomerID == customerID && sub.ActiveAt(at) {
			return sub, nil
		}
	}
	return nil, nil
}

func (m *mockSubscriptionRepo) End(_ context.Context, id int64, at time.Time) error {
	m.subs[id].EndsAt = &at
	return nil
}

func (m *mockSubscriptionRepo) GetPlan(_ context.Context, planID int64) (*model.Plan, error) {
	return m.plans[planID], nil
}

type recurringSlotKey struct {
	instructorID          int64
	weekday, hour, minute int
}

type mockInstructorRepo struct {
	instructors map[int64]*model.Instructor
	oneOffs     map[int64][]*model.InstructorAvailability
	recurring   map[recurringSlotKey]bool
}

func newMockInstructorRepo() *mockInstructorRepo {
	return &mockInstructorRepo{
		instructors: make(map[int64]*model.Instructor),
		oneOffs:     make(map[int64][]*model.InstructorAvailability),
		recurring:   make(map[recurringSlotKey]bool),
	}
}

// alwaysAvailable opens every weekly slot for the instructor.
func (m *mockInstructorRepo) alwaysAvailable(instructorID int64) {
	for wd := 0; wd < 7; wd++ {
		for h := schedule.OpeningHour; h < schedule.ClosingHour; h++ {
			m.recurring[recurringSlotKey{instructorID, wd, h, 0}] = true
			m.recurring[recurringSlotKey{instructorID, wd, h, 30}] = true
		}
	}
}

func (m *mockInstructorRepo) GetByID(_ context.Context, id int64) (*model.Instructor, error) {
	return m.instructors[id], nil
}

func (m *mockInstructorRepo) OneOffAt(_ context.Context, instructorID int64, at time.Time) (*model.InstructorAvailability, error) {
	for _, a := range m.oneOffs[instructorID] {
		if a.StartsAt.Equal(at) {
			return a, nil
		}
	}
	return nil, nil
}

func (m *mockInstructorRepo) HasRecurringAt(_ context.Context, instructorID int64, weekday, hour, minute int) (bool, error) {
	return m.recurring[recurringSlotKey{instructorID, weekday, hour, minute}], nil
}

func (m *mockInstructorRepo) AddOneOff(_ context.Context, a *model.InstructorAvailability) error {
	m.oneOffs[a.InstructorID] = append(m.oneOffs[a.InstructorID], a)
	return nil
}

func (m *mockInstructorRepo) AddRecurring(_ context.Context, a *model.InstructorRecurringAvailability) error {
	m.recurring[recurringSlotKey{a.InstructorID, a.Weekday, a.StartHour, a.StartMinute}] = true
	return nil
}

func (m *mockInstructorRepo) RemoveRecurring(_ context.Context, instructorID int64, weekday, hour, minute int) error {
	delete(m.recurring, recurringSlotKey{instructorID, weekday, hour, minute})
	return nil
}

type mockCustomerRepo struct {
	customers map[int64]*model.Customer
	children  map[int64]*model.Child
}

func newMockCustomerRepo() *mockCustomerRepo {
	return &mockCustomerRepo{
		customers: make(map[int64]*model.Customer),
		children:  make(map[int64]*model.Child),
	}
}

func (m *mockCustomerRepo) GetByID(_ context.Context, id int64) (*model.Customer, error) {
	return m.customers[id], nil
}

func (m *mockCustomerRepo) ChildrenByIDs(_ context.Context, ids []int64) ([]*model.Child, error) {
	var out []*model.Child
	for _, id := range ids {
		if child, ok := m.children[id]; ok {
			out = append(out, child)
		}
	}
	return out, nil
}

type mockNotifier struct {
	calls     int
	conflicts []GenerationConflict
}

func (m *mockNotifier) GenerationConflicts(_ context.Context, _ int, _ time.Month, conflicts []GenerationConflict) error {
	m.calls++
	m.conflicts = append(m.conflicts, conflicts...)
	return nil
}

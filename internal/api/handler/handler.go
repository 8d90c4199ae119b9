// Package handler holds the HTTP handlers, one per module.
package handler

import (
	"github.com/hanamaru-english/class-api/internal/flow"
	"github.com/hanamaru-english/class-api/internal/service"
)

// Handler aggregates the per-module handlers for the router.
type Handler struct {
	Class        *ClassHandler
	Subscription *SubscriptionHandler
	Instructor   *InstructorHandler
	Admin        *AdminHandler
	Schedule     *ScheduleHandler
	Flow         *FlowHandler
}

func New(
	booking *service.BookingService,
	subscriptions *service.SubscriptionService,
	instructors *service.InstructorService,
	generator *service.GeneratorService,
	flows *flow.Manager,
) *Handler {
	return &Handler{
		Class:        NewClassHandler(booking),
		Subscription: NewSubscriptionHandler(subscriptions),
		Instructor:   NewInstructorHandler(instructors),
		Admin:        NewAdminHandler(generator, booking),
		Schedule:     NewScheduleHandler(),
		Flow:         NewFlowHandler(flows, booking),
	}
}

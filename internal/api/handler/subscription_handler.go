package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hanamaru-english/class-api/internal/api/response"
	"github.com/hanamaru-english/class-api/internal/service"
)

type SubscriptionHandler struct {
	subscriptions *service.SubscriptionService
}

func NewSubscriptionHandler(subscriptions *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptions: subscriptions}
}

type weeklySlotRequest struct {
	Weekday      int     `json:"weekday"`
	Hour         int     `json:"hour"`
	Minute       int     `json:"minute"`
	InstructorID int64   `json:"instructor_id" binding:"required"`
	ChildIDs     []int64 `json:"child_ids"`
}

func (r weeklySlotRequest) toSlot() service.WeeklySlot {
	return service.WeeklySlot{
		Weekday:      r.Weekday,
		Hour:         r.Hour,
		Minute:       r.Minute,
		InstructorID: r.InstructorID,
		ChildIDs:     r.ChildIDs,
	}
}

type createSubscriptionRequest struct {
	CustomerID int64               `json:"customer_id" binding:"required"`
	PlanID     int64               `json:"plan_id" binding:"required"`
	StartsAt   time.Time           `json:"starts_at" binding:"required"`
	Slots      []weeklySlotRequest `json:"slots" binding:"required"`
}

// CreateSubscription handles POST /api/v1/subscriptions.
func (h *SubscriptionHandler) CreateSubscription(c *gin.Context) {
	var req createSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "missing parameters", "invalid request body")
		return
	}

	slots := make([]service.WeeklySlot, 0, len(req.Slots))
	for _, s := range req.Slots {
		slots = append(slots, s.toSlot())
	}

	sub, err := h.subscriptions.CreateSubscription(c.Request.Context(), req.CustomerID, req.PlanID, req.StartsAt, slots)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Created(c, sub)
}

type changeSlotRequest struct {
	Slot          weeklySlotRequest `json:"slot" binding:"required"`
	EffectiveFrom time.Time         `json:"effective_from" binding:"required"`
}

// ChangeRecurringSlot handles POST /api/v1/recurring-classes/:id/change-slot.
// The old template ends at the effective date and a fresh one starts there.
func (h *SubscriptionHandler) ChangeRecurringSlot(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "missing parameters", "invalid recurring class id")
		return
	}

	var req changeSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "missing parameters", "invalid request body")
		return
	}

	rc, err := h.subscriptions.ChangeRecurringSlot(c.Request.Context(), id, req.Slot.toSlot(), req.EffectiveFrom)
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, rc)
}

type cancelSubscriptionRequest struct {
	At time.Time `json:"at" binding:"required"`
}

// CancelSubscription handles POST /api/v1/subscriptions/:id/cancel.
func (h *SubscriptionHandler) CancelSubscription(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "missing parameters", "invalid subscription id")
		return
	}

	var req cancelSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "missing parameters", "invalid request body")
		return
	}

	if err := h.subscriptions.CancelSubscription(c.Request.Context(), id, req.At); err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, nil)
}

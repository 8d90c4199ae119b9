package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hanamaru-english/class-api/internal/api/response"
	"github.com/hanamaru-english/class-api/internal/service"
)

// ClassHandler serves the class lifecycle: cancellation, rebooking,
// free-trial decline, listings and pre-booking checks.
type ClassHandler struct {
	booking *service.BookingService
}

func NewClassHandler(booking *service.BookingService) *ClassHandler {
	return &ClassHandler{booking: booking}
}

func classID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "missing parameters", "invalid class id")
		return 0, false
	}
	return id, true
}

// CancelClass handles POST /api/v1/classes/:id/cancel.
func (h *ClassHandler) CancelClass(c *gin.Context) {
	id, ok := classID(c)
	if !ok {
		return
	}

	class, err := h.booking.CancelClass(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, class)
}

// CancelClassByInstructor handles POST /api/v1/classes/:id/instructor-cancel.
// Instructor cancellations skip the previous-day deadline.
func (h *ClassHandler) CancelClassByInstructor(c *gin.Context) {
	id, ok := classID(c)
	if !ok {
		return
	}

	class, err := h.booking.CancelClassByInstructor(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, class)
}

// DeclineFreeTrial handles POST /api/v1/classes/:id/decline-trial.
func (h *ClassHandler) DeclineFreeTrial(c *gin.Context) {
	id, ok := classID(c)
	if !ok {
		return
	}

	class, err := h.booking.DeclineFreeTrial(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, class)
}

type rebookRequest struct {
	ClassID      int64     `json:"class_id" binding:"required"`
	StartsAt     time.Time `json:"starts_at" binding:"required"`
	InstructorID int64     `json:"instructor_id" binding:"required"`
	ChildIDs     []int64   `json:"child_ids"`
	Confirmed    bool      `json:"confirmed"`
}

// RebookClass handles POST /api/v1/classes/rebook.
func (h *ClassHandler) RebookClass(c *gin.Context) {
	var req rebookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "missing parameters", "invalid request body")
		return
	}

	class, err := h.booking.RebookClass(c.Request.Context(), service.RebookRequest{
		ClassID:      req.ClassID,
		StartsAt:     req.StartsAt,
		InstructorID: req.InstructorID,
		ChildIDs:     req.ChildIDs,
		Confirmed:    req.Confirmed,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	response.Created(c, class)
}

func parseRange(c *gin.Context) (time.Time, time.Time, bool) {
	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		response.BadRequest(c, "missing parameters", "from must be RFC 3339")
		return time.Time{}, time.Time{}, false
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		response.BadRequest(c, "missing parameters", "to must be RFC 3339")
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

// ListCustomerClasses handles GET /api/v1/customers/:id/classes?from=&to=.
func (h *ClassHandler) ListCustomerClasses(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "missing parameters", "invalid customer id")
		return
	}
	from, to, ok := parseRange(c)
	if !ok {
		return
	}

	classes, err := h.booking.ListCustomerClasses(c.Request.Context(), id, from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, gin.H{"list": classes})
}

// ListInstructorClasses handles GET /api/v1/instructors/:id/classes?from=&to=.
func (h *ClassHandler) ListInstructorClasses(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "missing parameters", "invalid instructor id")
		return
	}
	from, to, ok := parseRange(c)
	if !ok {
		return
	}

	classes, err := h.booking.ListInstructorClasses(c.Request.Context(), id, from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, gin.H{"list": classes})
}

// CheckDoubleBooking handles GET /api/v1/customers/:id/double-booking?at=.
func (h *ClassHandler) CheckDoubleBooking(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "missing parameters", "invalid customer id")
		return
	}
	at, err := time.Parse(time.RFC3339, c.Query("at"))
	if err != nil {
		response.BadRequest(c, "missing parameters", "at must be RFC 3339")
		return
	}

	doubleBooked, err := h.booking.CheckDoubleBooking(c.Request.Context(), id, at)
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, gin.H{"double_booked": doubleBooked})
}

type childConflictRequest struct {
	At           time.Time `json:"at" binding:"required"`
	InstructorID int64     `json:"instructor_id" binding:"required"`
	ChildIDs     []int64   `json:"child_ids" binding:"required"`
}

// CheckChildConflicts handles POST /api/v1/checks/child-conflicts.
func (h *ClassHandler) CheckChildConflicts(c *gin.Context) {
	var req childConflictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "missing parameters", "invalid request body")
		return
	}

	names, err := h.booking.CheckChildConflicts(c.Request.Context(), req.At, req.InstructorID, req.ChildIDs)
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, gin.H{"conflicting_children": names})
}

// CheckInstructorAvailability handles GET /api/v1/instructors/:id/availability?at=.
func (h *ClassHandler) CheckInstructorAvailability(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "missing parameters", "invalid instructor id")
		return
	}
	at, err := time.Parse(time.RFC3339, c.Query("at"))
	if err != nil {
		response.BadRequest(c, "missing parameters", "at must be RFC 3339")
		return
	}

	available, err := h.booking.CheckInstructorAvailability(c.Request.Context(), id, at)
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, gin.H{"available": available})
}

package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hanamaru-english/class-api/internal/api/response"
	"github.com/hanamaru-english/class-api/internal/model"
	"github.com/hanamaru-english/class-api/internal/service"
)

// InstructorHandler manages instructor availability records.
type InstructorHandler struct {
	instructors *service.InstructorService
}

func NewInstructorHandler(instructors *service.InstructorService) *InstructorHandler {
	return &InstructorHandler{instructors: instructors}
}

func instructorID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "missing parameters", "invalid instructor id")
		return 0, false
	}
	return id, true
}

type oneOffRequest struct {
	At   time.Time `json:"at" binding:"required"`
	Kind string    `json:"kind" binding:"required"`
}

// SetOneOff handles PUT /api/v1/instructors/:id/availability. A one-off
// record overrides the weekly pattern for that single slot.
func (h *InstructorHandler) SetOneOff(c *gin.Context) {
	id, ok := instructorID(c)
	if !ok {
		return
	}

	var req oneOffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "missing parameters", "invalid request body")
		return
	}

	rec, err := h.instructors.SetOneOff(c.Request.Context(), id, req.At, model.AvailabilityKind(req.Kind))
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, rec)
}

type recurringSlotRequest struct {
	Weekday int `json:"weekday"`
	Hour    int `json:"hour"`
	Minute  int `json:"minute"`
}

// AddRecurring handles POST /api/v1/instructors/:id/recurring-availability.
func (h *InstructorHandler) AddRecurring(c *gin.Context) {
	id, ok := instructorID(c)
	if !ok {
		return
	}

	var req recurringSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "missing parameters", "invalid request body")
		return
	}

	rec, err := h.instructors.AddRecurring(c.Request.Context(), id, req.Weekday, req.Hour, req.Minute)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Created(c, rec)
}

// RemoveRecurring handles DELETE /api/v1/instructors/:id/recurring-availability.
func (h *InstructorHandler) RemoveRecurring(c *gin.Context) {
	id, ok := instructorID(c)
	if !ok {
		return
	}

	var req recurringSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "missing parameters", "invalid request body")
		return
	}

	if err := h.instructors.RemoveRecurring(c.Request.Context(), id, req.Weekday, req.Hour, req.Minute); err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, nil)
}

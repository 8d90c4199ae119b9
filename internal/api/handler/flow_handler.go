package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hanamaru-english/class-api/internal/api/response"
	"github.com/hanamaru-english/class-api/internal/flow"
	"github.com/hanamaru-english/class-api/internal/service"
)

// FlowHandler drives the guided rebooking flow. The session state lives
// server-side so a client cannot submit a confirmation for selections it
// never made.
type FlowHandler struct {
	flows   *flow.Manager
	booking *service.BookingService
}

func NewFlowHandler(flows *flow.Manager, booking *service.BookingService) *FlowHandler {
	return &FlowHandler{flows: flows, booking: booking}
}

func sessionID(c *gin.Context) (string, bool) {
	id := c.Param("session")
	if id == "" {
		response.BadRequest(c, "missing parameters", "session id is required")
		return "", false
	}
	return id, true
}

type beginFlowRequest struct {
	Remaining int `json:"remaining" binding:"required,min=1"`
}

// Begin handles POST /api/v1/rebooking-flows/:session. Remaining is the
// number of rebookable classes the flow will walk through.
func (h *FlowHandler) Begin(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var req beginFlowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "missing parameters", "remaining must be a positive count")
		return
	}

	response.Created(c, h.flows.Begin(id, req.Remaining))
}

// Current handles GET /api/v1/rebooking-flows/:session.
func (h *FlowHandler) Current(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	s := h.flows.Current(id)
	if s == nil {
		response.NotFound(c, "no active flow")
		return
	}

	response.OK(c, s)
}

type selectClassRequest struct {
	ClassID int64  `json:"class_id" binding:"required"`
	Entry   string `json:"entry" binding:"required"`
}

// SelectClass handles POST /api/v1/rebooking-flows/:session/class.
func (h *FlowHandler) SelectClass(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var req selectClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "missing parameters", "invalid request body")
		return
	}

	entry := flow.Entry(req.Entry)
	if entry != flow.EntryByInstructor && entry != flow.EntryByDateTime {
		response.BadRequest(c, "missing parameters", "entry must be instructor or dateTime")
		return
	}

	if err := h.flows.SelectClass(id, req.ClassID, entry); err != nil {
		response.BadRequest(c, "invalid class data", err.Error())
		return
	}

	response.OK(c, h.flows.Current(id))
}

type selectInstructorRequest struct {
	InstructorID int64 `json:"instructor_id" binding:"required"`
}

// SelectInstructor handles POST /api/v1/rebooking-flows/:session/instructor.
func (h *FlowHandler) SelectInstructor(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var req selectInstructorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "missing parameters", "invalid request body")
		return
	}

	if err := h.flows.SelectInstructor(id, req.InstructorID); err != nil {
		response.BadRequest(c, "invalid class data", err.Error())
		return
	}

	response.OK(c, h.flows.Current(id))
}

type selectDateTimeRequest struct {
	StartsAt time.Time `json:"starts_at" binding:"required"`
}

// SelectDateTime handles POST /api/v1/rebooking-flows/:session/datetime.
func (h *FlowHandler) SelectDateTime(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var req selectDateTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "missing parameters", "invalid request body")
		return
	}

	if err := h.flows.SelectDateTime(id, req.StartsAt); err != nil {
		response.BadRequest(c, "invalid class data", err.Error())
		return
	}

	response.OK(c, h.flows.Current(id))
}

type confirmFlowRequest struct {
	ChildIDs  []int64 `json:"child_ids"`
	Confirmed bool    `json:"confirmed"`
}

// Confirm handles POST /api/v1/rebooking-flows/:session/confirm. It submits
// the session's accumulated selection as a rebooking; on success the flow
// either loops to the next class or ends.
func (h *FlowHandler) Confirm(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var req confirmFlowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "missing parameters", "invalid request body")
		return
	}

	s := h.flows.Current(id)
	if s == nil || s.Step != flow.StepConfirmRebooking {
		response.BadRequest(c, "invalid class data", "flow is not at confirmation")
		return
	}

	class, err := h.booking.RebookClass(c.Request.Context(), service.RebookRequest{
		ClassID:      s.ClassID,
		StartsAt:     s.StartsAt,
		InstructorID: s.InstructorID,
		ChildIDs:     req.ChildIDs,
		Confirmed:    req.Confirmed,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	remaining, err := h.flows.Complete(id)
	if err != nil {
		response.BadRequest(c, "invalid class data", err.Error())
		return
	}

	response.OK(c, gin.H{
		"class":     class,
		"remaining": remaining,
	})
}

// Cancel handles DELETE /api/v1/rebooking-flows/:session.
func (h *FlowHandler) Cancel(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	h.flows.Clear(id)
	response.OK(c, nil)
}

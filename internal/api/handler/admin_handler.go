package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hanamaru-english/class-api/internal/api/response"
	"github.com/hanamaru-english/class-api/internal/render"
	"github.com/hanamaru-english/class-api/internal/service"
)

// AdminHandler serves operator endpoints: month generation and the month
// calendar image.
type AdminHandler struct {
	generator *service.GeneratorService
	booking   *service.BookingService
}

func NewAdminHandler(generator *service.GeneratorService, booking *service.BookingService) *AdminHandler {
	return &AdminHandler{generator: generator, booking: booking}
}

func parseMonth(c *gin.Context, yearStr, monthStr string) (int, time.Month, bool) {
	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 2000 || year > 2200 {
		response.BadRequest(c, "missing parameters", "invalid year")
		return 0, 0, false
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		response.BadRequest(c, "missing parameters", "invalid month")
		return 0, 0, false
	}
	return year, time.Month(month), true
}

type generateRequest struct {
	Year  int `json:"year" binding:"required"`
	Month int `json:"month" binding:"required"`
}

// GenerateMonth handles POST /api/v1/admin/generate. Re-running for a month
// that was already generated creates nothing new.
func (h *AdminHandler) GenerateMonth(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "missing parameters", "invalid request body")
		return
	}
	if req.Month < 1 || req.Month > 12 {
		response.BadRequest(c, "missing parameters", "invalid month")
		return
	}

	result, err := h.generator.GenerateMonthlyClasses(c.Request.Context(), req.Year, time.Month(req.Month))
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, result)
}

// MonthCalendar handles GET /api/v1/admin/calendar.png?year=&month= and
// answers with a PNG grid of the month's classes. An optional instructor_id
// query narrows the calendar to one instructor.
func (h *AdminHandler) MonthCalendar(c *gin.Context) {
	year, month, ok := parseMonth(c, c.Query("year"), c.Query("month"))
	if !ok {
		return
	}

	var instructorID int64
	if raw := c.Query("instructor_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			response.BadRequest(c, "missing parameters", "invalid instructor_id")
			return
		}
		instructorID = id
	}

	classes, err := h.booking.ListMonthClasses(c.Request.Context(), year, month, instructorID)
	if err != nil {
		respondError(c, err)
		return
	}

	img, err := render.MonthCalendar(year, month, classes)
	if err != nil {
		_ = c.Error(err)
		response.InternalError(c)
		return
	}

	c.Data(200, "image/png", img)
}

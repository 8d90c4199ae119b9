package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hanamaru-english/class-api/internal/api/response"
	"github.com/hanamaru-english/class-api/internal/schedule"
)

// ScheduleHandler exposes the booking grid so clients can render pickers
// without hardcoding business hours.
type ScheduleHandler struct{}

func NewScheduleHandler() *ScheduleHandler {
	return &ScheduleHandler{}
}

// Slots handles GET /api/v1/schedule/slots?weekday=. It returns the full
// half-hour grid plus the slots disabled on that weekday.
func (h *ScheduleHandler) Slots(c *gin.Context) {
	weekday, err := strconv.Atoi(c.Query("weekday"))
	if err != nil || weekday < 0 || weekday > 6 {
		response.BadRequest(c, "missing parameters", "weekday must be 0 (Sunday) through 6 (Saturday)")
		return
	}

	disabled := schedule.DisabledSlots(time.Weekday(weekday))
	disabledList := make([]string, 0, len(disabled))
	for _, slot := range schedule.AllSlots() {
		if disabled[slot] {
			disabledList = append(disabledList, slot)
		}
	}

	response.OK(c, gin.H{
		"slots":    schedule.AllSlots(),
		"disabled": disabledList,
	})
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hanamaru-english/class-api/internal/api/response"
	"github.com/hanamaru-english/class-api/internal/service"
)

// respondError translates a service failure into the HTTP answer. Business
// errors keep their type string as the code; anything else is a 500 with no
// internals leaked.
func respondError(c *gin.Context, err error) {
	be, ok := service.AsBusinessError(err)
	if !ok {
		_ = c.Error(err)
		response.InternalError(c)
		return
	}

	status := http.StatusBadRequest
	switch be.Type {
	case service.ErrTypePastRebookingDeadline,
		service.ErrTypeInstructorConflict,
		service.ErrTypeConfirmationRequired:
		status = http.StatusConflict
	case service.ErrTypeNoSubscription,
		service.ErrTypeOutdatedSubscription,
		service.ErrTypeInstructorUnavailable:
		status = http.StatusUnprocessableEntity
	}

	if be.Type == service.ErrTypeConfirmationRequired {
		response.ErrorWithDetails(c, status, string(be.Type), be.Message, gin.H{
			"conflicting_children": be.ConflictingChildren,
			"double_booked":        be.DoubleBooked,
		})
		return
	}

	response.Error(c, status, string(be.Type), be.Message)
}

// Package router wires the HTTP routes.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hanamaru-english/class-api/internal/api/handler"
	"github.com/hanamaru-english/class-api/internal/api/middleware"
)

// Setup builds the Gin engine with all middleware and routes attached.
func Setup(h *handler.Handler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		classes := v1.Group("/classes")
		{
			classes.POST("/rebook", h.Class.RebookClass)
			classes.POST("/:id/cancel", h.Class.CancelClass)
			classes.POST("/:id/instructor-cancel", h.Class.CancelClassByInstructor)
			classes.POST("/:id/decline-trial", h.Class.DeclineFreeTrial)
		}

		customers := v1.Group("/customers")
		{
			customers.GET("/:id/classes", h.Class.ListCustomerClasses)
			customers.GET("/:id/double-booking", h.Class.CheckDoubleBooking)
		}

		instructors := v1.Group("/instructors")
		{
			instructors.GET("/:id/classes", h.Class.ListInstructorClasses)
			instructors.GET("/:id/availability", h.Class.CheckInstructorAvailability)
			instructors.PUT("/:id/availability", h.Instructor.SetOneOff)
			instructors.POST("/:id/recurring-availability", h.Instructor.AddRecurring)
			instructors.DELETE("/:id/recurring-availability", h.Instructor.RemoveRecurring)
		}

		subscriptions := v1.Group("/subscriptions")
		{
			subscriptions.POST("", h.Subscription.CreateSubscription)
			subscriptions.POST("/:id/cancel", h.Subscription.CancelSubscription)
		}

		flows := v1.Group("/rebooking-flows/:session")
		{
			flows.POST("", h.Flow.Begin)
			flows.GET("", h.Flow.Current)
			flows.POST("/class", h.Flow.SelectClass)
			flows.POST("/instructor", h.Flow.SelectInstructor)
			flows.POST("/datetime", h.Flow.SelectDateTime)
			flows.POST("/confirm", h.Flow.Confirm)
			flows.DELETE("", h.Flow.Cancel)
		}

		v1.POST("/recurring-classes/:id/change-slot", h.Subscription.ChangeRecurringSlot)
		v1.POST("/checks/child-conflicts", h.Class.CheckChildConflicts)
		v1.GET("/schedule/slots", h.Schedule.Slots)

		admin := v1.Group("/admin")
		{
			admin.POST("/generate", h.Admin.GenerateMonth)
			admin.GET("/calendar.png", h.Admin.MonthCalendar)
		}
	}

	return r
}

package reminder

import (
	"net/http"

	"partnerhub/pkg/errutil"
	"partnerhub/services/organization"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, svc *Service) {
	schedules := r.Group("/report-schedules", organization.ScopeMiddleware())

	schedules.POST("", func(c *gin.Context) {
		var req CreateScheduleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(errutil.BadRequest("invalid request body", err))
			return
		}

		schedule, err := svc.CreateSchedule(c.Request.Context(), req)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusCreated, schedule)
	})

	schedules.GET("", func(c *gin.Context) {
		out, err := svc.ListSchedules(c.Request.Context(), organization.ScopeFrom(c))
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, out)
	})

	schedules.GET("/:scheduleId", func(c *gin.Context) {
		schedule, err := svc.GetSchedule(c.Request.Context(), organization.ScopeFrom(c), c.Param("scheduleId"))
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, schedule)
	})

	schedules.PATCH("/:scheduleId", func(c *gin.Context) {
		var req UpdateScheduleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(errutil.BadRequest("invalid request body", err))
			return
		}

		schedule, err := svc.UpdateSchedule(c.Request.Context(), organization.ScopeFrom(c), c.Param("scheduleId"), req)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, schedule)
	})

	schedules.DELETE("/:scheduleId", func(c *gin.Context) {
		if err := svc.DeleteSchedule(c.Request.Context(), organization.ScopeFrom(c), c.Param("scheduleId")); err != nil {
			c.Error(err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	requests := r.Group("/report-requests", organization.ScopeMiddleware())

	requests.POST("", func(c *gin.Context) {
		var req CreateManualRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(errutil.BadRequest("invalid request body", err))
			return
		}

		request, err := svc.CreateManualRequest(c.Request.Context(), req)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusCreated, request)
	})

	requests.GET("", func(c *gin.Context) {
		var filter ListRequestsFilter
		if v := c.Query("partnerId"); v != "" {
			filter.PartnerID = &v
		}
		if v := c.Query("status"); v != "" {
			status := RequestStatus(v)
			filter.Status = &status
		}

		out, err := svc.ListRequests(c.Request.Context(), organization.ScopeFrom(c), filter)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, out)
	})

	// Synchronous triggers for operators; the cron path runs the same engines.
	triggers := r.Group("/reminders/trigger")

	triggers.POST("/generate", func(c *gin.Context) {
		created, err := svc.ProcessScheduledRequests(c.Request.Context())
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"created": created})
	})

	triggers.POST("/process", func(c *gin.Context) {
		escalated, err := svc.ProcessReminders(c.Request.Context())
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"escalated": escalated})
	})
}

package project

import (
	"net/http"
	"time"

	"partnerhub/pkg/errutil"
	"partnerhub/services/organization"

	"github.com/gin-gonic/gin"
)

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

func RegisterRoutes(r *gin.Engine, svc *Service) {
	g := r.Group("/projects", organization.ScopeMiddleware())

	g.POST("", func(c *gin.Context) {
		var req CreateProjectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(errutil.BadRequest("invalid request body", err))
			return
		}

		p, err := svc.Create(c.Request.Context(), req)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusCreated, p)
	})

	g.GET("", func(c *gin.Context) {
		projects, err := svc.List(c.Request.Context(), organization.ScopeFrom(c))
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"projects": projects})
	})

	g.GET("/:projectId", func(c *gin.Context) {
		p, err := svc.Get(c.Request.Context(), organization.ScopeFrom(c), c.Param("projectId"))
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, p)
	})

	g.PATCH("/:projectId", func(c *gin.Context) {
		var req UpdateProjectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(errutil.BadRequest("invalid request body", err))
			return
		}

		p, err := svc.Update(c.Request.Context(), organization.ScopeFrom(c), c.Param("projectId"), req)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, p)
	})

	g.POST("/:projectId/tasks", func(c *gin.Context) {
		var req CreateTaskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(errutil.BadRequest("invalid request body", err))
			return
		}

		t, err := svc.CreateTask(c.Request.Context(), organization.ScopeFrom(c), c.Param("projectId"), req)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusCreated, t)
	})

	g.GET("/:projectId/tasks", func(c *gin.Context) {
		tasks, err := svc.ListTasks(c.Request.Context(), organization.ScopeFrom(c), c.Param("projectId"))
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"tasks": tasks})
	})

	tasks := r.Group("/tasks", organization.ScopeMiddleware())
	tasks.PATCH("/:taskId/status", func(c *gin.Context) {
		var req struct {
			Status string `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(errutil.BadRequest("invalid request body", err))
			return
		}

		t, err := svc.UpdateTaskStatus(c.Request.Context(), organization.ScopeFrom(c), c.Param("taskId"), TaskStatus(req.Status))
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, t)
	})
}

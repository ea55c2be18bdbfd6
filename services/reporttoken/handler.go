package reporttoken

import (
	"net/http"

	"partnerhub/pkg/errutil"
	"partnerhub/services/organization"

	"github.com/gin-gonic/gin"
)

type issueTokenRequest struct {
	ProjectID     *string `json:"projectId"`
	ExpiresInDays *int    `json:"expiresInDays"`
}

func RegisterRoutes(r *gin.Engine, svc *Service) {
	g := r.Group("/partners/:partnerId/report-token", organization.ScopeMiddleware())

	g.GET("", func(c *gin.Context) {
		var projectID *string
		if v := c.Query("projectId"); v != "" {
			projectID = &v
		}

		token, err := svc.FindActive(c.Request.Context(), c.Param("partnerId"), projectID)
		if err != nil {
			c.Error(err)
			return
		}
		if token == nil {
			c.Error(errutil.NotFound("no active report token", nil))
			return
		}
		c.JSON(http.StatusOK, token)
	})

	g.POST("", func(c *gin.Context) {
		var req issueTokenRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(errutil.BadRequest("invalid request body", err))
			return
		}

		token, err := svc.Generate(c.Request.Context(), c.Param("partnerId"), req.ProjectID, req.ExpiresInDays)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusCreated, token)
	})

	g.POST("/regenerate", func(c *gin.Context) {
		var req issueTokenRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(errutil.BadRequest("invalid request body", err))
			return
		}

		token, err := svc.Regenerate(c.Request.Context(), c.Param("partnerId"), req.ProjectID, req.ExpiresInDays)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusCreated, token)
	})

	g.POST("/deactivate", func(c *gin.Context) {
		var req issueTokenRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(errutil.BadRequest("invalid request body", err))
			return
		}

		if err := svc.Deactivate(c.Request.Context(), c.Param("partnerId"), req.ProjectID); err != nil {
			c.Error(err)
			return
		}
		c.Status(http.StatusNoContent)
	})
}

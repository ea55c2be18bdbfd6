package report

import (
	"net/http"

	"partnerhub/pkg/db/pagination"
	"partnerhub/pkg/errutil"
	"partnerhub/services/organization"
	"partnerhub/services/reporttoken"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the partner-facing token routes and the admin report
// views. Everything under /report/:token authenticates via the token guard,
// never via the organization header.
func RegisterRoutes(r *gin.Engine, svc *Service, tokens *reporttoken.Service) {
	public := r.Group("/report/:token", reporttoken.Guard(tokens))

	public.GET("", func(c *gin.Context) {
		p := reporttoken.PartnerFrom(c)
		token := reporttoken.TokenFrom(c)

		session, err := svc.BuildSession(c.Request.Context(), p, token)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, session)
	})

	public.GET("/dashboard", func(c *gin.Context) {
		p := reporttoken.PartnerFrom(c)
		token := reporttoken.TokenFrom(c)

		dashboard, err := svc.BuildDashboard(c.Request.Context(), p, token.ProjectID)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, dashboard)
	})

	public.POST("", func(c *gin.Context) {
		var req SubmitReportRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(errutil.BadRequest("invalid request body", err))
			return
		}

		p := reporttoken.PartnerFrom(c)
		token := reporttoken.TokenFrom(c)

		out, err := svc.Submit(c.Request.Context(), p, token.ProjectID, req)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusCreated, out)
	})

	public.GET("/history", func(c *gin.Context) {
		p := reporttoken.PartnerFrom(c)
		token := reporttoken.TokenFrom(c)

		reports, err := svc.History(c.Request.Context(), p.ID, token.ProjectID)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, reports)
	})

	admin := r.Group("/reports", organization.ScopeMiddleware())

	admin.GET("", func(c *gin.Context) {
		var filter ListFilter
		if v := c.Query("partnerId"); v != "" {
			filter.PartnerID = &v
		}
		if v := c.Query("projectId"); v != "" {
			filter.ProjectID = &v
		}

		var page pagination.Pagination
		if err := c.ShouldBindQuery(&page); err != nil {
			c.Error(errutil.BadRequest("invalid pagination", err))
			return
		}

		result, err := svc.List(c.Request.Context(), organization.ScopeFrom(c), filter, page)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, result)
	})

	admin.GET("/:reportId", func(c *gin.Context) {
		out, err := svc.Get(c.Request.Context(), organization.ScopeFrom(c), c.Param("reportId"))
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, out)
	})
}

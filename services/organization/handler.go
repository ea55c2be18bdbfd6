package organization

import (
	"net/http"

	"partnerhub/pkg/errutil"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, svc *Service) {
	g := r.Group("/organizations")
	g.POST("", func(c *gin.Context) {
		var req CreateOrganizationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(errutil.BadRequest("invalid request body", err))
			return
		}

		org, err := svc.Create(c.Request.Context(), req)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusCreated, org)
	})

	g.GET("", func(c *gin.Context) {
		orgs, err := svc.List(c.Request.Context())
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"organizations": orgs})
	})

	g.GET("/:id", func(c *gin.Context) {
		org, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, org)
	})
}

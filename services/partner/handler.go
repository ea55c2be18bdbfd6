package partner

import (
	"net/http"
	"strings"

	"partnerhub/pkg/errutil"
	"partnerhub/services/organization"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, svc *Service) {
	g := r.Group("/partners", organization.ScopeMiddleware())

	g.POST("", func(c *gin.Context) {
		var req CreatePartnerRequest
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
		var skills []string
		if raw := c.Query("skills"); raw != "" {
			skills = strings.Split(raw, ",")
		}

		if email := c.Query("email"); email != "" {
			p, err := svc.FindLinkedByEmail(c.Request.Context(), email)
			if err != nil {
				c.Error(err)
				return
			}
			if p == nil {
				c.JSON(http.StatusOK, gin.H{"partners": []*Partner{}})
				return
			}
			c.JSON(http.StatusOK, gin.H{"partners": []*Partner{p}})
			return
		}

		partners, err := svc.List(c.Request.Context(), organization.ScopeFrom(c), skills)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"partners": partners})
	})

	g.GET("/:partnerId", func(c *gin.Context) {
		p, err := svc.Get(c.Request.Context(), organization.ScopeFrom(c), c.Param("partnerId"))
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, p)
	})

	g.PATCH("/:partnerId", func(c *gin.Context) {
		var req UpdatePartnerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(errutil.BadRequest("invalid request body", err))
			return
		}

		p, err := svc.Update(c.Request.Context(), organization.ScopeFrom(c), c.Param("partnerId"), req)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, p)
	})

	g.DELETE("/:partnerId", func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), organization.ScopeFrom(c), c.Param("partnerId")); err != nil {
			c.Error(err)
			return
		}
		c.Status(http.StatusNoContent)
	})
}

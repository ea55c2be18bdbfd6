package attachment

import (
	"io"
	"net/http"

	"partnerhub/pkg/errutil"
	"partnerhub/services/organization"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, svc *Service) {
	g := r.Group("", organization.ScopeMiddleware())

	g.POST("/reports/:reportId/attachments", func(c *gin.Context) {
		header, err := c.FormFile("file")
		if err != nil {
			c.Error(errutil.BadRequest("missing file field", err))
			return
		}
		if header.Size > MaxFileSize {
			c.Error(errutil.UnprocessableEntity("file exceeds the 10MB limit", nil))
			return
		}

		f, err := header.Open()
		if err != nil {
			c.Error(errutil.BadRequest("failed to read uploaded file", err))
			return
		}
		defer f.Close()

		data, err := io.ReadAll(io.LimitReader(f, MaxFileSize+1))
		if err != nil {
			c.Error(errutil.Internal("failed to read uploaded file", err))
			return
		}

		a, err := svc.Upload(
			c.Request.Context(),
			organization.ScopeFrom(c),
			c.Param("reportId"),
			header.Filename,
			header.Header.Get("Content-Type"),
			int64(len(data)),
			data,
		)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusCreated, a)
	})

	g.GET("/reports/:reportId/attachments", func(c *gin.Context) {
		out, err := svc.ListByReport(c.Request.Context(), organization.ScopeFrom(c), c.Param("reportId"))
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, out)
	})

	g.DELETE("/attachments/:attachmentId", func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), organization.ScopeFrom(c), c.Param("attachmentId")); err != nil {
			c.Error(err)
			return
		}
		c.Status(http.StatusNoContent)
	})
}

package reporttoken

import (
	"github.com/gin-gonic/gin"

	"partnerhub/services/partner"
)

const (
	tokenContextKey   = "report.token"
	partnerContextKey = "report.partner"
)

// Guard authenticates the :token path parameter and attaches the token and
// partner to the request context. The last_used_at stamp runs off the request
// path so a slow write never delays the response.
func Guard(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, p, err := svc.Authenticate(c.Request.Context(), c.Param("token"))
		if err != nil {
			c.Error(err)
			c.Abort()
			return
		}

		c.Set(tokenContextKey, token)
		c.Set(partnerContextKey, p)

		go svc.Touch(token.ID)

		c.Next()
	}
}

// TokenFrom returns the authenticated token attached by Guard.
func TokenFrom(c *gin.Context) *ReportToken {
	if v, ok := c.Get(tokenContextKey); ok {
		if t, ok := v.(*ReportToken); ok {
			return t
		}
	}
	return nil
}

// PartnerFrom returns the authenticated partner attached by Guard.
func PartnerFrom(c *gin.Context) *partner.Partner {
	if v, ok := c.Get(partnerContextKey); ok {
		if p, ok := v.(*partner.Partner); ok {
			return p
		}
	}
	return nil
}

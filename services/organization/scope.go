package organization

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	// HeaderOrganizationID carries the tenant scope for admin requests.
	HeaderOrganizationID = "X-Organization-ID"

	scopeContextKey = "organization.scope"
)

// Scope is a required-but-nullable tenant filter. A nil OrganizationID is the
// explicit unscoped admin view, not an accidental fallthrough.
type Scope struct {
	OrganizationID *string
}

func (s Scope) Apply(tx *gorm.DB) *gorm.DB {
	if s.OrganizationID != nil {
		return tx.Where("organization_id = ?", *s.OrganizationID)
	}
	return tx
}

// ScopeMiddleware extracts the tenant scope from the request headers.
func ScopeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		scope := Scope{}
		if v := c.GetHeader(HeaderOrganizationID); v != "" {
			scope.OrganizationID = &v
		}
		c.Set(scopeContextKey, scope)
		c.Next()
	}
}

// ScopeFrom returns the tenant scope attached by ScopeMiddleware.
func ScopeFrom(c *gin.Context) Scope {
	if v, ok := c.Get(scopeContextKey); ok {
		if scope, ok := v.(Scope); ok {
			return scope
		}
	}
	return Scope{}
}

package httpapi

import (
	"net/http"

	"partnerhub/pkg/config"
	"partnerhub/pkg/health"
	"partnerhub/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

var Module = fx.Module("httpapi",
	fx.Provide(
		ProvideRouter,
		asHandler,
	),
	fx.Invoke(registerHealthRoutes),
)

// ProvideRouter returns the gin engine all services register their routes on.
func ProvideRouter(cfg *config.Config) *gin.Engine {
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.Error())
	return r
}

func asHandler(r *gin.Engine) http.Handler {
	return r
}

func registerHealthRoutes(r *gin.Engine, h health.HealthService) {
	r.GET("/healthz", h.Liveness)
	r.GET("/readyz", h.Readiness)
}

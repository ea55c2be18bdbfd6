package main

import (
	"partnerhub/internal/httpapi"
	"partnerhub/internal/migrate"
	"partnerhub/internal/server"
	"partnerhub/pkg/config"
	"partnerhub/pkg/db"
	"partnerhub/pkg/gen"
	"partnerhub/pkg/health"
	"partnerhub/pkg/logger"
	"partnerhub/pkg/mailer"
	"partnerhub/pkg/minio"
	"partnerhub/pkg/redis"
	"partnerhub/services/attachment"
	"partnerhub/services/organization"
	"partnerhub/services/partner"
	"partnerhub/services/project"
	"partnerhub/services/reminder"
	"partnerhub/services/report"
	"partnerhub/services/reporttoken"

	"go.uber.org/fx"
)

func main() {
	fx.New(
		config.Module,
		logger.Module,
		db.Module,
		redis.Module,
		gen.Module,
		mailer.Module,
		minio.Client,
		health.Module,
		migrate.Module,

		httpapi.Module,
		organization.Module,
		partner.Module,
		project.Module,
		reporttoken.Module,
		reminder.Module,
		report.Module,
		attachment.Module,

		server.Module,
	).Run()
}

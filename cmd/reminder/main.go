package main

import (
	"partnerhub/internal/migrate"
	"partnerhub/pkg/config"
	"partnerhub/pkg/db"
	"partnerhub/pkg/gen"
	"partnerhub/pkg/logger"
	"partnerhub/pkg/mailer"
	"partnerhub/pkg/redis"
	"partnerhub/pkg/task"
	"partnerhub/services/reminder"
	"partnerhub/services/reporttoken"

	"go.uber.org/fx"
)

// The reminder worker runs the batch engines only: cron enqueues, asynq
// executes. It shares the schema with the API binary.
func main() {
	fx.New(
		config.Module,
		logger.Module,
		db.Module,
		redis.Module,
		gen.Module,
		mailer.Module,
		migrate.Module,

		task.Client,
		task.Server,
		reporttoken.WorkerModule,
		reminder.WorkerModule,
	).Run()
}

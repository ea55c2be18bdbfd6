package reminder

import "go.uber.org/fx"

var Module = fx.Module("reminder.module",
	fx.Provide(NewService),
	fx.Invoke(RegisterRoutes),
)

// WorkerModule wires the batch engines behind cron and asynq, without HTTP
// routes.
var WorkerModule = fx.Module("reminder.worker",
	fx.Provide(NewService),
	fx.Invoke(RegisterCron, RegisterHandlers),
)

package reporttoken

import "go.uber.org/fx"

var Module = fx.Module("reporttoken.module",
	fx.Provide(NewService),
	fx.Invoke(RegisterRoutes),
)

// WorkerModule wires the token service without HTTP routes, for binaries that
// only run batch jobs.
var WorkerModule = fx.Module("reporttoken.worker",
	fx.Provide(NewService),
)

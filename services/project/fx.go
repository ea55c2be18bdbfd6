package project

import "go.uber.org/fx"

var Module = fx.Module("project.module",
	fx.Provide(NewService),
	fx.Invoke(RegisterRoutes),
)

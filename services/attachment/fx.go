package attachment

import "go.uber.org/fx"

var Module = fx.Module("attachment.module",
	fx.Provide(NewService),
	fx.Invoke(RegisterRoutes),
)

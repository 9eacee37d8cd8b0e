package bootstrap

import (
	"booking-engine/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	StoreModule,
	JWTModule,
	MessagingModule,
	components.UseCaseModule,
	components.HandlerModule,
	SchedulerModule,
)

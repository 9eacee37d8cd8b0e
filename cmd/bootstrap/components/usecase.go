package components

import (
	"booking-engine/internal/domain/partnership"
	"booking-engine/internal/domain/pricing"
	"booking-engine/internal/pkg/clock"
	"booking-engine/internal/pkg/config"
	"booking-engine/internal/usecase/commands"
	"booking-engine/internal/usecase/queries"
	"booking-engine/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	pricing.NewResolver,
	func(cfg config.Config) *partnership.TierResolver {
		return partnership.NewTierResolver(partnership.Thresholds{
			SilverMinRides:    cfg.Engine.SilverMinRides,
			GoldMinRides:      cfg.Engine.GoldMinRides,
			GoldMinRating:     cfg.Engine.GoldMinRating,
			PlatinumMinRides:  cfg.Engine.PlatinumMinRides,
			PlatinumMinRating: cfg.Engine.PlatinumMinRating,
		})
	},
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewListingCommands,
		commands.NewDriverCommands,
		commands.NewBookingCommands,
		func(uow shared.UnitOfWork, sink shared.NotificationSink, clk clock.Clock, cfg config.Config) commands.NegotiationCommands {
			return commands.NewNegotiationCommands(uow, sink, clk, cfg.Engine.NegotiationTTL)
		},
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewListingQueries,
		queries.NewBookingQueries,
		queries.NewDriverQueries,
	),
)

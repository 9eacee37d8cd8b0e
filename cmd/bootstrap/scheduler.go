package bootstrap

import (
	"context"
	"log/slog"

	"booking-engine/internal/infra/scheduler"
	"booking-engine/internal/pkg/config"
	"booking-engine/internal/usecase/commands"

	"go.uber.org/fx"
)

var SchedulerModule = fx.Module("scheduler",
	fx.Invoke(StartNegotiationSweeper),
)

func StartNegotiationSweeper(lc fx.Lifecycle, cfg config.Config, negotiations commands.NegotiationCommands, logger *slog.Logger) {
	if !cfg.Scheduler.NegotiationSweepEnabled {
		return
	}

	sweeper := scheduler.NewNegotiationSweeper(negotiations, cfg.Scheduler.NegotiationSweepSpec, logger)
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			return sweeper.Start()
		},
		OnStop: func(ctx context.Context) error {
			sweeper.Stop(ctx)
			return nil
		},
	})
}

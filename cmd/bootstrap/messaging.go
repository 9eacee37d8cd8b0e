package bootstrap

import (
	"context"
	"log/slog"

	"booking-engine/internal/infra/notify"
	"booking-engine/internal/pkg/config"
	"booking-engine/internal/usecase"
	"booking-engine/internal/usecase/shared"

	"go.uber.org/fx"
)

var MessagingModule = fx.Module("messaging",
	fx.Provide(
		NewHub,
		NewNotificationSink,
	),
)

func NewHub(lc fx.Lifecycle, cfg config.Config, identity usecase.IdentityProvider, logger *slog.Logger) *notify.Hub {
	hub := notify.NewHub(identity, cfg.CORS.AllowOrigins, logger)

	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go hub.Run(ctx)
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			return nil
		},
	})

	return hub
}

// NewNotificationSink fans events out to the log, live websocket clients
// and, when MQ_URL is set, the RabbitMQ exchange.
func NewNotificationSink(lc fx.Lifecycle, cfg config.Config, hub *notify.Hub, logger *slog.Logger) (shared.NotificationSink, error) {
	sinks := notify.Fanout{notify.NewLogSink(logger), hub}

	if !cfg.MQ.Enabled() {
		logger.Info("rabbitmq disabled; events go to log and websocket only")
		return sinks, nil
	}

	broker, err := notify.NewBroker(context.Background(), cfg.MQ, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			broker.Close()
			return nil
		},
	})

	return append(sinks, notify.NewAMQPSink(broker, logger)), nil
}

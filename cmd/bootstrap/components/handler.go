package components

import (
	"booking-engine/internal/handler"
	"booking-engine/internal/handler/api"
	"booking-engine/internal/handler/middleware"
	"booking-engine/internal/infra/notify"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewListingHandler,
		api.NewBookingHandler,
		api.NewNegotiationHandler,
		api.NewDriverHandler,
		func(hub *notify.Hub) *api.WSHandler {
			return api.NewWSHandler(hub)
		},
		middleware.NewIdentityMiddleware,
		func(
			listing *api.ListingHandler,
			booking *api.BookingHandler,
			negotiation *api.NegotiationHandler,
			driver *api.DriverHandler,
			ws *api.WSHandler,
		) handler.Handlers {
			return handler.Handlers{
				Listing:     listing,
				Booking:     booking,
				Negotiation: negotiation,
				Driver:      driver,
				WS:          ws,
			}
		},
	),
	fx.Invoke(handler.NewRouter),
)

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"booking-engine/internal/handler/api"
	resdto "booking-engine/internal/handler/dto/response"
	"booking-engine/internal/handler/middleware"
	"booking-engine/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Listing     *api.ListingHandler
	Booking     *api.BookingHandler
	Negotiation *api.NegotiationHandler
	Driver      *api.DriverHandler
	WS          *api.WSHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, logger *middleware.Logger, h Handlers, identity *middleware.IdentityMiddleware) {
	setupMiddleware(engine, cfg, logger)
	setupRoutes(engine, h, identity)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *middleware.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(logger.LoggingMiddleware())
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers, identity *middleware.IdentityMiddleware) {
	engine.GET("/health", healthCheck)
	// Authenticated by the first websocket frame; browsers cannot set headers on upgrade.
	engine.GET("/ws", h.WS.Serve)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		listings := apiGroup.Group("/listings")
		{
			addRoutes(listings, []route{
				{Method: http.MethodGet, Path: "/:id", Handler: h.Listing.GetListing},
				{Method: http.MethodGet, Path: "/:id/availability", Handler: h.Listing.Availability},
			})

			authRequired := listings.Group("")
			authRequired.Use(identity.RequireIdentity())
			addRoutes(authRequired, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Listing.RegisterListing},
				{Method: http.MethodGet, Path: "/:id/ledger", Handler: h.Listing.Ledger},
			})
		}

		bookings := apiGroup.Group("/bookings")
		bookings.Use(identity.RequireIdentity())
		{
			addRoutes(bookings, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Booking.CreateBooking},
				{Method: http.MethodGet, Path: "", Handler: h.Booking.ListBookings},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Booking.GetBooking},
				{Method: http.MethodPost, Path: "/:id/decision", Handler: h.Booking.DecideBooking},
				{Method: http.MethodPost, Path: "/:id/confirm", Handler: h.Booking.ConfirmBooking},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: h.Booking.CancelBooking},
				{Method: http.MethodPost, Path: "/:id/complete", Handler: h.Booking.CompleteBooking, Mw: []gin.HandlerFunc{identity.RequireAdmin()}},
			})
		}

		negotiations := apiGroup.Group("/negotiations")
		negotiations.Use(identity.RequireIdentity())
		{
			addRoutes(negotiations, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Negotiation.Propose},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Negotiation.Get},
				{Method: http.MethodPost, Path: "/:id/counter", Handler: h.Negotiation.Counter},
				{Method: http.MethodPost, Path: "/:id/accept", Handler: h.Negotiation.Accept},
				{Method: http.MethodPost, Path: "/:id/reject", Handler: h.Negotiation.Reject},
			})
		}

		drivers := apiGroup.Group("/drivers")
		drivers.Use(identity.RequireIdentity())
		{
			addRoutes(drivers, []route{
				{Method: http.MethodGet, Path: "/:id/stats", Handler: h.Driver.GetStats},
				{Method: http.MethodPut, Path: "/:id/stats", Handler: h.Driver.RecordStats, Mw: []gin.HandlerFunc{identity.RequireAdmin()}},
				{Method: http.MethodPost, Path: "/:id/tier", Handler: h.Driver.RecomputeTier, Mw: []gin.HandlerFunc{identity.RequireAdmin()}},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} resdto.HealthResponse
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, resdto.HealthResponse{
		Status:  "ok",
		Message: "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"staybook/internal/domain/user"
	"staybook/internal/handler/api"
	"staybook/internal/handler/middleware"
	"staybook/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	reservationHandler *api.ReservationHandler,
	paymentHandler *api.PaymentHandler,
	webhookHandler *api.WebhookHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, reservationHandler, paymentHandler, webhookHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	reservationHandler *api.ReservationHandler,
	paymentHandler *api.PaymentHandler,
	webhookHandler *api.WebhookHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Webhooks authenticate by signature, not bearer token.
	engine.POST("/webhooks/payments", webhookHandler.HandlePaymentEvent)

	apiGroup := engine.Group("/api")
	{
		reservations := apiGroup.Group("/reservations")
		reservations.Use(authMiddleware.RequireAuth())
		{
			addRoutes(reservations, []route{
				{Method: http.MethodPost, Path: "", Handler: reservationHandler.Create},
				{Method: http.MethodGet, Path: "", Handler: reservationHandler.ListMine},
				{Method: http.MethodGet, Path: "/hosting", Handler: reservationHandler.ListHosting},
				{Method: http.MethodGet, Path: "/:id", Handler: reservationHandler.Get},
				{Method: http.MethodPost, Path: "/:id/confirm", Handler: reservationHandler.Confirm},
				{Method: http.MethodPost, Path: "/:id/reject", Handler: reservationHandler.Reject},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: reservationHandler.Cancel},
				{Method: http.MethodPost, Path: "/:id/check-in", Handler: reservationHandler.CheckIn},
				{Method: http.MethodPost, Path: "/:id/check-out", Handler: reservationHandler.CheckOut},
				{Method: http.MethodPost, Path: "/:id/payments", Handler: paymentHandler.Initiate},
				{Method: http.MethodGet, Path: "/:id/payments", Handler: paymentHandler.ListByReservation},
			})

			adminReservations := reservations.Group("")
			adminReservations.Use(authMiddleware.RequireRole(user.RoleAdmin))
			addRoutes(adminReservations, []route{
				{Method: http.MethodPost, Path: "/:id/force-cancel", Handler: reservationHandler.ForceCancel},
			})
		}

		payments := apiGroup.Group("/payments")
		payments.Use(authMiddleware.RequireAuth())
		{
			addRoutes(payments, []route{
				{Method: http.MethodGet, Path: "/:id", Handler: paymentHandler.Get},
			})

			admin := payments.Group("")
			admin.Use(authMiddleware.RequireRole(user.RoleAdmin))
			addRoutes(admin, []route{
				{Method: http.MethodPost, Path: "/:id/release", Handler: paymentHandler.Release},
				{Method: http.MethodPost, Path: "/:id/refund", Handler: paymentHandler.Refund},
				{Method: http.MethodPost, Path: "/:id/dispute", Handler: paymentHandler.Dispute},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
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

package routes

import (
	"github.com/gin-gonic/gin"

	"invitio/internal/interfaces/http/handlers"
	"invitio/internal/interfaces/http/middleware"
)

// CheckoutRouteConfig holds dependencies for checkout routes.
type CheckoutRouteConfig struct {
	CheckoutHandler *handlers.CheckoutHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

// SetupCheckoutRoutes configures the purchase flow routes. The resolve route
// serves both the in-app resolution call and the return leg of the provider's
// strong-auth redirect.
func SetupCheckoutRoutes(api *gin.RouterGroup, cfg *CheckoutRouteConfig) {
	checkout := api.Group("/checkout")
	checkout.Use(cfg.AuthMiddleware.RequireAuth())
	{
		checkout.POST("", cfg.CheckoutHandler.SubmitPurchase)
		checkout.POST("/resolve", cfg.CheckoutHandler.ResolveOutcome)
		checkout.GET("/resolve", cfg.CheckoutHandler.ResolveOutcome)
		checkout.GET("/:transaction_id/status", cfg.CheckoutHandler.GetStatus)
	}
}

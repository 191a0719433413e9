package routes

import (
	"github.com/gin-gonic/gin"

	"invitio/internal/interfaces/http/handlers"
	"invitio/internal/interfaces/http/middleware"
)

// SubscriptionRouteConfig holds dependencies for subscription routes.
type SubscriptionRouteConfig struct {
	SubscriptionHandler *handlers.SubscriptionHandler
	EntitlementHandler  *handlers.EntitlementHandler
	AuthMiddleware      *middleware.AuthMiddleware
}

// SetupSubscriptionRoutes configures subscription and entitlement routes.
func SetupSubscriptionRoutes(api *gin.RouterGroup, cfg *SubscriptionRouteConfig) {
	subscription := api.Group("/subscription")
	subscription.Use(cfg.AuthMiddleware.RequireAuth())
	{
		subscription.GET("", cfg.SubscriptionHandler.GetSubscription)
		subscription.POST("/cancel", cfg.SubscriptionHandler.CancelSubscription)
		subscription.GET("/history", cfg.SubscriptionHandler.GetPaymentHistory)
	}

	entitlements := api.Group("/entitlements")
	entitlements.Use(cfg.AuthMiddleware.RequireAuth())
	{
		entitlements.GET("/check", cfg.EntitlementHandler.CheckEntitlement)
	}
}

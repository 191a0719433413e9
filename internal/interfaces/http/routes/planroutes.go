package routes

import (
	"github.com/gin-gonic/gin"

	"invitio/internal/interfaces/http/handlers"
)

// PlanRouteConfig holds dependencies for plan catalog routes.
type PlanRouteConfig struct {
	PlanHandler *handlers.PlanHandler
}

// SetupPlanRoutes configures the public plan catalog routes.
func SetupPlanRoutes(api *gin.RouterGroup, cfg *PlanRouteConfig) {
	plans := api.Group("/plans")
	{
		plans.GET("", cfg.PlanHandler.ListPlans)
		plans.GET("/:tier/entitlements", cfg.PlanHandler.GetPlan)
	}
}

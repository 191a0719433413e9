package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	planUsecases "invitio/internal/application/plan/usecases"
	"invitio/internal/shared/logger"
	"invitio/internal/shared/utils"
)

// PlanHandler serves the public plan catalog.
type PlanHandler struct {
	listPlansUC           *planUsecases.ListPlansUseCase
	getPlanEntitlementsUC *planUsecases.GetPlanEntitlementsUseCase
	logger                logger.Interface
}

func NewPlanHandler(
	listPlansUC *planUsecases.ListPlansUseCase,
	getPlanEntitlementsUC *planUsecases.GetPlanEntitlementsUseCase,
	logger logger.Interface,
) *PlanHandler {
	return &PlanHandler{
		listPlansUC:           listPlansUC,
		getPlanEntitlementsUC: getPlanEntitlementsUC,
		logger:                logger,
	}
}

// ListPlans returns every tier with its prices and entitlements
func (h *PlanHandler) ListPlans(c *gin.Context) {
	plans := h.listPlansUC.Execute(c.Request.Context())
	utils.OKResponse(c, plans)
}

// GetPlan returns one tier's definition
func (h *PlanHandler) GetPlan(c *gin.Context) {
	result, err := h.getPlanEntitlementsUC.Execute(c.Request.Context(), c.Param("tier"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", result)
}

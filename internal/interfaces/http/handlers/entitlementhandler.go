package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	entitlementUsecases "invitio/internal/application/entitlement/usecases"
	"invitio/internal/interfaces/http/middleware"
	"invitio/internal/shared/logger"
	"invitio/internal/shared/utils"
)

// EntitlementHandler answers feature gating questions for the authenticated
// account.
type EntitlementHandler struct {
	checkUC *entitlementUsecases.CheckEntitlementUseCase
	logger  logger.Interface
}

func NewEntitlementHandler(
	checkUC *entitlementUsecases.CheckEntitlementUseCase,
	logger logger.Interface,
) *EntitlementHandler {
	return &EntitlementHandler{
		checkUC: checkUC,
		logger:  logger,
	}
}

// CheckEntitlement reports whether the account may use a feature. Counted
// features take the current usage via the `usage` query parameter.
func (h *EntitlementHandler) CheckEntitlement(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "account not authenticated")
		return
	}

	feature := c.Query("feature")
	if feature == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "feature is required")
		return
	}

	usage := 0
	if raw := c.Query("usage"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			utils.ErrorResponse(c, http.StatusBadRequest, "usage must be a non-negative integer")
			return
		}
		usage = parsed
	}

	result, err := h.checkUC.Execute(c.Request.Context(), entitlementUsecases.CheckEntitlementQuery{
		AccountID: accountID,
		Feature:   feature,
		Usage:     usage,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

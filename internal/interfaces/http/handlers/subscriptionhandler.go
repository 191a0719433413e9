package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	subscriptionUsecases "invitio/internal/application/subscription/usecases"
	"invitio/internal/interfaces/http/middleware"
	"invitio/internal/shared/logger"
	"invitio/internal/shared/utils"
)

// SubscriptionHandler serves the account's subscription view, cancellation
// and payment history.
type SubscriptionHandler struct {
	getSubscriptionUC   *subscriptionUsecases.GetSubscriptionUseCase
	cancelUC            *subscriptionUsecases.CancelSubscriptionUseCase
	getPaymentHistoryUC *subscriptionUsecases.GetPaymentHistoryUseCase
	logger              logger.Interface
}

func NewSubscriptionHandler(
	getSubscriptionUC *subscriptionUsecases.GetSubscriptionUseCase,
	cancelUC *subscriptionUsecases.CancelSubscriptionUseCase,
	getPaymentHistoryUC *subscriptionUsecases.GetPaymentHistoryUseCase,
	logger logger.Interface,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		getSubscriptionUC:   getSubscriptionUC,
		cancelUC:            cancelUC,
		getPaymentHistoryUC: getPaymentHistoryUC,
		logger:              logger,
	}
}

// GetSubscription returns the account's current subscription
func (h *SubscriptionHandler) GetSubscription(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "account not authenticated")
		return
	}

	result, err := h.getSubscriptionUC.Execute(c.Request.Context(),
		subscriptionUsecases.GetSubscriptionQuery{AccountID: accountID})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

type CancelSubscriptionRequest struct {
	Reason string `json:"reason"`
}

// CancelSubscription ends the account's subscription. Inside the cooling-off
// window the payment is refunded and the account reverts to free immediately.
func (h *SubscriptionHandler) CancelSubscription(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "account not authenticated")
		return
	}

	var req CancelSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	result, err := h.cancelUC.Execute(c.Request.Context(), subscriptionUsecases.CancelSubscriptionCommand{
		AccountID: accountID,
		Reason:    req.Reason,
	})
	if err != nil {
		h.logger.Warnw("cancellation failed", "error", err, "account_id", accountID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// GetPaymentHistory lists the account's payment ledger, newest first
func (h *SubscriptionHandler) GetPaymentHistory(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "account not authenticated")
		return
	}

	result, err := h.getPaymentHistoryUC.Execute(c.Request.Context(),
		subscriptionUsecases.GetPaymentHistoryQuery{AccountID: accountID})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

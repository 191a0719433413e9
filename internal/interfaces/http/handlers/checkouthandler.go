package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	checkoutUsecases "invitio/internal/application/checkout/usecases"
	"invitio/internal/domain/billing"
	"invitio/internal/domain/plan"
	"invitio/internal/interfaces/http/middleware"
	"invitio/internal/shared/constants"
	"invitio/internal/shared/logger"
	"invitio/internal/shared/utils"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("tier", func(fl validator.FieldLevel) bool {
			_, err := plan.ParseTier(fl.Field().String())
			return err == nil
		})
	}
}

// CheckoutHandler drives the purchase flow: submission, resolution after the
// strong-auth redirect, and status lookup.
type CheckoutHandler struct {
	submitUC  *checkoutUsecases.SubmitPurchaseUseCase
	resolveUC *checkoutUsecases.ResolveOutcomeUseCase
	statusUC  *checkoutUsecases.GetCheckoutStatusUseCase
	logger    logger.Interface
}

func NewCheckoutHandler(
	submitUC *checkoutUsecases.SubmitPurchaseUseCase,
	resolveUC *checkoutUsecases.ResolveOutcomeUseCase,
	statusUC *checkoutUsecases.GetCheckoutStatusUseCase,
	logger logger.Interface,
) *CheckoutHandler {
	return &CheckoutHandler{
		submitUC:  submitUC,
		resolveUC: resolveUC,
		statusUC:  statusUC,
		logger:    logger,
	}
}

type cardRequest struct {
	HolderName  string `json:"holder_name" binding:"required"`
	Number      string `json:"number" binding:"required"`
	ExpireMonth string `json:"expire_month" binding:"required"`
	ExpireYear  string `json:"expire_year" binding:"required"`
	CVC         string `json:"cvc" binding:"required"`
}

type addressRequest struct {
	FullName string `json:"full_name"`
	Address  string `json:"address"`
	City     string `json:"city"`
	Country  string `json:"country"`
	ZipCode  string `json:"zip_code"`
}

type SubmitPurchaseRequest struct {
	Tier         string         `json:"tier" binding:"required,tier"`
	Period       string         `json:"period" binding:"required,oneof=monthly yearly"`
	CustomerName string         `json:"customer_name" binding:"required"`
	Card         cardRequest    `json:"card" binding:"required"`
	Address      addressRequest `json:"address"`
	// TransactionID is set only when retrying an attempt that timed out.
	TransactionID string `json:"transaction_id"`
}

// SubmitPurchase starts a purchase attempt for the authenticated account
func (h *CheckoutHandler) SubmitPurchase(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "account not authenticated")
		return
	}

	var req SubmitPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	cmd := checkoutUsecases.SubmitPurchaseCommand{
		AccountID:     accountID,
		Tier:          req.Tier,
		Period:        req.Period,
		CustomerEmail: c.GetString(constants.ContextKeyAccountEmail),
		CustomerName:  req.CustomerName,
		Address: billing.BillingAddress{
			FullName: req.Address.FullName,
			Address:  req.Address.Address,
			City:     req.Address.City,
			Country:  req.Address.Country,
			ZipCode:  req.Address.ZipCode,
		},
		Card: billing.CardDetails{
			HolderName:  req.Card.HolderName,
			Number:      req.Card.Number,
			ExpireMonth: req.Card.ExpireMonth,
			ExpireYear:  req.Card.ExpireYear,
			CVC:         req.Card.CVC,
		},
		IdempotencyKey: req.TransactionID,
	}

	result, err := h.submitUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		h.logger.Warnw("purchase submission failed", "error", err, "account_id", accountID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

type ResolveOutcomeRequest struct {
	TransactionID string `json:"transaction_id"`
	Success       string `json:"success"`
	Status        string `json:"status"`
	Error         string `json:"error"`
}

// ResolveOutcome finalizes an attempt after the strong-auth redirect. The
// transaction ID and the provider's outcome hints may arrive in the body or,
// for the provider's redirect, as query parameters.
func (h *CheckoutHandler) ResolveOutcome(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "account not authenticated")
		return
	}

	txnID := c.Query("transaction_id")
	hint := checkoutUsecases.RedirectHint{
		Success: c.Query("success"),
		Status:  c.Query("status"),
		Error:   c.Query("error"),
	}
	if txnID == "" {
		var req ResolveOutcomeRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			txnID = req.TransactionID
			hint = checkoutUsecases.RedirectHint{
				Success: req.Success,
				Status:  req.Status,
				Error:   req.Error,
			}
		}
	}
	if !billing.ValidIdempotencyKey(txnID) {
		utils.ErrorResponse(c, http.StatusBadRequest, "transaction ID is missing or malformed")
		return
	}

	result, err := h.resolveUC.Execute(c.Request.Context(), checkoutUsecases.ResolveOutcomeCommand{
		IdempotencyKey: txnID,
		AccountID:      accountID,
		Hint:           hint,
	})
	if err != nil {
		h.logger.Warnw("outcome resolution failed",
			"error", err, "account_id", accountID, "transaction_id", txnID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// GetStatus reports the current state of one purchase attempt
func (h *CheckoutHandler) GetStatus(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "account not authenticated")
		return
	}

	result, err := h.statusUC.Execute(c.Request.Context(), checkoutUsecases.GetCheckoutStatusQuery{
		IdempotencyKey: c.Param("transaction_id"),
		AccountID:      accountID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

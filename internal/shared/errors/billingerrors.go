package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Billing-specific error types
const (
	ErrorTypeGatewayTimeout      ErrorType = "gateway_timeout"
	ErrorTypeGatewayDecline      ErrorType = "gateway_decline"
	ErrorTypeDuplicateSubmission ErrorType = "duplicate_submission"
	ErrorTypeAmountMismatch      ErrorType = "amount_mismatch"
	ErrorTypeInvalidTransition   ErrorType = "invalid_transition"
	ErrorTypeUnknownOutcome      ErrorType = "unknown_outcome"
)

// BillingError represents payment and lifecycle errors with retry/review semantics
type BillingError struct {
	*AppError
	// Retryable indicates the caller may retry with the same idempotency key
	Retryable bool
	// RequiresReview indicates the error must be reconciled out-of-band and
	// must never be auto-resolved
	RequiresReview bool
}

// Error implements the error interface
func (e *BillingError) Error() string {
	return e.AppError.Error()
}

// Unwrap allows errors.Is and errors.As to work correctly
func (e *BillingError) Unwrap() error {
	return e.AppError
}

// NewGatewayTimeoutError creates an error for a gateway round trip that did not
// complete. The same idempotency key must be reused on retry.
func NewGatewayTimeoutError(details ...string) *BillingError {
	detail := "The payment provider did not respond in time"
	if len(details) > 0 {
		detail = details[0]
	}
	return &BillingError{
		AppError: &AppError{
			Type:    ErrorTypeGatewayTimeout,
			Message: "Payment provider timeout",
			Code:    http.StatusGatewayTimeout,
			Details: detail,
		},
		Retryable: true,
	}
}

// NewGatewayDeclineError creates an error for a gateway-reported decline.
// Terminal for this attempt: a retry needs new payment details and a new key.
func NewGatewayDeclineError(code, message string) *BillingError {
	return &BillingError{
		AppError: &AppError{
			Type:    ErrorTypeGatewayDecline,
			Message: "Payment was declined",
			Code:    http.StatusPaymentRequired,
			Details: fmt.Sprintf("%s: %s", code, message),
		},
	}
}

// NewDuplicateSubmissionError creates an error for a second submission carrying
// an idempotency key that is already in flight or already resolved.
func NewDuplicateSubmissionError(idempotencyKey string) *BillingError {
	return &BillingError{
		AppError: &AppError{
			Type:    ErrorTypeDuplicateSubmission,
			Message: "Purchase attempt already submitted",
			Code:    http.StatusConflict,
			Details: fmt.Sprintf("idempotency key %s", idempotencyKey),
		},
	}
}

// NewAmountMismatchError creates an integrity error for a disagreement between
// the locally quoted amount and the amount the gateway reports.
func NewAmountMismatchError(details string) *BillingError {
	return &BillingError{
		AppError: &AppError{
			Type:    ErrorTypeAmountMismatch,
			Message: "Payment amount does not match the quoted amount",
			Code:    http.StatusConflict,
			Details: details,
		},
		RequiresReview: true,
	}
}

// NewInvalidTransitionError creates an error for a subscription state change
// the lifecycle state machine does not allow.
func NewInvalidTransitionError(from, requested string) *BillingError {
	return &BillingError{
		AppError: &AppError{
			Type:    ErrorTypeInvalidTransition,
			Message: "Subscription state change not allowed",
			Code:    http.StatusConflict,
			Details: fmt.Sprintf("cannot %s from %s", requested, from),
		},
	}
}

// NewUnknownOutcomeError creates an error for a resolution attempt that
// exhausted its status polls without reaching a terminal outcome.
func NewUnknownOutcomeError(idempotencyKey string) *BillingError {
	return &BillingError{
		AppError: &AppError{
			Type:    ErrorTypeUnknownOutcome,
			Message: "Payment status could not be determined",
			Code:    http.StatusAccepted,
			Details: fmt.Sprintf("idempotency key %s requires manual reconciliation", idempotencyKey),
		},
		RequiresReview: true,
	}
}

// IsBillingError checks if the error is a BillingError (supports wrapped errors)
func IsBillingError(err error) bool {
	var billingErr *BillingError
	return stderrors.As(err, &billingErr)
}

// GetBillingError extracts BillingError from error chain
func GetBillingError(err error) *BillingError {
	var billingErr *BillingError
	if stderrors.As(err, &billingErr) {
		return billingErr
	}
	return nil
}

// IsRetryable returns true if the caller may retry with the same idempotency key
func IsRetryable(err error) bool {
	if billingErr := GetBillingError(err); billingErr != nil {
		return billingErr.Retryable
	}
	return false
}

// RequiresManualReview returns true if the error must be reconciled out-of-band
func RequiresManualReview(err error) bool {
	if billingErr := GetBillingError(err); billingErr != nil {
		return billingErr.RequiresReview
	}
	return false
}

// IsErrorType reports whether err carries the given application error type.
func IsErrorType(err error, t ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == t
}

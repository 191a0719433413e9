package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// HTTP Headers
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"

	// Content Types
	ContentTypeJSON = "application/json"

	// Context keys
	ContextKeyAccountID    = "account_id"
	ContextKeyAccountEmail = "account_email"
	ContextKeyAccountName  = "account_name"
	ContextKeyRequestID    = "request_id"

	// Database table names
	TableSubscriptions = "subscriptions"
	TablePaymentLedger = "payment_ledger"

	// Error messages
	ErrMsgInternalServerError = "Internal server error occurred"
	ErrMsgResourceNotFound    = "Resource not found"
	ErrMsgUnauthorized        = "Unauthorized access"
)

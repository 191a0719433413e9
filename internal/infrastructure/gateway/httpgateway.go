// Package gateway implements the card payment provider client over its
// signed JSON HTTP API.
package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	checkoutGateway "invitio/internal/application/checkout/gateway"
	"invitio/internal/domain/billing"
	vo "invitio/internal/domain/billing/valueobjects"
	sharedConfig "invitio/internal/shared/config"
	apperrors "invitio/internal/shared/errors"
	"invitio/internal/shared/logger"
)

const (
	paymentsPath = "/v1/payments"
	refundsPath  = "/v1/refunds"

	defaultRequestTimeout = 15 * time.Second
	// Maximum response body size (256KB); strong-auth payloads are the
	// largest documents the provider returns
	maxResponseSize = 256 << 10

	diagnosticUnmappedStatus = "unmapped_status"
)

// paymentPayload is the wire form of one purchase submission
type paymentPayload struct {
	TransactionID string `json:"transaction_id"`
	AmountMinor   int64  `json:"amount_minor"`
	Currency      string `json:"currency"`
	CallbackURL   string `json:"callback_url"`
	CustomerEmail string `json:"customer_email"`
	CustomerName  string `json:"customer_name"`
	Card          struct {
		HolderName  string `json:"holder_name"`
		Number      string `json:"number"`
		ExpireMonth string `json:"expire_month"`
		ExpireYear  string `json:"expire_year"`
		CVC         string `json:"cvc"`
	} `json:"card"`
	BillingAddress struct {
		FullName string `json:"full_name"`
		Address  string `json:"address"`
		City     string `json:"city"`
		Country  string `json:"country"`
		ZipCode  string `json:"zip_code"`
	} `json:"billing_address"`
}

type refundPayload struct {
	RefundID    string `json:"refund_id"`
	ProviderRef string `json:"provider_ref"`
	AmountMinor int64  `json:"amount_minor"`
	Currency    string `json:"currency"`
	Reason      string `json:"reason,omitempty"`
}

// providerResponse is the provider's envelope for payment and status calls
type providerResponse struct {
	TransactionID   string `json:"transaction_id"`
	Status          string `json:"status"`
	ProviderRef     string `json:"provider_ref"`
	AmountMinor     int64  `json:"amount_minor"`
	Currency        string `json:"currency"`
	RedirectPayload string `json:"redirect_payload,omitempty"`
	ErrorCode       string `json:"error_code,omitempty"`
	ErrorMessage    string `json:"error_message,omitempty"`
}

type refundResponse struct {
	RefundRef    string `json:"refund_ref"`
	Status       string `json:"status"`
	ErrorCode    string `json:"error_code,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// HTTPGateway talks to the payment provider's REST API. Every request body is
// signed with HMAC-SHA256 over the raw bytes.
type HTTPGateway struct {
	baseURL    string
	apiKey     string
	apiSecret  string
	returnURL  string
	httpClient *http.Client
	logger     logger.Interface
}

// NewHTTPGateway creates a provider client from gateway configuration
func NewHTTPGateway(cfg sharedConfig.GatewayConfig, logger logger.Interface) *HTTPGateway {
	timeout := defaultRequestTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return &HTTPGateway{
		baseURL:   cfg.BaseURL,
		apiKey:    cfg.APIKey,
		apiSecret: cfg.APISecret,
		returnURL: cfg.ReturnURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.Named("payment-gateway"),
	}
}

var _ checkoutGateway.PaymentGateway = (*HTTPGateway)(nil)

// Submit sends one purchase attempt to the provider
func (g *HTTPGateway) Submit(ctx context.Context, req billing.PaymentRequest) (billing.PaymentOutcome, error) {
	payload := paymentPayload{
		TransactionID: req.IdempotencyKey,
		AmountMinor:   req.Amount.AmountMinor(),
		Currency:      req.Amount.Currency(),
		CallbackURL:   g.callbackURL(req.IdempotencyKey),
		CustomerEmail: req.CustomerEmail,
		CustomerName:  req.CustomerName,
	}
	payload.Card.HolderName = req.Card.HolderName
	payload.Card.Number = req.Card.Number
	payload.Card.ExpireMonth = req.Card.ExpireMonth
	payload.Card.ExpireYear = req.Card.ExpireYear
	payload.Card.CVC = req.Card.CVC
	payload.BillingAddress.FullName = req.Address.FullName
	payload.BillingAddress.Address = req.Address.Address
	payload.BillingAddress.City = req.Address.City
	payload.BillingAddress.Country = req.Address.Country
	payload.BillingAddress.ZipCode = req.Address.ZipCode

	var resp providerResponse
	if err := g.post(ctx, paymentsPath, payload, &resp); err != nil {
		return billing.PaymentOutcome{}, err
	}

	return g.toOutcome(req.IdempotencyKey, resp), nil
}

// QueryStatus fetches the provider's current view of an attempt
func (g *HTTPGateway) QueryStatus(ctx context.Context, idempotencyKey string) (billing.PaymentOutcome, error) {
	var resp providerResponse
	if err := g.get(ctx, paymentsPath+"/"+url.PathEscape(idempotencyKey), &resp); err != nil {
		return billing.PaymentOutcome{}, err
	}
	return g.toOutcome(idempotencyKey, resp), nil
}

// Refund reverses a settled payment and returns the provider's refund reference
func (g *HTTPGateway) Refund(ctx context.Context, req checkoutGateway.RefundRequest) (string, error) {
	payload := refundPayload{
		RefundID:    req.RefundRef,
		ProviderRef: req.ProviderRef,
		AmountMinor: req.Amount.AmountMinor(),
		Currency:    req.Amount.Currency(),
		Reason:      req.Reason,
	}

	var resp refundResponse
	if err := g.post(ctx, refundsPath, payload, &resp); err != nil {
		return "", err
	}

	if resp.Status != "success" {
		g.logger.Warnw("provider rejected refund",
			"refund_id", req.RefundRef,
			"provider_ref", req.ProviderRef,
			"error_code", resp.ErrorCode,
		)
		return "", apperrors.NewGatewayDeclineError(resp.ErrorCode, resp.ErrorMessage)
	}

	return resp.RefundRef, nil
}

// toOutcome maps the provider envelope into the closed outcome set. Statuses
// this client does not know map to a failure outcome with a diagnostic code,
// never to a new state.
func (g *HTTPGateway) toOutcome(idempotencyKey string, resp providerResponse) billing.PaymentOutcome {
	outcome := billing.PaymentOutcome{
		IdempotencyKey:    idempotencyKey,
		ProviderRef:       resp.ProviderRef,
		Amount:            vo.NewMoney(resp.AmountMinor, resp.Currency),
		RedirectPayload:   resp.RedirectPayload,
		DiagnosticCode:    resp.ErrorCode,
		DiagnosticMessage: resp.ErrorMessage,
	}

	status := vo.OutcomeStatus(resp.Status)
	if !status.IsValid() {
		g.logger.Warnw("provider returned unmapped status, treating as failure",
			"transaction_id", idempotencyKey,
			"provider_status", resp.Status,
		)
		outcome.Status = vo.StatusFailure
		outcome.DiagnosticCode = diagnosticUnmappedStatus
		outcome.DiagnosticMessage = fmt.Sprintf("provider status %q is not recognized", resp.Status)
		return outcome
	}

	outcome.Status = status
	return outcome
}

func (g *HTTPGateway) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	g.sign(req, body)

	return g.do(req, out)
}

func (g *HTTPGateway) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	g.sign(req, nil)

	return g.do(req, out)
}

func (g *HTTPGateway) do(req *http.Request, out any) error {
	resp, err := g.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return apperrors.NewGatewayTimeoutError()
		}
		return apperrors.NewGatewayTimeoutError(fmt.Sprintf("provider unreachable: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return apperrors.NewGatewayTimeoutError(fmt.Sprintf("provider returned status %d", resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return apperrors.NewInternalError("payment provider request rejected",
			fmt.Sprintf("unexpected status code %d", resp.StatusCode))
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(out); err != nil {
		return fmt.Errorf("failed to decode provider response: %w", err)
	}
	return nil
}

// sign sets the authentication headers. The signature covers the raw request
// body; GET requests sign the request path instead.
func (g *HTTPGateway) sign(req *http.Request, body []byte) {
	mac := hmac.New(sha256.New, []byte(g.apiSecret))
	if len(body) > 0 {
		mac.Write(body)
	} else {
		mac.Write([]byte(req.URL.Path))
	}
	req.Header.Set("X-Api-Key", g.apiKey)
	req.Header.Set("X-Signature", hex.EncodeToString(mac.Sum(nil)))
}

func (g *HTTPGateway) callbackURL(idempotencyKey string) string {
	if g.returnURL == "" {
		return ""
	}
	return g.returnURL + "?transaction_id=" + url.QueryEscape(idempotencyKey)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

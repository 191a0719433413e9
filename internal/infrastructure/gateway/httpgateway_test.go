package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	checkoutGateway "invitio/internal/application/checkout/gateway"
	"invitio/internal/domain/billing"
	vo "invitio/internal/domain/billing/valueobjects"
	"invitio/internal/domain/plan"
	sharedConfig "invitio/internal/shared/config"
	apperrors "invitio/internal/shared/errors"
	"invitio/internal/shared/logger"
)

func testGateway(baseURL string) *HTTPGateway {
	return NewHTTPGateway(sharedConfig.GatewayConfig{
		BaseURL:        baseURL,
		APIKey:         "key-test",
		APISecret:      "secret-test",
		TimeoutSeconds: 2,
		ReturnURL:      "https://app.invitio.local/checkout/resolve",
	}, logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func testPaymentRequest() billing.PaymentRequest {
	return billing.PaymentRequest{
		IdempotencyKey: billing.NewIdempotencyKey(),
		AccountID:      "acct_42",
		Tier:           plan.TierPro,
		Period:         vo.PeriodMonthly,
		Amount:         vo.NewMoney(7900, "TRY"),
		CustomerEmail:  "buyer@example.com",
		CustomerName:   "Ada Buyer",
		Card: billing.CardDetails{
			HolderName:  "Ada Buyer",
			Number:      "4111111111111111",
			ExpireMonth: "12",
			ExpireYear:  "2030",
			CVC:         "123",
		},
	}
}

func TestHTTPGateway_SubmitSuccess(t *testing.T) {
	var gotBody []byte
	var gotSignature, gotAPIKey string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, paymentsPath, r.URL.Path)
		gotAPIKey = r.Header.Get("X-Api-Key")
		gotSignature = r.Header.Get("X-Signature")
		gotBody, _ = io.ReadAll(r.Body)

		var payload paymentPayload
		require.NoError(t, json.Unmarshal(gotBody, &payload))
		assert.Equal(t, int64(7900), payload.AmountMinor)
		assert.Equal(t, "TRY", payload.Currency)
		assert.Contains(t, payload.CallbackURL, "transaction_id="+payload.TransactionID)

		json.NewEncoder(w).Encode(providerResponse{
			TransactionID: payload.TransactionID,
			Status:        "success",
			ProviderRef:   "prov-001",
			AmountMinor:   7900,
			Currency:      "TRY",
		})
	}))
	defer srv.Close()

	g := testGateway(srv.URL)
	req := testPaymentRequest()

	outcome, err := g.Submit(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, vo.StatusSuccess, outcome.Status)
	assert.Equal(t, "prov-001", outcome.ProviderRef)
	assert.Equal(t, int64(7900), outcome.Amount.AmountMinor())
	assert.Equal(t, req.IdempotencyKey, outcome.IdempotencyKey)

	assert.Equal(t, "key-test", gotAPIKey)
	mac := hmac.New(sha256.New, []byte("secret-test"))
	mac.Write(gotBody)
	assert.Equal(t, hex.EncodeToString(mac.Sum(nil)), gotSignature)
}

func TestHTTPGateway_SubmitStrongAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(providerResponse{
			Status:          "waiting_strong_auth",
			ProviderRef:     "prov-3ds",
			AmountMinor:     129000,
			Currency:        "TRY",
			RedirectPayload: "<html>3ds challenge</html>",
		})
	}))
	defer srv.Close()

	outcome, err := testGateway(srv.URL).Submit(context.Background(), testPaymentRequest())
	require.NoError(t, err)
	assert.Equal(t, vo.StatusWaitingStrongAuth, outcome.Status)
	assert.Equal(t, "<html>3ds challenge</html>", outcome.RedirectPayload)
	assert.False(t, outcome.IsTerminal())
}

func TestHTTPGateway_UnmappedStatusBecomesFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(providerResponse{
			Status:      "charged_back_maybe",
			AmountMinor: 7900,
			Currency:    "TRY",
		})
	}))
	defer srv.Close()

	outcome, err := testGateway(srv.URL).Submit(context.Background(), testPaymentRequest())
	require.NoError(t, err)
	assert.Equal(t, vo.StatusFailure, outcome.Status)
	assert.Equal(t, diagnosticUnmappedStatus, outcome.DiagnosticCode)
	assert.Contains(t, outcome.DiagnosticMessage, "charged_back_maybe")
}

func TestHTTPGateway_QueryStatus(t *testing.T) {
	key := billing.NewIdempotencyKey()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, paymentsPath+"/"+key, r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Signature"))
		json.NewEncoder(w).Encode(providerResponse{
			TransactionID: key,
			Status:        "pending",
			AmountMinor:   7900,
			Currency:      "TRY",
		})
	}))
	defer srv.Close()

	outcome, err := testGateway(srv.URL).QueryStatus(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, vo.StatusPending, outcome.Status)
	assert.Equal(t, key, outcome.IdempotencyKey)
}

func TestHTTPGateway_TimeoutMapsToGatewayTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	g := testGateway(srv.URL)
	g.httpClient.Timeout = 50 * time.Millisecond

	_, err := g.Submit(context.Background(), testPaymentRequest())
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeGatewayTimeout))
	assert.True(t, apperrors.IsRetryable(err))
}

func TestHTTPGateway_ServerErrorIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := testGateway(srv.URL).QueryStatus(context.Background(), billing.NewIdempotencyKey())
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeGatewayTimeout))
}

func TestHTTPGateway_Refund(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, refundsPath, r.URL.Path)
		var payload refundPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "prov-001", payload.ProviderRef)
		assert.Equal(t, int64(7900), payload.AmountMinor)
		json.NewEncoder(w).Encode(refundResponse{
			RefundRef: "prov-refund-9",
			Status:    "success",
		})
	}))
	defer srv.Close()

	ref, err := testGateway(srv.URL).Refund(context.Background(), checkoutGateway.RefundRequest{
		RefundRef:   "rfn_abc",
		ProviderRef: "prov-001",
		Amount:      vo.NewMoney(7900, "TRY"),
		Reason:      "cooling-off cancellation",
	})
	require.NoError(t, err)
	assert.Equal(t, "prov-refund-9", ref)
}

func TestHTTPGateway_RefundRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(refundResponse{
			Status:       "failure",
			ErrorCode:    "20010",
			ErrorMessage: "refund window closed on provider side",
		})
	}))
	defer srv.Close()

	_, err := testGateway(srv.URL).Refund(context.Background(), checkoutGateway.RefundRequest{
		RefundRef:   "rfn_abc",
		ProviderRef: "prov-001",
		Amount:      vo.NewMoney(7900, "TRY"),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeGatewayDecline))
}

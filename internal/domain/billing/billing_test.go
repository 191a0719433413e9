package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "invitio/internal/domain/billing/valueobjects"
	"invitio/internal/domain/plan"
)

func TestNewIdempotencyKey(t *testing.T) {
	k1 := NewIdempotencyKey()
	k2 := NewIdempotencyKey()

	assert.True(t, ValidIdempotencyKey(k1))
	assert.True(t, ValidIdempotencyKey(k2))
	assert.NotEqual(t, k1, k2)
}

func TestValidIdempotencyKey(t *testing.T) {
	assert.False(t, ValidIdempotencyKey(""))
	assert.False(t, ValidIdempotencyKey("txn"))
	assert.False(t, ValidIdempotencyKey("order_abc123"))
	assert.False(t, ValidIdempotencyKey("rfn_abc123DEF456"))
	assert.True(t, ValidIdempotencyKey("txn_abc123DEF456"))
}

func TestValidRefundRef(t *testing.T) {
	assert.False(t, ValidRefundRef(""))
	assert.False(t, ValidRefundRef("rfn"))
	assert.False(t, ValidRefundRef("txn_abc123DEF456"))
	assert.True(t, ValidRefundRef("rfn_abc123DEF456"))
}

func validRequest() PaymentRequest {
	return PaymentRequest{
		IdempotencyKey: NewIdempotencyKey(),
		AccountID:      "acct_1",
		Tier:           plan.TierPro,
		Period:         vo.PeriodMonthly,
		Amount:         vo.NewMoney(7900, "TRY"),
		CustomerEmail:  "ada@example.com",
		CustomerName:   "Ada",
		Card: CardDetails{
			HolderName:  "Ada Lovelace",
			Number:      "4111 1111 1111 1111",
			ExpireMonth: "12",
			ExpireYear:  "2030",
			CVC:         "123",
		},
	}
}

func TestPaymentRequest_Validate(t *testing.T) {
	assert.NoError(t, validRequest().Validate())

	tests := []struct {
		name   string
		mutate func(*PaymentRequest)
	}{
		{"malformed key", func(r *PaymentRequest) { r.IdempotencyKey = "nope" }},
		{"missing account", func(r *PaymentRequest) { r.AccountID = "" }},
		{"free tier", func(r *PaymentRequest) { r.Tier = plan.TierFree }},
		{"unknown tier", func(r *PaymentRequest) { r.Tier = "gold" }},
		{"bad period", func(r *PaymentRequest) { r.Period = "weekly" }},
		{"zero amount", func(r *PaymentRequest) { r.Amount = vo.NewMoney(0, "TRY") }},
		{"missing email", func(r *PaymentRequest) { r.CustomerEmail = "" }},
		{"short card number", func(r *PaymentRequest) { r.Card.Number = "4111" }},
		{"missing cvc", func(r *PaymentRequest) { r.Card.CVC = "" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)
			assert.Error(t, req.Validate())
		})
	}
}

func TestMoney_WithinTolerance(t *testing.T) {
	a := vo.NewMoney(7900, "TRY")

	assert.True(t, a.WithinTolerance(vo.NewMoney(7900, "TRY"), 0))
	assert.True(t, a.WithinTolerance(vo.NewMoney(7901, "TRY"), 1))
	assert.False(t, a.WithinTolerance(vo.NewMoney(7901, "TRY"), 0))
	assert.False(t, a.WithinTolerance(vo.NewMoney(7902, "TRY"), 1))
	// Currency mismatch never tolerated, whatever the delta.
	assert.False(t, a.WithinTolerance(vo.NewMoney(7900, "USD"), 100))
}

func TestOutcomeStatus_Terminality(t *testing.T) {
	assert.True(t, vo.StatusSuccess.IsTerminal())
	assert.True(t, vo.StatusFailure.IsTerminal())
	assert.True(t, vo.StatusCancelled.IsTerminal())
	assert.True(t, vo.StatusRefunded.IsTerminal())
	assert.False(t, vo.StatusPending.IsTerminal())
	assert.False(t, vo.StatusWaitingStrongAuth.IsTerminal())
}

func TestNewLedgerEntry_RejectsNonTerminalOutcome(t *testing.T) {
	_, err := NewLedgerEntry(
		NewIdempotencyKey(), "acct_1", "prov-1",
		vo.NewMoney(7900, "TRY"), vo.StatusPending,
		plan.TierPro, vo.PeriodMonthly, "",
	)
	assert.Error(t, err)
}

func TestNewLedgerEntry_Valid(t *testing.T) {
	key := NewIdempotencyKey()
	entry, err := NewLedgerEntry(
		key, "acct_1", "prov-1",
		vo.NewMoney(7900, "TRY"), vo.StatusSuccess,
		plan.TierPro, vo.PeriodMonthly, "",
	)

	require.NoError(t, err)
	assert.Equal(t, key, entry.IdempotencyKey())
	assert.Equal(t, vo.StatusSuccess, entry.Outcome())
	assert.False(t, entry.RecordedAt().IsZero())
}

func TestNewLedgerEntry_AcceptsRefundRefKey(t *testing.T) {
	entry, err := NewLedgerEntry(
		"rfn_abc123DEF456", "acct_1", "prov-refund-1",
		vo.NewMoney(7900, "TRY"), vo.StatusRefunded,
		plan.TierPro, vo.PeriodMonthly, "",
	)

	require.NoError(t, err)
	assert.Equal(t, "rfn_abc123DEF456", entry.IdempotencyKey())
}

func TestPendingPurchaseContext_Validate(t *testing.T) {
	req := validRequest()
	ctx := NewPendingPurchaseContext(req, time.Now())

	require.NoError(t, ctx.Validate())
	assert.Equal(t, req.IdempotencyKey, ctx.IdempotencyKey)
	assert.True(t, ctx.QuotedAmount().Equals(req.Amount))

	bad := ctx
	bad.QuotedAmountMinor = 0
	assert.Error(t, bad.Validate())
}

package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invitio/internal/application/checkout/gateway"
	"invitio/internal/domain/billing"
	vo "invitio/internal/domain/billing/valueobjects"
	"invitio/internal/domain/plan"
	"invitio/internal/domain/subscription"
	apperrors "invitio/internal/shared/errors"
	"invitio/internal/shared/id"
)

type cancelFixture struct {
	subs   *memSubscriptionRepo
	ledger *memLedgerRepo
	gw     *scriptGateway
	uc     *CancelSubscriptionUseCase
}

func newCancelFixture() *cancelFixture {
	f := &cancelFixture{
		subs:   newMemSubscriptionRepo(),
		ledger: newMemLedgerRepo(),
		gw:     &scriptGateway{},
	}
	f.uc = NewCancelSubscriptionUseCase(f.subs, f.ledger, f.gw, passthroughTx{}, testLogger())
	return f
}

// seedActive creates an active subscription backed by one settled ledger
// entry, with the period starting at the given instant.
func (f *cancelFixture) seedActive(t *testing.T, accountID string, tier plan.Tier, periodStart time.Time) string {
	t.Helper()
	ctx := context.Background()

	sub, err := subscription.NewSubscription(accountID, periodStart)
	require.NoError(t, err)
	providerRef := "prov-" + accountID
	require.NoError(t, sub.ActivatePurchase(tier, vo.PeriodMonthly, providerRef, periodStart))
	require.NoError(t, f.subs.Create(ctx, sub))

	entry, err := billing.NewLedgerEntry(
		billing.NewIdempotencyKey(), accountID, providerRef,
		vo.NewMoney(7900, "TRY"), vo.StatusSuccess,
		tier, vo.PeriodMonthly, "",
	)
	require.NoError(t, err)
	require.NoError(t, f.ledger.Create(ctx, entry))
	return providerRef
}

func TestCancelSubscription_InsideWindow_RefundsAndReverts(t *testing.T) {
	f := newCancelFixture()
	providerRef := f.seedActive(t, "acct_1", plan.TierPro, time.Now().UTC().Add(-24*time.Hour))

	refundCalls := 0
	var refundRef string
	f.gw.RefundFunc = func(_ context.Context, req gateway.RefundRequest) (string, error) {
		refundCalls++
		assert.Equal(t, providerRef, req.ProviderRef)
		assert.Equal(t, int64(7900), req.Amount.AmountMinor())
		assert.True(t, id.HasPrefix(req.RefundRef, id.PrefixRefund))
		refundRef = req.RefundRef
		return "prov-refund-1", nil
	}

	result, err := f.uc.Execute(context.Background(), CancelSubscriptionCommand{
		AccountID: "acct_1", Reason: "changed my mind",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, refundCalls)
	assert.True(t, result.Refunded)
	assert.Equal(t, "prov-refund-1", result.RefundRef)
	assert.Equal(t, "reverted", result.Subscription.Status)
	assert.Equal(t, "free", result.Subscription.Tier)

	sub, err := f.subs.GetByAccountID(context.Background(), "acct_1")
	require.NoError(t, err)
	assert.Equal(t, subscription.StatusReverted, sub.Status())

	entries, err := f.ledger.ListByAccountID(context.Background(), "acct_1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, vo.StatusRefunded, entries[0].Outcome())
	assert.Equal(t, "prov-refund-1", entries[0].ProviderRef())
	assert.Equal(t, refundRef, entries[0].IdempotencyKey(),
		"refund entry is keyed by the reference sent to the gateway")
}

func TestCancelSubscription_OutsideWindow_NoRefund(t *testing.T) {
	f := newCancelFixture()
	f.seedActive(t, "acct_1", plan.TierPro, time.Now().UTC().Add(-10*24*time.Hour))

	f.gw.RefundFunc = func(_ context.Context, req gateway.RefundRequest) (string, error) {
		t.Fatal("refund must not be attempted outside the cooling-off window")
		return "", nil
	}

	result, err := f.uc.Execute(context.Background(), CancelSubscriptionCommand{AccountID: "acct_1"})

	require.NoError(t, err)
	assert.False(t, result.Refunded)
	assert.Equal(t, "cancelled_pending", result.Subscription.Status)
	assert.Equal(t, "pro", result.Subscription.Tier, "paid tier stays until period end")
	assert.Equal(t, "pro", result.Subscription.EffectiveTier)

	entries, err := f.ledger.ListByAccountID(context.Background(), "acct_1")
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no refund entry outside the window")
}

func TestCancelSubscription_RefundFailure_AbortsCancellation(t *testing.T) {
	f := newCancelFixture()
	f.seedActive(t, "acct_1", plan.TierPro, time.Now().UTC().Add(-time.Hour))

	f.gw.RefundFunc = func(_ context.Context, req gateway.RefundRequest) (string, error) {
		return "", apperrors.NewGatewayTimeoutError()
	}

	_, err := f.uc.Execute(context.Background(), CancelSubscriptionCommand{AccountID: "acct_1"})

	require.Error(t, err)
	sub, getErr := f.subs.GetByAccountID(context.Background(), "acct_1")
	require.NoError(t, getErr)
	assert.Equal(t, subscription.StatusActive, sub.Status(), "subscription untouched when the refund fails")
}

func TestCancelSubscription_NoRecord(t *testing.T) {
	f := newCancelFixture()

	_, err := f.uc.Execute(context.Background(), CancelSubscriptionCommand{AccountID: "acct_unknown"})

	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeInvalidTransition))
}

func TestCancelSubscription_DoubleCancelRejected(t *testing.T) {
	f := newCancelFixture()
	f.seedActive(t, "acct_1", plan.TierPro, time.Now().UTC().Add(-10*24*time.Hour))

	_, err := f.uc.Execute(context.Background(), CancelSubscriptionCommand{AccountID: "acct_1"})
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), CancelSubscriptionCommand{AccountID: "acct_1"})
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeInvalidTransition))
}

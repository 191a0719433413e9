package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invitio/internal/domain/billing"
	vo "invitio/internal/domain/billing/valueobjects"
	"invitio/internal/domain/plan"
	"invitio/internal/domain/subscription"
	"invitio/internal/shared/biztime"
	apperrors "invitio/internal/shared/errors"
)

func applyCmd(accountID string, tier plan.Tier, period vo.BillingPeriod, amountMinor int64) ApplyPurchaseCommand {
	key := billing.NewIdempotencyKey()
	return ApplyPurchaseCommand{
		Pending: billing.PendingPurchaseContext{
			IdempotencyKey:    key,
			AccountID:         accountID,
			Tier:              tier,
			Period:            period,
			QuotedAmountMinor: amountMinor,
			Currency:          "TRY",
			CreatedAt:         biztime.NowUTC(),
		},
		Outcome: billing.PaymentOutcome{
			IdempotencyKey: key,
			Status:         vo.StatusSuccess,
			ProviderRef:    "prov-" + key,
			Amount:         vo.NewMoney(amountMinor, "TRY"),
		},
	}
}

func TestApplyPurchase_CreatesActiveSubscription(t *testing.T) {
	subs := newMemSubscriptionRepo()
	ledger := newMemLedgerRepo()
	uc := NewApplyPurchaseUseCase(subs, ledger, passthroughTx{}, testLogger())

	cmd := applyCmd("acct_1", plan.TierPro, vo.PeriodMonthly, 7900)
	require.NoError(t, uc.Execute(context.Background(), cmd))

	sub, err := subs.GetByAccountID(context.Background(), "acct_1")
	require.NoError(t, err)
	assert.Equal(t, subscription.StatusActive, sub.Status())
	assert.Equal(t, plan.TierPro, sub.Tier())
	assert.Equal(t, cmd.Outcome.ProviderRef, sub.LastProviderRef())

	entry, err := ledger.GetByIdempotencyKey(context.Background(), cmd.Pending.IdempotencyKey)
	require.NoError(t, err)
	assert.Equal(t, vo.StatusSuccess, entry.Outcome())
}

func TestApplyPurchase_SecondApplyIsConflict(t *testing.T) {
	subs := newMemSubscriptionRepo()
	ledger := newMemLedgerRepo()
	uc := NewApplyPurchaseUseCase(subs, ledger, passthroughTx{}, testLogger())

	cmd := applyCmd("acct_1", plan.TierPro, vo.PeriodMonthly, 7900)
	require.NoError(t, uc.Execute(context.Background(), cmd))

	err := uc.Execute(context.Background(), cmd)

	assert.True(t, apperrors.IsConflictError(err))
	sub, getErr := subs.GetByAccountID(context.Background(), "acct_1")
	require.NoError(t, getErr)
	assert.Equal(t, plan.TierPro, sub.Tier())
}

func TestApplyPurchase_NonSuccessRejected(t *testing.T) {
	uc := NewApplyPurchaseUseCase(newMemSubscriptionRepo(), newMemLedgerRepo(), passthroughTx{}, testLogger())

	cmd := applyCmd("acct_1", plan.TierPro, vo.PeriodMonthly, 7900)
	cmd.Outcome.Status = vo.StatusFailure

	err := uc.Execute(context.Background(), cmd)
	assert.True(t, apperrors.IsValidationError(err))
}

func TestApplyPurchase_ExpiredCancellationThenRepurchase(t *testing.T) {
	subs := newMemSubscriptionRepo()
	ledger := newMemLedgerRepo()
	uc := NewApplyPurchaseUseCase(subs, ledger, passthroughTx{}, testLogger())

	// An old cancelled subscription whose paid period has elapsed.
	start := time.Now().UTC().Add(-40 * 24 * time.Hour)
	sub, err := subscription.NewSubscription("acct_1", start)
	require.NoError(t, err)
	require.NoError(t, sub.ActivatePurchase(plan.TierPro, vo.PeriodMonthly, "prov-old", start))
	require.NoError(t, sub.Cancel(start.Add(5*24*time.Hour)))
	require.NoError(t, subs.Create(context.Background(), sub))

	cmd := applyCmd("acct_1", plan.TierPremium, vo.PeriodMonthly, 12900)
	require.NoError(t, uc.Execute(context.Background(), cmd))

	got, err := subs.GetByAccountID(context.Background(), "acct_1")
	require.NoError(t, err)
	assert.Equal(t, subscription.StatusActive, got.Status())
	assert.Equal(t, plan.TierPremium, got.Tier())
}

func TestExpireSubscriptions_ExpiresDueOnly(t *testing.T) {
	subs := newMemSubscriptionRepo()
	uc := NewExpireSubscriptionsUseCase(subs, testLogger())

	// Due: cancelled 35 days ago on a monthly period.
	oldStart := time.Now().UTC().Add(-35 * 24 * time.Hour)
	due, err := subscription.NewSubscription("acct_due", oldStart)
	require.NoError(t, err)
	require.NoError(t, due.ActivatePurchase(plan.TierPro, vo.PeriodMonthly, "p1", oldStart))
	require.NoError(t, due.Cancel(oldStart.Add(5*24*time.Hour)))
	require.NoError(t, subs.Create(context.Background(), due))

	// Not due: cancelled but the period still runs.
	freshStart := time.Now().UTC().Add(-10 * 24 * time.Hour)
	fresh, err := subscription.NewSubscription("acct_fresh", freshStart)
	require.NoError(t, err)
	require.NoError(t, fresh.ActivatePurchase(plan.TierPro, vo.PeriodMonthly, "p2", freshStart))
	require.NoError(t, fresh.Cancel(freshStart.Add(5*24*time.Hour)))
	require.NoError(t, subs.Create(context.Background(), fresh))

	count, err := uc.Execute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, count)

	expired, _ := subs.GetByAccountID(context.Background(), "acct_due")
	assert.Equal(t, subscription.StatusFree, expired.Status())
	assert.Equal(t, plan.TierFree, expired.Tier())

	untouched, _ := subs.GetByAccountID(context.Background(), "acct_fresh")
	assert.Equal(t, subscription.StatusCancelledPending, untouched.Status())
}

func TestGetSubscription_DefaultsToFree(t *testing.T) {
	uc := NewGetSubscriptionUseCase(newMemSubscriptionRepo(), testLogger())

	got, err := uc.Execute(context.Background(), GetSubscriptionQuery{AccountID: "acct_new"})

	require.NoError(t, err)
	assert.Equal(t, "free", got.Tier)
	assert.Equal(t, "free", got.Status)
	assert.False(t, got.RefundEligible)
}

func TestGetPaymentHistory_NewestFirst(t *testing.T) {
	ledger := newMemLedgerRepo()
	uc := NewGetPaymentHistoryUseCase(ledger, testLogger())

	for i, amount := range []int64{7900, 12900} {
		entry, err := billing.NewLedgerEntry(
			billing.NewIdempotencyKey(), "acct_1", "prov",
			vo.NewMoney(amount, "TRY"), vo.StatusSuccess,
			plan.TierPro, vo.PeriodMonthly, "",
		)
		require.NoError(t, err, "entry %d", i)
		require.NoError(t, ledger.Create(context.Background(), entry))
	}

	rows, err := uc.Execute(context.Background(), GetPaymentHistoryQuery{AccountID: "acct_1"})

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(12900), rows[0].AmountMinor)
	assert.Equal(t, int64(7900), rows[1].AmountMinor)
}

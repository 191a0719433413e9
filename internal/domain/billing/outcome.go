package billing

import (
	vo "invitio/internal/domain/billing/valueobjects"
)

// PaymentOutcome is the gateway's answer for one purchase attempt. The status
// set is closed; the gateway client maps anything unrecognized to
// StatusFailure with a diagnostic code rather than inventing a state.
type PaymentOutcome struct {
	IdempotencyKey string
	Status         vo.OutcomeStatus
	// ProviderRef is the gateway-assigned reference, when one exists.
	ProviderRef string
	// Amount is the authoritative amount the gateway settled or will settle.
	Amount vo.Money
	// RedirectPayload is the opaque strong-auth document handed to the
	// browser. Only set for StatusWaitingStrongAuth; never parsed locally.
	RedirectPayload string
	// DiagnosticCode carries the provider's error or decline code for
	// non-success outcomes.
	DiagnosticCode string
	// DiagnosticMessage is the provider's human-readable failure reason.
	DiagnosticMessage string
}

// IsTerminal reports whether the outcome ends the attempt.
func (o PaymentOutcome) IsTerminal() bool {
	return o.Status.IsTerminal()
}

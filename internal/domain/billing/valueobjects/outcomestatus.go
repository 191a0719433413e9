package valueobjects

// OutcomeStatus is the closed set of payment outcome states reported by the
// gateway. Outcomes are never invented locally; anything a gateway response
// does not map to cleanly becomes StatusFailure with a diagnostic code.
type OutcomeStatus string

const (
	StatusSuccess           OutcomeStatus = "success"
	StatusPending           OutcomeStatus = "pending"
	StatusWaitingStrongAuth OutcomeStatus = "waiting_strong_auth"
	StatusFailure           OutcomeStatus = "failure"
	StatusCancelled         OutcomeStatus = "cancelled"
	StatusRefunded          OutcomeStatus = "refunded"
)

func (s OutcomeStatus) IsValid() bool {
	switch s {
	case StatusSuccess, StatusPending, StatusWaitingStrongAuth,
		StatusFailure, StatusCancelled, StatusRefunded:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the outcome ends the purchase attempt. Pending
// and waiting-strong-auth re-arm the status poll loop; everything else
// terminates it.
func (s OutcomeStatus) IsTerminal() bool {
	switch s {
	case StatusSuccess, StatusFailure, StatusCancelled, StatusRefunded:
		return true
	default:
		return false
	}
}

func (s OutcomeStatus) IsSuccess() bool {
	return s == StatusSuccess
}

func (s OutcomeStatus) String() string {
	return string(s)
}

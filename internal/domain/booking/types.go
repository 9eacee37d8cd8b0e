package booking

type Status string

const (
	StatusPendingApproval Status = "pending_approval"
	StatusApproved        Status = "approved"
	StatusConfirmed       Status = "confirmed"
	StatusCompleted       Status = "completed"
	StatusRejected        Status = "rejected"
	StatusCancelled       Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPendingApproval, StatusApproved, StatusConfirmed,
		StatusCompleted, StatusRejected, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal statuses are absorbing.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusRejected || s == StatusCancelled
}

// HoldsInventory is true while the booking occupies seats or dates.
func (s Status) HoldsInventory() bool {
	return s == StatusPendingApproval || s == StatusApproved || s == StatusConfirmed
}

// ActiveStatuses block overlapping stays.
func ActiveStatuses() []Status {
	return []Status{StatusPendingApproval, StatusApproved, StatusConfirmed}
}

type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

func (d Decision) IsValid() bool {
	return d == DecisionApprove || d == DecisionReject
}

// Canceller records who withdrew a booking.
type Canceller string

const (
	CancelledByCustomer Canceller = "customer"
	CancelledByProvider Canceller = "provider"
)

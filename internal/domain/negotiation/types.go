package negotiation

type Status string

const (
	StatusPending   Status = "pending"
	StatusCountered Status = "countered"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusExpired   Status = "expired"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusCountered, StatusAccepted, StatusRejected, StatusExpired:
		return true
	default:
		return false
	}
}

// IsTerminal is true once no party can move the negotiation any further.
func (s Status) IsTerminal() bool {
	return s == StatusAccepted || s == StatusRejected || s == StatusExpired
}

// Party identifies which side of the negotiation acted.
type Party string

const (
	PartyCustomer Party = "customer"
	PartyProvider Party = "provider"
)

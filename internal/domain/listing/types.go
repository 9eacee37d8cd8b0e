package listing

import (
	"booking-engine/internal/pkg/errs"
)

var ErrInvalidServiceType = errs.Mark(errs.New("invalid service type"), errs.ErrValidation)

type ServiceType string

const (
	ServiceRide  ServiceType = "ride"
	ServiceStay  ServiceType = "stay"
	ServiceEvent ServiceType = "event"
)

func (s ServiceType) String() string {
	return string(s)
}

func (s ServiceType) IsValid() bool {
	switch s {
	case ServiceRide, ServiceStay, ServiceEvent:
		return true
	default:
		return false
	}
}

// UsesSeatInventory is true for service types whose constraint is a count of
// sellable units rather than non-overlapping dates.
func (s ServiceType) UsesSeatInventory() bool {
	return s == ServiceRide || s == ServiceEvent
}

func NewServiceType(s string) (ServiceType, error) {
	st := ServiceType(s)
	if !st.IsValid() {
		return "", ErrInvalidServiceType
	}
	return st, nil
}

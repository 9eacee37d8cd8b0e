package queries

import (
	"booking-engine/internal/infra"
	"booking-engine/internal/pkg/errs"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

var (
	ErrListingNotFound     = errs.Mark(errs.New("listing not found"), errs.ErrNotFound)
	ErrBookingNotFound     = errs.Mark(errs.New("booking not found"), errs.ErrNotFound)
	ErrDriverStatsNotFound = errs.Mark(errs.New("driver stats not found"), errs.ErrNotFound)
	ErrNotStayListing      = errs.Mark(errs.New("availability applies to stay listings only"), errs.ErrValidation)
	ErrForbidden           = errs.Mark(errs.New("caller cannot view this resource"), errs.ErrNotAuthorized)
)

func readErr(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case infra.IsKind(err, infra.KindNotFound):
		return notFound
	default:
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

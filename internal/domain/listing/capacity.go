package listing

import (
	"fmt"

	"booking-engine/internal/pkg/errs"
)

var (
	ErrInvalidCapacity   = errs.Mark(errs.New("seat capacity must be positive"), errs.ErrValidation)
	ErrInvalidQuantity   = errs.Mark(errs.New("quantity must be positive"), errs.ErrValidation)
	ErrNoSeatsLeft       = errs.Mark(errs.New("no seats left"), errs.ErrInsufficientCapacity)
	ErrNotSeatInventory  = errs.Mark(errs.New("listing has no seat inventory"), errs.ErrValidation)
	ErrCapacityCorrupted = errs.Mark(errs.New("seat capacity out of bounds"), errs.ErrIntegrityViolation)
)

// SeatCapacity is the countable inventory of a ride or event.
type SeatCapacity struct {
	Max       int
	Available int
}

func NewSeatCapacity(maxSeats int) (SeatCapacity, error) {
	if maxSeats <= 0 {
		return SeatCapacity{}, ErrInvalidCapacity
	}
	return SeatCapacity{Max: maxSeats, Available: maxSeats}, nil
}

// Check verifies 0 <= Available <= Max.
func (c SeatCapacity) Check() error {
	if c.Available < 0 || c.Available > c.Max {
		return errs.Mark(
			errs.Wrapf(ErrCapacityCorrupted, "available=%d max=%d", c.Available, c.Max),
			errs.ErrIntegrityViolation,
		)
	}
	return nil
}

func (c SeatCapacity) String() string {
	return fmt.Sprintf("%d/%d", c.Available, c.Max)
}

// UnitCapacity describes a single bookable unit; overlap, not count, is the
// constraint. MaxGuests of zero means unlimited.
type UnitCapacity struct {
	Total     int
	MaxGuests int
}

package pricing

import (
	"math"
	"math/bits"

	"booking-engine/internal/pkg/errs"
)

// MaxCents caps a single price at 10 billion in major units.
const MaxCents int64 = 1_000_000_000_000

var (
	ErrNegativeMoney  = errs.Mark(errs.New("money cannot be negative"), errs.ErrValidation)
	ErrAmountTooLarge = errs.Mark(errs.New("amount exceeds the supported maximum"), errs.ErrValidation)
	ErrAmountOverflow = errs.Mark(errs.New("price calculation overflows"), errs.ErrValidation)
)

const basisPoints = 10000

// Money is an amount in minor units (cents).
type Money struct {
	cents int64
}

func NewMoney(cents int64) (Money, error) {
	m := Money{cents: cents}
	if err := m.Validate(); err != nil {
		return Money{}, err
	}
	return m, nil
}

// MoneyFromCents skips validation; use it only for values already persisted.
func MoneyFromCents(cents int64) Money {
	return Money{cents: cents}
}

// Validate checks 0 <= cents <= MaxCents.
func (m Money) Validate() error {
	if m.cents < 0 {
		return ErrNegativeMoney
	}
	if m.cents > MaxCents {
		return errs.Wrapf(ErrAmountTooLarge, "cents=%d max=%d", m.cents, MaxCents)
	}
	return nil
}

func (m Money) Cents() int64 {
	return m.cents
}

func (m Money) IsZero() bool {
	return m.cents == 0
}

// Times multiplies by a non-negative count and fails instead of wrapping.
func (m Money) Times(n int64) (Money, error) {
	if m.cents < 0 || n < 0 {
		return Money{}, ErrNegativeMoney
	}
	hi, lo := bits.Mul64(uint64(m.cents), uint64(n))
	if hi != 0 || lo > math.MaxInt64 {
		return Money{}, errs.Wrapf(ErrAmountOverflow, "cents=%d units=%d", m.cents, n)
	}
	return Money{cents: int64(lo)}, nil
}

func (m Money) Sub(other Money) Money {
	return Money{cents: m.cents - other.cents}
}

// Percent returns floor(m * pct / 100), with pct rounded to basis points.
// m must be non-negative and pct within [0, 100].
func (m Money) Percent(pct float64) (Money, error) {
	bp := math.Round(pct * 100)
	if m.cents < 0 || bp < 0 {
		return Money{}, ErrNegativeMoney
	}
	if bp > basisPoints {
		return Money{}, errs.Wrapf(ErrAmountOverflow, "rate=%v", pct)
	}
	hi, lo := bits.Mul64(uint64(m.cents), uint64(bp))
	q, _ := bits.Div64(hi, lo, basisPoints)
	return Money{cents: int64(q)}, nil
}

func (m Money) LessThan(other Money) bool {
	return m.cents < other.cents
}

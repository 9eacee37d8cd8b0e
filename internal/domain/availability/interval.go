package availability

import (
	"fmt"
	"time"

	"booking-engine/internal/pkg/errs"
)

var (
	ErrEmptyInterval   = errs.Mark(errs.New("check-out must be after check-in"), errs.ErrValidation)
	ErrUnparsableBound = errs.Mark(errs.New("date must be YYYY-MM-DD or RFC3339"), errs.ErrValidation)
	ErrMixedBounds     = errs.Mark(errs.New("check-in and check-out use different granularity"), errs.ErrGranularityMismatch)
)

const DateLayout = "2006-01-02"

// Granularity records whether an interval was given as whole dates or as
// instants. The two are never compared with each other.
type Granularity string

const (
	GranularityDate     Granularity = "date"
	GranularityDateTime Granularity = "datetime"
)

func (g Granularity) IsValid() bool {
	return g == GranularityDate || g == GranularityDateTime
}

// Interval is the half-open range [start, end).
type Interval struct {
	start       time.Time
	end         time.Time
	granularity Granularity
}

func NewInterval(start, end time.Time, granularity Granularity) (Interval, error) {
	if !granularity.IsValid() {
		return Interval{}, errs.Mark(errs.Newf("unknown granularity %q", granularity), errs.ErrValidation)
	}
	if granularity == GranularityDate {
		start = truncateToDate(start)
		end = truncateToDate(end)
	}
	if !start.Before(end) {
		return Interval{}, ErrEmptyInterval
	}
	return Interval{start: start.UTC(), end: end.UTC(), granularity: granularity}, nil
}

// ParseInterval accepts either two dates or two RFC3339 instants. Dates are
// normalized to midnight UTC so [d1, d2) covers the nights d1..d2-1.
func ParseInterval(checkIn, checkOut string) (Interval, error) {
	start, g1, err := parseBound(checkIn)
	if err != nil {
		return Interval{}, err
	}
	end, g2, err := parseBound(checkOut)
	if err != nil {
		return Interval{}, err
	}
	if g1 != g2 {
		return Interval{}, errs.Wrapf(ErrMixedBounds, "checkIn=%s checkOut=%s", g1, g2)
	}
	return NewInterval(start, end, g1)
}

func parseBound(s string) (time.Time, Granularity, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, GranularityDate, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, GranularityDateTime, nil
	}
	return time.Time{}, "", errs.Wrapf(ErrUnparsableBound, "value=%q", s)
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Overlaps applies the half-open rule: [a,b) and [c,d) meet iff a < d and c < b.
func (i Interval) Overlaps(o Interval) bool {
	return i.start.Before(o.end) && o.start.Before(i.end)
}

// Nights is the billable night count; partial days round up.
func (i Interval) Nights() int64 {
	const day = 24 * time.Hour
	d := i.end.Sub(i.start)
	n := int64(d / day)
	if d%day != 0 {
		n++
	}
	return n
}

func (i Interval) Start() time.Time         { return i.start }
func (i Interval) End() time.Time           { return i.end }
func (i Interval) Granularity() Granularity { return i.granularity }

// Bounds formats start and end in the granularity they were given in.
func (i Interval) Bounds() (string, string) {
	layout := time.RFC3339
	if i.granularity == GranularityDate {
		layout = DateLayout
	}
	return i.start.Format(layout), i.end.Format(layout)
}

func (i Interval) String() string {
	start, end := i.Bounds()
	return fmt.Sprintf("[%s,%s)", start, end)
}

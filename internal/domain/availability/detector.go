package availability

import (
	"sort"

	"booking-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrOverlap          = errs.Mark(errs.New("requested dates overlap an existing booking"), errs.ErrDateConflict)
	ErrIndexGranularity = errs.Mark(errs.New("listing already holds stays of a different granularity"), errs.ErrGranularityMismatch)
)

// Slot is an active stay occupying a listing.
type Slot struct {
	BookingID uuid.UUID
	Interval  Interval
}

// Detector indexes the active stays of one listing sorted by start. The index
// never holds two overlapping slots, so ends are sorted too and a single
// binary search answers a conflict query.
type Detector struct {
	slots []Slot
}

// NewDetector builds an index from stored slots. Overlapping input means the
// store already double-booked the listing and is reported as corruption.
func NewDetector(slots []Slot) (*Detector, error) {
	sorted := make([]Slot, len(slots))
	copy(sorted, slots)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Interval.start.Before(sorted[j].Interval.start)
	})
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if prev.Interval.Overlaps(cur.Interval) {
			return nil, errs.Mark(
				errs.Newf("stored stays %s %s and %s %s overlap",
					prev.BookingID, prev.Interval, cur.BookingID, cur.Interval),
				errs.ErrIntegrityViolation,
			)
		}
	}
	return &Detector{slots: sorted}, nil
}

// Conflicts reports whether q overlaps any indexed slot.
func (d *Detector) Conflicts(q Interval) (bool, error) {
	if len(d.slots) > 0 && d.slots[0].Interval.granularity != q.granularity {
		return false, errs.Wrapf(ErrIndexGranularity, "existing=%s requested=%s",
			d.slots[0].Interval.granularity, q.granularity)
	}
	// i is the first slot starting at or after q.end; only its predecessor
	// can still reach into q.
	i := sort.Search(len(d.slots), func(i int) bool {
		return !d.slots[i].Interval.start.Before(q.end)
	})
	if i == 0 {
		return false, nil
	}
	return d.slots[i-1].Interval.end.After(q.start), nil
}

// Insert adds a slot when it does not conflict.
func (d *Detector) Insert(slot Slot) error {
	conflict, err := d.Conflicts(slot.Interval)
	if err != nil {
		return err
	}
	if conflict {
		return errs.Wrapf(ErrOverlap, "interval=%s", slot.Interval)
	}
	i := sort.Search(len(d.slots), func(i int) bool {
		return !d.slots[i].Interval.start.Before(slot.Interval.start)
	})
	d.slots = append(d.slots, Slot{})
	copy(d.slots[i+1:], d.slots[i:])
	d.slots[i] = slot
	return nil
}

// Remove drops a slot by booking id; unknown ids are ignored.
func (d *Detector) Remove(bookingID uuid.UUID) {
	for i, s := range d.slots {
		if s.BookingID == bookingID {
			d.slots = append(d.slots[:i], d.slots[i+1:]...)
			return
		}
	}
}

func (d *Detector) Len() int {
	return len(d.slots)
}

package inventory

import (
	"time"

	"github.com/google/uuid"
)

type Op string

const (
	OpReserve Op = "reserve"
	OpRelease Op = "release"
	OpCommit  Op = "commit"
)

// Entry is one line of a listing's mutation log. Seq is strictly increasing
// per listing and starts at 1.
type Entry struct {
	ListingID      uuid.UUID
	Seq            int64
	Op             Op
	TokenID        uuid.UUID
	Quantity       int
	AvailableAfter int
	At             time.Time
}

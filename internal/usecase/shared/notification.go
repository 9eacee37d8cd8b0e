package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventBookingCreated       EventType = "booking.created"
	EventBookingApproved      EventType = "booking.approved"
	EventBookingRejected      EventType = "booking.rejected"
	EventBookingConfirmed     EventType = "booking.confirmed"
	EventBookingCancelled     EventType = "booking.cancelled"
	EventBookingCompleted     EventType = "booking.completed"
	EventNegotiationProposed  EventType = "negotiation.proposed"
	EventNegotiationCountered EventType = "negotiation.countered"
	EventNegotiationAccepted  EventType = "negotiation.accepted"
	EventNegotiationRejected  EventType = "negotiation.rejected"
	EventNegotiationExpired   EventType = "negotiation.expired"
	EventDriverTierChanged    EventType = "driver.tier_changed"
)

type Event struct {
	Type       EventType  `json:"type"`
	ListingID  uuid.UUID  `json:"listingId"`
	SubjectID  uuid.UUID  `json:"subjectId"`
	Status     string     `json:"status"`
	OccurredAt time.Time  `json:"occurredAt"`
	ActorID    *uuid.UUID `json:"actorId,omitempty"`
}

// NotificationSink is fire-and-forget: implementations log delivery
// failures and never report them back to the engine.
type NotificationSink interface {
	Notify(ctx context.Context, userID uuid.UUID, event Event)
}

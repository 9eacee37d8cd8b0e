package commands

import (
	"context"

	"booking-engine/internal/domain/booking"
	"booking-engine/internal/domain/negotiation"
	"booking-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

func notifyBooking(ctx context.Context, sink shared.NotificationSink, b *booking.Booking, typ shared.EventType, actorID *uuid.UUID) {
	ev := shared.Event{
		Type:       typ,
		ListingID:  b.ListingID(),
		SubjectID:  b.ID(),
		Status:     b.Status().String(),
		OccurredAt: b.UpdatedAt(),
		ActorID:    actorID,
	}
	sink.Notify(ctx, b.CustomerID(), ev)
	sink.Notify(ctx, b.ProviderID(), ev)
}

func notifyNegotiation(ctx context.Context, sink shared.NotificationSink, n *negotiation.Negotiation, typ shared.EventType, actorID *uuid.UUID) {
	ev := shared.Event{
		Type:       typ,
		ListingID:  n.ListingID(),
		SubjectID:  n.ID(),
		Status:     n.Status().String(),
		OccurredAt: n.UpdatedAt(),
		ActorID:    actorID,
	}
	sink.Notify(ctx, n.CustomerID(), ev)
	sink.Notify(ctx, n.ProviderID(), ev)
}

package notify

import (
	"context"

	"booking-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

// Fanout forwards each event to every sink in order.
type Fanout []shared.NotificationSink

func (f Fanout) Notify(ctx context.Context, userID uuid.UUID, event shared.Event) {
	for _, sink := range f {
		sink.Notify(ctx, userID, event)
	}
}

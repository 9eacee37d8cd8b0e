package notify

import (
	"context"
	"log/slog"

	"booking-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Notify(ctx context.Context, userID uuid.UUID, event shared.Event) {
	s.logger.InfoContext(ctx, "notification",
		"user_id", userID.String(),
		"type", string(event.Type),
		"listing_id", event.ListingID.String(),
		"subject_id", event.SubjectID.String(),
		"status", event.Status)
}

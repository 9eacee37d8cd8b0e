package postgres

import (
	"context"
	"log/slog"
	"time"

	"booking-engine/internal/domain/availability"
	"booking-engine/internal/domain/booking"
	"booking-engine/internal/domain/listing"
	"booking-engine/internal/domain/pricing"
	"booking-engine/internal/infra"
	"booking-engine/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const bookingColumns = `id, customer_id, provider_id, listing_id, service_type, scheduled_at,
	lower(stay_range), upper(stay_range), stay_granularity, quantity,
	original_cents, discount_cents, total_cents, status, negotiation_id, token_id,
	payment_method, rejection_reason, cancelled_by, created_at,
	approved_at, confirmed_at, completed_at, rejected_at, cancelled_at, updated_at`

type BookingRepository struct {
	db DBTX
}

func NewBookingRepository(db DBTX) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	stayRange, granularity := stayToPgtype(b.Stay())

	_, err := r.db.Exec(ctx, `INSERT INTO bookings (
			id, customer_id, provider_id, listing_id, service_type, scheduled_at,
			stay_range, stay_granularity, quantity,
			original_cents, discount_cents, total_cents, status, negotiation_id, token_id,
			payment_method, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7::tstzrange, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		b.ID(), b.CustomerID(), b.ProviderID(), b.ListingID(), string(b.ServiceType()),
		pgconv.TimePtrToPgtype(b.ScheduledAt()),
		stayRange, granularity, b.Quantity(),
		b.Price().Original.Cents(), b.Price().Discount.Cents(), b.Price().Total.Cents(),
		string(b.Status()),
		pgconv.UUIDPtrToPgtype(b.NegotiationID()), pgconv.UUIDPtrToPgtype(b.TokenID()),
		b.PaymentMethod(), b.CreatedAt(), b.UpdatedAt(),
	)
	if err != nil {
		return wrapErr("failed to insert booking", err)
	}
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id))
	if err != nil {
		return nil, wrapErr("booking not found", err)
	}
	return b, nil
}

// Update writes every mutable column only while the stored status still
// equals prev.
func (r *BookingRepository) Update(ctx context.Context, b *booking.Booking, prev booking.Status) error {
	var cancelledBy pgtype.Text
	if c := b.CancelledBy(); c != nil {
		cancelledBy = pgtype.Text{String: string(*c), Valid: true}
	}

	tag, err := r.db.Exec(ctx, `UPDATE bookings SET
			status = $2, payment_method = $3, rejection_reason = $4, cancelled_by = $5,
			approved_at = $6, confirmed_at = $7, completed_at = $8, rejected_at = $9,
			cancelled_at = $10, updated_at = $11
		WHERE id = $1 AND status = $12`,
		b.ID(), string(b.Status()), b.PaymentMethod(),
		pgconv.StringPtrToPgtype(b.RejectionReason()), cancelledBy,
		pgconv.TimePtrToPgtype(b.ApprovedAt()), pgconv.TimePtrToPgtype(b.ConfirmedAt()),
		pgconv.TimePtrToPgtype(b.CompletedAt()), pgconv.TimePtrToPgtype(b.RejectedAt()),
		pgconv.TimePtrToPgtype(b.CancelledAt()), b.UpdatedAt(),
		string(prev),
	)
	if err != nil {
		return wrapErr("failed to update booking", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindConflict, "booking status changed concurrently")
	}
	return nil
}

func (r *BookingRepository) ActiveStays(ctx context.Context, listingID uuid.UUID) ([]availability.Slot, error) {
	rows, err := r.db.Query(ctx, `SELECT id, lower(stay_range), upper(stay_range), stay_granularity
		FROM bookings
		WHERE listing_id = $1 AND stay_range IS NOT NULL AND status = ANY($2)
		ORDER BY lower(stay_range)`,
		listingID, activeStatusNames(),
	)
	if err != nil {
		return nil, wrapErr("failed to list active stays", err)
	}
	defer rows.Close()

	var slots []availability.Slot
	for rows.Next() {
		var (
			id          uuid.UUID
			start, end  pgtype.Timestamptz
			granularity string
		)
		if err := rows.Scan(&id, &start, &end, &granularity); err != nil {
			return nil, wrapErr("failed to scan stay", err)
		}
		interval, err := availability.NewInterval(start.Time, end.Time, availability.Granularity(granularity))
		if err != nil {
			return nil, infra.WrapRepoErr(slog.Default(), infra.KindDBFailure, "stored stay is invalid", err)
		}
		slots = append(slots, availability.Slot{BookingID: id, Interval: interval})
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("failed to iterate stays", err)
	}
	return slots, nil
}

// ActiveForNegotiation reports whether any booking not withdrawn has already
// consumed the negotiation.
func (r *BookingRepository) ActiveForNegotiation(ctx context.Context, negotiationID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (
			SELECT 1 FROM bookings WHERE negotiation_id = $1 AND status NOT IN ('cancelled', 'rejected')
		)`, negotiationID).Scan(&exists)
	if err != nil {
		return false, wrapErr("failed to check negotiation usage", err)
	}
	return exists, nil
}

func (r *BookingRepository) ListByParticipant(ctx context.Context, userID uuid.UUID, limit int) ([]*booking.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings
		WHERE customer_id = $1 OR provider_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, wrapErr("failed to list bookings", err)
	}
	defer rows.Close()

	var out []*booking.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, wrapErr("failed to scan booking", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("failed to iterate bookings", err)
	}
	return out, nil
}

func scanBooking(row pgx.Row) (*booking.Booking, error) {
	var (
		s                                 booking.Snapshot
		serviceType, status               string
		scheduledAt                       pgtype.Timestamptz
		stayStart, stayEnd                pgtype.Timestamptz
		granularity                       pgtype.Text
		quantity                          int32
		original, discount, total         int64
		negotiationID, tokenID            pgtype.UUID
		rejectionReason, cancelledBy      pgtype.Text
		createdAt, updatedAt              pgtype.Timestamptz
		approvedAt, confirmedAt           pgtype.Timestamptz
		completedAt, rejectedAt, cancelAt pgtype.Timestamptz
	)
	err := row.Scan(
		&s.ID, &s.CustomerID, &s.ProviderID, &s.ListingID, &serviceType, &scheduledAt,
		&stayStart, &stayEnd, &granularity, &quantity,
		&original, &discount, &total, &status, &negotiationID, &tokenID,
		&s.PaymentMethod, &rejectionReason, &cancelledBy, &createdAt,
		&approvedAt, &confirmedAt, &completedAt, &rejectedAt, &cancelAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.ServiceType = listing.ServiceType(serviceType)
	s.ScheduledAt = pgconv.TimePtrFromPgtype(scheduledAt)
	if stayStart.Valid && stayEnd.Valid {
		interval, err := availability.NewInterval(stayStart.Time, stayEnd.Time, availability.Granularity(granularity.String))
		if err != nil {
			return nil, err
		}
		s.Stay = &interval
	}
	s.Quantity = int(quantity)
	s.Price = pricing.Breakdown{
		Original: pricing.MoneyFromCents(original),
		Discount: pricing.MoneyFromCents(discount),
		Total:    pricing.MoneyFromCents(total),
	}
	s.Status = booking.Status(status)
	s.NegotiationID = pgconv.UUIDPtrFromPgtype(negotiationID)
	s.TokenID = pgconv.UUIDPtrFromPgtype(tokenID)
	s.RejectionReason = pgconv.StringPtrFromPgtype(rejectionReason)
	if cancelledBy.Valid {
		c := booking.Canceller(cancelledBy.String)
		s.CancelledBy = &c
	}
	s.CreatedAt = createdAt.Time.UTC()
	s.ApprovedAt = pgconv.TimePtrFromPgtype(approvedAt)
	s.ConfirmedAt = pgconv.TimePtrFromPgtype(confirmedAt)
	s.CompletedAt = pgconv.TimePtrFromPgtype(completedAt)
	s.RejectedAt = pgconv.TimePtrFromPgtype(rejectedAt)
	s.CancelledAt = pgconv.TimePtrFromPgtype(cancelAt)
	s.UpdatedAt = updatedAt.Time.UTC()

	return booking.ReconstructBooking(s), nil
}

// stayToPgtype renders the half-open range literal; the statement casts it
// to tstzrange.
func stayToPgtype(stay *availability.Interval) (pgtype.Text, pgtype.Text) {
	if stay == nil {
		return pgtype.Text{}, pgtype.Text{}
	}
	literal := "[" + stay.Start().Format(time.RFC3339Nano) + "," + stay.End().Format(time.RFC3339Nano) + ")"
	return pgtype.Text{String: literal, Valid: true}, pgtype.Text{String: string(stay.Granularity()), Valid: true}
}

func activeStatusNames() []string {
	statuses := booking.ActiveStatuses()
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}
	return names
}

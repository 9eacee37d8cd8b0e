package postgres

import (
	"context"
	"time"

	"booking-engine/internal/domain/negotiation"
	"booking-engine/internal/domain/pricing"
	"booking-engine/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const negotiationColumns = `id, listing_id, customer_id, provider_id,
	original_price_cents, proposed_price_cents, counter_price_cents, accepted_price_cents,
	status, expires_at, created_at, updated_at`

type NegotiationRepository struct {
	db DBTX
}

func NewNegotiationRepository(db DBTX) *NegotiationRepository {
	return &NegotiationRepository{db: db}
}

func (r *NegotiationRepository) Create(ctx context.Context, n *negotiation.Negotiation) error {
	_, err := r.db.Exec(ctx, `INSERT INTO negotiations (`+negotiationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		n.ID(), n.ListingID(), n.CustomerID(), n.ProviderID(),
		n.OriginalPrice().Cents(), n.ProposedPrice().Cents(),
		moneyToPgtype(n.CounterPrice()), moneyToPgtype(n.AcceptedPrice()),
		string(n.Status()), n.ExpiresAt(), n.CreatedAt(), n.UpdatedAt(),
	)
	if err != nil {
		return wrapErr("failed to insert negotiation", err)
	}
	return nil
}

func (r *NegotiationRepository) FindByID(ctx context.Context, id uuid.UUID) (*negotiation.Negotiation, error) {
	n, err := scanNegotiation(r.db.QueryRow(ctx, `SELECT `+negotiationColumns+` FROM negotiations WHERE id = $1`, id))
	if err != nil {
		return nil, wrapErr("negotiation not found", err)
	}
	return n, nil
}

func (r *NegotiationRepository) Update(ctx context.Context, n *negotiation.Negotiation, prev negotiation.Status) error {
	tag, err := r.db.Exec(ctx, `UPDATE negotiations SET
			counter_price_cents = $2, accepted_price_cents = $3, status = $4,
			expires_at = $5, updated_at = $6
		WHERE id = $1 AND status = $7`,
		n.ID(), moneyToPgtype(n.CounterPrice()), moneyToPgtype(n.AcceptedPrice()),
		string(n.Status()), n.ExpiresAt(), n.UpdatedAt(), string(prev),
	)
	if err != nil {
		return wrapErr("failed to update negotiation", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindConflict, "negotiation status changed concurrently")
	}
	return nil
}

func (r *NegotiationRepository) ListStale(ctx context.Context, now time.Time, limit int) ([]*negotiation.Negotiation, error) {
	rows, err := r.db.Query(ctx, `SELECT `+negotiationColumns+` FROM negotiations
		WHERE status IN ('pending', 'countered') AND expires_at <= $1
		ORDER BY expires_at
		LIMIT $2`, now, limit)
	if err != nil {
		return nil, wrapErr("failed to list stale negotiations", err)
	}
	defer rows.Close()

	var out []*negotiation.Negotiation
	for rows.Next() {
		n, err := scanNegotiation(rows)
		if err != nil {
			return nil, wrapErr("failed to scan negotiation", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("failed to iterate negotiations", err)
	}
	return out, nil
}

func scanNegotiation(row pgx.Row) (*negotiation.Negotiation, error) {
	var (
		id, listingID, customerID, providerID uuid.UUID
		original, proposed                    int64
		counter, accepted                     pgtype.Int8
		status                                string
		expiresAt, createdAt, updatedAt       pgtype.Timestamptz
	)
	err := row.Scan(&id, &listingID, &customerID, &providerID,
		&original, &proposed, &counter, &accepted,
		&status, &expiresAt, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	return negotiation.ReconstructNegotiation(
		id, listingID, customerID, providerID,
		pricing.MoneyFromCents(original), pricing.MoneyFromCents(proposed),
		moneyFromPgtype(counter), moneyFromPgtype(accepted),
		negotiation.Status(status),
		expiresAt.Time.UTC(), createdAt.Time.UTC(), updatedAt.Time.UTC(),
	), nil
}

func moneyToPgtype(m *pricing.Money) pgtype.Int8 {
	if m == nil {
		return pgtype.Int8{}
	}
	return pgtype.Int8{Int64: m.Cents(), Valid: true}
}

func moneyFromPgtype(v pgtype.Int8) *pricing.Money {
	if !v.Valid {
		return nil
	}
	m := pricing.MoneyFromCents(v.Int64)
	return &m
}

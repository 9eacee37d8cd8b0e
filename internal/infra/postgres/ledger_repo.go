package postgres

import (
	"context"

	"booking-engine/internal/domain/inventory"
	"booking-engine/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type LedgerRepository struct {
	db DBTX
}

func NewLedgerRepository(db DBTX) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) CreateToken(ctx context.Context, t *inventory.Token) error {
	_, err := r.db.Exec(ctx, `INSERT INTO reservation_tokens (id, listing_id, quantity, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		t.ID(), t.ListingID(), t.Quantity(), string(t.Status()), t.CreatedAt(), t.UpdatedAt(),
	)
	if err != nil {
		return wrapErr("failed to insert reservation token", err)
	}
	return nil
}

func (r *LedgerRepository) FindToken(ctx context.Context, id uuid.UUID) (*inventory.Token, error) {
	var (
		tokenID, listingID   uuid.UUID
		quantity             int32
		status               string
		createdAt, updatedAt pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, `SELECT id, listing_id, quantity, status, created_at, updated_at
		FROM reservation_tokens WHERE id = $1`, id).Scan(
		&tokenID, &listingID, &quantity, &status, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, wrapErr("reservation token not found", err)
	}
	return inventory.ReconstructToken(
		tokenID, listingID, int(quantity), inventory.TokenStatus(status),
		createdAt.Time.UTC(), updatedAt.Time.UTC(),
	), nil
}

func (r *LedgerRepository) UpdateToken(ctx context.Context, t *inventory.Token, prev inventory.TokenStatus) error {
	tag, err := r.db.Exec(ctx, `UPDATE reservation_tokens SET status = $2, updated_at = $3
		WHERE id = $1 AND status = $4`,
		t.ID(), string(t.Status()), t.UpdatedAt(), string(prev),
	)
	if err != nil {
		return wrapErr("failed to update reservation token", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindConflict, "reservation token changed concurrently")
	}
	return nil
}

func (r *LedgerRepository) LastSeq(ctx context.Context, listingID uuid.UUID) (int64, error) {
	var seq int64
	err := r.db.QueryRow(ctx, `SELECT COALESCE(MAX(seq), 0) FROM ledger_entries WHERE listing_id = $1`, listingID).Scan(&seq)
	if err != nil {
		return 0, wrapErr("failed to read ledger head", err)
	}
	return seq, nil
}

// Append relies on the (listing_id, seq) key; a duplicate seq means another
// writer got there first and surfaces as a conflict.
func (r *LedgerRepository) Append(ctx context.Context, e inventory.Entry) error {
	_, err := r.db.Exec(ctx, `INSERT INTO ledger_entries (listing_id, seq, op, token_id, quantity, available_after, at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ListingID, e.Seq, string(e.Op), e.TokenID, e.Quantity, e.AvailableAfter, e.At,
	)
	if isUniqueViolation(err) {
		return infra.NewRepoErr(infra.KindConflict, "ledger sequence already taken")
	}
	if err != nil {
		return wrapErr("failed to append ledger entry", err)
	}
	return nil
}

func (r *LedgerRepository) Entries(ctx context.Context, listingID uuid.UUID, afterSeq int64, limit int) ([]inventory.Entry, error) {
	rows, err := r.db.Query(ctx, `SELECT listing_id, seq, op, token_id, quantity, available_after, at
		FROM ledger_entries
		WHERE listing_id = $1 AND seq > $2
		ORDER BY seq
		LIMIT $3`, listingID, afterSeq, limit)
	if err != nil {
		return nil, wrapErr("failed to list ledger entries", err)
	}
	defer rows.Close()

	var out []inventory.Entry
	for rows.Next() {
		var (
			e               inventory.Entry
			op              string
			quantity, after int32
			at              pgtype.Timestamptz
		)
		if err := rows.Scan(&e.ListingID, &e.Seq, &op, &e.TokenID, &quantity, &after, &at); err != nil {
			return nil, wrapErr("failed to scan ledger entry", err)
		}
		e.Op = inventory.Op(op)
		e.Quantity = int(quantity)
		e.AvailableAfter = int(after)
		e.At = at.Time.UTC()
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("failed to iterate ledger entries", err)
	}
	return out, nil
}

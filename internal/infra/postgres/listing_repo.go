package postgres

import (
	"context"
	"encoding/json"
	"log/slog"

	"booking-engine/internal/domain/listing"
	"booking-engine/internal/domain/partnership"
	"booking-engine/internal/domain/pricing"
	"booking-engine/internal/infra"
	"booking-engine/internal/pkg/errs"
	"booking-engine/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	offerKindTiered = "tiered"
	offerKindFlat   = "flat"
)

const listingColumns = `id, provider_id, service_type, title, base_price_cents,
	seats_max, seats_available, max_guests,
	negotiation_enabled, negotiation_min_cents, negotiation_max_cents,
	offer_kind, offer_enabled, offer_minimum_tier, offer_rates, offer_flat_rate,
	requires_confirmation, created_at, updated_at`

type ListingRepository struct {
	db DBTX
}

func NewListingRepository(db DBTX) *ListingRepository {
	return &ListingRepository{db: db}
}

func (r *ListingRepository) Create(ctx context.Context, l *listing.Listing) error {
	row, err := toListingRow(l)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, `INSERT INTO listings (`+listingColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		l.ID(), l.ProviderID(), string(l.ServiceType()), l.Title(), l.BasePrice().Cents(),
		row.seatsMax, row.seatsAvailable, l.Unit().MaxGuests,
		l.Negotiation().Enabled, row.negotiationMin, row.negotiationMax,
		row.offerKind, row.offerEnabled, row.offerMinimumTier, row.offerRates, row.offerFlatRate,
		l.RequiresConfirmation(), l.CreatedAt(), l.UpdatedAt(),
	)
	if err != nil {
		return wrapErr("failed to insert listing", err)
	}
	return nil
}

func (r *ListingRepository) FindByID(ctx context.Context, id uuid.UUID) (*listing.Listing, error) {
	var row listingRow
	err := r.db.QueryRow(ctx, `SELECT `+listingColumns+` FROM listings WHERE id = $1`, id).Scan(
		&row.id, &row.providerID, &row.serviceType, &row.title, &row.basePriceCents,
		&row.seatsMax, &row.seatsAvailable, &row.maxGuests,
		&row.negotiationEnabled, &row.negotiationMin, &row.negotiationMax,
		&row.offerKind, &row.offerEnabled, &row.offerMinimumTier, &row.offerRates, &row.offerFlatRate,
		&row.requiresConfirmation, &row.createdAt, &row.updatedAt,
	)
	if err != nil {
		return nil, wrapErr("listing not found", err)
	}
	return row.toDomain()
}

func (r *ListingRepository) UpdateSeats(ctx context.Context, l *listing.Listing) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE listings SET seats_available = $2, updated_at = $3 WHERE id = $1`,
		l.ID(), l.Seats().Available, l.UpdatedAt(),
	)
	if err != nil {
		return wrapErr("failed to update listing seats", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "listing not found")
	}
	return nil
}

type listingRow struct {
	id                   uuid.UUID
	providerID           uuid.UUID
	serviceType          string
	title                string
	basePriceCents       int64
	seatsMax             pgtype.Int4
	seatsAvailable       pgtype.Int4
	maxGuests            int32
	negotiationEnabled   bool
	negotiationMin       pgtype.Int8
	negotiationMax       pgtype.Int8
	offerKind            pgtype.Text
	offerEnabled         pgtype.Bool
	offerMinimumTier     pgtype.Text
	offerRates           []byte
	offerFlatRate        pgtype.Float8
	requiresConfirmation bool
	createdAt            pgtype.Timestamptz
	updatedAt            pgtype.Timestamptz
}

// toListingRow spreads the nullable column groups; only the write path needs
// the rest of the struct so it stays empty.
func toListingRow(l *listing.Listing) (listingRow, error) {
	var row listingRow

	if l.ServiceType().UsesSeatInventory() {
		seats := l.Seats()
		row.seatsMax = pgtype.Int4{Int32: int32(seats.Max), Valid: true}             // #nosec G115
		row.seatsAvailable = pgtype.Int4{Int32: int32(seats.Available), Valid: true} // #nosec G115
	}

	if terms := l.Negotiation(); terms.Enabled {
		row.negotiationMin = pgtype.Int8{Int64: terms.MinPrice.Cents(), Valid: true}
		row.negotiationMax = pgtype.Int8{Int64: terms.MaxPrice.Cents(), Valid: true}
	}

	if offer := l.Offer(); offer != nil {
		row.offerEnabled = pgtype.Bool{Bool: offer.Enabled(), Valid: true}
		if rate, ok := offer.FlatRate(); ok {
			row.offerKind = pgtype.Text{String: offerKindFlat, Valid: true}
			row.offerFlatRate = pgtype.Float8{Float64: rate, Valid: true}
		} else {
			rates := make(map[string]float64, len(offer.Rates()))
			for tier, rate := range offer.Rates() {
				rates[tier.String()] = rate
			}
			encoded, err := json.Marshal(rates)
			if err != nil {
				return listingRow{}, errs.Wrap(err, "failed to encode offer rates")
			}
			row.offerKind = pgtype.Text{String: offerKindTiered, Valid: true}
			row.offerMinimumTier = pgtype.Text{String: offer.MinimumTier().String(), Valid: true}
			row.offerRates = encoded
		}
	}

	return row, nil
}

func (row listingRow) toDomain() (*listing.Listing, error) {
	serviceType := listing.ServiceType(row.serviceType)

	var seats listing.SeatCapacity
	if row.seatsMax.Valid {
		seats = listing.SeatCapacity{Max: int(row.seatsMax.Int32), Available: int(row.seatsAvailable.Int32)}
	}
	var unit listing.UnitCapacity
	if serviceType == listing.ServiceStay {
		unit = listing.UnitCapacity{Total: 1, MaxGuests: int(row.maxGuests)}
	}

	terms := listing.NegotiationTerms{Enabled: row.negotiationEnabled}
	if lo := pgconv.Int8PtrFromPgtype(row.negotiationMin); lo != nil {
		terms.MinPrice = pricing.MoneyFromCents(*lo)
	}
	if hi := pgconv.Int8PtrFromPgtype(row.negotiationMax); hi != nil {
		terms.MaxPrice = pricing.MoneyFromCents(*hi)
	}

	offer, err := row.offer()
	if err != nil {
		return nil, err
	}

	return listing.ReconstructListing(
		row.id, row.providerID,
		serviceType,
		row.title,
		pricing.MoneyFromCents(row.basePriceCents),
		seats,
		unit,
		terms,
		offer,
		row.requiresConfirmation,
		row.createdAt.Time.UTC(), row.updatedAt.Time.UTC(),
	), nil
}

func (row listingRow) offer() (*partnership.Offer, error) {
	if !row.offerKind.Valid {
		return nil, nil
	}

	switch row.offerKind.String {
	case offerKindFlat:
		rates := make(map[partnership.Tier]float64)
		for _, tier := range partnership.Tiers() {
			rates[tier] = row.offerFlatRate.Float64
		}
		return partnership.ReconstructOffer(row.offerEnabled.Bool, rates, partnership.TierBronze), nil
	case offerKindTiered:
		var raw map[string]float64
		if err := json.Unmarshal(row.offerRates, &raw); err != nil {
			return nil, infra.WrapRepoErr(slog.Default(), infra.KindDBFailure, "failed to decode offer rates", err)
		}
		rates := make(map[partnership.Tier]float64, len(raw))
		for name, rate := range raw {
			rates[partnership.Tier(name)] = rate
		}
		return partnership.ReconstructOffer(row.offerEnabled.Bool, rates, partnership.Tier(row.offerMinimumTier.String)), nil
	default:
		return nil, infra.NewRepoErr(infra.KindDBFailure, "unknown offer kind "+row.offerKind.String)
	}
}

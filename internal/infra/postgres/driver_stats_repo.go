package postgres

import (
	"context"

	"booking-engine/internal/domain/partnership"
	"booking-engine/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type DriverStatsRepository struct {
	db DBTX
}

func NewDriverStatsRepository(db DBTX) *DriverStatsRepository {
	return &DriverStatsRepository{db: db}
}

const selectDriverStats = `SELECT id, driver_id, total_rides, total_distance_km, average_rating,
		completed_rides_this_month, completed_rides_this_year, partnership_level,
		last_ride_date, updated_at
	FROM driver_stats WHERE driver_id = $1`

func (r *DriverStatsRepository) FindByDriverID(ctx context.Context, driverID uuid.UUID) (*partnership.DriverStats, error) {
	return r.find(ctx, selectDriverStats, driverID)
}

func (r *DriverStatsRepository) FindByDriverIDForUpdate(ctx context.Context, driverID uuid.UUID) (*partnership.DriverStats, error) {
	return r.find(ctx, selectDriverStats+" FOR UPDATE", driverID)
}

func (r *DriverStatsRepository) find(ctx context.Context, query string, driverID uuid.UUID) (*partnership.DriverStats, error) {
	var (
		id, driver              uuid.UUID
		totalRides              int32
		distance, rating        float64
		thisMonth, thisYear     int32
		level                   string
		lastRideDate, updatedAt pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, query, driverID).Scan(
		&id, &driver, &totalRides, &distance, &rating,
		&thisMonth, &thisYear, &level, &lastRideDate, &updatedAt,
	)
	if err != nil {
		return nil, wrapErr("driver stats not found", err)
	}

	return partnership.ReconstructDriverStats(
		id, driver,
		int(totalRides),
		distance, rating,
		int(thisMonth), int(thisYear),
		partnership.Tier(level),
		pgconv.TimePtrFromPgtype(lastRideDate),
		updatedAt.Time.UTC(),
	), nil
}

// Save upserts on driver_id; one row per driver.
func (r *DriverStatsRepository) Save(ctx context.Context, s *partnership.DriverStats) error {
	_, err := r.db.Exec(ctx, `INSERT INTO driver_stats (
			id, driver_id, total_rides, total_distance_km, average_rating,
			completed_rides_this_month, completed_rides_this_year, partnership_level,
			last_ride_date, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (driver_id) DO UPDATE SET
			total_rides = EXCLUDED.total_rides,
			total_distance_km = EXCLUDED.total_distance_km,
			average_rating = EXCLUDED.average_rating,
			completed_rides_this_month = EXCLUDED.completed_rides_this_month,
			completed_rides_this_year = EXCLUDED.completed_rides_this_year,
			partnership_level = EXCLUDED.partnership_level,
			last_ride_date = EXCLUDED.last_ride_date,
			updated_at = EXCLUDED.updated_at`,
		s.ID(), s.DriverID(), s.TotalRides(), s.TotalDistanceKm(), s.AverageRating(),
		s.CompletedRidesThisMonth(), s.CompletedRidesThisYear(), s.PartnershipLevel().String(),
		pgconv.TimePtrToPgtype(s.LastRideDate()), s.UpdatedAt(),
	)
	if err != nil {
		return wrapErr("failed to save driver stats", err)
	}
	return nil
}

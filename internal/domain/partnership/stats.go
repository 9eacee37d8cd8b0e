package partnership

import (
	"time"

	"github.com/google/uuid"
)

type DriverStats struct {
	id                      uuid.UUID
	driverID                uuid.UUID
	totalRides              int
	totalDistanceKm         float64
	averageRating           float64
	completedRidesThisMonth int
	completedRidesThisYear  int
	partnershipLevel        Tier
	lastRideDate            *time.Time
	updatedAt               time.Time
}

type StatsInput struct {
	DriverID                uuid.UUID
	TotalRides              int
	TotalDistanceKm         float64
	AverageRating           float64
	CompletedRidesThisMonth int
	CompletedRidesThisYear  int
	LastRideDate            *time.Time
}

// NewDriverStats creates stats at the tier the resolver assigns; the level is
// never taken from the caller.
func NewDriverStats(resolver *TierResolver, in StatsInput, now time.Time) *DriverStats {
	s := &DriverStats{
		id:                      uuid.New(),
		driverID:                in.DriverID,
		totalRides:              in.TotalRides,
		totalDistanceKm:         in.TotalDistanceKm,
		averageRating:           in.AverageRating,
		completedRidesThisMonth: in.CompletedRidesThisMonth,
		completedRidesThisYear:  in.CompletedRidesThisYear,
		lastRideDate:            in.LastRideDate,
		updatedAt:               now,
	}
	s.partnershipLevel = resolver.TierFor(s)
	return s
}

func ReconstructDriverStats(
	id, driverID uuid.UUID,
	totalRides int,
	totalDistanceKm, averageRating float64,
	completedRidesThisMonth, completedRidesThisYear int,
	partnershipLevel Tier,
	lastRideDate *time.Time,
	updatedAt time.Time,
) *DriverStats {
	return &DriverStats{
		id:                      id,
		driverID:                driverID,
		totalRides:              totalRides,
		totalDistanceKm:         totalDistanceKm,
		averageRating:           averageRating,
		completedRidesThisMonth: completedRidesThisMonth,
		completedRidesThisYear:  completedRidesThisYear,
		partnershipLevel:        partnershipLevel,
		lastRideDate:            lastRideDate,
		updatedAt:               updatedAt,
	}
}

// Apply replaces the accumulated statistics reported by the ride-completion
// feed and recomputes the level. It reports whether the level changed.
func (s *DriverStats) Apply(resolver *TierResolver, in StatsInput, now time.Time) bool {
	s.totalRides = in.TotalRides
	s.totalDistanceKm = in.TotalDistanceKm
	s.averageRating = in.AverageRating
	s.completedRidesThisMonth = in.CompletedRidesThisMonth
	s.completedRidesThisYear = in.CompletedRidesThisYear
	s.lastRideDate = in.LastRideDate
	s.updatedAt = now
	return s.Recompute(resolver, now)
}

// Recompute refreshes the partnership level and reports whether it changed.
func (s *DriverStats) Recompute(resolver *TierResolver, now time.Time) bool {
	next := resolver.TierFor(s)
	if next == s.partnershipLevel {
		return false
	}
	s.partnershipLevel = next
	s.updatedAt = now
	return true
}

func (s *DriverStats) ID() uuid.UUID                { return s.id }
func (s *DriverStats) DriverID() uuid.UUID          { return s.driverID }
func (s *DriverStats) TotalRides() int              { return s.totalRides }
func (s *DriverStats) TotalDistanceKm() float64     { return s.totalDistanceKm }
func (s *DriverStats) AverageRating() float64       { return s.averageRating }
func (s *DriverStats) CompletedRidesThisMonth() int { return s.completedRidesThisMonth }
func (s *DriverStats) CompletedRidesThisYear() int  { return s.completedRidesThisYear }
func (s *DriverStats) PartnershipLevel() Tier       { return s.partnershipLevel }
func (s *DriverStats) LastRideDate() *time.Time     { return s.lastRideDate }
func (s *DriverStats) UpdatedAt() time.Time         { return s.updatedAt }

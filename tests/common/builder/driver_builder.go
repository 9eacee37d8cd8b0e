//go:build unit || e2e

package builder

import (
	"time"

	"booking-engine/internal/domain/partnership"
	reqdto "booking-engine/internal/handler/dto/request"

	"github.com/google/uuid"
)

type DriverStatsBuilder struct {
	DriverID      uuid.UUID
	TotalRides    int
	DistanceKm    float64
	AverageRating float64
	ThisMonth     int
	ThisYear      int
	Now           time.Time
}

// NewDriverStatsBuilder starts at the gold thresholds.
func NewDriverStatsBuilder() *DriverStatsBuilder {
	return &DriverStatsBuilder{
		DriverID:      uuid.New(),
		TotalRides:    50,
		DistanceKm:    1240.5,
		AverageRating: 4.5,
		ThisMonth:     6,
		ThisYear:      50,
		Now:           time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func (b *DriverStatsBuilder) With(mutate func(*DriverStatsBuilder)) *DriverStatsBuilder {
	mutate(b)
	return b
}

// Build methods
func (b *DriverStatsBuilder) BuildInput() partnership.StatsInput {
	return partnership.StatsInput{
		DriverID:                b.DriverID,
		TotalRides:              b.TotalRides,
		TotalDistanceKm:         b.DistanceKm,
		AverageRating:           b.AverageRating,
		CompletedRidesThisMonth: b.ThisMonth,
		CompletedRidesThisYear:  b.ThisYear,
	}
}

func (b *DriverStatsBuilder) BuildDomain() *partnership.DriverStats {
	return partnership.NewDriverStats(partnership.NewTierResolver(partnership.DefaultThresholds()), b.BuildInput(), b.Now)
}

func (b *DriverStatsBuilder) BuildRecordRequestDTO() reqdto.RecordStatsRequest {
	return reqdto.RecordStatsRequest{
		TotalRides:              b.TotalRides,
		TotalDistanceKm:         b.DistanceKm,
		AverageRating:           b.AverageRating,
		CompletedRidesThisMonth: b.ThisMonth,
		CompletedRidesThisYear:  b.ThisYear,
	}
}

package request

import (
	"time"

	"booking-engine/internal/domain/partnership"
	"booking-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrNegativeStats = errs.Mark(errs.New("ride statistics cannot be negative"), errs.ErrValidation)

type RecordStatsRequest struct {
	TotalRides              int        `json:"totalRides"`
	TotalDistanceKm         float64    `json:"totalDistanceKm"`
	AverageRating           float64    `json:"averageRating"`
	CompletedRidesThisMonth int        `json:"completedRidesThisMonth"`
	CompletedRidesThisYear  int        `json:"completedRidesThisYear"`
	LastRideDate            *time.Time `json:"lastRideDate,omitempty"`
}

func (r RecordStatsRequest) ToInput(driverID uuid.UUID) (partnership.StatsInput, error) {
	if r.TotalRides < 0 || r.TotalDistanceKm < 0 || r.AverageRating < 0 ||
		r.CompletedRidesThisMonth < 0 || r.CompletedRidesThisYear < 0 {
		return partnership.StatsInput{}, ErrNegativeStats
	}
	return partnership.StatsInput{
		DriverID:                driverID,
		TotalRides:              r.TotalRides,
		TotalDistanceKm:         r.TotalDistanceKm,
		AverageRating:           r.AverageRating,
		CompletedRidesThisMonth: r.CompletedRidesThisMonth,
		CompletedRidesThisYear:  r.CompletedRidesThisYear,
		LastRideDate:            r.LastRideDate,
	}, nil
}

package partnership

// Thresholds are the minimum statistics for each tier above bronze.
type Thresholds struct {
	SilverMinRides    int
	GoldMinRides      int
	GoldMinRating     float64
	PlatinumMinRides  int
	PlatinumMinRating float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		SilverMinRides:    25,
		GoldMinRides:      50,
		GoldMinRating:     4.5,
		PlatinumMinRides:  100,
		PlatinumMinRating: 4.7,
	}
}

type TierResolver struct {
	thresholds Thresholds
}

func NewTierResolver(t Thresholds) *TierResolver {
	return &TierResolver{thresholds: t}
}

// TierFor is a pure function of the stats. Every condition is a lower bound on
// a statistic, so raising any input never lowers the result.
func (r *TierResolver) TierFor(s *DriverStats) Tier {
	t := r.thresholds
	switch {
	case s.totalRides >= t.PlatinumMinRides && s.averageRating >= t.PlatinumMinRating:
		return TierPlatinum
	case s.totalRides >= t.GoldMinRides && s.averageRating >= t.GoldMinRating:
		return TierGold
	case s.totalRides >= t.SilverMinRides:
		return TierSilver
	default:
		return TierBronze
	}
}

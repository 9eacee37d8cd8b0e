package memstore

import (
	"booking-engine/internal/domain/inventory"
	"booking-engine/internal/domain/listing"
	"booking-engine/internal/domain/negotiation"
	"booking-engine/internal/domain/partnership"
)

// Entities are copied on the way in and out so callers never share state
// with the committed maps.

func cloneListing(l *listing.Listing) *listing.Listing {
	return listing.ReconstructListing(
		l.ID(), l.ProviderID(), l.ServiceType(), l.Title(), l.BasePrice(),
		l.Seats(), l.Unit(), l.Negotiation(), l.Offer(), l.RequiresConfirmation(),
		l.CreatedAt(), l.UpdatedAt(),
	)
}

func cloneNegotiation(n *negotiation.Negotiation) *negotiation.Negotiation {
	return negotiation.ReconstructNegotiation(
		n.ID(), n.ListingID(), n.CustomerID(), n.ProviderID(),
		n.OriginalPrice(), n.ProposedPrice(), n.CounterPrice(), n.AcceptedPrice(),
		n.Status(), n.ExpiresAt(), n.CreatedAt(), n.UpdatedAt(),
	)
}

func cloneStats(s *partnership.DriverStats) *partnership.DriverStats {
	return partnership.ReconstructDriverStats(
		s.ID(), s.DriverID(), s.TotalRides(), s.TotalDistanceKm(), s.AverageRating(),
		s.CompletedRidesThisMonth(), s.CompletedRidesThisYear(), s.PartnershipLevel(),
		s.LastRideDate(), s.UpdatedAt(),
	)
}

func cloneToken(t *inventory.Token) *inventory.Token {
	return inventory.ReconstructToken(t.ID(), t.ListingID(), t.Quantity(), t.Status(), t.CreatedAt(), t.UpdatedAt())
}

package commands

//go:generate mockgen -source=listing.go -destination=../../../tests/mock/commands/listing.go -package=commandsmock

import (
	"context"
	"log/slog"

	"booking-engine/internal/domain/identity"
	"booking-engine/internal/domain/listing"
	"booking-engine/internal/pkg/clock"
	"booking-engine/internal/usecase/shared"
)

type ListingCommands interface {
	RegisterListing(ctx context.Context, caller identity.Caller, params listing.Params) (*listing.Listing, error)
}

type listingCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewListingCommands(uow shared.UnitOfWork, clock clock.Clock) ListingCommands {
	return &listingCommandsImpl{uow: uow, clock: clock}
}

func (c *listingCommandsImpl) RegisterListing(ctx context.Context, caller identity.Caller, params listing.Params) (*listing.Listing, error) {
	if !caller.CanActAsProvider() {
		return nil, ErrProviderNotVerified
	}
	params.ProviderID = caller.ID

	l, err := listing.NewListing(params, c.clock.Now())
	if err != nil {
		return nil, err
	}
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return repoErr(tx.Listings().Create(ctx, l), ErrListingNotFound)
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "listing registered",
		slog.String("listing_id", l.ID().String()),
		slog.String("provider_id", l.ProviderID().String()),
		slog.String("service_type", l.ServiceType().String()))
	return l, nil
}

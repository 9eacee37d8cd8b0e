package commands

import (
	"context"
	"log/slog"

	"booking-engine/internal/infra"
	"booking-engine/internal/pkg/errs"
)

var (
	ErrListingNotFound     = errs.Mark(errs.New("listing not found"), errs.ErrNotFound)
	ErrBookingNotFound     = errs.Mark(errs.New("booking not found"), errs.ErrNotFound)
	ErrNegotiationNotFound = errs.Mark(errs.New("negotiation not found"), errs.ErrNotFound)
	ErrDriverStatsNotFound = errs.Mark(errs.New("driver stats not found"), errs.ErrNotFound)
	ErrTokenNotFound       = errs.Mark(errs.New("reservation token not found"), errs.ErrNotFound)
	ErrNegotiationReused   = errs.Mark(errs.New("negotiation already seeded an active booking"), errs.ErrValidation)
	ErrProviderNotVerified = errs.Mark(errs.New("only verified providers can register listings"), errs.ErrNotAuthorized)
)

// repoErr maps repository failures onto engine categories. A lost
// compare-and-swap inside a locked section means another writer bypassed the
// lock, so it is treated as corruption.
func repoErr(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case infra.IsKind(err, infra.KindNotFound):
		return notFound
	case infra.IsKind(err, infra.KindConflict):
		return errs.Mark(errs.Wrap(err, "concurrent modification"), errs.ErrIntegrityViolation)
	case errs.IsAny(err, errs.ErrIntegrityViolation, errs.ErrNotFound):
		return err
	default:
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
}

// reportIntegrity logs corruption with enough context to reconcile offline.
// The error is returned unchanged so the request still fails.
func reportIntegrity(ctx context.Context, err error, op string, attrs ...any) error {
	if err == nil || !errs.Is(err, errs.ErrIntegrityViolation) {
		return err
	}
	args := append([]any{
		slog.String("op", op),
		slog.String("error", err.Error()),
		slog.Any("stack", errs.ExtractStackLines(err, 8)),
	}, attrs...)
	slog.ErrorContext(ctx, "integrity violation", args...)
	return err
}

package memstore

import (
	"context"
	"fmt"

	"booking-engine/internal/domain/inventory"
	"booking-engine/internal/infra"

	"github.com/google/uuid"
)

type ledgerRepo struct {
	tx *memTx
}

func (r *ledgerRepo) CreateToken(_ context.Context, t *inventory.Token) error {
	if _, ok := lookup(r.tx.tokens, r.tx.store.tokens, &r.tx.store.mu, t.ID()); ok {
		return infra.NewRepoErr(infra.KindDuplicateKey, "token already exists")
	}
	r.tx.tokens[t.ID()] = cloneToken(t)
	return nil
}

func (r *ledgerRepo) FindToken(_ context.Context, id uuid.UUID) (*inventory.Token, error) {
	t, ok := lookup(r.tx.tokens, r.tx.store.tokens, &r.tx.store.mu, id)
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "token not found")
	}
	return cloneToken(t), nil
}

func (r *ledgerRepo) UpdateToken(_ context.Context, t *inventory.Token, prev inventory.TokenStatus) error {
	cur, ok := lookup(r.tx.tokens, r.tx.store.tokens, &r.tx.store.mu, t.ID())
	if !ok {
		return infra.NewRepoErr(infra.KindNotFound, "token not found")
	}
	if cur.Status() != prev {
		return infra.NewRepoErr(infra.KindConflict, fmt.Sprintf("token status changed from %s to %s", prev, cur.Status()))
	}
	r.tx.tokens[t.ID()] = cloneToken(t)
	return nil
}

func (r *ledgerRepo) LastSeq(_ context.Context, listingID uuid.UUID) (int64, error) {
	if staged := r.tx.entries[listingID]; len(staged) > 0 {
		return staged[len(staged)-1].Seq, nil
	}
	r.tx.store.mu.RLock()
	defer r.tx.store.mu.RUnlock()
	committed := r.tx.store.entries[listingID]
	if len(committed) == 0 {
		return 0, nil
	}
	return committed[len(committed)-1].Seq, nil
}

func (r *ledgerRepo) Append(ctx context.Context, e inventory.Entry) error {
	last, err := r.LastSeq(ctx, e.ListingID)
	if err != nil {
		return err
	}
	if e.Seq != last+1 {
		return infra.NewRepoErr(infra.KindConflict, fmt.Sprintf("ledger seq %d does not follow %d", e.Seq, last))
	}
	r.tx.entries[e.ListingID] = append(r.tx.entries[e.ListingID], e)
	return nil
}

func (r *ledgerRepo) Entries(_ context.Context, listingID uuid.UUID, afterSeq int64, limit int) ([]inventory.Entry, error) {
	r.tx.store.mu.RLock()
	all := append([]inventory.Entry(nil), r.tx.store.entries[listingID]...)
	r.tx.store.mu.RUnlock()
	all = append(all, r.tx.entries[listingID]...)

	out := make([]inventory.Entry, 0, limit)
	for _, e := range all {
		if e.Seq <= afterSeq {
			continue
		}
		out = append(out, e)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

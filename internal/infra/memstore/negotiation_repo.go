package memstore

import (
	"context"
	"sort"
	"time"

	"booking-engine/internal/domain/negotiation"
	"booking-engine/internal/infra"

	"github.com/google/uuid"
)

type negotiationRepo struct {
	tx *memTx
}

func (r *negotiationRepo) Create(_ context.Context, n *negotiation.Negotiation) error {
	if _, ok := lookup(r.tx.negotiations, r.tx.store.negotiations, &r.tx.store.mu, n.ID()); ok {
		return infra.NewRepoErr(infra.KindDuplicateKey, "negotiation already exists")
	}
	r.tx.negotiations[n.ID()] = cloneNegotiation(n)
	return nil
}

func (r *negotiationRepo) FindByID(_ context.Context, id uuid.UUID) (*negotiation.Negotiation, error) {
	n, ok := lookup(r.tx.negotiations, r.tx.store.negotiations, &r.tx.store.mu, id)
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "negotiation not found")
	}
	return cloneNegotiation(n), nil
}

func (r *negotiationRepo) Update(_ context.Context, n *negotiation.Negotiation, prev negotiation.Status) error {
	cur, ok := lookup(r.tx.negotiations, r.tx.store.negotiations, &r.tx.store.mu, n.ID())
	if !ok {
		return infra.NewRepoErr(infra.KindNotFound, "negotiation not found")
	}
	if cur.Status() != prev {
		return infra.NewRepoErr(infra.KindConflict, "negotiation status changed from "+prev.String()+" to "+cur.Status().String())
	}
	r.tx.negotiations[n.ID()] = cloneNegotiation(n)
	return nil
}

func (r *negotiationRepo) ListStale(_ context.Context, now time.Time, limit int) ([]*negotiation.Negotiation, error) {
	r.tx.store.mu.RLock()
	all := make(map[uuid.UUID]*negotiation.Negotiation, len(r.tx.store.negotiations))
	for id, n := range r.tx.store.negotiations {
		all[id] = n
	}
	r.tx.store.mu.RUnlock()
	for id, n := range r.tx.negotiations {
		all[id] = n
	}

	var out []*negotiation.Negotiation
	for _, n := range all {
		if !n.Status().IsTerminal() && !now.Before(n.ExpiresAt()) {
			out = append(out, cloneNegotiation(n))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ExpiresAt().Before(out[j].ExpiresAt())
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

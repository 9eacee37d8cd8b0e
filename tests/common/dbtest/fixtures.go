//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// InsertStayListing writes a bare stay listing row, bypassing the engine.
func InsertStayListing(t *testing.T, db DBLike, providerID uuid.UUID) uuid.UUID {
	t.Helper()

	id := uuid.New()
	now := time.Now().UTC()
	_, err := db.Exec(context.Background(), `
		INSERT INTO listings (id, provider_id, service_type, title, base_price_cents, max_guests, created_at, updated_at)
		VALUES ($1, $2, 'stay', 'Fixture stay', 10000, 4, $3, $3)`,
		id, providerID, now)
	require.NoError(t, err)
	return id
}

// InsertStayBooking writes a booking row over [checkIn, checkOut) directly,
// so the database constraints can be exercised without the engine's checks.
func InsertStayBooking(ctx context.Context, db DBLike, listingID uuid.UUID, checkIn, checkOut, status string) error {
	now := time.Now().UTC()
	_, err := db.Exec(ctx, `
		INSERT INTO bookings (
		    id, customer_id, provider_id, listing_id, service_type, stay_range, stay_granularity,
		    quantity, original_cents, discount_cents, total_cents, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, 'stay', tstzrange($5::date::timestamptz, $6::date::timestamptz, '[)'), 'date',
		    1, 10000, 0, 10000, $7, $8, $8)`,
		uuid.New(), uuid.New(), uuid.New(), listingID, checkIn, checkOut, status, now)
	return err
}

// CountRows returns the number of rows in table matching the listing.
func CountRows(t *testing.T, db DBLike, table string, listingID uuid.UUID) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(),
		"SELECT count(*) FROM "+table+" WHERE listing_id = $1", listingID).Scan(&n)
	require.NoError(t, err)
	return n
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// ResetDB truncates every table except the migration log.
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	_, err := pool.Exec(ctx, sqlAny.(string))
	return err
}

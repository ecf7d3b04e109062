//go:build unit || integration

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
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func CreateTestUser(t *testing.T, db DBLike, role string) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx, "INSERT INTO users (id, role) VALUES ($1, $2)", userID, role)
	require.NoError(t, err)

	return userID
}

func CreateTestProperty(t *testing.T, db DBLike, hostID uuid.UUID) uuid.UUID {
	t.Helper()

	propertyID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx, `
		INSERT INTO properties (id, host_id, title, status, price_per_night, cleaning_fee, security_deposit, capacity, min_stay, max_stay)
		VALUES ($1, $2, 'Test Cabin', 'active', 100.00, 20.00, 50.00, 4, 1, 14)`,
		propertyID, hostID)
	require.NoError(t, err)

	return propertyID
}

// CreateTestReservation inserts a reservation priced for the default test
// property (100/night, 20 cleaning fee, 50 deposit).
func CreateTestReservation(t *testing.T, db DBLike, propertyID, guestID uuid.UUID, checkin, checkout time.Time, status string) uuid.UUID {
	t.Helper()

	reservationID := uuid.New()
	ctx := context.Background()

	nights := int(checkout.Sub(checkin).Hours() / 24)
	require.Positive(t, nights, "checkout must be after checkin")

	subtotal := decimal.NewFromInt(int64(nights) * 100)
	commission := subtotal.Mul(decimal.NewFromFloat(0.10)).Round(2)
	total := subtotal.Add(decimal.NewFromInt(20)).Add(commission)

	_, err := db.Exec(ctx, `
		INSERT INTO reservations (id, property_id, guest_id, checkin, checkout, guest_count, status,
		                          nights, price_per_night, subtotal, cleaning_fee, commission, total, security_deposit)
		VALUES ($1, $2, $3, $4, $5, 2, $6, $7, 100.00, $8, 20.00, $9, $10, 50.00)`,
		reservationID, propertyID, guestID, checkin, checkout, status, nights, subtotal, commission, total)
	require.NoError(t, err)

	return reservationID
}

func CreateTestPayment(t *testing.T, db DBLike, reservationID uuid.UUID, status, gatewayReference string, holdUntil *time.Time) uuid.UUID {
	t.Helper()

	paymentID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx, `
		INSERT INTO payments (id, reservation_id, amount, currency, status, gateway_reference, method, platform_commission, hold_until)
		VALUES ($1, $2, 350.00, 'USD', $3, $4, 'card', 30.00, $5)`,
		paymentID, reservationID, status, gatewayReference, holdUntil)
	require.NoError(t, err)

	return paymentID
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables between tests
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
			var tbl string
			if err := rows.Scan(&tbl); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, tbl)
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
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return nil
}

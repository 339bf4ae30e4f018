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

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// CreateTestCar inserts a car row and returns its generated id.
func CreateTestCar(t *testing.T, db DBLike, brand, model, status string) int64 {
	t.Helper()

	var carID int64
	ctx := context.Background()
	err := db.QueryRow(ctx,
		"INSERT INTO cars (brand, model, year, rental_price, status) VALUES ($1, $2, 2022, 55.0, $3) RETURNING id",
		brand, model, status).Scan(&carID)
	require.NoError(t, err)

	return carID
}

// CreateTestUserView inserts a replicated user row directly, standing in for
// a consumed user event.
func CreateTestUserView(t *testing.T, db DBLike, id int64, name, email string) {
	t.Helper()

	ctx := context.Background()
	_, err := db.Exec(ctx,
		`INSERT INTO users_view (id, name, email, phone_number) VALUES ($1, $2, $3, '')
		 ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, email = EXCLUDED.email`,
		id, name, email)
	require.NoError(t, err)
}

// inserts basic reference data needed by tests
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO users_view (id, name, email, phone_number) VALUES
		    (100, 'Alice Example', 'alice@example.com', ''),
		    (101, 'Bob Example', 'bob@example.com', '')
		ON CONFLICT (id) DO NOTHING;
	`)
	if err != nil {
		return err
	}

	return nil
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables and reseeds reference data
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
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return SeedReferenceData(pool)
}

// Package dbtest opens throwaway sqlite databases carrying the ledger schema.
package dbtest

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/estate/internal/migration"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Open returns a private in-memory database for t. A single connection
// serialises writers, as a row lock would on postgres.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migration.ApplySQLite(context.Background(), db))
	return db
}

func SeedUser(t testing.TB, db *gorm.DB, id int64, name, role string) {
	t.Helper()
	require.NoError(t, db.Exec(`INSERT INTO users (id, name, role) VALUES (?, ?, ?)`, id, name, role).Error)
}

func SeedUnit(t testing.TB, db *gorm.DB, id int64, number string, residents ...int64) {
	t.Helper()
	require.NoError(t, db.Exec(`INSERT INTO units (id, block, number) VALUES (?, 'A', ?)`, id, number).Error)
	for _, residentID := range residents {
		require.NoError(t, db.Exec(`INSERT INTO unit_residents (unit_id, resident_id) VALUES (?, ?)`, id, residentID).Error)
	}
}

// Ticket describes a maintenance ticket row for seeding.
type Ticket struct {
	ID         int64
	Title      string
	Status     string
	AssignedTo *int64
	ActualCost *decimal.Decimal
	ResolvedAt *time.Time
}

func SeedTicket(t testing.TB, db *gorm.DB, ticket Ticket) {
	t.Helper()
	if ticket.Title == "" {
		ticket.Title = "Leaking tap"
	}
	require.NoError(t, db.Exec(
		`INSERT INTO maintenance_tickets (id, title, status, assigned_to, actual_cost, resolved_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ticket.ID, ticket.Title, ticket.Status, ticket.AssignedTo, ticket.ActualCost, ticket.ResolvedAt,
		time.Now().UTC(), time.Now().UTC(),
	).Error)
}

func Int64(v int64) *int64 { return &v }

func Decimal(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

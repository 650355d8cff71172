package migration

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestApplySQLiteIsIdempotent(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, ApplySQLite(ctx, db))
	require.NoError(t, ApplySQLite(ctx, db))

	for _, table := range []string{"users", "units", "unit_residents", "maintenance_tickets", "bills", "payments", "expenses"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestExpenseTicketLinkIsUnique(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, ApplySQLite(context.Background(), db))

	insert := `INSERT INTO expenses (id, expense_type, amount, maintenance_ticket_id, payment_status) VALUES (?, 'maintenance', 100, ?, 'paid')`
	require.NoError(t, db.Exec(insert, 1, 10).Error)
	assert.Error(t, db.Exec(insert, 2, 10).Error)

	// manual entries carry no ticket and never collide
	manual := `INSERT INTO expenses (id, expense_type, amount, payment_status) VALUES (?, 'utility', 50, 'pending')`
	require.NoError(t, db.Exec(manual, 3).Error)
	require.NoError(t, db.Exec(manual, 4).Error)
}

func TestSplitStatements(t *testing.T) {
	stmts := splitStatements("CREATE TABLE a (id INT);\n\n CREATE INDEX b ON a (id);\n")
	assert.Equal(t, []string{"CREATE TABLE a (id INT)", "CREATE INDEX b ON a (id)"}, stmts)
}

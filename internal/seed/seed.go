package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	directorydomain "github.com/smallbiznis/estate/internal/directory/domain"
	"gorm.io/gorm"
)

const (
	demoAdminEmail    = "admin@estate.local"
	demoStaffEmail    = "maintenance@estate.local"
	demoResidentEmail = "resident@estate.local"
	demoBlock         = "A"
	demoTicketTitle   = "Replace corridor lights"
)

// Society holds the ids of the seeded demo rows.
type Society struct {
	AdminID    snowflake.ID
	StaffID    snowflake.ID
	ResidentID snowflake.ID
	UnitIDs    []snowflake.ID
	TicketID   snowflake.ID
}

// EnsureDemoSociety seeds an admin, a maintenance staff member, a resident
// owning two units and one resolved ticket awaiting payout. Rows are matched
// on their natural keys so repeated runs leave the data unchanged.
func EnsureDemoSociety(ctx context.Context, db *gorm.DB, node *snowflake.Node) (Society, error) {
	if db == nil {
		return Society{}, errors.New("seed database handle is required")
	}
	if node == nil {
		return Society{}, errors.New("seed id generator is required")
	}

	var society Society
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if society.AdminID, err = ensureUserTx(ctx, tx, node, "Society Admin", demoAdminEmail, directorydomain.RoleAdmin); err != nil {
			return err
		}
		if society.StaffID, err = ensureUserTx(ctx, tx, node, "Ravi Kumar", demoStaffEmail, directorydomain.RoleStaff); err != nil {
			return err
		}
		if society.ResidentID, err = ensureUserTx(ctx, tx, node, "Meera Iyer", demoResidentEmail, directorydomain.RoleResident); err != nil {
			return err
		}
		for _, number := range []string{"101", "102"} {
			unitID, err := ensureUnitTx(ctx, tx, node, demoBlock, number)
			if err != nil {
				return err
			}
			if err := ensureResidentTx(ctx, tx, unitID, society.ResidentID); err != nil {
				return err
			}
			society.UnitIDs = append(society.UnitIDs, unitID)
		}
		society.TicketID, err = ensureTicketTx(ctx, tx, node, society.UnitIDs[0], society.StaffID)
		return err
	})
	if err != nil {
		return Society{}, err
	}
	return society, nil
}

func ensureUserTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, name, email, role string) (snowflake.ID, error) {
	var existing []int64
	if err := tx.WithContext(ctx).Raw(`SELECT id FROM users WHERE email = ?`, email).Scan(&existing).Error; err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return snowflake.ID(existing[0]), nil
	}

	id := node.Generate()
	err := tx.WithContext(ctx).Exec(
		`INSERT INTO users (id, name, email, role, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, name, email, role, time.Now().UTC(),
	).Error
	return id, err
}

func ensureUnitTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, block, number string) (snowflake.ID, error) {
	var existing []int64
	if err := tx.WithContext(ctx).Raw(`SELECT id FROM units WHERE block = ? AND number = ?`, block, number).Scan(&existing).Error; err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return snowflake.ID(existing[0]), nil
	}

	id := node.Generate()
	err := tx.WithContext(ctx).Exec(
		`INSERT INTO units (id, block, number, created_at) VALUES (?, ?, ?, ?)`,
		id, block, number, time.Now().UTC(),
	).Error
	return id, err
}

func ensureResidentTx(ctx context.Context, tx *gorm.DB, unitID, residentID snowflake.ID) error {
	var count int64
	err := tx.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM unit_residents WHERE unit_id = ? AND resident_id = ?`, unitID, residentID,
	).Scan(&count).Error
	if err != nil || count > 0 {
		return err
	}
	return tx.WithContext(ctx).Exec(
		`INSERT INTO unit_residents (unit_id, resident_id) VALUES (?, ?)`, unitID, residentID,
	).Error
}

func ensureTicketTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, unitID, staffID snowflake.ID) (snowflake.ID, error) {
	var existing []int64
	err := tx.WithContext(ctx).Raw(
		`SELECT id FROM maintenance_tickets WHERE unit_id = ? AND title = ?`, unitID, demoTicketTitle,
	).Scan(&existing).Error
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return snowflake.ID(existing[0]), nil
	}

	now := time.Now().UTC()
	id := node.Generate()
	err = tx.WithContext(ctx).Exec(
		`INSERT INTO maintenance_tickets (id, unit_id, title, status, assigned_to, actual_cost, resolved_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, unitID, demoTicketTitle, directorydomain.TicketResolved, staffID,
		decimal.RequireFromString("1800.00"), now, now, now,
	).Error
	return id, err
}

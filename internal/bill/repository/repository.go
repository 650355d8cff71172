package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/estate/internal/bill/domain"
	"github.com/smallbiznis/estate/pkg/apperr"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

const billColumns = `id, unit_id, bill_type, amount, bill_date, due_date, description, status, created_by, created_at, updated_at`

func (r *repo) Insert(ctx context.Context, db *gorm.DB, bill *domain.Bill) error {
	err := db.WithContext(ctx).Exec(
		`INSERT INTO bills (`+billColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		bill.ID,
		bill.UnitID,
		bill.BillType,
		bill.Amount,
		bill.BillDate,
		bill.DueDate,
		bill.Description,
		bill.Status,
		bill.CreatedBy,
		bill.CreatedAt,
		bill.UpdatedAt,
	).Error
	return apperr.Storage("insert bill", err)
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Bill, error) {
	var bill domain.Bill
	err := db.WithContext(ctx).Raw(`SELECT `+billColumns+` FROM bills WHERE id = ?`, id).Scan(&bill).Error
	if err != nil {
		return nil, apperr.Storage("find bill", err)
	}
	if bill.ID == 0 {
		return nil, nil
	}
	return &bill, nil
}

func (r *repo) FindByIDForUpdate(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Bill, error) {
	var bills []domain.Bill
	err := db.WithContext(ctx).
		Model(&domain.Bill{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		Limit(1).
		Find(&bills).Error
	if err != nil {
		return nil, apperr.Storage("lock bill", err)
	}
	if len(bills) == 0 {
		return nil, nil
	}
	return &bills[0], nil
}

func (r *repo) MarkPaid(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE bills SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		domain.StatusPaid, at, id, domain.StatusUnpaid,
	)
	if res.Error != nil {
		return false, apperr.Storage("mark bill paid", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]*domain.Bill, error) {
	var bills []*domain.Bill
	stmt := db.WithContext(ctx).Model(&domain.Bill{})
	if len(filter.UnitIDs) > 0 {
		stmt = stmt.Where("unit_id IN ?", filter.UnitIDs)
	}
	switch filter.Status {
	case domain.StatusPaid:
		stmt = stmt.Where("status = ?", domain.StatusPaid)
	case domain.StatusUnpaid:
		stmt = stmt.Where("status = ? AND due_date >= ?", domain.StatusUnpaid, filter.Now)
	case domain.StatusOverdue:
		stmt = stmt.Where("status = ? AND due_date < ?", domain.StatusUnpaid, filter.Now)
	}
	if filter.AfterID != 0 {
		stmt = stmt.Where("id < ?", filter.AfterID)
	}
	if filter.Limit > 0 {
		stmt = stmt.Limit(filter.Limit)
	}
	if err := stmt.Order("id desc").Find(&bills).Error; err != nil {
		return nil, apperr.Storage("list bills", err)
	}
	return bills, nil
}

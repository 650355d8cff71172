package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/estate/internal/expense/domain"
	"github.com/smallbiznis/estate/pkg/apperr"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

const expenseColumns = `id, expense_type, category, amount, staff_id, maintenance_ticket_id, payment_status,
	payment_date, payment_method, period_month, period_year, recorded_by_id, notes, created_at, updated_at`

func (r *repo) Insert(ctx context.Context, db *gorm.DB, expense *domain.Expense) error {
	err := db.WithContext(ctx).Exec(
		`INSERT INTO expenses (`+expenseColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID,
		expense.ExpenseType,
		expense.Category,
		expense.Amount,
		expense.StaffID,
		expense.MaintenanceTicketID,
		expense.PaymentStatus,
		expense.PaymentDate,
		expense.PaymentMethod,
		expense.PeriodMonth,
		expense.PeriodYear,
		expense.RecordedByID,
		expense.Notes,
		expense.CreatedAt,
		expense.UpdatedAt,
	).Error
	return apperr.Storage("insert expense", err)
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Expense, error) {
	return r.findOne(ctx, db, "find expense", `id = ?`, id)
}

func (r *repo) FindByTicket(ctx context.Context, db *gorm.DB, ticketID snowflake.ID) (*domain.Expense, error) {
	return r.findOne(ctx, db, "find expense by ticket", `maintenance_ticket_id = ?`, ticketID)
}

func (r *repo) findOne(ctx context.Context, db *gorm.DB, op, where string, arg any) (*domain.Expense, error) {
	var expense domain.Expense
	err := db.WithContext(ctx).Raw(`SELECT `+expenseColumns+` FROM expenses WHERE `+where, arg).Scan(&expense).Error
	if err != nil {
		return nil, apperr.Storage(op, err)
	}
	if expense.ID == 0 {
		return nil, nil
	}
	return &expense, nil
}

func (r *repo) LinkedTickets(ctx context.Context, db *gorm.DB, ticketIDs []snowflake.ID) (map[snowflake.ID]struct{}, error) {
	linked := make(map[snowflake.ID]struct{})
	if len(ticketIDs) == 0 {
		return linked, nil
	}
	var ids []int64
	err := db.WithContext(ctx).Raw(
		`SELECT maintenance_ticket_id FROM expenses WHERE maintenance_ticket_id IN ?`,
		ticketIDs,
	).Scan(&ids).Error
	if err != nil {
		return nil, apperr.Storage("linked tickets", err)
	}
	for _, id := range ids {
		linked[snowflake.ID(id)] = struct{}{}
	}
	return linked, nil
}

func (r *repo) Settle(ctx context.Context, db *gorm.DB, id snowflake.ID, s domain.Settlement) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE expenses
		 SET payment_status = ?,
		     payment_method = COALESCE(?, payment_method),
		     payment_date = COALESCE(?, payment_date),
		     updated_at = ?
		 WHERE id = ? AND payment_status = ?`,
		s.Status, s.Method, s.Date, s.At, id, domain.StatusPending,
	)
	if res.Error != nil {
		return false, apperr.Storage("settle expense", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]*domain.Expense, error) {
	var expenses []*domain.Expense
	stmt := db.WithContext(ctx).Model(&domain.Expense{})
	if filter.ExpenseType != "" {
		stmt = stmt.Where("expense_type = ?", filter.ExpenseType)
	}
	if filter.StaffID != 0 {
		stmt = stmt.Where("staff_id = ?", filter.StaffID)
	}
	if filter.Status != "" {
		stmt = stmt.Where("payment_status = ?", filter.Status)
	}
	if filter.PeriodYear != 0 {
		stmt = stmt.Where("period_year = ?", filter.PeriodYear)
	}
	if filter.PeriodMonth != 0 {
		stmt = stmt.Where("period_month = ?", filter.PeriodMonth)
	}
	if filter.AfterID != 0 {
		stmt = stmt.Where("id < ?", filter.AfterID)
	}
	if filter.Limit > 0 {
		stmt = stmt.Limit(filter.Limit)
	}
	if err := stmt.Order("id desc").Find(&expenses).Error; err != nil {
		return nil, apperr.Storage("list expenses", err)
	}
	return expenses, nil
}

func (r *repo) SalaryHistory(ctx context.Context, db *gorm.DB, staffID snowflake.ID) ([]domain.Expense, error) {
	expenses := []domain.Expense{}
	err := db.WithContext(ctx).Raw(
		`SELECT `+expenseColumns+` FROM expenses
		 WHERE staff_id = ? AND expense_type = ?
		 ORDER BY period_year DESC, period_month DESC, id DESC`,
		staffID, domain.TypeSalary,
	).Scan(&expenses).Error
	if err != nil {
		return nil, apperr.Storage("salary history", err)
	}
	return expenses, nil
}

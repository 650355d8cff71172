package repository

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	expensedomain "github.com/smallbiznis/estate/internal/expense/domain"
	"github.com/smallbiznis/estate/internal/performance/domain"
	"github.com/smallbiznis/estate/pkg/apperr"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

type performanceRow struct {
	TasksCompleted        int64
	TotalMaintenanceValue decimal.NullDecimal
	TotalSalaryPaid       decimal.NullDecimal
	SalaryPaymentCount    int64
}

func (r *repo) Performance(ctx context.Context, db *gorm.DB, staffID snowflake.ID, period domain.Period) (domain.Performance, error) {
	where, args := periodWhere([]string{"staff_id = ?", "payment_status = ?"},
		[]any{staffID, expensedomain.StatusPaid}, period)

	query := `SELECT
		COUNT(DISTINCT CASE WHEN expense_type = ? THEN maintenance_ticket_id END) AS tasks_completed,
		SUM(CASE WHEN expense_type = ? THEN amount END) AS total_maintenance_value,
		SUM(CASE WHEN expense_type = ? THEN amount END) AS total_salary_paid,
		COUNT(CASE WHEN expense_type = ? THEN 1 END) AS salary_payment_count
	FROM expenses WHERE ` + where
	args = append([]any{
		expensedomain.TypeMaintenance,
		expensedomain.TypeMaintenance,
		expensedomain.TypeSalary,
		expensedomain.TypeSalary,
	}, args...)

	var row performanceRow
	if err := db.WithContext(ctx).Raw(query, args...).Scan(&row).Error; err != nil {
		return domain.Performance{}, apperr.Storage("staff performance", err)
	}
	return domain.Performance{
		StaffID:               staffID,
		TasksCompleted:        row.TasksCompleted,
		TotalMaintenanceValue: orZero(row.TotalMaintenanceValue),
		TotalSalaryPaid:       orZero(row.TotalSalaryPaid),
		SalaryPaymentCount:    row.SalaryPaymentCount,
		PeriodYear:            period.Year,
		PeriodMonth:           period.Month,
	}, nil
}

type totalsRow struct {
	ExpenseType string
	Paid        decimal.NullDecimal
	Pending     decimal.NullDecimal
	Count       int64
}

func (r *repo) TotalsByType(ctx context.Context, db *gorm.DB, filter domain.AggregateFilter) ([]domain.TypeTotals, error) {
	conds := []string{"payment_status <> ?"}
	args := []any{expensedomain.StatusCancelled}
	if filter.StaffID != 0 {
		conds = append(conds, "staff_id = ?")
		args = append(args, filter.StaffID)
	}
	where, args := periodWhere(conds, args, filter.Period)

	query := `SELECT expense_type,
		SUM(CASE WHEN payment_status = ? THEN amount END) AS paid,
		SUM(CASE WHEN payment_status = ? THEN amount END) AS pending,
		COUNT(*) AS count
	FROM expenses WHERE ` + where + `
	GROUP BY expense_type
	ORDER BY expense_type`
	args = append([]any{expensedomain.StatusPaid, expensedomain.StatusPending}, args...)

	var rows []totalsRow
	if err := db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, apperr.Storage("expense totals", err)
	}
	totals := make([]domain.TypeTotals, 0, len(rows))
	for _, row := range rows {
		paid, pending := orZero(row.Paid), orZero(row.Pending)
		totals = append(totals, domain.TypeTotals{
			ExpenseType: row.ExpenseType,
			Total:       paid.Add(pending),
			Paid:        paid,
			Pending:     pending,
			Count:       row.Count,
		})
	}
	return totals, nil
}

func periodWhere(conds []string, args []any, period domain.Period) (string, []any) {
	if period.Year != nil {
		conds = append(conds, "period_year = ?")
		args = append(args, *period.Year)
	}
	if period.Month != nil {
		conds = append(conds, "period_month = ?")
		args = append(args, *period.Month)
	}
	return strings.Join(conds, " AND "), args
}

// orZero also rounds away float noise from sqlite sums.
func orZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal.Round(2)
}

package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	expensedomain "github.com/smallbiznis/estate/internal/expense/domain"
	"github.com/smallbiznis/estate/pkg/apperr"
	"gorm.io/gorm"
)

// Performance is computed from paid expenses only.
type Performance struct {
	StaffID               snowflake.ID    `json:"staff_id"`
	StaffName             string          `json:"staff_name,omitempty"`
	TasksCompleted        int64           `json:"tasks_completed"`
	TotalMaintenanceValue decimal.Decimal `json:"total_maintenance_value"`
	TotalSalaryPaid       decimal.Decimal `json:"total_salary_paid"`
	SalaryPaymentCount    int64           `json:"salary_payment_count"`
	PeriodYear            *int            `json:"period_year,omitempty"`
	PeriodMonth           *int            `json:"period_month,omitempty"`
}

type TypeTotals struct {
	ExpenseType string          `json:"expense_type"`
	Total       decimal.Decimal `json:"total"`
	Paid        decimal.Decimal `json:"paid"`
	Pending     decimal.Decimal `json:"pending"`
	Count       int64           `json:"count"`
}

type Period struct {
	Year  *int
	Month *int
}

type AggregateFilter struct {
	StaffID snowflake.ID
	Period
}

type Repository interface {
	Performance(ctx context.Context, db *gorm.DB, staffID snowflake.ID, period Period) (Performance, error)
	TotalsByType(ctx context.Context, db *gorm.DB, filter AggregateFilter) ([]TypeTotals, error)
}

type Service interface {
	GetPerformance(ctx context.Context, staffID snowflake.ID, period Period) (Performance, error)
	GetAggregateStats(ctx context.Context, filter AggregateFilter) ([]TypeTotals, error)
	SalaryHistory(ctx context.Context, staffID snowflake.ID) ([]expensedomain.Expense, error)
}

var ErrInvalidPeriod = apperr.New(apperr.KindValidation, "invalid_period", "month must be 1-12 and requires a year")

// Validate rejects a month without a year and out of range values.
func (p Period) Validate() error {
	if p.Month != nil && (p.Year == nil || *p.Month < 1 || *p.Month > 12) {
		return ErrInvalidPeriod
	}
	if p.Year != nil && (*p.Year < 1900 || *p.Year > 9999) {
		return ErrInvalidPeriod
	}
	return nil
}

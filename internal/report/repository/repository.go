package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	billdomain "github.com/smallbiznis/estate/internal/bill/domain"
	expensedomain "github.com/smallbiznis/estate/internal/expense/domain"
	paymentdomain "github.com/smallbiznis/estate/internal/payment/domain"
	"github.com/smallbiznis/estate/internal/report/domain"
	"github.com/smallbiznis/estate/pkg/apperr"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

type statsRow struct {
	TotalRevenue      decimal.NullDecimal
	PendingDues       decimal.NullDecimal
	OverdueDues       decimal.NullDecimal
	TotalExpensesPaid decimal.NullDecimal
	PaidBillCount     int64
	UnpaidBillCount   int64
}

// FinancialStats reads every figure in one statement so they share a snapshot.
func (r *repo) FinancialStats(ctx context.Context, db *gorm.DB, now time.Time) (domain.FinancialStats, error) {
	var row statsRow
	err := db.WithContext(ctx).Raw(
		`SELECT
			(SELECT SUM(amount_paid) FROM payments WHERE status = ?) AS total_revenue,
			(SELECT SUM(amount) FROM bills WHERE status = ?) AS pending_dues,
			(SELECT SUM(amount) FROM bills WHERE status = ? AND due_date < ?) AS overdue_dues,
			(SELECT SUM(amount) FROM expenses WHERE payment_status = ?) AS total_expenses_paid,
			(SELECT COUNT(*) FROM bills WHERE status = ?) AS paid_bill_count,
			(SELECT COUNT(*) FROM bills WHERE status = ?) AS unpaid_bill_count`,
		paymentdomain.StatusSuccess,
		billdomain.StatusUnpaid,
		billdomain.StatusUnpaid, now,
		expensedomain.StatusPaid,
		billdomain.StatusPaid,
		billdomain.StatusUnpaid,
	).Scan(&row).Error
	if err != nil {
		return domain.FinancialStats{}, apperr.Storage("financial stats", err)
	}

	revenue := orZero(row.TotalRevenue)
	expenses := orZero(row.TotalExpensesPaid)
	return domain.FinancialStats{
		TotalRevenue:      revenue,
		PendingDues:       orZero(row.PendingDues),
		OverdueDues:       orZero(row.OverdueDues),
		TotalExpensesPaid: expenses,
		NetBalance:        revenue.Sub(expenses),
		PaidBillCount:     row.PaidBillCount,
		UnpaidBillCount:   row.UnpaidBillCount,
		GeneratedAt:       now,
	}, nil
}

func orZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal.Round(2)
}

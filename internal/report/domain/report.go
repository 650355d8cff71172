package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FinancialStats is a single-snapshot view of the ledger. PendingDues covers
// every unpaid bill, overdue ones included; OverdueDues is that subset.
type FinancialStats struct {
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	PendingDues       decimal.Decimal `json:"pending_dues"`
	OverdueDues       decimal.Decimal `json:"overdue_dues"`
	TotalExpensesPaid decimal.Decimal `json:"total_expenses_paid"`
	NetBalance        decimal.Decimal `json:"net_balance"`
	PaidBillCount     int64           `json:"paid_bill_count"`
	UnpaidBillCount   int64           `json:"unpaid_bill_count"`
	GeneratedAt       time.Time       `json:"generated_at"`
}

type Repository interface {
	FinancialStats(ctx context.Context, db *gorm.DB, now time.Time) (FinancialStats, error)
}

type Service interface {
	GetFinancialStats(ctx context.Context) (FinancialStats, error)
}

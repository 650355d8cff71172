package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

const (
	StatusUnpaid  = "unpaid"
	StatusPaid    = "paid"
	StatusOverdue = "overdue" // derived, never stored
)

type Bill struct {
	ID          snowflake.ID    `gorm:"primaryKey" json:"id"`
	UnitID      snowflake.ID    `gorm:"not null;index" json:"unit_id"`
	BillType    string          `gorm:"not null" json:"bill_type"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	BillDate    time.Time       `gorm:"not null" json:"bill_date"`
	DueDate     time.Time       `gorm:"not null" json:"due_date"`
	Description string          `gorm:"not null;default:''" json:"description"`
	Status      string          `gorm:"not null;default:'unpaid'" json:"status"`
	CreatedBy   *snowflake.ID   `json:"created_by,omitempty"`
	CreatedAt   time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null" json:"updated_at"`
}

func (Bill) TableName() string { return "bills" }

// BillView is a bill as presented at a point in time. Its Status shadows the
// stored one and may read "overdue".
type BillView struct {
	Bill
	Status      string          `json:"status"`
	IsOverdue   bool            `json:"is_overdue"`
	DaysOverdue int             `json:"days_overdue"`
	FineAmount  decimal.Decimal `json:"fine_amount"`
	TotalDue    decimal.Decimal `json:"total_due"`
}

// Derive computes the presentation status of b at now. It never touches the
// stored row: an unpaid bill past its due date reads as overdue and accrues
// finePerDay for every full day late.
func Derive(b Bill, now time.Time, finePerDay decimal.Decimal) BillView {
	view := BillView{
		Bill:       b,
		Status:     b.Status,
		FineAmount: decimal.Zero,
		TotalDue:   b.Amount,
	}
	switch {
	case b.Status == StatusPaid:
		view.TotalDue = decimal.Zero
	case b.Status == StatusUnpaid && b.DueDate.Before(now):
		days := int(now.Sub(b.DueDate) / (24 * time.Hour))
		view.Status = StatusOverdue
		view.IsOverdue = true
		view.DaysOverdue = days
		view.FineAmount = finePerDay.Mul(decimal.NewFromInt(int64(days)))
		view.TotalDue = b.Amount.Add(view.FineAmount)
	}
	return view
}

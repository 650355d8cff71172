package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

const (
	TypeSalary      = "salary"
	TypeMaintenance = "maintenance"
	TypeUtility     = "utility"
	TypeOther       = "other"
)

const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusCancelled = "cancelled"
)

// CategoryMaintenancePayout marks expenses created from a resolved ticket.
const CategoryMaintenancePayout = "maintenance_payout"

func ValidType(t string) bool {
	switch t {
	case TypeSalary, TypeMaintenance, TypeUtility, TypeOther:
		return true
	}
	return false
}

// Expense is an outgoing payment. At most one expense references a given
// maintenance ticket; PaymentStatus only moves from pending to a terminal state.
type Expense struct {
	ID                  snowflake.ID    `gorm:"primaryKey" json:"id"`
	ExpenseType         string          `gorm:"not null" json:"expense_type"`
	Category            string          `gorm:"not null;default:''" json:"category"`
	Amount              decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	StaffID             *snowflake.ID   `json:"staff_id,omitempty"`
	MaintenanceTicketID *snowflake.ID   `gorm:"uniqueIndex" json:"maintenance_ticket_id,omitempty"`
	PaymentStatus       string          `gorm:"not null;default:'pending'" json:"payment_status"`
	PaymentDate         *time.Time      `json:"payment_date,omitempty"`
	PaymentMethod       *string         `json:"payment_method,omitempty"`
	PeriodMonth         *int            `json:"period_month,omitempty"`
	PeriodYear          *int            `json:"period_year,omitempty"`
	RecordedByID        *snowflake.ID   `json:"recorded_by_id,omitempty"`
	Notes               string          `gorm:"not null;default:''" json:"notes"`
	CreatedAt           time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt           time.Time       `gorm:"not null" json:"updated_at"`
}

func (Expense) TableName() string { return "expenses" }

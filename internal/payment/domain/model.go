package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

const (
	StatusSuccess = "success"

	ReceiptStatusVerified = "Verified"
)

const (
	MethodCash         = "cash"
	MethodCard         = "card"
	MethodUPI          = "upi"
	MethodBankTransfer = "bank_transfer"
	MethodCheque       = "cheque"
	MethodOnline       = "online"
)

var methods = map[string]struct{}{
	MethodCash:         {},
	MethodCard:         {},
	MethodUPI:          {},
	MethodBankTransfer: {},
	MethodCheque:       {},
	MethodOnline:       {},
}

// ValidMethod reports whether method is an accepted payment method.
func ValidMethod(method string) bool {
	_, ok := methods[method]
	return ok
}

// Payment settles exactly one bill and is immutable once written.
type Payment struct {
	ID                   snowflake.ID    `gorm:"primaryKey" json:"id"`
	BillID               snowflake.ID    `gorm:"not null;uniqueIndex" json:"bill_id"`
	PayerID              snowflake.ID    `gorm:"not null;index" json:"payer_id"`
	AmountPaid           decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount_paid"`
	PaymentMethod        string          `gorm:"not null" json:"payment_method"`
	TransactionReference string          `gorm:"not null;uniqueIndex" json:"transaction_reference"`
	Status               string          `gorm:"not null" json:"status"`
	PaidAt               time.Time       `gorm:"not null" json:"paid_at"`
	CreatedAt            time.Time       `gorm:"not null" json:"created_at"`
}

func (Payment) TableName() string { return "payments" }

type Receipt struct {
	ReceiptID      snowflake.ID    `json:"receipt_id"`
	Date           time.Time       `json:"date"`
	Amount         decimal.Decimal `json:"amount"`
	Method         string          `json:"method"`
	TransactionRef string          `json:"transaction_ref"`
	Status         string          `json:"status"`
	BillID         snowflake.ID    `json:"bill_id"`
	BillType       string          `json:"bill_type"`
	UnitID         snowflake.ID    `json:"unit_id"`
}

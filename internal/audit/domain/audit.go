package domain

import (
	"context"

	"gorm.io/datatypes"
)

const (
	ActionBillCreated     = "bill.created"
	ActionPaymentRecorded = "payment.recorded"
	ActionPayoutApproved  = "payout.approved"
	ActionExpenseCreated  = "expense.created"
	ActionExpensePaid     = "expense.paid"
	ActionExpenseCanceled = "expense.cancelled"
)

type Entry struct {
	ActorID      string
	Action       string
	ResourceType string
	ResourceID   string
	Metadata     datatypes.JSONMap
}

// Logger records financial actions. Record never fails the caller.
type Logger interface {
	Record(ctx context.Context, entry Entry)
}

package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	expensedomain "github.com/smallbiznis/estate/internal/expense/domain"
	"github.com/smallbiznis/estate/pkg/apperr"
)

// PendingPayout is a resolved ticket that has no expense recorded yet.
type PendingPayout struct {
	TicketID    snowflake.ID    `json:"ticket_id"`
	Title       string          `json:"title"`
	StaffID     *snowflake.ID   `json:"staff_id,omitempty"`
	StaffName   string          `json:"staff_name,omitempty"`
	ActualCost  decimal.Decimal `json:"actual_cost"`
	BonusAmount decimal.Decimal `json:"bonus_amount"`
	TotalPayout decimal.Decimal `json:"total_payout"`
	ResolvedAt  *time.Time      `json:"resolved_at,omitempty"`
}

type ApproveRequest struct {
	TicketID        snowflake.ID
	BonusPercentage *decimal.Decimal
	PaymentMethod   string
	ActorID         snowflake.ID
}

type Service interface {
	ListPending(ctx context.Context) ([]PendingPayout, error)
	Approve(ctx context.Context, req ApproveRequest) (expensedomain.Expense, error)
}

// Bonus returns cost × pct / 100 and the resulting payout, both rounded to cents.
func Bonus(cost, pct decimal.Decimal) (bonus, total decimal.Decimal) {
	bonus = cost.Mul(pct).Div(decimal.NewFromInt(100)).Round(2)
	total = cost.Round(2).Add(bonus)
	return bonus, total
}

var (
	ErrAlreadyRecorded   = apperr.New(apperr.KindAlreadyPaid, "payout_already_recorded", "a payout has already been recorded for this ticket")
	ErrTicketNotResolved = apperr.New(apperr.KindNotEligible, "ticket_not_resolved", "only resolved tickets are eligible for payout")
	ErrInvalidBonus      = apperr.New(apperr.KindValidation, "invalid_bonus_percentage", "bonus percentage is out of range")
	ErrInvalidActualCost = apperr.New(apperr.KindValidation, "invalid_actual_cost", "ticket has no positive actual cost")
	ErrInvalidMethod     = apperr.New(apperr.KindValidation, "invalid_payment_method", "payment method is not supported")
	ErrActorRequired     = apperr.New(apperr.KindValidation, "actor_required", "the approving actor is required")
)

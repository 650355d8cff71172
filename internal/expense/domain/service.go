package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/estate/pkg/apperr"
	"github.com/smallbiznis/estate/pkg/db/pagination"
)

type CreateExpenseRequest struct {
	ExpenseType   string
	Category      string
	Amount        decimal.Decimal
	StaffID       *snowflake.ID
	PeriodMonth   *int
	PeriodYear    *int
	PaymentStatus string
	PaymentMethod string
	Notes         string
	ActorID       snowflake.ID
}

type MarkPaidRequest struct {
	ID            snowflake.ID
	PaymentMethod string
	PaidAt        *time.Time
	ActorID       snowflake.ID
}

type ListExpenseRequest struct {
	pagination.Pagination
	ExpenseType string
	StaffID     snowflake.ID
	Status      string
	PeriodYear  int
	PeriodMonth int
}

type ListExpenseResponse struct {
	pagination.PageInfo
	Expenses []Expense `json:"expenses"`
}

type Service interface {
	Create(ctx context.Context, req CreateExpenseRequest) (Expense, error)
	Get(ctx context.Context, id snowflake.ID) (Expense, error)
	List(ctx context.Context, req ListExpenseRequest) (ListExpenseResponse, error)
	MarkPaid(ctx context.Context, req MarkPaidRequest) (Expense, error)
	Cancel(ctx context.Context, id, actorID snowflake.ID) (Expense, error)
	SalaryHistory(ctx context.Context, staffID snowflake.ID) ([]Expense, error)
}

var (
	ErrInvalidType     = apperr.New(apperr.KindValidation, "invalid_expense_type", "expense type must be one of salary, maintenance, utility, other")
	ErrInvalidAmount   = apperr.New(apperr.KindValidation, "invalid_amount", "amount must be positive with at most two decimal places")
	ErrInvalidPeriod   = apperr.New(apperr.KindValidation, "invalid_period", "period month must be 1-12 and requires a period year")
	ErrStaffRequired   = apperr.New(apperr.KindValidation, "staff_required", "salary expenses require a staff member and period")
	ErrInvalidStaff    = apperr.New(apperr.KindValidation, "invalid_staff", "staff member does not exist")
	ErrInvalidStatus   = apperr.New(apperr.KindValidation, "invalid_payment_status", "payment status must be pending or paid")
	ErrInvalidMethod   = apperr.New(apperr.KindValidation, "invalid_payment_method", "payment method is not supported")
	ErrInvalidCategory = apperr.New(apperr.KindValidation, "invalid_category", "category is reserved or too long")
	ErrActorRequired   = apperr.New(apperr.KindValidation, "actor_required", "the recording actor is required")
	ErrNotFound        = apperr.New(apperr.KindNotFound, "expense_not_found", "expense not found")
	ErrNotPending      = apperr.New(apperr.KindAlreadyPaid, "expense_not_pending", "expense is already paid or cancelled")
)

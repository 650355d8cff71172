package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/estate/pkg/apperr"
	"github.com/smallbiznis/estate/pkg/db/pagination"
)

type CreateBillRequest struct {
	UnitID      snowflake.ID
	BillType    string
	Amount      decimal.Decimal
	BillDate    *time.Time
	DueDate     *time.Time
	Description string
	ActorID     snowflake.ID
}

// ListBillRequest scopes by UnitID, or by the units of ResidentID, or not at all.
type ListBillRequest struct {
	pagination.Pagination
	UnitID     snowflake.ID
	ResidentID snowflake.ID
	Status     string
}

type ListBillResponse struct {
	pagination.PageInfo
	Bills []BillView `json:"bills"`
}

type Service interface {
	Create(ctx context.Context, req CreateBillRequest) (Bill, error)
	List(ctx context.Context, req ListBillRequest) (ListBillResponse, error)
	Get(ctx context.Context, id snowflake.ID) (BillView, error)
}

var (
	ErrInvalidAmount   = apperr.New(apperr.KindValidation, "invalid_amount", "amount must be a positive value with at most two decimals")
	ErrInvalidUnit     = apperr.New(apperr.KindValidation, "invalid_unit", "unit does not exist")
	ErrInvalidBillType = apperr.New(apperr.KindValidation, "invalid_bill_type", "bill type is required")
	ErrInvalidDueDate  = apperr.New(apperr.KindValidation, "invalid_due_date", "due date must not precede the bill date")
	ErrInvalidStatus   = apperr.New(apperr.KindValidation, "invalid_status", "status must be one of unpaid, paid, overdue")
	ErrNotFound        = apperr.New(apperr.KindNotFound, "bill_not_found", "bill not found")
)

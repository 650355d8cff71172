package domain

import (
	"context"
	"io"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/estate/pkg/apperr"
	"github.com/smallbiznis/estate/pkg/db/pagination"
)

type PayBillRequest struct {
	BillID        snowflake.ID
	PayerID       snowflake.ID
	Amount        decimal.Decimal
	PaymentMethod string
}

type ListPaymentRequest struct {
	pagination.Pagination
	BillID  snowflake.ID
	PayerID snowflake.ID
}

type ListPaymentResponse struct {
	pagination.PageInfo
	Payments []Payment `json:"payments"`
}

type Service interface {
	PayBill(ctx context.Context, req PayBillRequest) (Payment, error)
	Get(ctx context.Context, paymentID snowflake.ID) (Payment, error)
	GetReceipt(ctx context.Context, paymentID snowflake.ID) (Receipt, error)
	RenderReceipt(ctx context.Context, paymentID snowflake.ID) (io.Reader, error)
	List(ctx context.Context, req ListPaymentRequest) (ListPaymentResponse, error)
}

var (
	ErrInvalidPayer      = apperr.New(apperr.KindValidation, "invalid_payer", "payer is required")
	ErrInvalidBill       = apperr.New(apperr.KindValidation, "invalid_bill", "bill is required")
	ErrInvalidMethod     = apperr.New(apperr.KindValidation, "invalid_payment_method", "payment method must be one of cash, card, upi, bank_transfer, cheque, online")
	ErrInvalidAmount     = apperr.New(apperr.KindValidation, "invalid_amount", "amount must be positive")
	ErrBillAlreadyPaid   = apperr.New(apperr.KindAlreadyPaid, "bill_already_paid", "bill has already been paid")
	ErrPaymentInProgress = apperr.New(apperr.KindAlreadyPaid, "payment_in_progress", "another payment for this bill is in progress")
	ErrAmountMismatch    = apperr.New(apperr.KindAmountMismatch, "amount_mismatch", "amount must equal the bill amount")
	ErrNotFound          = apperr.New(apperr.KindNotFound, "payment_not_found", "payment not found")
)

package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/estate/internal/payment/domain"
	"github.com/smallbiznis/estate/pkg/apperr"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

const paymentColumns = `id, bill_id, payer_id, amount_paid, payment_method, transaction_reference, status, paid_at, created_at`

func (r *repo) Insert(ctx context.Context, db *gorm.DB, payment *domain.Payment) error {
	err := db.WithContext(ctx).Exec(
		`INSERT INTO payments (`+paymentColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		payment.ID,
		payment.BillID,
		payment.PayerID,
		payment.AmountPaid,
		payment.PaymentMethod,
		payment.TransactionReference,
		payment.Status,
		payment.PaidAt,
		payment.CreatedAt,
	).Error
	return apperr.Storage("insert payment", err)
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Payment, error) {
	var payment domain.Payment
	err := db.WithContext(ctx).Raw(`SELECT `+paymentColumns+` FROM payments WHERE id = ?`, id).Scan(&payment).Error
	if err != nil {
		return nil, apperr.Storage("find payment", err)
	}
	if payment.ID == 0 {
		return nil, nil
	}
	return &payment, nil
}

func (r *repo) FindReceipt(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Receipt, error) {
	var receipt domain.Receipt
	err := db.WithContext(ctx).Raw(
		`SELECT p.id AS receipt_id, p.paid_at AS date, p.amount_paid AS amount,
		        p.payment_method AS method, p.transaction_reference AS transaction_ref,
		        p.bill_id, b.bill_type, b.unit_id
		 FROM payments p
		 JOIN bills b ON b.id = p.bill_id
		 WHERE p.id = ? AND p.status = ?`,
		id, domain.StatusSuccess,
	).Scan(&receipt).Error
	if err != nil {
		return nil, apperr.Storage("find receipt", err)
	}
	if receipt.ReceiptID == 0 {
		return nil, nil
	}
	receipt.Status = domain.ReceiptStatusVerified
	return &receipt, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]*domain.Payment, error) {
	var payments []*domain.Payment
	stmt := db.WithContext(ctx).Model(&domain.Payment{})
	if filter.BillID != 0 {
		stmt = stmt.Where("bill_id = ?", filter.BillID)
	}
	if filter.PayerID != 0 {
		stmt = stmt.Where("payer_id = ?", filter.PayerID)
	}
	if filter.AfterID != 0 {
		stmt = stmt.Where("id < ?", filter.AfterID)
	}
	if filter.Limit > 0 {
		stmt = stmt.Limit(filter.Limit)
	}
	if err := stmt.Order("id desc").Find(&payments).Error; err != nil {
		return nil, apperr.Storage("list payments", err)
	}
	return payments, nil
}

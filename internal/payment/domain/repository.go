package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListFilter struct {
	BillID  snowflake.ID
	PayerID snowflake.ID
	AfterID snowflake.ID
	Limit   int
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, payment *Payment) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Payment, error)
	FindReceipt(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Receipt, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]*Payment, error)
}

package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListFilter struct {
	ExpenseType string
	StaffID     snowflake.ID
	Status      string
	PeriodYear  int
	PeriodMonth int
	AfterID     snowflake.ID
	Limit       int
}

// Settlement describes a pending → terminal move.
type Settlement struct {
	Status string
	Method *string
	Date   *time.Time
	At     time.Time
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, expense *Expense) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Expense, error)
	FindByTicket(ctx context.Context, db *gorm.DB, ticketID snowflake.ID) (*Expense, error)
	// LinkedTickets returns the subset of ticketIDs already referenced by an expense.
	LinkedTickets(ctx context.Context, db *gorm.DB, ticketIDs []snowflake.ID) (map[snowflake.ID]struct{}, error)
	// Settle moves a pending expense; false means it was not pending.
	Settle(ctx context.Context, db *gorm.DB, id snowflake.ID, s Settlement) (bool, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]*Expense, error)
	SalaryHistory(ctx context.Context, db *gorm.DB, staffID snowflake.ID) ([]Expense, error)
}

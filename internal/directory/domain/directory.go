package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/estate/pkg/apperr"
)

const (
	RoleAdmin    = "admin"
	RoleStaff    = "staff"
	RoleResident = "resident"
)

const (
	TicketOpen       = "open"
	TicketInProgress = "in_progress"
	TicketResolved   = "resolved"
	TicketClosed     = "closed"
	TicketRejected   = "rejected"
)

type Staff struct {
	ID   snowflake.ID `json:"id"`
	Name string       `json:"name"`
	Role string       `json:"role"`
}

// Ticket is the ledger's read of a maintenance ticket. ActualCost is nil
// until the assignee records it.
type Ticket struct {
	ID           snowflake.ID     `json:"id"`
	Title        string           `json:"title"`
	Status       string           `json:"status"`
	AssignedTo   *snowflake.ID    `json:"assigned_to,omitempty"`
	AssigneeName string           `json:"assignee_name,omitempty"`
	ActualCost   *decimal.Decimal `json:"actual_cost,omitempty"`
	ResolvedAt   *time.Time       `json:"resolved_at,omitempty"`
}

//go:generate mockgen -source=directory.go -destination=../mocks/mock_directory.go -package=mocks

type UnitDirectory interface {
	Exists(ctx context.Context, unitID snowflake.ID) (bool, error)
	UnitsForResident(ctx context.Context, residentID snowflake.ID) ([]snowflake.ID, error)
}

type StaffDirectory interface {
	Get(ctx context.Context, staffID snowflake.ID) (Staff, error)
}

type TicketDirectory interface {
	Get(ctx context.Context, ticketID snowflake.ID) (Ticket, error)
	ListResolved(ctx context.Context) ([]Ticket, error)
	MarkClosed(ctx context.Context, ticketID snowflake.ID) error
}

var (
	ErrStaffNotFound     = apperr.New(apperr.KindNotFound, "staff_not_found", "staff member not found")
	ErrTicketNotFound    = apperr.New(apperr.KindNotFound, "ticket_not_found", "maintenance ticket not found")
	ErrTicketNotClosable = apperr.New(apperr.KindNotEligible, "ticket_not_closable", "only resolved tickets can be closed")
)

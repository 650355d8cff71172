package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/estate/internal/clock"
	"github.com/smallbiznis/estate/internal/directory/domain"
	"github.com/smallbiznis/estate/pkg/apperr"
	"gorm.io/gorm"
)

type ticketDirectory struct {
	db    *gorm.DB
	clock clock.Clock
}

func NewTicketDirectory(db *gorm.DB, clk clock.Clock) domain.TicketDirectory {
	return &ticketDirectory{db: db, clock: clk}
}

type ticketRow struct {
	ID           snowflake.ID
	Title        string
	Status       string
	AssignedTo   *snowflake.ID
	AssigneeName *string
	ActualCost   decimal.NullDecimal
	ResolvedAt   *time.Time
}

func (r ticketRow) toDomain() domain.Ticket {
	t := domain.Ticket{
		ID:         r.ID,
		Title:      r.Title,
		Status:     r.Status,
		AssignedTo: r.AssignedTo,
		ResolvedAt: r.ResolvedAt,
	}
	if r.AssigneeName != nil {
		t.AssigneeName = *r.AssigneeName
	}
	if r.ActualCost.Valid {
		cost := r.ActualCost.Decimal
		t.ActualCost = &cost
	}
	return t
}

const ticketColumns = `t.id, t.title, t.status, t.assigned_to, u.name AS assignee_name, t.actual_cost, t.resolved_at
	FROM maintenance_tickets t
	LEFT JOIN users u ON u.id = t.assigned_to`

func (d *ticketDirectory) Get(ctx context.Context, ticketID snowflake.ID) (domain.Ticket, error) {
	var row ticketRow
	err := d.db.WithContext(ctx).Raw(`SELECT `+ticketColumns+` WHERE t.id = ?`, ticketID).Scan(&row).Error
	if err != nil {
		return domain.Ticket{}, apperr.Storage("get ticket", err)
	}
	if row.ID == 0 {
		return domain.Ticket{}, domain.ErrTicketNotFound
	}
	return row.toDomain(), nil
}

func (d *ticketDirectory) ListResolved(ctx context.Context) ([]domain.Ticket, error) {
	var rows []ticketRow
	err := d.db.WithContext(ctx).Raw(
		`SELECT `+ticketColumns+` WHERE t.status = ? ORDER BY t.resolved_at, t.id`,
		domain.TicketResolved,
	).Scan(&rows).Error
	if err != nil {
		return nil, apperr.Storage("list resolved tickets", err)
	}
	tickets := make([]domain.Ticket, 0, len(rows))
	for _, row := range rows {
		tickets = append(tickets, row.toDomain())
	}
	return tickets, nil
}

// MarkClosed moves a resolved ticket to closed. Closing an already closed
// ticket is a no-op.
func (d *ticketDirectory) MarkClosed(ctx context.Context, ticketID snowflake.ID) error {
	now := d.clock.Now().UTC()
	res := d.db.WithContext(ctx).Exec(
		`UPDATE maintenance_tickets SET status = ?, closed_at = ?, updated_at = ? WHERE id = ? AND status = ?`,
		domain.TicketClosed, now, now, ticketID, domain.TicketResolved,
	)
	if res.Error != nil {
		return apperr.Storage("close ticket", res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	ticket, err := d.Get(ctx, ticketID)
	if err != nil {
		return err
	}
	if ticket.Status == domain.TicketClosed {
		return nil
	}
	return domain.ErrTicketNotClosable
}

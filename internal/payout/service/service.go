package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	auditdomain "github.com/smallbiznis/estate/internal/audit/domain"
	"github.com/smallbiznis/estate/internal/clock"
	"github.com/smallbiznis/estate/internal/config"
	directorydomain "github.com/smallbiznis/estate/internal/directory/domain"
	expensedomain "github.com/smallbiznis/estate/internal/expense/domain"
	"github.com/smallbiznis/estate/internal/observability/metrics"
	paymentdomain "github.com/smallbiznis/estate/internal/payment/domain"
	"github.com/smallbiznis/estate/internal/payout/domain"
	"github.com/smallbiznis/estate/pkg/apperr"
	"github.com/smallbiznis/estate/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const defaultPayoutMethod = paymentdomain.MethodBankTransfer

type Params struct {
	fx.In

	DB            *gorm.DB
	Log           *zap.Logger
	GenID         *snowflake.Node
	Expenses      expensedomain.Repository
	Tickets       directorydomain.TicketDirectory
	Policy        *config.PolicyHolder
	Clock         clock.Clock
	Audit         auditdomain.Logger
	Metrics       *metrics.Metrics       `optional:"true"`
	LedgerMetrics *metrics.LedgerMetrics `optional:"true"`
}

type Service struct {
	db            *gorm.DB
	log           *zap.Logger
	genID         *snowflake.Node
	expenses      expensedomain.Repository
	tickets       directorydomain.TicketDirectory
	policy        *config.PolicyHolder
	clock         clock.Clock
	audit         auditdomain.Logger
	metrics       *metrics.Metrics
	ledgerMetrics *metrics.LedgerMetrics
}

func New(p Params) domain.Service {
	return &Service{
		db:            p.DB,
		log:           p.Log.Named("payout.service"),
		genID:         p.GenID,
		expenses:      p.Expenses,
		tickets:       p.Tickets,
		policy:        p.Policy,
		clock:         p.Clock,
		audit:         p.Audit,
		metrics:       p.Metrics,
		ledgerMetrics: p.LedgerMetrics,
	}
}

func (s *Service) ListPending(ctx context.Context) ([]domain.PendingPayout, error) {
	tickets, err := s.tickets.ListResolved(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]snowflake.ID, 0, len(tickets))
	for _, t := range tickets {
		ids = append(ids, t.ID)
	}
	linked, err := s.expenses.LinkedTickets(ctx, s.db, ids)
	if err != nil {
		return nil, err
	}

	pct := s.policy.Get().DefaultBonusPercentage
	pending := make([]domain.PendingPayout, 0, len(tickets))
	for _, t := range tickets {
		if _, ok := linked[t.ID]; ok {
			continue
		}
		cost := decimal.Zero
		if t.ActualCost != nil {
			cost = *t.ActualCost
		}
		bonus, total := domain.Bonus(cost, pct)
		pending = append(pending, domain.PendingPayout{
			TicketID:    t.ID,
			Title:       t.Title,
			StaffID:     t.AssignedTo,
			StaffName:   t.AssigneeName,
			ActualCost:  cost,
			BonusAmount: bonus,
			TotalPayout: total,
			ResolvedAt:  t.ResolvedAt,
		})
	}
	return pending, nil
}

// Approve records the bonus-adjusted payout for a resolved ticket. The unique
// index on expenses.maintenance_ticket_id decides between concurrent approvals;
// the lookup before it only produces a friendlier error.
func (s *Service) Approve(ctx context.Context, req domain.ApproveRequest) (expensedomain.Expense, error) {
	started := time.Now()
	expense, err := s.approve(ctx, req)
	s.ledgerMetrics.ObserveWrite(metrics.WriteApprovePayout, started, err)
	if err != nil {
		s.metrics.RecordPayout(ctx, apperr.CodeOf(err))
		if apperr.Is(err, apperr.KindAlreadyPaid) {
			s.metrics.RecordConflict(ctx, "maintenance_ticket", apperr.CodeOf(err))
		}
		return expensedomain.Expense{}, err
	}
	s.metrics.RecordPayout(ctx, "approved")

	if err := s.tickets.MarkClosed(ctx, req.TicketID); err != nil {
		s.log.Warn("payout recorded but ticket not closed",
			zap.String("ticket_id", req.TicketID.String()),
			zap.String("expense_id", expense.ID.String()),
			zap.Error(err),
		)
	}

	s.log.Info("payout approved",
		zap.String("ticket_id", req.TicketID.String()),
		zap.String("expense_id", expense.ID.String()),
		zap.String("amount", expense.Amount.StringFixed(2)),
	)
	s.audit.Record(ctx, auditdomain.Entry{
		ActorID:      req.ActorID.String(),
		Action:       auditdomain.ActionPayoutApproved,
		ResourceType: "maintenance_ticket",
		ResourceID:   req.TicketID.String(),
		Metadata: datatypes.JSONMap{
			"expense_id": expense.ID.String(),
			"amount":     expense.Amount.StringFixed(2),
		},
	})
	return expense, nil
}

func (s *Service) approve(ctx context.Context, req domain.ApproveRequest) (expensedomain.Expense, error) {
	if req.ActorID == 0 {
		return expensedomain.Expense{}, domain.ErrActorRequired
	}
	ticket, err := s.tickets.Get(ctx, req.TicketID)
	if err != nil {
		return expensedomain.Expense{}, err
	}

	existing, err := s.expenses.FindByTicket(ctx, s.db, ticket.ID)
	if err != nil {
		return expensedomain.Expense{}, err
	}
	if existing != nil {
		return expensedomain.Expense{}, domain.ErrAlreadyRecorded
	}
	if ticket.Status != directorydomain.TicketResolved {
		return expensedomain.Expense{}, domain.ErrTicketNotResolved
	}

	policy := s.policy.Get()
	pct := policy.DefaultBonusPercentage
	if req.BonusPercentage != nil {
		pct = *req.BonusPercentage
	}
	if pct.IsNegative() || pct.GreaterThan(policy.MaxBonusPercentage) {
		return expensedomain.Expense{}, domain.ErrInvalidBonus
	}
	if ticket.ActualCost == nil || !ticket.ActualCost.IsPositive() {
		return expensedomain.Expense{}, domain.ErrInvalidActualCost
	}

	method := strings.ToLower(strings.TrimSpace(req.PaymentMethod))
	if method == "" {
		method = defaultPayoutMethod
	}
	if !paymentdomain.ValidMethod(method) {
		return expensedomain.Expense{}, domain.ErrInvalidMethod
	}

	_, amount := domain.Bonus(*ticket.ActualCost, pct)
	now := s.clock.Now().UTC()
	month, year := int(now.Month()), now.Year()
	ticketID := ticket.ID
	expense := expensedomain.Expense{
		ID:                  s.genID.Generate(),
		ExpenseType:         expensedomain.TypeMaintenance,
		Category:            expensedomain.CategoryMaintenancePayout,
		Amount:              amount,
		StaffID:             ticket.AssignedTo,
		MaintenanceTicketID: &ticketID,
		PaymentStatus:       expensedomain.StatusPaid,
		PaymentDate:         &now,
		PaymentMethod:       &method,
		PeriodMonth:         &month,
		PeriodYear:          &year,
		Notes:               "Payout for ticket: " + ticket.Title,
		RecordedByID:        &req.ActorID,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.expenses.Insert(ctx, tx, &expense); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return domain.ErrAlreadyRecorded
			}
			return err
		}
		return nil
	})
	if err != nil {
		return expensedomain.Expense{}, apperr.Storage("approve payout", err)
	}
	return expense, nil
}

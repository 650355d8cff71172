package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	auditdomain "github.com/smallbiznis/estate/internal/audit/domain"
	"github.com/smallbiznis/estate/internal/clock"
	directorydomain "github.com/smallbiznis/estate/internal/directory/domain"
	"github.com/smallbiznis/estate/internal/expense/domain"
	"github.com/smallbiznis/estate/internal/observability/metrics"
	paymentdomain "github.com/smallbiznis/estate/internal/payment/domain"
	"github.com/smallbiznis/estate/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const maxCategoryLength = 64

var maxAmount = decimal.New(1, 12)

type Params struct {
	fx.In

	DB            *gorm.DB
	Log           *zap.Logger
	GenID         *snowflake.Node
	Repo          domain.Repository
	Staff         directorydomain.StaffDirectory
	Clock         clock.Clock
	Audit         auditdomain.Logger
	Metrics       *metrics.Metrics       `optional:"true"`
	LedgerMetrics *metrics.LedgerMetrics `optional:"true"`
}

type Service struct {
	db            *gorm.DB
	log           *zap.Logger
	genID         *snowflake.Node
	repo          domain.Repository
	staff         directorydomain.StaffDirectory
	clock         clock.Clock
	audit         auditdomain.Logger
	metrics       *metrics.Metrics
	ledgerMetrics *metrics.LedgerMetrics
}

func New(p Params) domain.Service {
	return &Service{
		db:            p.DB,
		log:           p.Log.Named("expense.service"),
		genID:         p.GenID,
		repo:          p.Repo,
		staff:         p.Staff,
		clock:         p.Clock,
		audit:         p.Audit,
		metrics:       p.Metrics,
		ledgerMetrics: p.LedgerMetrics,
	}
}

// Create records a manual expense. Ticket-linked expenses are only created by
// the payout reconciler.
func (s *Service) Create(ctx context.Context, req domain.CreateExpenseRequest) (domain.Expense, error) {
	started := time.Now()
	expense, err := s.create(ctx, req)
	s.ledgerMetrics.ObserveWrite(metrics.WriteExpense, started, err)
	if err != nil {
		return domain.Expense{}, err
	}

	s.metrics.RecordExpense(ctx, expense.ExpenseType, expense.PaymentStatus)
	s.audit.Record(ctx, auditdomain.Entry{
		ActorID:      actorString(req.ActorID),
		Action:       auditdomain.ActionExpenseCreated,
		ResourceType: "expense",
		ResourceID:   expense.ID.String(),
		Metadata: datatypes.JSONMap{
			"expense_type":   expense.ExpenseType,
			"amount":         expense.Amount.StringFixed(2),
			"payment_status": expense.PaymentStatus,
		},
	})
	return expense, nil
}

func (s *Service) create(ctx context.Context, req domain.CreateExpenseRequest) (domain.Expense, error) {
	if req.ActorID == 0 {
		return domain.Expense{}, domain.ErrActorRequired
	}
	expenseType := strings.ToLower(strings.TrimSpace(req.ExpenseType))
	if !domain.ValidType(expenseType) {
		return domain.Expense{}, domain.ErrInvalidType
	}
	if !validAmount(req.Amount) {
		return domain.Expense{}, domain.ErrInvalidAmount
	}
	category := strings.TrimSpace(req.Category)
	if category == domain.CategoryMaintenancePayout || len(category) > maxCategoryLength {
		return domain.Expense{}, domain.ErrInvalidCategory
	}
	if err := validatePeriod(req.PeriodMonth, req.PeriodYear); err != nil {
		return domain.Expense{}, err
	}
	if expenseType == domain.TypeSalary {
		if req.StaffID == nil || req.PeriodMonth == nil || req.PeriodYear == nil {
			return domain.Expense{}, domain.ErrStaffRequired
		}
	}

	status := strings.ToLower(strings.TrimSpace(req.PaymentStatus))
	if status == "" {
		status = domain.StatusPending
	}
	if status != domain.StatusPending && status != domain.StatusPaid {
		return domain.Expense{}, domain.ErrInvalidStatus
	}
	method, err := normalizeMethod(req.PaymentMethod)
	if err != nil {
		return domain.Expense{}, err
	}

	if req.StaffID != nil {
		if _, err := s.staff.Get(ctx, *req.StaffID); err != nil {
			if errors.Is(err, directorydomain.ErrStaffNotFound) {
				return domain.Expense{}, domain.ErrInvalidStaff
			}
			return domain.Expense{}, err
		}
	}

	now := s.clock.Now().UTC()
	expense := domain.Expense{
		ID:            s.genID.Generate(),
		ExpenseType:   expenseType,
		Category:      category,
		Amount:        req.Amount,
		StaffID:       req.StaffID,
		PaymentStatus: status,
		PaymentMethod: method,
		PeriodMonth:   req.PeriodMonth,
		PeriodYear:    req.PeriodYear,
		RecordedByID:  &req.ActorID,
		Notes:         strings.TrimSpace(req.Notes),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if status == domain.StatusPaid {
		expense.PaymentDate = &now
	}

	if err := s.repo.Insert(ctx, s.db, &expense); err != nil {
		s.log.Error("failed to insert expense", zap.String("expense_type", expenseType), zap.Error(err))
		return domain.Expense{}, err
	}
	return expense, nil
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (domain.Expense, error) {
	if id == 0 {
		return domain.Expense{}, domain.ErrNotFound
	}
	expense, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Expense{}, err
	}
	if expense == nil {
		return domain.Expense{}, domain.ErrNotFound
	}
	return *expense, nil
}

func (s *Service) List(ctx context.Context, req domain.ListExpenseRequest) (domain.ListExpenseResponse, error) {
	expenseType := strings.ToLower(strings.TrimSpace(req.ExpenseType))
	if expenseType != "" && !domain.ValidType(expenseType) {
		return domain.ListExpenseResponse{}, domain.ErrInvalidType
	}
	status := strings.ToLower(strings.TrimSpace(req.Status))
	switch status {
	case "", domain.StatusPending, domain.StatusPaid, domain.StatusCancelled:
	default:
		return domain.ListExpenseResponse{}, domain.ErrInvalidStatus
	}
	if req.PeriodMonth < 0 || req.PeriodMonth > 12 || (req.PeriodMonth != 0 && req.PeriodYear == 0) {
		return domain.ListExpenseResponse{}, domain.ErrInvalidPeriod
	}

	page := req.Pagination.Normalize()
	afterID, err := page.AfterID()
	if err != nil {
		return domain.ListExpenseResponse{}, err
	}

	items, err := s.repo.List(ctx, s.db, domain.ListFilter{
		ExpenseType: expenseType,
		StaffID:     req.StaffID,
		Status:      status,
		PeriodYear:  req.PeriodYear,
		PeriodMonth: req.PeriodMonth,
		AfterID:     afterID,
		Limit:       page.PageSize + 1,
	})
	if err != nil {
		return domain.ListExpenseResponse{}, err
	}

	items, pageInfo := pagination.Trim(items, page.PageSize, func(e *domain.Expense) string {
		return pagination.IDCursor(e.ID)
	})
	expenses := make([]domain.Expense, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		expenses = append(expenses, *item)
	}
	return domain.ListExpenseResponse{PageInfo: pageInfo, Expenses: expenses}, nil
}

func (s *Service) MarkPaid(ctx context.Context, req domain.MarkPaidRequest) (domain.Expense, error) {
	method, err := normalizeMethod(req.PaymentMethod)
	if err != nil {
		return domain.Expense{}, err
	}
	now := s.clock.Now().UTC()
	paidAt := now
	if req.PaidAt != nil {
		paidAt = req.PaidAt.UTC()
	}
	return s.settle(ctx, req.ID, req.ActorID, auditdomain.ActionExpensePaid, domain.Settlement{
		Status: domain.StatusPaid,
		Method: method,
		Date:   &paidAt,
		At:     now,
	})
}

func (s *Service) Cancel(ctx context.Context, id, actorID snowflake.ID) (domain.Expense, error) {
	return s.settle(ctx, id, actorID, auditdomain.ActionExpenseCanceled, domain.Settlement{
		Status: domain.StatusCancelled,
		At:     s.clock.Now().UTC(),
	})
}

func (s *Service) settle(ctx context.Context, id, actorID snowflake.ID, action string, settlement domain.Settlement) (domain.Expense, error) {
	if id == 0 {
		return domain.Expense{}, domain.ErrNotFound
	}

	var expense *domain.Expense
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updated, err := s.repo.Settle(ctx, tx, id, settlement)
		if err != nil {
			return err
		}
		expense, err = s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if expense == nil {
			return domain.ErrNotFound
		}
		if !updated {
			return domain.ErrNotPending
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotPending) {
			s.metrics.RecordConflict(ctx, "expense", domain.ErrNotPending.Code)
		}
		return domain.Expense{}, err
	}

	s.metrics.RecordExpense(ctx, expense.ExpenseType, expense.PaymentStatus)
	s.audit.Record(ctx, auditdomain.Entry{
		ActorID:      actorString(actorID),
		Action:       action,
		ResourceType: "expense",
		ResourceID:   expense.ID.String(),
		Metadata: datatypes.JSONMap{
			"payment_status": expense.PaymentStatus,
		},
	})
	return *expense, nil
}

func (s *Service) SalaryHistory(ctx context.Context, staffID snowflake.ID) ([]domain.Expense, error) {
	if staffID == 0 {
		return nil, domain.ErrInvalidStaff
	}
	return s.repo.SalaryHistory(ctx, s.db, staffID)
}

func validatePeriod(month, year *int) error {
	if month != nil {
		if *month < 1 || *month > 12 || year == nil {
			return domain.ErrInvalidPeriod
		}
	}
	if year != nil && (*year < 1900 || *year > 9999) {
		return domain.ErrInvalidPeriod
	}
	return nil
}

func normalizeMethod(method string) (*string, error) {
	method = strings.ToLower(strings.TrimSpace(method))
	if method == "" {
		return nil, nil
	}
	if !paymentdomain.ValidMethod(method) {
		return nil, domain.ErrInvalidMethod
	}
	return &method, nil
}

func validAmount(amount decimal.Decimal) bool {
	return amount.IsPositive() && amount.LessThan(maxAmount) && amount.Equal(amount.Round(2))
}

func actorString(id snowflake.ID) string {
	if id == 0 {
		return ""
	}
	return id.String()
}

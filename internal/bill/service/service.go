package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	auditdomain "github.com/smallbiznis/estate/internal/audit/domain"
	"github.com/smallbiznis/estate/internal/bill/domain"
	"github.com/smallbiznis/estate/internal/clock"
	"github.com/smallbiznis/estate/internal/config"
	directorydomain "github.com/smallbiznis/estate/internal/directory/domain"
	"github.com/smallbiznis/estate/internal/observability/metrics"
	"github.com/smallbiznis/estate/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const maxBillTypeLength = 64

// maxAmount is the first value that no longer fits NUMERIC(14,2).
var maxAmount = decimal.New(1, 12)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Repo    domain.Repository
	Units   directorydomain.UnitDirectory
	Policy  *config.PolicyHolder
	Clock   clock.Clock
	Audit   auditdomain.Logger
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	repo    domain.Repository
	units   directorydomain.UnitDirectory
	policy  *config.PolicyHolder
	clock   clock.Clock
	audit   auditdomain.Logger
	metrics *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("bill.service"),
		genID:   p.GenID,
		repo:    p.Repo,
		units:   p.Units,
		policy:  p.Policy,
		clock:   p.Clock,
		audit:   p.Audit,
		metrics: p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateBillRequest) (domain.Bill, error) {
	if req.UnitID == 0 {
		return domain.Bill{}, domain.ErrInvalidUnit
	}
	if !validAmount(req.Amount) {
		return domain.Bill{}, domain.ErrInvalidAmount
	}
	billType := slug.Make(strings.TrimSpace(req.BillType))
	if billType == "" || len(billType) > maxBillTypeLength {
		return domain.Bill{}, domain.ErrInvalidBillType
	}

	policy := s.policy.Get()
	now := s.clock.Now().UTC()
	billDate := now
	if req.BillDate != nil {
		billDate = req.BillDate.UTC()
	}
	dueDate := billDate.AddDate(0, 0, policy.DefaultDueDays)
	if req.DueDate != nil {
		dueDate = req.DueDate.UTC()
	}
	if dueDate.Before(billDate) {
		return domain.Bill{}, domain.ErrInvalidDueDate
	}

	exists, err := s.units.Exists(ctx, req.UnitID)
	if err != nil {
		return domain.Bill{}, err
	}
	if !exists {
		return domain.Bill{}, domain.ErrInvalidUnit
	}

	bill := domain.Bill{
		ID:          s.genID.Generate(),
		UnitID:      req.UnitID,
		BillType:    billType,
		Amount:      req.Amount,
		BillDate:    billDate,
		DueDate:     dueDate,
		Description: strings.TrimSpace(req.Description),
		Status:      domain.StatusUnpaid,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.ActorID != 0 {
		actor := req.ActorID
		bill.CreatedBy = &actor
	}

	if err := s.repo.Insert(ctx, s.db, &bill); err != nil {
		s.log.Error("failed to insert bill", zap.String("unit_id", req.UnitID.String()), zap.Error(err))
		return domain.Bill{}, err
	}

	s.metrics.RecordBillCreated(ctx, billType)
	s.audit.Record(ctx, auditdomain.Entry{
		ActorID:      actorString(req.ActorID),
		Action:       auditdomain.ActionBillCreated,
		ResourceType: "bill",
		ResourceID:   bill.ID.String(),
		Metadata: datatypes.JSONMap{
			"unit_id":   bill.UnitID.String(),
			"bill_type": bill.BillType,
			"amount":    bill.Amount.StringFixed(2),
			"due_date":  bill.DueDate.Format(time.RFC3339),
		},
	})
	return bill, nil
}

func (s *Service) List(ctx context.Context, req domain.ListBillRequest) (domain.ListBillResponse, error) {
	status := strings.ToLower(strings.TrimSpace(req.Status))
	switch status {
	case "", domain.StatusUnpaid, domain.StatusPaid, domain.StatusOverdue:
	default:
		return domain.ListBillResponse{}, domain.ErrInvalidStatus
	}

	page := req.Pagination.Normalize()
	afterID, err := page.AfterID()
	if err != nil {
		return domain.ListBillResponse{}, err
	}

	var unitIDs []snowflake.ID
	switch {
	case req.UnitID != 0:
		unitIDs = []snowflake.ID{req.UnitID}
	case req.ResidentID != 0:
		unitIDs, err = s.units.UnitsForResident(ctx, req.ResidentID)
		if err != nil {
			return domain.ListBillResponse{}, err
		}
		if len(unitIDs) == 0 {
			return domain.ListBillResponse{Bills: []domain.BillView{}}, nil
		}
	}

	now := s.clock.Now().UTC()
	items, err := s.repo.List(ctx, s.db, domain.ListFilter{
		UnitIDs: unitIDs,
		Status:  status,
		Now:     now,
		AfterID: afterID,
		Limit:   page.PageSize + 1,
	})
	if err != nil {
		return domain.ListBillResponse{}, err
	}

	items, pageInfo := pagination.Trim(items, page.PageSize, func(b *domain.Bill) string {
		return pagination.IDCursor(b.ID)
	})

	finePerDay := s.policy.Get().FinePerDay
	views := make([]domain.BillView, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		views = append(views, domain.Derive(*item, now, finePerDay))
	}
	return domain.ListBillResponse{PageInfo: pageInfo, Bills: views}, nil
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (domain.BillView, error) {
	if id == 0 {
		return domain.BillView{}, domain.ErrNotFound
	}
	bill, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.BillView{}, err
	}
	if bill == nil {
		return domain.BillView{}, domain.ErrNotFound
	}
	return domain.Derive(*bill, s.clock.Now().UTC(), s.policy.Get().FinePerDay), nil
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

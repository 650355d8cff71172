package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	directorydomain "github.com/smallbiznis/estate/internal/directory/domain"
	expensedomain "github.com/smallbiznis/estate/internal/expense/domain"
	"github.com/smallbiznis/estate/internal/performance/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Repo     domain.Repository
	Expenses expensedomain.Repository
	Staff    directorydomain.StaffDirectory
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	repo     domain.Repository
	expenses expensedomain.Repository
	staff    directorydomain.StaffDirectory
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("performance.service"),
		repo:     p.Repo,
		expenses: p.Expenses,
		staff:    p.Staff,
	}
}

func (s *Service) GetPerformance(ctx context.Context, staffID snowflake.ID, period domain.Period) (domain.Performance, error) {
	if err := period.Validate(); err != nil {
		return domain.Performance{}, err
	}
	staff, err := s.staff.Get(ctx, staffID)
	if err != nil {
		return domain.Performance{}, err
	}

	perf, err := s.repo.Performance(ctx, s.db, staffID, period)
	if err != nil {
		s.log.Error("failed to aggregate performance", zap.String("staff_id", staffID.String()), zap.Error(err))
		return domain.Performance{}, err
	}
	perf.StaffName = staff.Name
	return perf, nil
}

func (s *Service) GetAggregateStats(ctx context.Context, filter domain.AggregateFilter) ([]domain.TypeTotals, error) {
	if err := filter.Period.Validate(); err != nil {
		return nil, err
	}
	return s.repo.TotalsByType(ctx, s.db, filter)
}

func (s *Service) SalaryHistory(ctx context.Context, staffID snowflake.ID) ([]expensedomain.Expense, error) {
	if _, err := s.staff.Get(ctx, staffID); err != nil {
		return nil, err
	}
	return s.expenses.SalaryHistory(ctx, s.db, staffID)
}

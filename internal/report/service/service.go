package service

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/smallbiznis/estate/internal/clock"
	"github.com/smallbiznis/estate/internal/report/domain"
	"github.com/smallbiznis/estate/pkg/apperr"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const retryDelay = 100 * time.Millisecond

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Repo  domain.Repository
	Clock clock.Clock
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  domain.Repository
	clock clock.Clock
	delay time.Duration
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("report.service"),
		repo:  p.Repo,
		clock: p.Clock,
		delay: retryDelay,
	}
}

// GetFinancialStats retries a storage failure once. Reads have no side effects.
func (s *Service) GetFinancialStats(ctx context.Context) (domain.FinancialStats, error) {
	now := s.clock.Now().UTC()
	var stats domain.FinancialStats
	attempt := 0
	op := func() error {
		attempt++
		var err error
		stats, err = s.repo.FinancialStats(ctx, s.db, now)
		if err == nil {
			return nil
		}
		if !apperr.Is(err, apperr.KindStorage) {
			return backoff.Permanent(err)
		}
		s.log.Warn("financial stats query failed", zap.Int("attempt", attempt), zap.Error(err))
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(s.delay), 1), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return domain.FinancialStats{}, err
	}
	return stats, nil
}

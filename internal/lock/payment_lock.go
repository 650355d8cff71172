package lock

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/estate/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const keyBillPayment = "estate:bill:pay:%s"

// PaymentLock short-circuits concurrent payment attempts for one bill before
// they reach the database. The database transaction stays authoritative;
// when the lock is disabled every attempt is let through.
type PaymentLock struct {
	locker *Locker
	ttl    time.Duration
}

func NewPaymentLock(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (*PaymentLock, error) {
	lockCfg := cfg.Lock
	if !lockCfg.Enabled {
		return nil, nil
	}

	addr := strings.TrimSpace(lockCfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("payment lock redis addr is required")
	}
	ttl := time.Duration(lockCfg.TTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = 10 * time.Second
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(lockCfg.RedisPassword),
		DB:       lockCfg.RedisDB,
	})
	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				return client.Close()
			},
		})
	}
	if log != nil {
		log.Info("payment lock enabled", zap.String("addr", addr), zap.Duration("ttl", ttl))
	}

	return NewPaymentLockWithClient(client, ttl), nil
}

func NewPaymentLockWithClient(client redis.Cmdable, ttl time.Duration) *PaymentLock {
	return &PaymentLock{locker: NewLocker(client), ttl: ttl}
}

func (p *PaymentLock) Enabled() bool {
	return p != nil && p.locker != nil
}

// AcquireBill returns a release func when the bill lock is held. ok is false
// when another attempt currently holds it.
func (p *PaymentLock) AcquireBill(ctx context.Context, billID snowflake.ID) (release func(), ok bool, err error) {
	if !p.Enabled() {
		return func() {}, true, nil
	}
	key := fmt.Sprintf(keyBillPayment, billID.String())
	token, ok, err := p.locker.TryLock(ctx, key, p.ttl)
	if err != nil || !ok {
		return func() {}, ok, err
	}
	return func() {
		_ = p.locker.Release(context.WithoutCancel(ctx), key, token)
	}, true, nil
}

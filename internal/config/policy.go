package config

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Policy holds the ledger rate constants that vary per deployment.
type Policy struct {
	FinePerDay             decimal.Decimal
	DefaultDueDays         int
	DefaultBonusPercentage decimal.Decimal
	MaxBonusPercentage     decimal.Decimal
	Currency               string
}

func DefaultPolicy() Policy {
	return Policy{
		FinePerDay:             decimal.NewFromInt(50),
		DefaultDueDays:         15,
		DefaultBonusPercentage: decimal.NewFromInt(10),
		MaxBonusPercentage:     decimal.NewFromInt(100),
		Currency:               "INR",
	}
}

// PolicyHolder serves the current policy and swaps it on file change.
type PolicyHolder struct {
	current atomic.Value // holds Policy
}

// NewStaticPolicyHolder returns a holder that never reloads.
func NewStaticPolicyHolder(p Policy) *PolicyHolder {
	holder := &PolicyHolder{}
	holder.current.Store(p)
	return holder
}

func NewPolicyHolder(cfg Config, log *zap.Logger) (*PolicyHolder, error) {
	v := viper.New()

	v.SetConfigName("ledger")
	v.SetConfigType("yml")
	for _, path := range cfg.PolicyPaths {
		v.AddConfigPath(path)
	}

	v.SetEnvPrefix("ESTATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultPolicy()
	v.SetDefault("ledger.finePerDay", defaults.FinePerDay.InexactFloat64())
	v.SetDefault("ledger.defaultDueDays", defaults.DefaultDueDays)
	v.SetDefault("ledger.defaultBonusPercentage", defaults.DefaultBonusPercentage.InexactFloat64())
	v.SetDefault("ledger.maxBonusPercentage", defaults.MaxBonusPercentage.InexactFloat64())
	v.SetDefault("ledger.currency", defaults.Currency)

	fileFound := true
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		fileFound = false
	}

	policy, err := decodePolicy(v)
	if err != nil {
		return nil, err
	}

	holder := NewStaticPolicyHolder(policy)
	if !fileFound {
		log.Info("ledger policy file not found, using defaults")
		return holder, nil
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		updated, err := decodePolicy(v)
		if err != nil {
			log.Warn("ledger policy reload rejected", zap.String("file", e.Name), zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("ledger policy reloaded", zap.String("file", e.Name))
	})

	return holder, nil
}

func (h *PolicyHolder) Get() Policy {
	if h == nil {
		return DefaultPolicy()
	}
	p, ok := h.current.Load().(Policy)
	if !ok {
		return DefaultPolicy()
	}
	return p
}

func decodePolicy(v *viper.Viper) (Policy, error) {
	p := Policy{
		FinePerDay:             decimal.NewFromFloat(v.GetFloat64("ledger.finePerDay")).Round(2),
		DefaultDueDays:         v.GetInt("ledger.defaultDueDays"),
		DefaultBonusPercentage: decimal.NewFromFloat(v.GetFloat64("ledger.defaultBonusPercentage")).Round(2),
		MaxBonusPercentage:     decimal.NewFromFloat(v.GetFloat64("ledger.maxBonusPercentage")).Round(2),
		Currency:               strings.ToUpper(strings.TrimSpace(v.GetString("ledger.currency"))),
	}
	if err := validatePolicy(p); err != nil {
		return Policy{}, err
	}
	return p, nil
}

func validatePolicy(p Policy) error {
	if p.FinePerDay.IsNegative() {
		return errors.New("ledger.finePerDay cannot be negative")
	}
	if p.DefaultDueDays <= 0 {
		return errors.New("ledger.defaultDueDays must be positive")
	}
	if p.DefaultBonusPercentage.IsNegative() {
		return errors.New("ledger.defaultBonusPercentage cannot be negative")
	}
	if p.MaxBonusPercentage.LessThan(p.DefaultBonusPercentage) {
		return errors.New("ledger.maxBonusPercentage must not be below the default")
	}
	if p.Currency == "" {
		return errors.New("ledger.currency cannot be empty")
	}
	return nil
}

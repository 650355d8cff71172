package migration

import (
	"context"

	"github.com/smallbiznis/estate/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, log *zap.Logger) error {
		switch cfg.DBType {
		case "postgres":
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			return RunMigrations(sqlDB)
		case "sqlite":
			return ApplySQLite(context.Background(), conn)
		default:
			log.Warn("schema migrations skipped; manage the schema externally", zap.String("type", cfg.DBType))
			return nil
		}
	}),
)

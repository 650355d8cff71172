package seed

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/estate/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("seed",
	fx.Invoke(func(cfg config.Config, db *gorm.DB, node *snowflake.Node, log *zap.Logger) error {
		if !cfg.SeedDemoData {
			return nil
		}
		society, err := EnsureDemoSociety(context.Background(), db, node)
		if err != nil {
			return err
		}
		log.Info("demo society ready",
			zap.String("admin_id", society.AdminID.String()),
			zap.String("resident_id", society.ResidentID.String()),
			zap.String("ticket_id", society.TicketID.String()),
		)
		return nil
	}),
)

package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/estate/internal/clock"
	"github.com/smallbiznis/estate/internal/config"
	"github.com/smallbiznis/estate/internal/migration"
	"github.com/smallbiznis/estate/internal/observability"
	"github.com/smallbiznis/estate/internal/seed"
	"github.com/smallbiznis/estate/internal/server"
	"github.com/smallbiznis/estate/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		seed.Module,
		clock.Module,
		server.Module,
	)
	app.Run()
}

// RegisterSnowflake returns the id generator for this process. NODE_ID must
// differ between replicas sharing a database.
func RegisterSnowflake(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.NodeID)
}

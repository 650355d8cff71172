package payout

import (
	"github.com/smallbiznis/estate/internal/payout/service"
	"go.uber.org/fx"
)

// Module needs the expense repository and the ticket directory in the graph.
var Module = fx.Module("payout.service",
	fx.Provide(service.New),
)

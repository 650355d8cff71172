package performance

import (
	"github.com/smallbiznis/estate/internal/performance/repository"
	"github.com/smallbiznis/estate/internal/performance/service"
	"go.uber.org/fx"
)

var Module = fx.Module("performance.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)

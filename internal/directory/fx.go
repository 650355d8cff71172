package directory

import (
	"github.com/smallbiznis/estate/internal/directory/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("directory",
	fx.Provide(repository.NewUnitDirectory),
	fx.Provide(repository.NewStaffDirectory),
	fx.Provide(repository.NewTicketDirectory),
)

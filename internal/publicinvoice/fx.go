package publicinvoice

import (
	"github.com/jadeswanstrom/ioweyou/internal/publicinvoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("publicinvoice",
	fx.Provide(service.NewService),
)

package audit

import (
	"github.com/jadeswanstrom/ioweyou/internal/audit/repository"
	"github.com/jadeswanstrom/ioweyou/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)

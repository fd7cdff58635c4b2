package user

import (
	"github.com/jadeswanstrom/ioweyou/internal/user/service"
	"go.uber.org/fx"
)

var Module = fx.Module("user.service",
	fx.Provide(service.NewService),
)

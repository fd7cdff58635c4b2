package auth

import (
	"github.com/jadeswanstrom/ioweyou/internal/auth/service"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(service.NewService),
)

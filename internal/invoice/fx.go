package invoice

import (
	"github.com/jadeswanstrom/ioweyou/internal/config"
	"github.com/jadeswanstrom/ioweyou/internal/invoice/repository"
	"github.com/jadeswanstrom/ioweyou/internal/invoice/service"
	"github.com/jadeswanstrom/ioweyou/internal/payout"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice",
	fx.Provide(repository.Provide),
	fx.Provide(newResolver),
	fx.Provide(service.NewService),
)

func newResolver(cfg config.Config) *payout.Resolver {
	return payout.NewResolver(cfg.Share.PayoutProviderBase)
}

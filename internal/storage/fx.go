package storage

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/jadeswanstrom/ioweyou/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("storage",
	fx.Provide(NewStore),
)

func NewStore(cfg config.Config, log *zap.Logger, genID *snowflake.Node) (Store, error) {
	switch cfg.Storage.Driver {
	case "s3":
		return newS3Store(cfg.Storage, log, genID)
	case "", "local":
		return newLocalStore("uploads", cfg.Storage.PublicBaseURL, log, genID), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

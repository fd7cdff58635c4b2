// @title           ioweyou API
// @version         1.0
// @description     Informal IOU invoices with secure public sharing

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/jadeswanstrom/ioweyou/internal/audit"
	"github.com/jadeswanstrom/ioweyou/internal/auth"
	"github.com/jadeswanstrom/ioweyou/internal/clock"
	"github.com/jadeswanstrom/ioweyou/internal/config"
	"github.com/jadeswanstrom/ioweyou/internal/events"
	"github.com/jadeswanstrom/ioweyou/internal/invoice"
	"github.com/jadeswanstrom/ioweyou/internal/mailer"
	"github.com/jadeswanstrom/ioweyou/internal/migration"
	"github.com/jadeswanstrom/ioweyou/internal/observability"
	"github.com/jadeswanstrom/ioweyou/internal/publicinvoice"
	"github.com/jadeswanstrom/ioweyou/internal/seed"
	"github.com/jadeswanstrom/ioweyou/internal/server"
	"github.com/jadeswanstrom/ioweyou/internal/storage"
	"github.com/jadeswanstrom/ioweyou/internal/user"
	"github.com/jadeswanstrom/ioweyou/pkg/db"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func main() {
	_ = godotenv.Load()

	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		clock.Module,

		fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := migration.RunMigrations(sqlDB, cfg.Database.Driver); err != nil {
				return err
			}
			if !cfg.IsProduction() && cfg.Bootstrap.EnsureDefaultUser {
				return seed.EnsureDefaultUser(conn)
			}
			return nil
		}),

		auth.Module,
		user.Module,
		audit.Module,
		events.Module,
		mailer.Module,
		storage.Module,
		invoice.Module,
		publicinvoice.Module,

		server.Module,
	)
	app.Run()
}

func registerSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}

package migration

import (
	"github.com/smallbiznis/taxgate/internal/config"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// Module applies the schema at startup so the service is usable out of the
// box on a fresh database. SQL migrations target postgres; the sqlite dev
// mode falls back to AutoMigrate inside RunDev.
var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType != "postgres" {
			return RunDev(conn)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)

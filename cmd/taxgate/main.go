package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/smallbiznis/taxgate/internal/audit"
	"github.com/smallbiznis/taxgate/internal/config"
	"github.com/smallbiznis/taxgate/internal/logger"
	"github.com/smallbiznis/taxgate/internal/membership"
	"github.com/smallbiznis/taxgate/internal/migration"
	"github.com/smallbiznis/taxgate/internal/server"
	"github.com/smallbiznis/taxgate/internal/taxation"
	"github.com/smallbiznis/taxgate/pkg/db"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,

		// Functional domains
		membership.Module,
		audit.Module,
		taxation.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}

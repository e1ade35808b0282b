package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"product-catalog/internal/config"
	"product-catalog/internal/database"
	"product-catalog/internal/logger"

	"go.uber.org/zap"
)

const usage = `usage: migrate [up|down|status|version]

Operates the catalog schema using DB_DRIVER and DB_DSN.
`

func main() {
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	command := "up"
	if flag.NArg() > 0 {
		command = flag.Arg(0)
	}

	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	gw, err := database.Open(cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer gw.Close()

	ctx := context.Background()

	switch command {
	case "up":
		err = gw.RunMigrations(ctx)
	case "down":
		err = gw.RollbackMigration(ctx)
	case "status":
		err = gw.MigrationStatus(ctx)
	case "version":
		var version int64
		version, err = gw.SchemaVersion(ctx)
		if err == nil {
			log.Info("Schema version", zap.Int64("version", version))
		}
	default:
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatal("Migration command failed", zap.String("command", command), zap.Error(err))
	}
}

// Command migrate applies or reports database migrations outside the
// API server, for deploy pipelines and local development.
package main

import (
	"log"
	"os"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/logger"

	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
)

func main() {
	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	// Optional; environment variables win over the file.
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg := config.Load()

	zlog, err := logger.New(cfg.Server.Env)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	const migrationsDir = "migrations"

	switch command {
	case "up":
		if err := database.Migrate(db.DB(), migrationsDir, zlog); err != nil {
			log.Fatalf("migrate up failed: %v", err)
		}
	case "down":
		if err := goose.SetDialect("postgres"); err != nil {
			log.Fatalf("failed to set goose dialect: %v", err)
		}
		if err := goose.Down(db.DB(), migrationsDir); err != nil {
			log.Fatalf("migrate down failed: %v", err)
		}
	case "status":
		if err := database.MigrationStatus(db.DB(), migrationsDir); err != nil {
			log.Fatalf("migration status failed: %v", err)
		}
	default:
		log.Fatalf("unknown command %q (want up, down or status)", command)
	}
}

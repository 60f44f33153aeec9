package main

import (
	"context"
	"log"
	"os"

	"github.com/UnknownOlympus/horae/internal/config"
	"github.com/UnknownOlympus/horae/internal/repository"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose"
)

func main() {
	cfg := config.MustLoad()

	if cfg.Postgres.Host == "" || cfg.Postgres.Dbname == "" {
		log.Fatal("postgres.host and postgres.db_name must be set to run migrations")
	}

	migrationsDir := os.Getenv("MIGRATIONS_DIR")
	if migrationsDir == "" {
		migrationsDir = "migrations"
	}

	dbpool, dbErr := repository.NewDatabase(context.Background(), repository.OptionsFromConfig(cfg.Postgres))
	if dbErr != nil {
		log.Fatalf("Failed to connect to DB: %v", dbErr)
	}
	defer dbpool.Close()

	dtb := stdlib.OpenDBFromPool(dbpool)
	if migrationErr := goose.Up(dtb, migrationsDir); migrationErr != nil {
		log.Fatal(migrationErr)
	}

	log.Println("✅ Migrations applied successfully")
}

// Package main provides the database migration tool.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/base-genesis/internal/config"
	"github.com/base-genesis/internal/storage"
)

func main() {
	var (
		direction = flag.String("direction", "up", "Migration direction: up, down, or version")
		path      = flag.String("path", "migrations", "Path to migration files")
	)
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	databaseURL := cfg.Database.Postgres.PostgresURL()

	switch *direction {
	case "up":
		if err := storage.RunMigrations(databaseURL, *path); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		fmt.Println("Migrations applied")
	case "down":
		if err := storage.RollbackMigrations(databaseURL, *path); err != nil {
			log.Fatalf("Rollback failed: %v", err)
		}
		fmt.Println("Rolled back one migration")
	case "version":
		version, dirty, err := storage.MigrationVersion(databaseURL, *path)
		if err != nil {
			log.Fatalf("Failed to get version: %v", err)
		}
		fmt.Printf("Version: %d, dirty: %v\n", version, dirty)
	default:
		log.Fatalf("Unknown direction: %s", *direction)
	}
}

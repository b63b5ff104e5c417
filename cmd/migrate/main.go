package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/Suraj182004/saaraansh/internal/config"
	"github.com/Suraj182004/saaraansh/internal/db"
	"github.com/Suraj182004/saaraansh/migrations"
	"github.com/uptrace/bun/migrate"
)

func main() {
	cfg := config.Load()

	bunDB := db.NewBunPostgresClient(cfg.DatabaseURL)
	defer bunDB.Close()

	migrator := migrate.NewMigrator(bunDB, migrations.Migrations)

	ctx := context.Background()

	if err := migrator.Init(ctx); err != nil {
		log.Fatalf("Failed to initialize migrator: %v", err)
	}

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "up":
		group, err := db.Migrate(ctx, bunDB)
		if err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		if group == "" {
			fmt.Println("No new migrations to run (database is up to date)")
			return
		}
		fmt.Printf("Migrated to %s\n", group)

	case "down":
		if err := migrator.Lock(ctx); err != nil {
			log.Fatalf("Failed to lock migrations: %v", err)
		}
		defer migrator.Unlock(ctx) //nolint:errcheck

		group, err := migrator.Rollback(ctx)
		if err != nil {
			log.Fatalf("Rollback failed: %v", err)
		}
		if group.IsZero() {
			fmt.Println("No migrations to rollback")
			return
		}
		fmt.Printf("Rolled back %s\n", group)

	case "status":
		ms, err := migrator.MigrationsWithStatus(ctx)
		if err != nil {
			log.Fatalf("Failed to get migration status: %v", err)
		}
		fmt.Printf("Migrations:\n")
		for _, m := range ms {
			status := "pending"
			if m.IsApplied() {
				status = "applied"
			}
			fmt.Printf("  %s: %s\n", m.Name, status)
		}
		fmt.Printf("Unapplied: %d\n", len(ms.Unapplied()))

	case "create":
		name := "migration"
		if len(os.Args) > 2 {
			name = strings.Join(os.Args[2:], "_")
		}
		files, err := migrator.CreateTxSQLMigrations(ctx, name)
		if err != nil {
			log.Fatalf("Failed to create migration: %v", err)
		}
		for _, f := range files {
			fmt.Printf("Created migration: %s\n", f.Path)
		}

	default:
		fmt.Println("Usage: migrate [up|down|status|create <name>]")
		fmt.Println("  up     - Apply pending account and summary migrations")
		fmt.Println("  down   - Roll back the last migration group")
		fmt.Println("  status - Show migration status")
		fmt.Println("  create - Create new SQL migration files")
		os.Exit(1)
	}
}

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/alertflow/alertflow/internal/config"
	"github.com/alertflow/alertflow/internal/repository/postgres"
	"github.com/alertflow/alertflow/migrations"
)

func main() {
	statusOnly := flag.Bool("status", false, "list pending migrations without applying them")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	db, err := postgres.New(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	fmt.Printf("Connected to %s database successfully\n", db.Driver())

	pending, err := postgres.PendingMigrations(db, migrations.GetFS())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read migration status: %v\n", err)
		os.Exit(1)
	}

	if len(pending) == 0 {
		fmt.Println("Database is up to date")
		return
	}

	for _, name := range pending {
		fmt.Printf("Pending: %s\n", name)
	}
	if *statusOnly {
		return
	}

	n, err := postgres.RunMigrations(db, migrations.GetFS())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Migration failed after %d applied: %v\n", n, err)
		os.Exit(1)
	}

	fmt.Printf("\nApplied %d migrations successfully!\n", n)
}

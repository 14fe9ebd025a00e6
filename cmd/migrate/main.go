package main

import (
	"context"
	"log"
	"os"

	"aquafold/adapters/postgres/migrations"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate <database_url> [status]")
	}

	databaseURL := os.Args[1]

	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	migrator := migrations.NewMigrator(db.DB)

	if len(os.Args) > 2 && os.Args[2] == "status" {
		if err := migrator.Status(ctx); err != nil {
			log.Fatalf("Migration status failed: %v", err)
		}
		return
	}

	if err := migrator.Up(ctx); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Migrations complete")
}

package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"strings"

	"aquafold/adapters/postgres/migrations"
	"aquafold/domain/core"
	"aquafold/internal/config"
	"aquafold/internal/container"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	var (
		assignmentsFlag = flag.String("assignments", "", "comma-separated assignment IDs to recompute")
		batchFlag       = flag.String("batch", "", "recompute every assignment in this batch")
		startFlag       = flag.String("start", "", "range start date (YYYY-MM-DD)")
		endFlag         = flag.String("end", "", "range end date (YYYY-MM-DD)")
	)
	flag.Parse()

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	start, err := core.ParseDate(*startFlag)
	if err != nil {
		log.Fatalf("Invalid -start: %v", err)
	}
	end, err := core.ParseDate(*endFlag)
	if err != nil {
		log.Fatalf("Invalid -end: %v", err)
	}

	db, err := initDatabase(appConfig)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	appContainer, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	if err := appContainer.InitWithDatabase(db); err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	ctx := context.Background()
	reports, err := runRecompute(ctx, appContainer, *assignmentsFlag, *batchFlag, start, end)
	if err != nil {
		log.Fatalf("Recompute failed: %v", err)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(reports); err != nil {
		log.Fatalf("Failed to encode report: %v", err)
	}
}

// initDatabase connects to PostgreSQL and applies pending migrations
func initDatabase(appConfig *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", appConfig.Database.URL)
	if err != nil {
		return nil, err
	}

	migrator := migrations.NewMigrator(db.DB)
	if err := migrator.Up(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func runRecompute(ctx context.Context, c *container.Container, assignmentsCSV, batchID string, start, end core.Date) (interface{}, error) {
	if batchID != "" {
		return c.RecomputeService.RecomputeBatch(ctx, core.BatchID(batchID), start, end)
	}

	var ids []core.AssignmentID
	for _, raw := range strings.Split(assignmentsCSV, ",") {
		id, err := core.ParseAssignmentID(strings.TrimSpace(raw))
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return c.RecomputeService.RecomputeAssignments(ctx, ids, start, end)
}

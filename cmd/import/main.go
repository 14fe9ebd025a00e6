package main

import (
	"context"
	"log"
	"os"

	"aquafold/adapters/excel"
	"aquafold/adapters/postgres"
	"aquafold/internal"
	"aquafold/internal/importer"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: import <workbook.xlsx>")
	}
	workbookPath := os.Args[1]

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	measurementRepo := postgres.NewMeasurementRepository(db)
	reader := excel.NewMeasurementReader(excel.DefaultImportConfig())
	service := importer.NewService(reader, measurementRepo, internal.NewDefaultLogger())

	summary, err := service.ImportFile(context.Background(), workbookPath)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	log.Printf("Import complete: %d readings, %d mortality events, %d weight samples",
		summary.Readings, summary.MortalityEvents, summary.WeightSamples)
}

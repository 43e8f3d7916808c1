package main

import (
	"flag"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/mauv0809/match-ladder/internal/database"
)

func main() {
	file := flag.String("file", "league.yaml", "YAML league definition to seed")
	flag.Parse()

	log.Info("Starting database seeder...", "file", *file)
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	dbName, ok := os.LookupEnv("DB_NAME")
	if !ok {
		log.Fatalf("Error: Required environment variable %s is not set.", "DB_NAME")
	}

	lf, err := loadLeague(*file)
	if err != nil {
		log.Fatalf("Failed to load league file: %s", err)
	}

	db, teardown, err := database.InitDB(dbName, os.Getenv("TURSO_PRIMARY_URL"), os.Getenv("TURSO_AUTH_TOKEN"))
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()

	result, err := seed(db, lf)
	if err != nil {
		log.Fatalf("Failed to seed league: %s", err)
	}
	log.Info("Seeding complete.", "seasonID", result.SeasonID, "divisions", result.Divisions, "teams", result.Teams)
}

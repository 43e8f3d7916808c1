package config

import (
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

const defaultSeasonWeeks = 8

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	// A helper function to get a required env var. It will fail if the env var is not set.
	getEnv := func(key string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		log.Fatalf("Error: Required environment variable %s is not set.", key)
		return "" // This line is never reached
	}

	cfg := Config{
		DBName:             getEnv("DB_NAME"),
		Port:               getEnv("PORT"),
		AdminToken:         getEnvOrDefault("ADMIN_TOKEN", ""),
		DefaultSeasonWeeks: getIntOrDefault("DEFAULT_SEASON_WEEKS", defaultSeasonWeeks),
		Slack: SlackConfig{
			Token:         getEnvOrDefault("SLACK_BOT_TOKEN", ""),
			ChannelID:     getEnvOrDefault("SLACK_CHANNEL_ID", ""),
			SigningSecret: getEnvOrDefault("SLACK_SIGNING_SECRET", ""),
		},
		Turso: TursoConfig{
			PrimaryURL: getEnvOrDefault("TURSO_PRIMARY_URL", ""),
			AuthToken:  getEnvOrDefault("TURSO_AUTH_TOKEN", ""),
		},
		ProjectID: getEnvOrDefault("GCP_PROJECT", ""),
	}
	if cfg.AdminToken == "" {
		log.Warn("ADMIN_TOKEN is not set; schedule generation is disabled")
	}
	return cfg
}

func getEnvOrDefault(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getIntOrDefault(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		log.Warn("Invalid integer environment variable, using default", "key", key, "value", raw, "default", fallback)
		return fallback
	}
	return value
}

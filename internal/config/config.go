package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables and .env file.
// It exits the process when the configuration is unusable.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}
	cfg, err := FromEnv()
	if err != nil {
		log.Fatal("Invalid configuration", "error", err)
	}
	return cfg
}

// FromEnv builds the configuration from the process environment.
func FromEnv() (Config, error) {
	var missing []string
	// A helper function to get a required env var.
	getEnv := func(key string) string {
		if value, ok := os.LookupEnv(key); ok && value != "" {
			return value
		}
		missing = append(missing, key)
		return ""
	}
	optional := func(key, fallback string) string {
		if value, ok := os.LookupEnv(key); ok && value != "" {
			return value
		}
		return fallback
	}

	cfg := Config{
		DBName: getEnv("DB_NAME"),
		Port:   getEnv("PORT"),
		Slack: SlackConfig{
			Token:     optional("SLACK_BOT_TOKEN", ""),
			ChannelID: optional("SLACK_CHANNEL_ID", ""),
		},
		TenantID: optional("TENANT_ID", ""),
		Turso: TursoConfig{
			PrimaryURL: optional("TURSO_PRIMARY_URL", ""),
			AuthToken:  optional("TURSO_AUTH_TOKEN", ""),
		},
		ProjectID: optional("GCP_PROJECT", ""),
		Rating: RatingConfig{
			DefaultLanguage: optional("DEFAULT_LANGUAGE", "fr"),
			Policy:          optional("RATING_POLICY", PolicyExperience),
		},
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %v", missing)
	}

	strict, err := strconv.ParseBool(optional("STRICT_SCORES", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("STRICT_SCORES: %w", err)
	}
	cfg.Rating.StrictScores = strict

	initial, err := strconv.ParseFloat(optional("INITIAL_RATING", "0"), 64)
	if err != nil {
		return Config{}, fmt.Errorf("INITIAL_RATING: %w", err)
	}
	if initial < 0 {
		return Config{}, fmt.Errorf("INITIAL_RATING must not be negative, got %v", initial)
	}
	cfg.Rating.InitialRating = initial

	if cfg.Rating.Policy != PolicyExperience && cfg.Rating.Policy != PolicyLevel {
		return Config{}, fmt.Errorf("RATING_POLICY must be %q or %q, got %q", PolicyExperience, PolicyLevel, cfg.Rating.Policy)
	}

	return cfg, nil
}

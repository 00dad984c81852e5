package config

import (
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

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
	getEnvDefault := func(key, fallback string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		return fallback
	}
	getEnvInt := func(key string, fallback int64) int64 {
		value, ok := os.LookupEnv(key)
		if !ok {
			return fallback
		}
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			log.Fatalf("Error: Environment variable %s must be an integer, got %q.", key, value)
		}
		return parsed
	}
	getEnvFloat := func(key string, fallback float64) float64 {
		value, ok := os.LookupEnv(key)
		if !ok {
			return fallback
		}
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			log.Fatalf("Error: Environment variable %s must be a number, got %q.", key, value)
		}
		return parsed
	}

	cfg := Config{
		Port: getEnv("PORT"),
		Telegram: TelegramConfig{
			BotToken:       getEnv("TELEGRAM_BOT_TOKEN"),
			MaxInitDataAge: getEnvInt("TELEGRAM_INIT_DATA_MAX_AGE", 86400),
		},
		Store: StoreConfig{
			BaseURL: getEnv("STORE_BASE_URL"),
			APIKey:  getEnv("STORE_API_KEY"),
			BaseID:  getEnv("STORE_BASE_ID"),
			Tables: TableNames{
				Players:   getEnvDefault("STORE_TABLE_PLAYERS", "players"),
				Pairs:     getEnvDefault("STORE_TABLE_PAIRS", "pairs"),
				Matches:   getEnvDefault("STORE_TABLE_MATCHES", "matches"),
				SetScores: getEnvDefault("STORE_TABLE_SET_SCORES", "set_scores"),
			},
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET"),
			TokenTTL:  getEnvInt("JWT_TTL_SECONDS", 7*86400),
		},
		Rating: RatingConfig{
			Seed:    int(getEnvInt("RATING_SEED", 1000)),
			KPair:   getEnvFloat("ELO_K_PAIR", 32),
			KPlayer: getEnvFloat("ELO_K_PLAYER", 32),
		},
		Confirm: ConfirmConfig{
			RequireBoth: getEnvDefault("CONFIRM_REQUIRE_BOTH", "false") == "true",
		},
		Slack: SlackConfig{
			Token:     getEnvDefault("SLACK_BOT_TOKEN", ""),
			ChannelID: getEnvDefault("SLACK_CHANNEL_ID", ""),
		},
		ProjectID: getEnvDefault("GCP_PROJECT", ""),
	}
	return cfg
}

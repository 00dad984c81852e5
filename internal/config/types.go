package config

// Config holds all configuration for the application.
type Config struct {
	Port      string
	Telegram  TelegramConfig
	Store     StoreConfig
	Auth      AuthConfig
	Rating    RatingConfig
	Confirm   ConfirmConfig
	Slack     SlackConfig
	ProjectID string
}

type TelegramConfig struct {
	BotToken string
	// MaxInitDataAge bounds how old a signed init-data payload may be, in seconds.
	MaxInitDataAge int64
}

type StoreConfig struct {
	BaseURL string
	APIKey  string
	BaseID  string
	Tables  TableNames
}

// TableNames maps the logical entities onto the record store's table names.
type TableNames struct {
	Players   string
	Pairs     string
	Matches   string
	SetScores string
}

type AuthConfig struct {
	JWTSecret string
	// TokenTTL is the session token lifetime in seconds.
	TokenTTL int64
}

type RatingConfig struct {
	Seed    int
	KPair   float64
	KPlayer float64
}

type ConfirmConfig struct {
	// RequireBoth switches the confirmation policy from "any single opponent
	// confirms" to "both opponent-pair members must confirm".
	RequireBoth bool
}

type SlackConfig struct {
	Token     string
	ChannelID string
}

package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN          string
	Environment    string
	HTTPAddr       string
	MigrationsPath string

	// Telegram admin alerts; both empty disables the notifier.
	TelegramToken string
	AdminChatID   int64
}

// Load reads .env when present, then the environment. DB_DSN is the only
// required value.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	cfg := &Config{
		DBDSN:          os.Getenv("DB_DSN"),
		Environment:    os.Getenv("ENV"),
		HTTPAddr:       os.Getenv("HTTP_ADDR"),
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = "migrations"
	}

	if raw := os.Getenv("ADMIN_CHAT_ID"); raw != "" {
		chatID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse ADMIN_CHAT_ID: %w", err)
		}
		cfg.AdminChatID = chatID
	}

	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	return cfg, nil
}

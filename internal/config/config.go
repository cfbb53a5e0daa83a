package config

import (
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const devJWTSecret = "dev-secret-change-me"

type Config struct {
	Port          string
	Env           string
	MongoURI      string
	MongoDB       string
	JWTSecret     string
	JWTTTL        time.Duration
	DefaultLocale string

	// Payroll batch summaries are posted here; empty token disables it.
	MattermostURL    string
	PayrollBotToken  string
	PayrollChannelID string
}

// Load reads configuration from the environment, after merging an optional .env file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("config: load .env: %v", err)
	}

	ttl, err := time.ParseDuration(getEnv("JWT_TTL", "720h"))
	if err != nil {
		return nil, errors.New("config: JWT_TTL is not a valid duration")
	}

	cfg := &Config{
		Port:             getEnv("PORT", "3000"),
		Env:              getEnv("ENV", "development"),
		MongoURI:         getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDB:          getEnv("MONGODB_DATABASE", "fitpharm"),
		JWTSecret:        getEnv("JWT_SECRET", devJWTSecret),
		JWTTTL:           ttl,
		DefaultLocale:    getEnv("DEFAULT_LOCALE", "en"),
		MattermostURL:    strings.TrimRight(getEnv("MATTERMOST_URL", "http://localhost:8065"), "/"),
		PayrollBotToken:  getEnv("PAYROLL_BOT_TOKEN", ""),
		PayrollChannelID: getEnv("PAYROLL_CHANNEL_ID", ""),
	}

	if cfg.Env == "production" && cfg.JWTSecret == devJWTSecret {
		return nil, errors.New("config: JWT_SECRET must be set in production")
	}
	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

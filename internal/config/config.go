package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"family-hub-go/pkg/logger"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort         string
	Env              string
	PublicURL        string
	AllowedOrigins   []string
	DB               DBConfig
	Auth             AuthConfig
	TelegramLinkCode TelegramLinkCodeConfig
}

type DBConfig struct {
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type AuthConfig struct {
	SecretKey   string
	TokenExpiry time.Duration
}

type TelegramLinkCodeConfig struct {
	TTL time.Duration
}

func Load(log logger.Logger) (Config, error) {
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load .env: %w", err)
		}
	} else {
		log.Info("config: loaded .env")
	}

	cfg := Config{
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		PublicURL:      getEnv("PUBLIC_URL", ""),
		AllowedOrigins: []string{getEnv("CORS_ORIGIN", "http://localhost:5173")},
		DB: DBConfig{
			DSN:             getEnv("DB_DSN", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "family_hub"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			TimeZone:        getEnv("DB_TIMEZONE", "UTC"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Auth: AuthConfig{
			SecretKey:   getEnv("SECRET_KEY", ""),
			TokenExpiry: getEnvDuration("ACCESS_TOKEN_EXPIRY", 30*time.Minute),
		},
		TelegramLinkCode: TelegramLinkCodeConfig{
			TTL: getEnvDuration("TELEGRAM_LINK_CODE_TTL", 10*time.Minute),
		},
	}

	if cfg.Auth.SecretKey == "" {
		if cfg.Env != "development" {
			return Config{}, fmt.Errorf("SECRET_KEY is required outside development")
		}
		log.Warn("config: SECRET_KEY not set, using insecure development key")
		cfg.Auth.SecretKey = "dev-insecure-secret"
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}

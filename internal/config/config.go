package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"golang.org/x/crypto/bcrypt"
)

// Config holds all runtime settings, read once at startup and passed down explicitly.
type Config struct {
	HTTPAddr      string        `validate:"required"`
	DBPath        string        `validate:"required"`
	SessionSecret string        `validate:"required,min=32"`
	SessionTTL    time.Duration `validate:"gt=0"`
	CookieSecure  bool
	RedisAddr     string
	OtelEndpoint  string
	BcryptCost    int `validate:"gte=4,lte=31"`
	LogLevel      slog.Level
}

// Load reads the configuration from the environment (and a .env file, if present).
// A variable that is set but cannot be parsed is an error.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPAddr:      GetEnvAsString("HTTP_ADDR", ":8080"),
		DBPath:        GetEnvAsString("DB_PATH", "./todo.db"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		RedisAddr:     os.Getenv("REDIS_CONNSTRING"),
		OtelEndpoint:  os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	var err error
	if cfg.SessionTTL, err = GetEnvAsDuration("SESSION_TTL", 72*time.Hour); err != nil {
		return nil, err
	}
	if cfg.CookieSecure, err = GetEnvAsBool("COOKIE_SECURE", false); err != nil {
		return nil, err
	}
	if cfg.BcryptCost, err = GetEnvAsInt("BCRYPT_COST", bcrypt.DefaultCost); err != nil {
		return nil, err
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(GetEnvAsString("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// GetEnvAsInt gets environment variable as int with default value
func GetEnvAsInt(key string, defaultValue int) (int, error) {
	return parseEnv(key, defaultValue, strconv.Atoi)
}

// GetEnvAsBool gets environment variable as bool with default value
func GetEnvAsBool(key string, defaultValue bool) (bool, error) {
	return parseEnv(key, defaultValue, strconv.ParseBool)
}

// GetEnvAsDuration gets environment variable as duration with default value
func GetEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	return parseEnv(key, defaultValue, time.ParseDuration)
}

// GetEnvAsString gets environment variable as string with default value
func GetEnvAsString(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseEnv[T any](key string, defaultValue T, parse func(string) (T, error)) (T, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	v, err := parse(value)
	if err != nil {
		return defaultValue, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return v, nil
}

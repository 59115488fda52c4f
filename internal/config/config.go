package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
}

type ServerConfig struct {
	Host           string
	Port           int
	Secure         bool // HTTPS-only cookies
	Environment    string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string

	MaxConns      int32
	MinConns      int32
	MigrationsDir string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int

	PoolSize     int
	MinIdleConns int
}

type AuthConfig struct {
	// JWTSecret signs access tokens. Must be overridden outside development.
	JWTSecret string
	TokenTTL  time.Duration
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           getEnvInt("SERVER_PORT", 8080),
			Secure:         getEnvBool("SERVER_SECURE", false),
			Environment:    getEnv("APP_ENV", "development"),
			AllowedOrigins: []string{getEnv("CLIENT_ORIGIN", "http://localhost:3000")},
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "eventchat"),
			Password: getEnv("DB_PASSWORD", "eventchat"),
			DBName:   getEnv("DB_NAME", "eventchat"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),

			MaxConns:      int32(getEnvInt("DB_MAX_CONNS", 25)),
			MinConns:      int32(getEnvInt("DB_MIN_CONNS", 5)),
			MigrationsDir: getEnv("DB_MIGRATIONS_DIR", "migrations"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),

			PoolSize:     getEnvInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvInt("REDIS_MIN_IDLE_CONNS", 3),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", "dev-only-secret"),
			TokenTTL:  getEnvDuration("TOKEN_TTL", 24*time.Hour),
		},
	}

	if cfg.Server.Environment == "production" && cfg.Auth.JWTSecret == "dev-only-secret" {
		return nil, fmt.Errorf("JWT_SECRET must be set in production")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

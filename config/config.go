package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Redis    RedisConfig
	App      AppConfig
}

type ServerConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string
	// TrustedProxies lists the proxy IPs/CIDRs whose forwarding headers are
	// believed. Empty means client IPs come from the socket only.
	TrustedProxies []string
}

type DatabaseConfig struct {
	// DSN takes precedence over the individual fields when set.
	DSN        string
	Host       string
	Port       int
	User       string
	Password   string
	Name       string
	SSLMode    string
	MaxConns   int
	MinConns   int
	AutoSchema bool
}

type AuthConfig struct {
	JWTSecret       string
	TokenTTL        time.Duration
	LoginRatePerMin int
	LoginRateBurst  int
}

type RedisConfig struct {
	Addr         string
	Password     string
	DB           int
	CacheTTL     time.Duration
	WarmSchedule string
}

type AppConfig struct {
	Environment string
	LogLevel    string
	LogFormat   string
	Version     string
}

// Enabled reports whether a Redis address was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.Addr) != ""
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return FromEnv()
}

// LoadForAdmin is Load for the admin CLI: only the database settings are
// validated, so schema and user commands run without JWT_SECRET.
func LoadForAdmin() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := fromEnv()
	if err := cfg.Database.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv builds the configuration from the process environment only.
func FromEnv() (*Config, error) {
	cfg := fromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func fromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "3333"),
			ReadTimeout:    getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:   getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
			TrustedProxies: getEnvAsList("TRUSTED_PROXIES", nil),
		},
		Database: DatabaseConfig{
			DSN:        getEnv("DB_DSN", ""),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnvAsInt("DB_PORT", 5432),
			User:       getEnv("DB_USER", "postgres"),
			Password:   getEnv("DB_PASSWORD", ""),
			Name:       getEnv("DB_NAME", "showcase"),
			SSLMode:    getEnv("DB_SSLMODE", "disable"),
			MaxConns:   getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:   getEnvAsInt("DB_MIN_CONNS", 2),
			AutoSchema: getEnvAsBool("DB_AUTO_SCHEMA", false),
		},
		Auth: AuthConfig{
			JWTSecret:       getEnv("JWT_SECRET", ""),
			TokenTTL:        getEnvAsDuration("JWT_TTL", time.Hour),
			LoginRatePerMin: getEnvAsInt("LOGIN_RATE_PER_MIN", 10),
			LoginRateBurst:  getEnvAsInt("LOGIN_RATE_BURST", 5),
		},
		Redis: RedisConfig{
			Addr:         getEnv("REDIS_ADDR", ""),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			CacheTTL:     getEnvAsDuration("CACHE_TTL", 5*time.Minute),
			WarmSchedule: getEnv("CACHE_WARM_SCHEDULE", "@every 10m"),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			LogFormat:   getEnv("LOG_FORMAT", ""),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if err := c.Database.Validate(); err != nil {
		return err
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive")
	}

	if c.Auth.LoginRatePerMin <= 0 || c.Auth.LoginRateBurst <= 0 {
		return fmt.Errorf("LOGIN_RATE_PER_MIN and LOGIN_RATE_BURST must be positive")
	}

	return nil
}

func (d DatabaseConfig) Validate() error {
	if d.DSN == "" && d.Host == "" {
		return fmt.Errorf("DB_DSN or DB_HOST is required")
	}

	if d.MaxConns < 2 {
		return fmt.Errorf("DB_MAX_CONNS must be at least 2")
	}

	return nil
}

// SplitPools divides MaxConns between the database/sql pool serving projects
// and the pgx pool serving users, health and schema, so the process never
// holds more than MaxConns connections in total. The pgx side gets a quarter
// (at least one); MinConns is clamped to each share.
func (d DatabaseConfig) SplitPools() (projects, users DatabaseConfig) {
	total := max(d.MaxConns, 2)
	usersConns := max(total/4, 1)

	projects, users = d, d
	projects.MaxConns = total - usersConns
	users.MaxConns = usersConns
	projects.MinConns = min(d.MinConns, projects.MaxConns)
	users.MinConns = min(d.MinConns, users.MaxConns)
	return projects, users
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean for %s, using default: %t", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

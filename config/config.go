package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Registry source kinds accepted by REGISTRY_SOURCE.
const (
	RegistrySourceFile     = "file"
	RegistrySourceHTTP     = "http"
	RegistrySourcePostgres = "postgres"
)

// Config holds all application configuration
type Config struct {
	Port            string
	HTTPBindAddr    string
	Environment     string
	LoggingConfig   LoggingConfig
	RegistryConfig  RegistryConfig
	RedisConfig     RedisConfig
	EmissionsConfig EmissionsConfig
	CacheEnabled    bool
	ReportTTL       time.Duration
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// RegistryConfig describes where the airport reference table is loaded from.
type RegistryConfig struct {
	Source       string // "file", "http" or "postgres"
	Path         string
	URL          string
	HTTPRetryMax int
	Postgres     PostgresConfig
}

// PostgresConfig holds PostgreSQL connection configuration
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds Redis connection configuration for the report store.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// EmissionsConfig holds the classification rule and emission factors.
// Factors are kg CO2e per passenger-kilometer.
type EmissionsConfig struct {
	HomeCountry         string
	DomesticFactor      float64
	InternationalFactor float64
	TopRoutes           int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load(".env")

	port := getEnv("PORT", "8080")
	httpBindAddr := getEnv("HTTP_BIND_ADDR", "")
	environment := getEnv("ENVIRONMENT", "development")
	cacheEnabled, _ := strconv.ParseBool(getEnv("CACHE_ENABLED", "false"))

	reportTTL, err := time.ParseDuration(getEnv("REPORT_TTL", "24h"))
	if err != nil {
		reportTTL = 24 * time.Hour
	}

	loggingConfig := LoggingConfig{
		Level:  getEnv("LOG_LEVEL", "info"),
		Format: getEnv("LOG_FORMAT", "json"),
	}

	httpRetryMax, _ := strconv.Atoi(getEnv("REGISTRY_HTTP_RETRY_MAX", "4"))
	registryConfig := RegistryConfig{
		Source:       strings.ToLower(getEnv("REGISTRY_SOURCE", RegistrySourceFile)),
		Path:         getEnv("REGISTRY_PATH", "data/airports.csv"),
		URL:          getEnv("REGISTRY_URL", ""),
		HTTPRetryMax: httpRetryMax,
		Postgres: PostgresConfig{
			Host:     getEnv("DB_HOST", "postgres"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "emissions"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "emissions"),
			SSLMode:  getEnv("DB_SSLMODE", "require"),
		},
	}

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	redisConfig := RedisConfig{
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       redisDB,
	}

	return &Config{
		Port:            port,
		HTTPBindAddr:    httpBindAddr,
		Environment:     environment,
		LoggingConfig:   loggingConfig,
		RegistryConfig:  registryConfig,
		RedisConfig:     redisConfig,
		EmissionsConfig: loadEmissionsConfig(),
		CacheEnabled:    cacheEnabled,
		ReportTTL:       reportTTL,
	}, nil
}

func loadEmissionsConfig() EmissionsConfig {
	homeCountry := strings.ToUpper(getEnv("HOME_COUNTRY", "IN"))

	domesticFactor, err := strconv.ParseFloat(getEnv("DOMESTIC_FACTOR", ""), 64)
	if err != nil || domesticFactor <= 0 {
		domesticFactor = 0.30607
	}
	internationalFactor, err := strconv.ParseFloat(getEnv("INTERNATIONAL_FACTOR", ""), 64)
	if err != nil || internationalFactor <= 0 {
		internationalFactor = 0.19742
	}

	topRoutes, _ := strconv.Atoi(getEnv("TOP_ROUTES", "10"))
	if topRoutes < 1 {
		topRoutes = 10
	}

	return EmissionsConfig{
		HomeCountry:         homeCountry,
		DomesticFactor:      domesticFactor,
		InternationalFactor: internationalFactor,
		TopRoutes:           topRoutes,
	}
}

// DefaultEmissionsConfig returns the stock classification rule and factors.
func DefaultEmissionsConfig() EmissionsConfig {
	return EmissionsConfig{
		HomeCountry:         "IN",
		DomesticFactor:      0.30607,
		InternationalFactor: 0.19742,
		TopRoutes:           10,
	}
}

// TestConfig returns a default test configuration
func TestConfig() *Config {
	return &Config{
		Port:        "8080",
		Environment: "test",
		LoggingConfig: LoggingConfig{
			Level:  "error",
			Format: "text",
		},
		RegistryConfig: RegistryConfig{
			Source: RegistrySourceFile,
			Path:   getEnv("REGISTRY_PATH", "testdata/airports.csv"),
		},
		RedisConfig: RedisConfig{
			Host: getEnv("REDIS_HOST", "localhost"),
			Port: getEnv("REDIS_PORT", "6379"),
		},
		EmissionsConfig: DefaultEmissionsConfig(),
		CacheEnabled:    false,
		ReportTTL:       time.Hour,
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if len(strings.TrimSpace(value)) == 0 {
		return defaultValue
	}
	return strings.TrimSpace(value)
}

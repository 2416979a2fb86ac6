package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Catalog sources
const (
	SourceHTTP     = "http"
	SourceDatabase = "database"
)

// ServerConfig holds server configuration
type ServerConfig struct {
	Port             string
	Env              string
	CORSAllowOrigins []string
}

// UpstreamConfig describes the product and order services the forecast reads from
type UpstreamConfig struct {
	BaseURL      string
	ProductsPath string
	OrdersPath   string
	Timeout      time.Duration
}

// DBConfig holds database configuration for the database catalog source
type DBConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// GetDSN returns the PostgreSQL connection string
func (c *DBConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// JWTConfig holds the settings for service tokens sent upstream.
// An empty signing key disables service tokens.
type JWTConfig struct {
	SigningKey string
	Issuer     string
	TTL        time.Duration
}

// ForecastConfig holds forecasting defaults
type ForecastConfig struct {
	DefaultHorizonDays int
	MaxHorizonDays     int
	Workers            int
	Timezone           string
}

// Location returns the time zone used to decide today's date
func (c *ForecastConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Prefix string
}

// Config holds all configuration
type Config struct {
	ServiceName   string
	CatalogSource string
	Server        ServerConfig
	Upstream      UpstreamConfig
	DB            DBConfig
	JWT           JWTConfig
	Forecast      ForecastConfig
	Log           LogConfig
	Metrics       MetricsConfig
}

// Load loads configuration from the environment, reading .env first if present
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	config := &Config{
		ServiceName:   getEnv("SERVICE_NAME", "forecast-service"),
		CatalogSource: strings.ToLower(getEnv("CATALOG_SOURCE", SourceHTTP)),
		Server: ServerConfig{
			Port:             getEnv("SERVER_PORT", "5001"),
			Env:              getEnv("APP_ENV", "development"),
			CORSAllowOrigins: getEnvAsList("CORS_ALLOW_ORIGINS", []string{"*"}),
		},
		Upstream: UpstreamConfig{
			BaseURL:      strings.TrimRight(getEnv("UPSTREAM_BASE_URL", "http://localhost:8080/api"), "/"),
			ProductsPath: getEnv("UPSTREAM_PRODUCTS_PATH", "/inventory/products"),
			OrdersPath:   getEnv("UPSTREAM_ORDERS_PATH", "/order/static/all"),
			Timeout:      getEnvAsDuration("UPSTREAM_TIMEOUT", 10*time.Second),
		},
		DB: DBConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "password"),
			DBName:          getEnv("DB_NAME", "retail"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 20),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 1*time.Hour),
		},
		JWT: JWTConfig{
			SigningKey: getEnv("SERVICE_JWT_SIGNING_KEY", ""),
			Issuer:     getEnv("SERVICE_JWT_ISSUER", "forecast-service"),
			TTL:        getEnvAsDuration("SERVICE_JWT_TTL", 5*time.Minute),
		},
		Forecast: ForecastConfig{
			DefaultHorizonDays: getEnvAsInt("FORECAST_DEFAULT_DAYS", 90),
			MaxHorizonDays:     getEnvAsInt("FORECAST_MAX_DAYS", 730),
			Workers:            getEnvAsInt("FORECAST_WORKERS", 0),
			Timezone:           getEnv("FORECAST_TIMEZONE", "Local"),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Metrics: MetricsConfig{
			Prefix: getEnv("METRICS_PREFIX", "forecast"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks that the configuration can start the service
func (c *Config) Validate() error {
	switch c.CatalogSource {
	case SourceHTTP:
		if c.Upstream.BaseURL == "" {
			return fmt.Errorf("UPSTREAM_BASE_URL is required when CATALOG_SOURCE=%s", SourceHTTP)
		}
	case SourceDatabase:
	default:
		return fmt.Errorf("unknown CATALOG_SOURCE %q", c.CatalogSource)
	}

	if c.Forecast.DefaultHorizonDays <= 0 {
		return fmt.Errorf("FORECAST_DEFAULT_DAYS must be positive, got %d", c.Forecast.DefaultHorizonDays)
	}
	if c.Forecast.MaxHorizonDays < c.Forecast.DefaultHorizonDays {
		return fmt.Errorf("FORECAST_MAX_DAYS (%d) must not be below FORECAST_DEFAULT_DAYS (%d)",
			c.Forecast.MaxHorizonDays, c.Forecast.DefaultHorizonDays)
	}
	if c.Forecast.Workers < 0 {
		return fmt.Errorf("FORECAST_WORKERS must not be negative, got %d", c.Forecast.Workers)
	}
	if _, err := c.Forecast.Location(); err != nil {
		return fmt.Errorf("invalid FORECAST_TIMEZONE: %w", err)
	}
	if c.Upstream.Timeout <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must be positive")
	}
	return nil
}

// LogFields returns the configuration as zap fields, without secrets
func (c *Config) LogFields() []zap.Field {
	return []zap.Field{
		zap.String("service", c.ServiceName),
		zap.String("environment", c.Server.Env),
		zap.String("server_port", c.Server.Port),
		zap.String("catalog_source", c.CatalogSource),
		zap.String("upstream_base_url", c.Upstream.BaseURL),
		zap.Duration("upstream_timeout", c.Upstream.Timeout),
		zap.Bool("service_tokens", c.JWT.SigningKey != ""),
		zap.Int("default_horizon_days", c.Forecast.DefaultHorizonDays),
		zap.Int("max_horizon_days", c.Forecast.MaxHorizonDays),
		zap.Int("workers", c.Forecast.Workers),
		zap.String("timezone", c.Forecast.Timezone),
	}
}

// Helper function to get environment variables with defaults
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as integers
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as durations
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// Helper function to get comma separated environment variables
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var values []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}

package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Provider  ProviderConfig
	Telemetry TelemetryConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	AllowedHosts []string
}

type DatabaseConfig struct {
	Host          string
	Port          int
	User          string
	Password      string
	DBName        string
	SSLMode       string
	MigrationsURL string
}

type JWTConfig struct {
	Secret string
}

type ProviderConfig struct {
	BaseURL       string
	APIKey        string
	WebhookSecret string
}

type TelemetryConfig struct {
	Enabled      bool
	ServiceName  string
	Environment  string
	OTLPEndpoint string
	MetricsPort  string
}

func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded, using process environment")
	}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	providerAPIKey := getEnv("PROVIDER_API_KEY", "")
	if providerAPIKey == "" {
		return nil, fmt.Errorf("PROVIDER_API_KEY is required")
	}

	webhookSecret := getEnv("PROVIDER_WEBHOOK_SECRET", "")
	if webhookSecret == "" {
		return nil, fmt.Errorf("PROVIDER_WEBHOOK_SECRET is required")
	}

	// Parse allowed hosts (comma-separated list)
	allowedHostsStr := getEnv("ALLOWED_HOSTS", "")
	var allowedHosts []string
	if allowedHostsStr != "" {
		for _, host := range strings.Split(allowedHostsStr, ",") {
			host = strings.TrimSpace(host)
			if host != "" {
				allowedHosts = append(allowedHosts, host)
			}
		}
	}

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Host:         getEnv("HOST", "0.0.0.0"),
			AllowedHosts: allowedHosts,
		},
		Database: DatabaseConfig{
			Host:          getEnv("DB_HOST", "localhost"),
			Port:          dbPort,
			User:          getEnv("DB_USER", "giveflow"),
			Password:      getEnv("DB_PASSWORD", ""),
			DBName:        getEnv("DB_NAME", "giveflow"),
			SSLMode:       getEnv("DB_SSLMODE", "disable"),
			MigrationsURL: getEnv("DB_MIGRATIONS_URL", "file://migrations"),
		},
		JWT: JWTConfig{
			Secret: jwtSecret,
		},
		Provider: ProviderConfig{
			BaseURL:       getEnv("PROVIDER_BASE_URL", "https://api.payments.example.com"),
			APIKey:        providerAPIKey,
			WebhookSecret: webhookSecret,
		},
		Telemetry: TelemetryConfig{
			Enabled:      getBoolEnv("TELEMETRY_ENABLED", false),
			ServiceName:  getEnv("TELEMETRY_SERVICE_NAME", "giveflow-api"),
			Environment:  getEnv("TELEMETRY_ENVIRONMENT", "development"),
			OTLPEndpoint: getEnv("TELEMETRY_OTLP_ENDPOINT", "localhost:4317"),
			MetricsPort:  getEnv("TELEMETRY_METRICS_PORT", "9090"),
		},
	}, nil
}

// ConnectionString builds a lib/pq connection string.
func (d DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// URL builds a postgres:// URL for the migrations runner.
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

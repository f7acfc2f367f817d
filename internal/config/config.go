package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"golang.org/x/text/currency"
)

type Config struct {
	Port        string
	Environment string
	Database    DatabaseConfig
	Catalog     CatalogConfig
	Pricing     PricingConfig
	LogLevel    string
	// StoreBackend selects the persistent cart store: "postgres" or "memory".
	// Memory is for local development only; carts are lost on restart.
	StoreBackend string
}

// CatalogConfig is used to call the catalog service for product records
type CatalogConfig struct {
	BaseURL string // e.g. https://dummyjson.com; empty means products never resolve and lines price at zero
}

// PricingConfig holds the delivery threshold policy and display currency.
// Delivery is a step function: subtotal strictly above FreeDeliveryThreshold
// ships free, anything at or below it pays DeliveryFee.
type PricingConfig struct {
	FreeDeliveryThreshold decimal.Decimal
	DeliveryFee           decimal.Decimal
	Currency              currency.Unit
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("LOG_LEVEL", "info")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if .env doesn't exist, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	threshold, err := decimal.NewFromString(getEnvOrViper("FREE_DELIVERY_THRESHOLD", "75"))
	if err != nil {
		return nil, fmt.Errorf("invalid FREE_DELIVERY_THRESHOLD: %w", err)
	}
	fee, err := decimal.NewFromString(getEnvOrViper("DELIVERY_FEE", "50"))
	if err != nil {
		return nil, fmt.Errorf("invalid DELIVERY_FEE: %w", err)
	}
	if threshold.IsNegative() || fee.IsNegative() {
		return nil, fmt.Errorf("delivery threshold and fee must be non-negative")
	}
	unit, err := currency.ParseISO(getEnvOrViper("CURRENCY", "USD"))
	if err != nil {
		return nil, fmt.Errorf("invalid CURRENCY: %w", err)
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		Database: DatabaseConfig{
			Host:     getEnvOrViper("DB_HOST", "localhost"),
			Port:     getEnvOrViper("DB_PORT", "5432"),
			User:     getEnvOrViper("DB_USER", "postgres"),
			Password: getEnvOrViper("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrViper("DB_NAME", "cartapi"),
			SSLMode:  getEnvOrViper("DB_SSLMODE", "disable"),
		},
		Catalog: CatalogConfig{
			BaseURL: strings.TrimSpace(getEnvOrViper("CATALOG_URL", "https://dummyjson.com")),
		},
		Pricing: PricingConfig{
			FreeDeliveryThreshold: threshold,
			DeliveryFee:           fee,
			Currency:              unit,
		},
		LogLevel:     getEnvOrViper("LOG_LEVEL", "info"),
		StoreBackend: strings.ToLower(getEnvOrViper("STORE_BACKEND", "postgres")),
	}

	if cfg.StoreBackend != "postgres" && cfg.StoreBackend != "memory" {
		return nil, fmt.Errorf("STORE_BACKEND must be postgres or memory, got %q", cfg.StoreBackend)
	}

	return cfg, nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}

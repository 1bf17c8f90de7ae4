package main

import (
	"fmt"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// Server settings
	Host           string
	Port           int
	Environment    string
	LogLevel       string
	RequestTimeout time.Duration

	// Record store settings
	RecordStoreProvider string // "dynamo" or "postgres"
	DynamoTable         string
	AWSRegion           string

	// Database settings (postgres record store)
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	// Storage settings
	StorageProvider  string
	StorageLocalPath string
	StorageLocalURL  string
	StorageS3Bucket  string
	StorageS3Region  string
	StorageS3BaseURL string

	// Template settings
	TemplatesDir string
}

// LoadConfig loads configuration from environment variables.
func LoadConfig(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		// Server settings
		Host:           envString(getenv, "SERVER_HOST", "localhost"),
		Port:           envInt(getenv, "SERVER_PORT", 8080),
		Environment:    envString(getenv, "ENVIRONMENT", "dev"),
		LogLevel:       envString(getenv, "LOG_LEVEL", "info"),
		RequestTimeout: envDuration(getenv, "REQUEST_TIMEOUT", 5*time.Second),

		// Record store settings
		RecordStoreProvider: envString(getenv, "RECORD_STORE_PROVIDER", "dynamo"),
		DynamoTable:         getenv("DYNAMODB_TABLE"),
		AWSRegion:           getenv("AWS_REGION"),

		// Database settings
		DBUser:     envString(getenv, "DB_USER", "postgres"),
		DBPassword: envString(getenv, "DB_PASSWORD", ""),
		DBHost:     envString(getenv, "DB_HOSTNAME", "localhost"),
		DBPort:     envString(getenv, "DB_PORT", "5432"),
		DBName:     envString(getenv, "DB_NAME", "roster"),

		// Storage settings
		StorageProvider:  envString(getenv, "STORAGE_PROVIDER", "s3"),
		StorageLocalPath: envString(getenv, "STORAGE_LOCAL_PATH", "./uploads"),
		StorageLocalURL:  envString(getenv, "STORAGE_LOCAL_URL", "http://localhost:8080/uploads"),
		StorageS3Bucket:  getenv("STORAGE_S3_BUCKET"),
		StorageS3Region:  getenv("STORAGE_S3_REGION"),
		StorageS3BaseURL: getenv("STORAGE_S3_BASE_URL"),

		// Template settings
		TemplatesDir: envString(getenv, "TEMPLATES_DIR", "web/templates"),
	}

	// The S3 region falls back to the general AWS region.
	if cfg.StorageS3Region == "" {
		cfg.StorageS3Region = cfg.AWSRegion
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DatabaseURL returns the PostgreSQL connection string.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// validate checks provider requirements up front so a misconfigured process
// fails at startup instead of on its first request.
func (c *Config) validate() error {
	switch c.RecordStoreProvider {
	case "dynamo":
		if c.DynamoTable == "" {
			return fmt.Errorf("DYNAMODB_TABLE must be set when the record store provider is dynamo")
		}
		if c.AWSRegion == "" {
			return fmt.Errorf("AWS_REGION must be set when the record store provider is dynamo")
		}
	case "postgres":
		// Connection settings carry defaults; a bad value fails on the
		// startup ping.
	default:
		return fmt.Errorf("unknown record store provider %q", c.RecordStoreProvider)
	}

	switch c.StorageProvider {
	case "s3":
		if c.StorageS3Bucket == "" {
			return fmt.Errorf("STORAGE_S3_BUCKET must be set when the storage provider is s3")
		}
		if c.StorageS3Region == "" {
			return fmt.Errorf("STORAGE_S3_REGION or AWS_REGION must be set when the storage provider is s3")
		}
	case "local":
	default:
		return fmt.Errorf("unknown storage provider %q", c.StorageProvider)
	}

	return nil
}

// Helper functions for loading environment variables with defaults.

func envString(getenv func(string) string, key, defaultValue string) string {
	if value := getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func envInt(getenv func(string) string, key string, defaultValue int) int {
	if value := getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func envDuration(getenv func(string) string, key string, defaultValue time.Duration) time.Duration {
	if value := getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

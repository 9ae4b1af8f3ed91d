package utils

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"

	"fieldserve-backend/models"
)

// GetConfig read the configuration from environment variables or config files
func GetConfig() (*models.Config, error) {
	config, err := Load()
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	return config, nil
}

// Load initializes and returns the application configuration using Viper
func Load() (*models.Config, error) {
	v := viper.New()

	// Set configuration file details
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../")
	v.AddConfigPath("../../")

	// Set default values
	setDefaults(v)

	// Enable environment variable support
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Try to read config file
	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Config file not found (%v), using defaults and environment variables\n", err)
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	var config models.Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Parse JWT expiration if it's a string
	if v.IsSet("jwt_expires_in") {
		expiresStr := v.GetString("jwt_expires_in")
		if expiresStr != "" {
			if expires, err := time.ParseDuration(expiresStr); err == nil {
				config.JWTExpiresIn = expires
			}
		}
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Application defaults
	v.SetDefault("app_name", "FieldServe Backend")
	v.SetDefault("app_version", "1.0.0")
	v.SetDefault("app_env", "development")
	v.SetDefault("app_host", "0.0.0.0")
	v.SetDefault("app_port", "8081")

	// JWT defaults
	v.SetDefault("jwt_secret", "your-super-secret-jwt-key-change-this-in-production")
	v.SetDefault("jwt_expires_in", 30*time.Minute)

	// AWS defaults
	v.SetDefault("aws_region", "us-east-1")
	v.SetDefault("aws_access_key_id", "")
	v.SetDefault("aws_secret_access_key", "")
	v.SetDefault("dynamodb_endpoint", "")
	v.SetDefault("dynamodb_table_prefix", "dev")

	// Billing defaults
	v.SetDefault("tax_percent", "16")
	v.SetDefault("currency", "USD")
	v.SetDefault("quotation_valid_days", 14)

	// Rate context defaults: night is outside 07:00-19:00 local time
	v.SetDefault("night_start_hour", 19)
	v.SetDefault("night_end_hour", 7)
	v.SetDefault("holidays", []string{})

	// Platform-default SLA policy
	v.SetDefault("default_first_response_minutes", 240)
	v.SetDefault("default_on_site_minutes", 1440)
	v.SetDefault("default_resolution_minutes", 4320)
	v.SetDefault("default_penalty_percent", "0")

	// Logging defaults
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	// CORS defaults
	v.SetDefault("cors_origins", []string{"*"})

	// Base Path default
	v.SetDefault("basePath", "/api/v1")

	// Worker defaults
	v.SetDefault("worker_cron_schedule", "0 */5 * * * *")

	// Tables the worker provisions
	v.SetDefault("tables", []string{"contracts", "workorders", "quotations", "invoices"})
}

// validate checks if all required configuration is provided
func validate(c *models.Config) error {
	if c.JWTSecret == "your-super-secret-jwt-key-change-this-in-production" && c.AppEnv == "production" {
		return fmt.Errorf("JWT_SECRET must be set in production environment")
	}

	if c.AppEnv == "production" && c.AWSAccessKeyID == "" {
		fmt.Println("No AWS credentials provided, assuming IAM role is used")
	}

	if c.NightEndHour >= c.NightStartHour {
		return fmt.Errorf("night_end_hour must be before night_start_hour")
	}

	for _, h := range c.Holidays {
		if _, err := time.Parse("2006-01-02", h); err != nil {
			return fmt.Errorf("invalid holiday date %q: %w", h, err)
		}
	}

	return nil
}

// PrintPrettyJSON takes any struct or map and prints it as pretty JSON
func PrintPrettyJSON(data interface{}) string {
	prettyJSON, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		fmt.Println("Failed to generate JSON:", err)
		return ""
	}
	return string(prettyJSON)
}

// GenerateUUID returns a new UUID string
func GenerateUUID() string {
	return uuid.New().String()
}

// GenerateOrderNumber builds a human-readable work order number like
// WO-20260831-1a2b3c.
func GenerateOrderNumber(now time.Time) string {
	return fmt.Sprintf("WO-%s-%s", now.Format("20060102"), uuid.New().String()[:6])
}

// GenerateInvoiceNumber builds an invoice number like INV-20260831-1a2b3c.
func GenerateInvoiceNumber(now time.Time) string {
	return fmt.Sprintf("INV-%s-%s", now.Format("20060102"), uuid.New().String()[:6])
}

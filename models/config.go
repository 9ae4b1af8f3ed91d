package models

import "time"

// Config holds all configuration for the application
type Config struct {
	// Application
	AppName    string `mapstructure:"app_name"`
	AppVersion string `mapstructure:"app_version"`
	AppEnv     string `mapstructure:"app_env"`
	AppHost    string `mapstructure:"app_host"`
	AppPort    string `mapstructure:"app_port"`

	// JWT
	JWTSecret    string        `mapstructure:"jwt_secret"`
	JWTExpiresIn time.Duration `mapstructure:"jwt_expires_in"`

	// AWS
	AWSRegion           string `mapstructure:"aws_region"`
	AWSAccessKeyID      string `mapstructure:"aws_access_key_id"`
	AWSSecretAccessKey  string `mapstructure:"aws_secret_access_key"`
	DynamoDBEndpoint    string `mapstructure:"dynamodb_endpoint"`
	DynamoDBTablePrefix string `mapstructure:"dynamodb_table_prefix"`

	// Billing
	TaxPercent         string `mapstructure:"tax_percent"`
	Currency           string `mapstructure:"currency"`
	QuotationValidDays int    `mapstructure:"quotation_valid_days"`

	// Rate context: local hours outside [night_end_hour, night_start_hour)
	// are billed with the night multiplier. Holidays are YYYY-MM-DD dates.
	NightStartHour int      `mapstructure:"night_start_hour"`
	NightEndHour   int      `mapstructure:"night_end_hour"`
	Holidays       []string `mapstructure:"holidays"`

	// Platform-default SLA policy, used when a contract has no SLA row for
	// the requested priority.
	DefaultFirstResponseMinutes int    `mapstructure:"default_first_response_minutes"`
	DefaultOnSiteMinutes        int    `mapstructure:"default_on_site_minutes"`
	DefaultResolutionMinutes    int    `mapstructure:"default_resolution_minutes"`
	DefaultPenaltyPercent       string `mapstructure:"default_penalty_percent"`

	// Logging
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	// CORS
	CORSOrigins []string `mapstructure:"cors_origins"`

	// Base Path
	BasePath string `mapstructure:"basePath"`

	// Worker
	WorkerCronSchedule string `mapstructure:"worker_cron_schedule"`

	Tables []string `mapstructure:"tables"`
}

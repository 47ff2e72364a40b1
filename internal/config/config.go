package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN builds the GORM/pgx connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// DocumentConfig holds settings for document generation.
type DocumentConfig struct {
	TemplateDir string
	StorageDir  string
	StaticBase  string
	// PipelineTimeout bounds one document's load+render+upload+record
	// pipeline.
	PipelineTimeout time.Duration
}

// KafkaConfig holds event streaming settings.
type KafkaConfig struct {
	Brokers     []string
	GroupPrefix string
}

// ServiceConfig holds all configuration for the rental service.
type ServiceConfig struct {
	Port     string
	AppEnv   string
	Currency string
	DB       DatabaseConfig
	Document DocumentConfig
	Kafka    KafkaConfig
}

// Load reads configuration from RENTAL_-prefixed environment variables with
// sensible development defaults.
func Load() (*ServiceConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("RENTAL")
	v.AutomaticEnv()

	v.SetDefault("SERVICE_PORT", ":8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("CURRENCY", "IDR")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "rental")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("TEMPLATE_DIR", "./templates")
	v.SetDefault("STORAGE_DIR", "./uploads")
	v.SetDefault("STATIC_BASE", "/static/uploads")
	v.SetDefault("PIPELINE_TIMEOUT", "30s")
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_GROUP_PREFIX", "rental-")

	timeout, err := time.ParseDuration(v.GetString("PIPELINE_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("invalid RENTAL_PIPELINE_TIMEOUT: %w", err)
	}

	return &ServiceConfig{
		Port:     v.GetString("SERVICE_PORT"),
		AppEnv:   v.GetString("APP_ENV"),
		Currency: v.GetString("CURRENCY"),
		DB: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Document: DocumentConfig{
			TemplateDir:     v.GetString("TEMPLATE_DIR"),
			StorageDir:      v.GetString("STORAGE_DIR"),
			StaticBase:      v.GetString("STATIC_BASE"),
			PipelineTimeout: timeout,
		},
		Kafka: KafkaConfig{
			Brokers:     strings.Split(v.GetString("KAFKA_BROKERS"), ","),
			GroupPrefix: v.GetString("KAFKA_GROUP_PREFIX"),
		},
	}, nil
}

package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string `envconfig:"DB_HOST"`
	Port               string `envconfig:"DB_PORT" default:"5432"`
	User               string `envconfig:"DB_USER"`
	Password           string `envconfig:"DB_PASSWORD"`
	Name               string `envconfig:"DB_NAME"`
	SSLMode            string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxOpenConns       int    `envconfig:"DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns       int    `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetimeSec int    `envconfig:"DB_CONN_MAX_LIFETIME_SEC" default:"300"`
	AutoMigrate        bool   `envconfig:"DB_AUTO_MIGRATE" default:"true"`
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string `envconfig:"MINIO_ENDPOINT"`
	AccessKey string `envconfig:"MINIO_ACCESS_KEY"`
	SecretKey string `envconfig:"MINIO_SECRET_KEY"`
	Bucket    string `envconfig:"MINIO_BUCKET"`
	UseSSL    bool   `envconfig:"MINIO_USE_SSL" default:"false"`
}

// StorageConfig selects the cover blob backend.
// Driver is either "local" (files under UploadDir) or "minio".
type StorageConfig struct {
	Driver    string `envconfig:"STORAGE_DRIVER" default:"local"`
	UploadDir string `envconfig:"UPLOAD_DIR" default:"public/uploads"`
	MinIO     MinIOConfig
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	Encoding   string `envconfig:"LOG_ENCODING" default:"json"`
	OutputPath string `envconfig:"LOG_OUTPUT"`
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost          string `envconfig:"APP_HOST" default:"localhost:8080"`
	Port             string `envconfig:"PORT" default:"8080"`
	UploadMaxBytes   int    `envconfig:"UPLOAD_MAX_BYTES" default:"10485760"`
	CORSAllowOrigins string `envconfig:"CORS_ALLOW_ORIGINS" default:"*"`
	Log              LogConfig
	Database         DatabaseConfig
	Storage          StorageConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// Real environment variables take precedence over .env values.
func Load() (*AppConfig, error) {
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

package config

import (
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    Server    `yaml:"server"`
	Database  Database  `yaml:"database"`
	Crawler   Crawler   `yaml:"crawler"`
	Generator Generator `yaml:"generator"`
	Poster    Poster    `yaml:"poster"`
	Shortener Shortener `yaml:"shortener"`
	Publisher Publisher `yaml:"publisher"`
	S3        S3        `yaml:"s3"`
}

// Server holds HTTP server configuration
type Server struct {
	Host         string        `yaml:"host" env:"SERVER_HOST" env-default:"0.0.0.0"`
	Port         string        `yaml:"port" env:"SERVER_PORT" env-default:"8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT" env-default:"15s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env:"SERVER_IDLE_TIMEOUT" env-default:"60s"`
}

// Address returns the full server address
func (s Server) Address() string {
	return s.Host + ":" + s.Port
}

// Database holds database configuration
type Database struct {
	PostgresDSN string `yaml:"postgres_dsn" env:"DATABASE_URL"`

	MaxOpenConns int           `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	MaxIdleConns int           `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" env-default:"5"`
	ConnLifetime time.Duration `yaml:"conn_lifetime" env:"DB_CONN_LIFETIME" env-default:"5m"`
}

// Crawler holds configuration for the external crawler service
type Crawler struct {
	BaseURL string        `yaml:"base_url" env:"CRAWLER_BACKEND_URL" env-default:"http://localhost:8000"`
	Timeout time.Duration `yaml:"timeout" env:"CRAWLER_TIMEOUT" env-default:"30s"`
}

// Generator holds configuration for the external AI content generator
type Generator struct {
	BaseURL string        `yaml:"base_url" env:"GENERATOR_BASE_URL" env-default:"http://localhost:8001"`
	APIKey  string        `yaml:"api_key" env:"GENERATOR_API_KEY"`
	Timeout time.Duration `yaml:"timeout" env:"GENERATOR_TIMEOUT" env-default:"60s"`
}

// Poster holds configuration for the external social posting service
type Poster struct {
	BaseURL string        `yaml:"base_url" env:"POSTER_BASE_URL" env-default:"http://localhost:8002"`
	Timeout time.Duration `yaml:"timeout" env:"POSTER_TIMEOUT" env-default:"30s"`
}

// Shortener holds URL shortener configuration
type Shortener struct {
	Timeout time.Duration `yaml:"timeout" env:"SHORTENER_TIMEOUT" env-default:"5s"`
}

// Publisher holds auto-publisher scheduler configuration
type Publisher struct {
	Enabled      bool          `yaml:"enabled" env:"PUBLISHER_ENABLED" env-default:"false"`
	PollInterval time.Duration `yaml:"poll_interval" env:"PUBLISHER_POLL_INTERVAL" env-default:"1s"`
	MinDelay     time.Duration `yaml:"min_delay" env:"PUBLISHER_MIN_DELAY" env-default:"120s"`
	MaxDelay     time.Duration `yaml:"max_delay" env:"PUBLISHER_MAX_DELAY" env-default:"180s"`
}

// S3 holds S3/MinIO storage configuration for campaign media
type S3 struct {
	Endpoint        string `yaml:"endpoint" env:"S3_ENDPOINT" env-default:"http://localhost:9000"`
	AccessKeyID     string `yaml:"access_key_id" env:"S3_ACCESS_KEY_ID" env-default:"minioadmin"`
	SecretAccessKey string `yaml:"secret_access_key" env:"S3_SECRET_ACCESS_KEY" env-default:"minioadmin"`
	Bucket          string `yaml:"bucket" env:"S3_BUCKET" env-default:"media"`
	Region          string `yaml:"region" env:"S3_REGION" env-default:"us-east-1"`
	PublicURL       string `yaml:"public_url" env:"S3_PUBLIC_URL" env-default:"http://localhost:9000/media"`
}

// MustLoad loads configuration from environment and panics on error
func MustLoad() Config {
	// Load .env file if exists (for development)
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	return cfg
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (Config, error) {
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

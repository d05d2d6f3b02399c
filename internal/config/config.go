// Package config loads service settings from defaults, an optional YAML file
// and the environment, in that order of precedence (environment wins).
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"dp-catalog/internal/enquiry"
)

type Config struct {
	Env      string        `yaml:"env"`
	LogLevel string        `yaml:"log_level"`
	HTTP     HTTPConfig    `yaml:"http"`
	Catalog  CatalogConfig `yaml:"catalog"`
	SMTP     SMTPConfig    `yaml:"smtp"`
	Webhook  WebhookConfig `yaml:"webhook"`
	Kafka    KafkaConfig   `yaml:"kafka"`
	Redis    RedisConfig   `yaml:"redis"`
	Enquiry  EnquiryConfig `yaml:"enquiry"`
}

type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
}

type CatalogConfig struct {
	Path string `yaml:"path"`
}

type SMTPConfig struct {
	Host     string        `yaml:"host"`
	Port     int           `yaml:"port"`
	User     string        `yaml:"user"`
	Password string        `yaml:"password"`
	Timeout  time.Duration `yaml:"timeout"`
}

type WebhookConfig struct {
	URL     string        `yaml:"url"`
	Phone   string        `yaml:"phone"`
	Timeout time.Duration `yaml:"timeout"`
}

type KafkaConfig struct {
	Broker string `yaml:"broker"`
	Group  string `yaml:"group"`
}

type RedisConfig struct {
	Addr string `yaml:"addr"`
}

type EnquiryConfig struct {
	BusinessEmail string        `yaml:"business_email"`
	FailedDir     string        `yaml:"failed_dir"`
	Brand         enquiry.Brand `yaml:"brand"`
}

// Default returns the settings used when nothing else is configured.
func Default() *Config {
	return &Config{
		Env:      "development",
		LogLevel: "info",
		HTTP: HTTPConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    1 << 20,
			AllowedOrigins:  []string{"*"},
		},
		Catalog: CatalogConfig{Path: "./data/products-complete.json"},
		SMTP: SMTPConfig{
			Host:    "smtp.gmail.com",
			Port:    587,
			Timeout: 15 * time.Second,
		},
		Webhook: WebhookConfig{
			Phone:   "917000901447",
			Timeout: 10 * time.Second,
		},
		Kafka: KafkaConfig{Group: "projectors-group"},
		Enquiry: EnquiryConfig{
			BusinessEmail: "dpenterprises2007@gmail.com",
			FailedDir:     "./data/failed-enquiries",
			Brand:         enquiry.DefaultBrand(),
		},
	}
}

// Load builds the configuration. path may be empty. Outside production a
// .env file in the working directory is loaded first.
func Load(path string) (*Config, error) {
	if os.Getenv("ENV") != "production" {
		// Missing .env is fine; variables may come from the real environment.
		_ = godotenv.Load()
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	setString(&c.Env, "ENV")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.HTTP.Addr, "HTTP_ADDR")
	setString(&c.Catalog.Path, "CATALOG_PATH")

	setString(&c.SMTP.Host, "SMTP_HOST")
	setString(&c.SMTP.User, "SMTP_USER")
	setString(&c.SMTP.Password, "SMTP_PASS")
	if v := os.Getenv("SMTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SMTP_PORT: %w", err)
		}
		c.SMTP.Port = port
	}

	setString(&c.Enquiry.BusinessEmail, "BUSINESS_EMAIL")
	setString(&c.Enquiry.FailedDir, "FAILED_ENQUIRY_DIR")

	setString(&c.Webhook.URL, "WHATSAPP_WEBHOOK_URL")
	setString(&c.Webhook.Phone, "WHATSAPP_NUMBER")

	setString(&c.Kafka.Broker, "KAFKA_BROKER")
	setString(&c.Redis.Addr, "REDIS_ADDR")

	// Render-style PORT without a colon.
	if port := os.Getenv("PORT"); port != "" && os.Getenv("HTTP_ADDR") == "" {
		c.HTTP.Addr = ":" + port
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate reports settings the service cannot start with.
func (c *Config) Validate() error {
	if c.Catalog.Path == "" {
		return fmt.Errorf("config: catalog path is required")
	}
	if c.SMTP.Port <= 0 || c.SMTP.Port > 65535 {
		return fmt.Errorf("config: invalid smtp port %d", c.SMTP.Port)
	}
	if c.HTTP.MaxBodyBytes <= 0 {
		return fmt.Errorf("config: max_body_bytes must be positive")
	}
	return nil
}

func (c *Config) Production() bool { return c.Env == "production" }

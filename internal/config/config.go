package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration
type Config struct {
	Port     string `yaml:"port"`
	LogLevel string `yaml:"log_level"`
	SiteURL  string `yaml:"site_url"`

	JWTSecret string `yaml:"jwt_secret"`

	// Planning engine
	PlannerURL    string `yaml:"planner_url"`
	PlannerAPIKey string `yaml:"planner_api_key"`

	// Identity provider (GoTrue-compatible)
	AuthURL    string `yaml:"auth_url"`
	AuthAPIKey string `yaml:"auth_api_key"`

	// SMTP for emailed reports; optional, the endpoint reports 503 when unset
	SMTPHost    string `yaml:"smtp_host"`
	SMTPPort    string `yaml:"smtp_port"`
	SMTPUser    string `yaml:"smtp_user"`
	SMTPPass    string `yaml:"smtp_pass"`
	SenderEmail string `yaml:"sender_email"`
}

// NewConfig loads configuration from environment variables. When
// CONFIG_FILE points at a YAML file, its non-empty values take precedence
// over the environment.
func NewConfig() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		LogLevel:      getEnv("LOG_LEVEL", "INFO"),
		SiteURL:       getEnv("SITE_URL", "http://localhost:8080"),
		JWTSecret:     getEnv("JWT_SECRET", "secret"),
		PlannerURL:    getEnv("PLANNER_URL", ""),
		PlannerAPIKey: getEnv("PLANNER_API_KEY", ""),
		AuthURL:       getEnv("AUTH_URL", ""),
		AuthAPIKey:    getEnv("AUTH_API_KEY", ""),
		SMTPHost:      getEnv("SMTP_HOST", ""),
		SMTPPort:      getEnv("SMTP_PORT", "587"),
		SMTPUser:      getEnv("SMTP_USER", ""),
		SMTPPass:      getEnv("SMTP_PASS", ""),
		SenderEmail:   getEnv("SENDER_EMAIL", "reports@finplan.local"),
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.overlayFile(path); err != nil {
			return nil, err
		}
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.PlannerURL == "" {
		return nil, fmt.Errorf("PLANNER_URL is required")
	}
	if cfg.PlannerAPIKey == "" {
		return nil, fmt.Errorf("PLANNER_API_KEY is required")
	}
	if cfg.AuthURL == "" {
		return nil, fmt.Errorf("AUTH_URL is required")
	}

	return cfg, nil
}

func (c *Config) overlayFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	overlay := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	overlay(&c.Port, file.Port)
	overlay(&c.LogLevel, file.LogLevel)
	overlay(&c.SiteURL, file.SiteURL)
	overlay(&c.JWTSecret, file.JWTSecret)
	overlay(&c.PlannerURL, file.PlannerURL)
	overlay(&c.PlannerAPIKey, file.PlannerAPIKey)
	overlay(&c.AuthURL, file.AuthURL)
	overlay(&c.AuthAPIKey, file.AuthAPIKey)
	overlay(&c.SMTPHost, file.SMTPHost)
	overlay(&c.SMTPPort, file.SMTPPort)
	overlay(&c.SMTPUser, file.SMTPUser)
	overlay(&c.SMTPPass, file.SMTPPass)
	overlay(&c.SenderEmail, file.SenderEmail)
	return nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for kotoba-engine.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (API keys, client secrets, passwords) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// FrontendURL is where OAuth callbacks redirect the browser after the
	// token exchange completes (success or failure).
	FrontendURL string `yaml:"frontend_url" env:"FRONTEND_URL" env-default:"http://localhost:5173"`

	// Anthropic model configuration
	Anthropic AnthropicConfig `yaml:"anthropic"`

	// Google OAuth configuration
	OAuth OAuthConfig `yaml:"oauth"`

	// Database configuration (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// MigrationsPath is the directory containing SQL migrations.
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"migrations"`

	// JWTSecret signs the bearer tokens this service issues after a
	// successful OAuth exchange. Server will fail to start if unset
	// outside local environments.
	JWTSecret string `yaml:"-" env:"JWT_SECRET"` // Secret - not in YAML
}

// AnthropicConfig holds settings for the external text-generation capability.
type AnthropicConfig struct {
	// APIKey is checked at call time, not at startup, so the rest of the
	// API stays usable when translation is unconfigured.
	APIKey         string `yaml:"-" env:"ANTHROPIC_API_KEY"` // Secret - not in YAML
	Model          string `yaml:"model" env:"ANTHROPIC_MODEL" env-default:"claude-sonnet-4-5-20250929"`
	MaxTokens      int    `yaml:"max_tokens" env:"ANTHROPIC_MAX_TOKENS" env-default:"2048"`
	TimeoutSeconds int    `yaml:"timeout_seconds" env:"ANTHROPIC_TIMEOUT_SECONDS" env-default:"60"`
}

// Timeout returns the per-call timeout for the Anthropic client.
func (c *AnthropicConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// OAuthConfig holds Google OAuth client configuration.
type OAuthConfig struct {
	ClientID     string `yaml:"client_id" env:"GOOGLE_CLIENT_ID" env-default:""`
	ClientSecret string `yaml:"-" env:"GOOGLE_CLIENT_SECRET"` // Secret - not in YAML
	TokenURL     string `yaml:"token_url" env:"OAUTH_TOKEN_URL" env-default:"https://oauth2.googleapis.com/token"`
	UserinfoURL  string `yaml:"userinfo_url" env:"OAUTH_USERINFO_URL" env-default:"https://www.googleapis.com/oauth2/v2/userinfo"`
	RedirectURI  string `yaml:"redirect_uri" env:"OAUTH_REDIRECT_URI" env-default:""`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"kotoba"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"kotoba_engine"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
}

// URL builds a pgx-compatible connection URL.
func (c *DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode)
}

// Load reads configuration from config.yaml with environment variable
// overrides. If no config.yaml exists, configuration comes from the
// environment alone. The version parameter is injected at build time.
func Load(version string) (*Config, error) {
	cfg := &Config{Version: version}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		if c.Env != "local" {
			return fmt.Errorf("JWT_SECRET must be set when ENVIRONMENT=%q", c.Env)
		}
		// Local development fallback so the server boots without setup.
		c.JWTSecret = "local-dev-secret"
	}
	if c.Anthropic.MaxTokens <= 0 {
		return fmt.Errorf("anthropic max_tokens must be positive, got %d", c.Anthropic.MaxTokens)
	}
	if c.Anthropic.TimeoutSeconds <= 0 {
		return fmt.Errorf("anthropic timeout_seconds must be positive, got %d", c.Anthropic.TimeoutSeconds)
	}
	return nil
}

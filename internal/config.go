package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModePassword = "password"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Catalog CatalogConfig     `yaml:"catalog"`
	SQLite  SQLiteConfig      `yaml:"sqlite"`
	AI      AIConfig          `yaml:"ai"`
	Auth    AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Catalog.Validate(); err != nil {
		return err
	}
	if err := c.AI.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// CatalogConfig holds catalog-level configuration.
//
// SeedPath points at an optional YAML file of book records that is loaded
// into the store on startup and re-synced whenever the file changes.
type CatalogConfig struct {
	SeedPath string `yaml:"seed_path"`
}

// Validate validates the catalog configuration.
func (c *CatalogConfig) Validate() error {
	return nil
}

// SQLiteConfig holds SQLite database configuration.
//
// An empty Path selects the in-memory store; records then live only for
// the lifetime of the process.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// AIConfig holds the Gemini gateway configuration.
//
// An empty APIKey disables the gateway: summary and similarity requests
// answer with static fallbacks and record generation is rejected.
type AIConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// Validate validates the AI configuration.
func (c *AIConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Model, validation.Required),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how the admin surface is gated:
//   - "disabled" (default): every request may manage the catalog, suitable for local dev.
//   - "password": admin routes require a signed-in session; Password must be non-empty.
type AuthConfig struct {
	Mode     string `yaml:"mode"`
	Password string `yaml:"password"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModePassword)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModePassword && c.Password == "" {
		return fmt.Errorf("auth: mode is %q but password is empty", AuthModePassword)
	}
	return nil
}

// AuthEnabled returns true when the admin surface is gated.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModePassword
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Catalog: CatalogConfig{
			SeedPath: "./catalog/seed.yaml",
		},
		SQLite: SQLiteConfig{
			Path: "./ansuz.db",
		},
		AI: AIConfig{
			Model: "gemini-2.5-flash",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}

package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeJWT      = "jwt"
)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	Codebase CodebaseConfig    `yaml:"codebase"`
	SQLite   SQLiteConfig      `yaml:"sqlite"`
	Auth     AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Codebase.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
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

// CodebaseConfig holds the path to the scanned codebase directory.
type CodebaseConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the codebase configuration.
func (c *CodebaseConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// UserConfig is one dashboard user with a bcrypt password hash.
type UserConfig struct {
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"password_hash"`
}

// Validate validates one user entry.
func (c *UserConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Username, validation.Required),
		validation.Field(&c.PasswordHash, validation.Required),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "jwt": Bearer access tokens on API routes; login/refresh endpoints
//     issue token pairs against the configured users.
type AuthConfig struct {
	Mode             string       `yaml:"mode"`
	Secret           string       `yaml:"secret"`
	AccessTTLMinutes int          `yaml:"access_ttl_minutes"`
	RefreshTTLHours  int          `yaml:"refresh_ttl_hours"`
	Users            []UserConfig `yaml:"users"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeJWT)),
		validation.Field(&c.AccessTTLMinutes, validation.Min(0)),
		validation.Field(&c.RefreshTTLHours, validation.Min(0)),
	); err != nil {
		return err
	}
	if c.Mode != AuthModeJWT {
		return nil
	}
	if c.Secret == "" {
		return fmt.Errorf("auth: mode is %q but secret is empty", AuthModeJWT)
	}
	if len(c.Users) == 0 {
		return fmt.Errorf("auth: mode is %q but no users are configured", AuthModeJWT)
	}
	for i := range c.Users {
		if err := c.Users[i].Validate(); err != nil {
			return fmt.Errorf("auth: user %d: %w", i, err)
		}
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeJWT
}

// AccessTTL returns the access token lifetime.
func (c *AuthConfig) AccessTTL() time.Duration {
	if c.AccessTTLMinutes <= 0 {
		return 15 * time.Minute
	}
	return time.Duration(c.AccessTTLMinutes) * time.Minute
}

// RefreshTTL returns the refresh token lifetime.
func (c *AuthConfig) RefreshTTL() time.Duration {
	if c.RefreshTTLHours <= 0 {
		return 7 * 24 * time.Hour
	}
	return time.Duration(c.RefreshTTLHours) * time.Hour
}

// UserMap returns the configured users as username → password hash.
func (c *AuthConfig) UserMap() map[string]string {
	out := make(map[string]string, len(c.Users))
	for _, u := range c.Users {
		out[u.Username] = u.PasswordHash
	}
	return out
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
		Codebase: CodebaseConfig{
			Path: "./codebase",
		},
		SQLite: SQLiteConfig{
			Path: "./promptdeck.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}

// Package config handles external configuration loading from JSON and environment variables.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	Debug    bool     `json:"debug"`
	Server   Server   `json:"server"`
	Database Database `json:"database"`
	Business Business `json:"business"`
	Admin    Admin    `json:"admin"`
	JWT      JWT      `json:"jwt"`
}

// Server holds HTTP server configuration
type Server struct {
	Port         int    `json:"port"`
	Host         string `json:"host"`
	ReadTimeout  int    `json:"readTimeout"`
	WriteTimeout int    `json:"writeTimeout"`
}

// Database holds database configuration
type Database struct {
	Path string `json:"path"`
}

// Business holds branding and business information
type Business struct {
	Name          string `json:"name"`
	Tagline       string `json:"tagline"`
	ContactEmail  string `json:"contactEmail"`
	ContactPhone  string `json:"contactPhone"`
	ServiceArea   string `json:"serviceArea"`
	LicenseNumber string `json:"licenseNumber"`
}

// Admin holds the dashboard operator credentials
type Admin struct {
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"` // bcrypt
}

// JWT holds JWT configuration
type JWT struct {
	Secret          string `json:"secret"`
	ExpirationHours int    `json:"expirationHours"`
}

// Load reads configuration from the specified JSON file and overrides with environment variables
func Load(configPath string) (*Config, error) {
	var cfg Config

	// Validate and clean the path
	cleanPath := filepath.Clean(configPath)

	// Try to read the config file
	data, err := os.ReadFile(cleanPath)
	if err == nil {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	// If the file doesn't exist, continue with empty config and rely on env vars

	cfg.applyEnvOverrides()

	// Defaults for purely env-based config
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.JWT.ExpirationHours == 0 {
		cfg.JWT.ExpirationHours = 24
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/pestguard.db"
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyEnvOverrides overrides config values with environment variables if set
func (c *Config) applyEnvOverrides() {
	if debug := os.Getenv("DEBUG"); debug != "" {
		c.Debug = debug == "true" || debug == "1"
	}

	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if host := os.Getenv("HOST"); host != "" {
		c.Server.Host = host
	}

	if dbPath := os.Getenv("DATABASE_PATH"); dbPath != "" {
		c.Database.Path = dbPath
	}

	// Critical for production
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		c.JWT.Secret = secret
	}

	if email := os.Getenv("ADMIN_EMAIL"); email != "" {
		c.Admin.Email = email
	}

	if hash := os.Getenv("ADMIN_PASSWORD_HASH"); hash != "" {
		c.Admin.PasswordHash = hash
	}
}

// validate checks that all required configuration values are present
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	// Validate database path for security
	cleanDBPath := filepath.Clean(c.Database.Path)
	if !filepath.IsLocal(cleanDBPath) && !filepath.IsAbs(cleanDBPath) {
		return fmt.Errorf("invalid database path: potential path traversal detected")
	}

	if c.JWT.Secret == "" || c.JWT.Secret == "CHANGE_THIS_SECRET_IN_PRODUCTION" {
		if !c.Debug {
			return fmt.Errorf("JWT secret must be changed for production")
		}
	}

	if c.Admin.PasswordHash == "" && !c.Debug {
		return fmt.Errorf("admin password hash is required for production")
	}

	if c.JWT.ExpirationHours <= 0 {
		c.JWT.ExpirationHours = 24
	}

	return nil
}

// Address returns the full server address (host:port)
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetDatabasePath returns the cleaned and validated database path
func (c *Config) GetDatabasePath() string {
	return filepath.Clean(c.Database.Path)
}

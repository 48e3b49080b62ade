// Package config provides file-based configuration with environment overrides.
// Files ending in .yaml or .yml are read as YAML, everything else as XML.
package config

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// AppConfig represents the root configuration structure
type AppConfig struct {
	XMLName xml.Name `xml:"DataDashboard" yaml:"-"`

	Server   ServerConfig   `xml:"Server" yaml:"server"`
	Upload   UploadConfig   `xml:"Upload" yaml:"upload"`
	Session  SessionConfig  `xml:"Session" yaml:"session"`
	Advanced AdvancedConfig `xml:"Advanced" yaml:"advanced"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port         int    `xml:"Port" yaml:"port"`
	BindAddress  string `xml:"BindAddress" yaml:"bind_address"`
	EnableCORS   bool   `xml:"EnableCORS" yaml:"enable_cors"`
	AllowOrigins string `xml:"AllowOrigins" yaml:"allow_origins"`
	ReadTimeout  int    `xml:"ReadTimeoutSeconds" yaml:"read_timeout_seconds"`
	WriteTimeout int    `xml:"WriteTimeoutSeconds" yaml:"write_timeout_seconds"`
	IdleTimeout  int    `xml:"IdleTimeoutSeconds" yaml:"idle_timeout_seconds"`
	BodyLimit    string `xml:"BodyLimit" yaml:"body_limit"`
}

// UploadConfig contains upload session settings
type UploadConfig struct {
	ProcessingDelayMs int    `xml:"ProcessingDelayMs" yaml:"processing_delay_ms"`
	IDStrategy        string `xml:"IDStrategy" yaml:"id_strategy"` // "uuid" or "sequence"
}

// SessionConfig contains session lifetime settings
type SessionConfig struct {
	TimeoutMinutes         int `xml:"TimeoutMinutes" yaml:"timeout_minutes"`
	CleanupIntervalMinutes int `xml:"CleanupIntervalMinutes" yaml:"cleanup_interval_minutes"`
	MaxSessions            int `xml:"MaxSessions" yaml:"max_sessions"`
}

// AdvancedConfig contains logging and tuning options
type AdvancedConfig struct {
	LogLevel             string `xml:"LogLevel" yaml:"log_level"`
	LogFile              string `xml:"LogFile" yaml:"log_file"`
	EnableRequestLogging bool   `xml:"EnableRequestLogging" yaml:"enable_request_logging"`
	Development          bool   `xml:"Development" yaml:"development"`
	EnableCompression    bool   `xml:"EnableCompression" yaml:"enable_compression"`
	CompressionLevel     int    `xml:"CompressionLevel" yaml:"compression_level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:         8089,
			BindAddress:  "0.0.0.0",
			EnableCORS:   true,
			AllowOrigins: "*",
			ReadTimeout:  30,
			WriteTimeout: 30,
			IdleTimeout:  120,
			BodyLimit:    "64M",
		},
		Upload: UploadConfig{
			ProcessingDelayMs: 1500,
			IDStrategy:        "uuid",
		},
		Session: SessionConfig{
			TimeoutMinutes:         30,
			CleanupIntervalMinutes: 5,
			MaxSessions:            1000,
		},
		Advanced: AdvancedConfig{
			LogLevel:             "info",
			LogFile:              "",
			EnableRequestLogging: true,
			Development:          false,
			EnableCompression:    true,
			CompressionLevel:     5,
		},
	}
}

// LoadConfig loads configuration from a file, creating it with defaults if
// it does not exist. A .env file in the working directory, when present,
// is loaded before environment overrides are applied.
func LoadConfig(configPath string) (*AppConfig, error) {
	var config *AppConfig

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		config = DefaultConfig()
		if err := config.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	} else {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		config = DefaultConfig()
		if err := decode(configPath, data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	_ = godotenv.Load()
	config.applyEnvironmentOverrides()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Save writes the configuration in the format implied by the file extension
func (c *AppConfig) Save(configPath string) error {
	var content []byte

	if isYAML(configPath) {
		output, err := yaml.Marshal(c)
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		header := []byte("# Data Dashboard configuration\n# This file is auto-generated on first run\n\n")
		content = append(header, output...)
	} else {
		output, err := xml.MarshalIndent(c, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		header := []byte(xml.Header + "\n<!-- Data Dashboard Configuration -->\n<!-- This file is auto-generated on first run -->\n\n")
		content = append(header, output...)
	}

	if dir := filepath.Dir(configPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := os.WriteFile(configPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate rejects settings the server cannot run with
func (c *AppConfig) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Upload.ProcessingDelayMs < 0 {
		return fmt.Errorf("processing delay must not be negative, got %d", c.Upload.ProcessingDelayMs)
	}
	switch c.Upload.IDStrategy {
	case "", "uuid", "sequence":
	default:
		return fmt.Errorf("unknown id strategy %q", c.Upload.IDStrategy)
	}
	return nil
}

// applyEnvironmentOverrides allows environment variables to override config values
func (c *AppConfig) applyEnvironmentOverrides() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if delay := os.Getenv("PROCESSING_DELAY_MS"); delay != "" {
		if d, err := strconv.Atoi(delay); err == nil {
			c.Upload.ProcessingDelayMs = d
		}
	}

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Advanced.LogLevel = level
	}

	if logFile := os.Getenv("LOG_FILE"); logFile != "" {
		c.Advanced.LogFile = logFile
	}
}

// ProcessingDelay returns the simulated processing window
func (c *AppConfig) ProcessingDelay() time.Duration {
	return time.Duration(c.Upload.ProcessingDelayMs) * time.Millisecond
}

// SessionTimeout returns how long an idle session is kept
func (c *AppConfig) SessionTimeout() time.Duration {
	return time.Duration(c.Session.TimeoutMinutes) * time.Minute
}

// CleanupInterval returns how often expired sessions are purged
func (c *AppConfig) CleanupInterval() time.Duration {
	return time.Duration(c.Session.CleanupIntervalMinutes) * time.Minute
}

// GetServerAddr returns the server bind address
func (c *AppConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}

// AllowedOrigins splits the comma-separated CORS origin list
func (c *AppConfig) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.Server.AllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return origins
}

func decode(path string, data []byte, into *AppConfig) error {
	if isYAML(path) {
		return yaml.Unmarshal(data, into)
	}
	return xml.Unmarshal(data, into)
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

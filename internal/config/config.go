package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/snacksense/backend/internal/analysis"
)

// Config holds all application configuration
type Config struct {
	Server struct {
		Port  string `json:"port"`
		Debug bool   `json:"debug"`
	} `json:"server"`

	Database struct {
		Path string `json:"path"`
	} `json:"database"`

	Catalog struct {
		BaseURL string `json:"base_url"`
	} `json:"catalog"`

	Gemini analysis.GeminiConfig `json:"gemini"`

	Auth struct {
		JWTSecret     string `json:"jwt_secret"`
		TokenTTLHours int    `json:"token_ttl_hours"`
	} `json:"auth"`
}

// LoadConfig loads configuration from a JSON file
func LoadConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Handle missing values
	if config.Server.Port == "" {
		// Fail if port is not set
		return nil, fmt.Errorf("server port is not set in config file")
	}
	if config.Database.Path == "" {
		config.Database.Path = "snacksense.db"
	}
	if config.Auth.JWTSecret == "" {
		config.Auth.JWTSecret = os.Getenv("SNACKSENSE_JWT_SECRET")
	}
	if config.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("auth jwt_secret is not set in config file or SNACKSENSE_JWT_SECRET")
	}
	if config.Auth.TokenTTLHours <= 0 {
		config.Auth.TokenTTLHours = 24
	}
	config.Gemini.ApplyEnv()

	return &config, nil
}

// GetConfigPath returns the path to the configuration file
func GetConfigPath() string {
	// First try environment variable
	if path := os.Getenv("SNACKSENSE_CONFIG"); path != "" {
		return path
	}

	// Then try config directory
	configDir := "config"
	if _, err := os.Stat(configDir); err == nil {
		return filepath.Join(configDir, "config.json")
	}

	// Finally, try current directory
	return "config.json"
}

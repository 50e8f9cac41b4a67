// Package config loads the Box application configuration used to
// establish authenticated API sessions for integration testing.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// environment variable names
const (
	// EnvConfig holds the configuration JSON inline.
	EnvConfig = "BOX_CONFIG"
	// EnvConfigFile names a file containing the configuration JSON.
	EnvConfigFile = "BOX_CONFIG_FILE"
)

// AppAuth holds the JWT signing material for server authentication.
type AppAuth struct {
	PublicKeyID string `json:"publicKeyID"`
	PrivateKey  string `json:"privateKey"`
	Passphrase  string `json:"passphrase,omitempty"`
}

// AppSettings holds the OAuth application credentials.
type AppSettings struct {
	ClientID     string  `json:"clientID"`
	ClientSecret string  `json:"clientSecret"`
	AppAuth      AppAuth `json:"appAuth"`
}

// Config is the JSON configuration consumed at run start. EnterpriseID
// selects the enterprise the service account authenticates against.
// UserID optionally pins a pre-existing test user; when empty, run start
// creates one and run end deletes it.
type Config struct {
	BoxAppSettings AppSettings `json:"boxAppSettings"`
	EnterpriseID   string      `json:"enterpriseID"`
	UserID         string      `json:"userID,omitempty"`

	// BaseURL and UploadURL override the API endpoints. Empty values
	// select the production Box endpoints; tests point these at mock
	// servers.
	BaseURL   string `json:"baseURL,omitempty"`
	UploadURL string `json:"uploadURL,omitempty"`
	TokenURL  string `json:"tokenURL,omitempty"`
}

// Parse decodes a configuration from raw JSON.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads and decodes a configuration from a file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	return Parse(data)
}

// FromEnv resolves the configuration from the environment: BOX_CONFIG
// (inline JSON) takes precedence over BOX_CONFIG_FILE. A .env file in
// the working directory is honored when present.
func FromEnv() (*Config, error) {
	// Ignore the error; a missing .env file is the common case.
	_ = godotenv.Load()

	if raw := os.Getenv(EnvConfig); raw != "" {
		return Parse([]byte(raw))
	}
	if path := os.Getenv(EnvConfigFile); path != "" {
		return Load(path)
	}
	return nil, fmt.Errorf("no configuration found: set %s or %s", EnvConfig, EnvConfigFile)
}

// Validate checks that the fields required for authentication are set.
func (c *Config) Validate() error {
	if c.BoxAppSettings.ClientID == "" {
		return fmt.Errorf("config: clientID is required")
	}
	if c.BoxAppSettings.ClientSecret == "" {
		return fmt.Errorf("config: clientSecret is required")
	}
	if c.BoxAppSettings.AppAuth.PrivateKey == "" {
		return fmt.Errorf("config: appAuth.privateKey is required")
	}
	if c.EnterpriseID == "" {
		return fmt.Errorf("config: enterpriseID is required")
	}
	return nil
}

// GetEnv retrieves the value of an environment variable with a fallback
// value if not set.
func GetEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

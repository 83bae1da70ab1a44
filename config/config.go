// Package config resolves the client configuration from its layered sources.
// Resolution happens here, in the caller's setup path; the request client
// itself only ever sees the final values.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"go.yaml.in/yaml/v3"

	"github.com/marto32/goetherscan/etherscan"
	esio "github.com/marto32/goetherscan/internal/io"
)

const (
	// FileName is the dotfile probed in the user's home directory.
	FileName = ".goetherscan.yaml"

	// EnvVar is the environment variable holding the API key.
	EnvVar = "ETHERSCAN_API_KEY"

	// DefaultTimeout applies when no source specifies one.
	DefaultTimeout = 5 * time.Second
)

// Config carries everything the request client needs.
type Config struct {
	APIKey  string
	Timeout time.Duration
}

// DefaultPath returns the home-directory dotfile path.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}

	return filepath.Join(homeDir, FileName), nil
}

// Load resolves a Config. Precedence: the explicit key argument, then the
// home-directory dotfile, then the ETHERSCAN_API_KEY environment variable
// (after a best-effort .env load), then the public test key.
func Load(explicitKey string) (*Config, error) {
	cfg := &Config{Timeout: DefaultTimeout}

	if explicitKey != "" {
		cfg.APIKey = explicitKey

		return cfg, nil
	}

	path, err := DefaultPath()
	if err == nil {
		fileCfg, err := fromFile(path)
		if err != nil {
			return nil, err
		}

		if fileCfg != nil && fileCfg.APIKey != "" {
			if fileCfg.Timeout == 0 {
				fileCfg.Timeout = DefaultTimeout
			}

			return fileCfg, nil
		}
	}

	// a .env file is optional; absence is not an error
	_ = godotenv.Load()

	if envKey := os.Getenv(EnvVar); envKey != "" {
		cfg.APIKey = envKey

		return cfg, nil
	}

	cfg.APIKey = etherscan.TestingAPIKey

	return cfg, nil
}

// fromFile reads the dotfile at path, returning nil when it does not exist.
func fromFile(path string) (*Config, error) {
	exists, err := esio.FileExists(path)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	file, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("failed to open config file at path '%s': %w", path, err)
	}
	defer func() { _ = file.Close() }()

	cfg, err := FromYAML(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file at path '%s': %w", path, err)
	}

	return cfg, nil
}

// FromYAML reads a Config from a YAML representation.
func FromYAML(reader io.Reader) (*Config, error) {
	var ymlCfg yamlConfig
	decoder := yaml.NewDecoder(reader)
	if err := decoder.Decode(&ymlCfg); err != nil {
		return nil, fmt.Errorf("failed to decode config from YAML: %w", err)
	}

	return &Config{
		APIKey:  ymlCfg.APIKey,
		Timeout: time.Duration(ymlCfg.TimeoutSeconds) * time.Second,
	}, nil
}

// ToYAML writes a Config to a YAML representation.
func ToYAML(cfg *Config, writer io.Writer) error {
	ymlCfg := yamlConfig{
		APIKey:         cfg.APIKey,
		TimeoutSeconds: int(cfg.Timeout / time.Second),
	}

	encoder := yaml.NewEncoder(writer)
	defer func() { _ = encoder.Close() }()

	if err := encoder.Encode(&ymlCfg); err != nil {
		return fmt.Errorf("failed to encode config to YAML: %w", err)
	}

	return nil
}

// Write persists a Config to the given path, readable only by the owner.
func Write(path string, cfg *Config) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open config file at path '%s' for writing: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	return ToYAML(cfg, file)
}

// yamlConfig is an internal struct for YAML serialization.
type yamlConfig struct {
	APIKey         string `yaml:"api_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds,omitempty"`
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"go-triage-pipeline/pkg/utils"
)

// Config holds all triage pipeline configuration.
type Config struct {
	Output      OutputConfig      `yaml:"output"`
	ObjectStore ObjectStoreConfig `yaml:"object_store"`
	Store       StoreConfig       `yaml:"store"`
	Server      ServerConfig      `yaml:"server"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// OutputConfig configures local exports.
type OutputConfig struct {
	BaseDir      string `yaml:"base_dir"` // BASE_TRIAGE_DIR
	DefaultModel string `yaml:"default_model"`
}

// ObjectStoreConfig configures the S3-compatible destination.
type ObjectStoreConfig struct {
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"` // for minio and other S3-compatible stores
	PathStyle bool   `yaml:"path_style"`
}

// StoreConfig configures the export history database.
type StoreConfig struct {
	DBPath string `yaml:"db_path"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string `yaml:"addr"`
	ReadTimeout  string `yaml:"read_timeout"`
	WriteTimeout string `yaml:"write_timeout"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Verbose bool   `yaml:"verbose"`
	Format  string `yaml:"format"` // json or console
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			DefaultModel: "bert_torch",
		},
		ObjectStore: ObjectStoreConfig{
			Prefix: "triage_results",
			Region: "us-east-1",
		},
		Store: StoreConfig{
			DBPath: "triage.db",
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  "15s",
			WriteTimeout: "2m",
		},
		Logging: LoggingConfig{
			Format: "json",
		},
	}
}

// Load reads configuration from a YAML file. A missing file yields the
// defaults; environment variables override both.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("BASE_TRIAGE_DIR"); v != "" {
		c.Output.BaseDir = v
	}
	if v := os.Getenv("TRIAGE_BUCKET"); v != "" {
		c.ObjectStore.Bucket = v
	}
	if v := os.Getenv("TRIAGE_PREFIX"); v != "" {
		c.ObjectStore.Prefix = v
	}
	if v := os.Getenv("AWS_REGION"); v != "" {
		c.ObjectStore.Region = v
	}
	if v := os.Getenv("TRIAGE_S3_ENDPOINT"); v != "" {
		c.ObjectStore.Endpoint = v
		// custom endpoints are almost always minio-style
		c.ObjectStore.PathStyle = true
	}
	if v := os.Getenv("TRIAGE_DB_PATH"); v != "" {
		c.Store.DBPath = v
	}
	if v := os.Getenv("TRIAGE_LISTEN_ADDR"); v != "" {
		c.Server.Addr = v
	}
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Logging.Format) {
	case "", "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	for name, v := range map[string]string{
		"server.read_timeout":  c.Server.ReadTimeout,
		"server.write_timeout": c.Server.WriteTimeout,
	} {
		if v == "" {
			continue
		}
		if _, err := time.ParseDuration(v); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// ReadTimeoutDuration returns the server read timeout
func (s ServerConfig) ReadTimeoutDuration() time.Duration {
	return utils.ParseDuration(s.ReadTimeout, 15*time.Second)
}

// WriteTimeoutDuration returns the server write timeout
func (s ServerConfig) WriteTimeoutDuration() time.Duration {
	return utils.ParseDuration(s.WriteTimeout, 2*time.Minute)
}

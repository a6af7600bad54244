package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix namespaces environment overrides, e.g. BILLBOOK_STORE_BACKEND
const EnvPrefix = "BILLBOOK"

// Store backends
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

type Config struct {
	// Database settings
	Database DatabaseConfig `yaml:"database"`

	// Where invoices and the company profile are kept
	Store StoreConfig `yaml:"store"`

	// Invoice defaults
	Invoice InvoiceConfig `yaml:"invoice"`

	Log LogConfig `yaml:"log"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"` // Path to the encrypted SQLite database
}

type StoreConfig struct {
	Backend     string `yaml:"backend"`                          // sqlite, redis or memory
	RedisAddr   string `yaml:"redis_addr" split_words:"true"`   // host:port, redis backend only
	RedisPrefix string `yaml:"redis_prefix" split_words:"true"` // prepended to every key
}

type InvoiceConfig struct {
	DefaultTaxRate float64 `yaml:"default_tax_rate" split_words:"true"` // Percent, 10 = 10%
	NumberPrefix   string  `yaml:"number_prefix" split_words:"true"`    // Invoice number prefix (e.g., "INV")
	OutputDir      string  `yaml:"output_dir" split_words:"true"`       // Directory for generated PDFs
	Currency       string  `yaml:"currency"`                            // Symbol printed before amounts
}

type LogConfig struct {
	Level      string `yaml:"level"`                          // debug, info, warn, error
	Format     string `yaml:"format"`                         // console or json
	OutputPath string `yaml:"output_path" split_words:"true"` // file path, "stdout" or "stderr"
}

func configDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home dir unavailable
		homeDir = "."
	}
	return filepath.Join(homeDir, ".config", "billbook")
}

// DefaultConfigPath returns ~/.config/billbook/config.yaml
func DefaultConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	dir := configDir()

	return &Config{
		Database: DatabaseConfig{
			Path: filepath.Join(dir, "billbook.db"),
		},
		Store: StoreConfig{
			Backend:     BackendSQLite,
			RedisAddr:   "localhost:6379",
			RedisPrefix: "billbook:",
		},
		Invoice: InvoiceConfig{
			DefaultTaxRate: 10,
			NumberPrefix:   "INV",
			OutputDir:      filepath.Join(dir, "invoices"),
			Currency:       "$",
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "console",
			OutputPath: filepath.Join(dir, "billbook.log"),
		},
	}
}

// Load reads config from path over the defaults, then applies BILLBOOK_*
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDefault loads from the default config path
func LoadDefault() (*Config, error) {
	return Load(DefaultConfigPath())
}

// Validate rejects settings the app cannot run with
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for the %s backend", BackendSQLite)
		}
	case BackendRedis:
		if c.Store.RedisAddr == "" {
			return fmt.Errorf("store.redis_addr is required for the %s backend", BackendRedis)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}

	if c.Invoice.DefaultTaxRate < 0 {
		return errors.New("invoice.default_tax_rate cannot be negative")
	}
	return nil
}

// Save writes the config to the given path
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// EnsureDirectories creates the directories the configured paths live in
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Invoice.OutputDir}
	if c.Store.Backend == BackendSQLite {
		dirs = append(dirs, filepath.Dir(c.Database.Path))
	}
	if p := c.Log.OutputPath; p != "" && p != "stdout" && p != "stderr" {
		dirs = append(dirs, filepath.Dir(p))
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

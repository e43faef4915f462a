package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/bankbook-dev/bankbook/internal/accounts"
)

// FileName is the config file at the repo root.
const FileName = "bankbook.yaml"

// Environment overrides, read after .env is loaded.
const (
	EnvDatabase = "BANKBOOK_DATABASE"
	EnvTenant   = "BANKBOOK_TENANT"
	EnvLogLevel = "BANKBOOK_LOG_LEVEL"
	EnvWorkers  = "BANKBOOK_WORKERS"
)

// Config represents the top-level bankbook.yaml configuration.
type Config struct {
	Business BusinessConfig `yaml:"business"`
	Import   ImportConfig   `yaml:"import"`
	Storage  StorageConfig  `yaml:"storage"`
	Log      LogConfig      `yaml:"log"`
}

// BusinessConfig identifies the organisation whose books are kept.
type BusinessConfig struct {
	Name       string `yaml:"name"`
	EntityType string `yaml:"entity_type"`
	TenantID   string `yaml:"tenant_id"`
}

// ImportConfig controls statement imports.
type ImportConfig struct {
	Learn              bool   `yaml:"learn"`
	SkipDuplicates     bool   `yaml:"skip_duplicates"`
	Workers            int    `yaml:"workers"` // 0 means one per CPU
	DefaultIncomeCode  string `yaml:"default_income_code"`
	DefaultExpenseCode string `yaml:"default_expense_code"`
}

// StorageConfig locates the SQLite database.
type StorageConfig struct {
	Database string `yaml:"database"` // relative to the repo root unless absolute
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// Load reads a bankbook.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("", "")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// LoadRepo reads <repoRoot>/bankbook.yaml, loads <repoRoot>/.env when present,
// and applies environment overrides.
func LoadRepo(repoRoot string) (*Config, error) {
	cfg, err := Load(filepath.Join(repoRoot, FileName))
	if err != nil {
		return nil, err
	}
	if err := godotenv.Load(filepath.Join(repoRoot, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides settings from BANKBOOK_* environment variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvDatabase); v != "" {
		c.Storage.Database = v
	}
	if v := os.Getenv(EnvTenant); v != "" {
		c.Business.TenantID = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid %s %q", EnvWorkers, v)
		}
		c.Import.Workers = n
	}
	return nil
}

// DatabasePath resolves the database location against the repo root.
func (c *Config) DatabasePath(repoRoot string) string {
	if filepath.IsAbs(c.Storage.Database) {
		return c.Storage.Database
	}
	return filepath.Join(repoRoot, c.Storage.Database)
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(businessName, entityType string) *Config {
	return &Config{
		Business: BusinessConfig{
			Name:       businessName,
			EntityType: entityType,
			TenantID:   "default",
		},
		Import: ImportConfig{
			Learn:              true,
			SkipDuplicates:     true,
			DefaultIncomeCode:  accounts.DefaultIncomeCode,
			DefaultExpenseCode: accounts.DefaultExpenseCode,
		},
		Storage: StorageConfig{
			Database: filepath.Join("data", "bankbook.db"),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Package config loads the YAML configuration file. Connection passwords may
// reference environment variables as ${VAR}; a .env file in the working
// directory is loaded first when present.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type MongoConfig struct {
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
	DateTags   bool   `yaml:"date_tags"`
}

type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
	OutputDir     string `yaml:"output_dir"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type CSVConfig struct {
	Delimiter string `yaml:"delimiter"`
}

type JSONConfig struct {
	Compact bool `yaml:"compact"`
}

type SQLConfig struct {
	TableName      string `yaml:"table_name"`
	BatchSize      int    `yaml:"batch_size"`
	UseBatchInsert bool   `yaml:"use_batch_insert"`
}

type Config struct {
	PostgreSQL PostgresConfig `yaml:"postgresql"`
	MongoDB    MongoConfig    `yaml:"mongodb"`
	Output     OutputConfig   `yaml:"output"`
	Logging    LoggingConfig  `yaml:"logging"`
	CSV        CSVConfig      `yaml:"csv"`
	JSON       JSONConfig     `yaml:"json"`
	SQL        SQLConfig      `yaml:"sql"`
}

// DefaultConfig returns the configuration with every optional key at its
// documented default.
func DefaultConfig() *Config {
	return &Config{
		PostgreSQL: PostgresConfig{
			Port:    5432,
			SSLMode: "prefer",
		},
		MongoDB: MongoConfig{
			Collection: "postgresql_data",
			DateTags:   true,
		},
		Output: OutputConfig{
			DefaultFormat: "json",
			OutputDir:     "output",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		CSV: CSVConfig{
			Delimiter: ",",
		},
		SQL: SQLConfig{
			BatchSize: 100,
		},
	}
}

// Load reads the configuration from the given YAML file, layered over the
// defaults.
func Load(path string) (*Config, error) {
	// Optional; connection secrets may live in the process environment only.
	godotenv.Load()

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(content, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.PostgreSQL.Password = expandEnv(cfg.PostgreSQL.Password)
	cfg.MongoDB.URI = expandEnv(cfg.MongoDB.URI)

	return cfg, nil
}

// Validate reports the first fatal configuration error. Only the PostgreSQL
// connection keys are required.
func (c *Config) Validate() error {
	switch {
	case c.PostgreSQL.Host == "":
		return fmt.Errorf("missing required config key: postgresql.host")
	case c.PostgreSQL.Database == "":
		return fmt.Errorf("missing required config key: postgresql.database")
	case c.PostgreSQL.User == "":
		return fmt.Errorf("missing required config key: postgresql.user")
	}
	return nil
}

// DelimiterRune returns the configured CSV delimiter as a rune, defaulting
// to comma.
func (c *Config) DelimiterRune() rune {
	for _, r := range c.CSV.Delimiter {
		return r
	}
	return ','
}

// expandEnv resolves a ${VAR} reference from the environment, leaving plain
// values untouched.
func expandEnv(s string) string {
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return os.Getenv(strings.TrimSuffix(strings.TrimPrefix(s, "${"), "}"))
	}
	return s
}

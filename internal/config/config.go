package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Auth       AuthConfig       `yaml:"auth"`
	Tailscale  TailscaleConfig  `yaml:"tailscale"`
	Practice   PracticeConfig   `yaml:"practice"`
	Checkpoint CheckpointConfig `yaml:"checkpoint"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// PracticeConfig tunes plan generation.
type PracticeConfig struct {
	// RecentPractices is how many completed practices count as recent when
	// steering the drill picker away from repeats.
	RecentPractices int `yaml:"recent_practices"`
	// Seed pins group randomness. Zero means a fresh random seed per process.
	Seed uint64 `yaml:"seed"`
}

type CheckpointConfig struct {
	Dir string `yaml:"dir"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix DIAMONDPLANS_ and underscore-separated paths:
//
//	DIAMONDPLANS_SERVER_HOST, DIAMONDPLANS_SERVER_PORT,
//	DIAMONDPLANS_DB_HOST, DIAMONDPLANS_DB_PORT, DIAMONDPLANS_DB_NAME,
//	DIAMONDPLANS_DB_USER, DIAMONDPLANS_DB_PASSWORD, DIAMONDPLANS_DB_SSLMODE,
//	DIAMONDPLANS_AUTH_API_KEY, DIAMONDPLANS_TAILSCALE_ENABLED,
//	DIAMONDPLANS_PRACTICE_RECENT, DIAMONDPLANS_PRACTICE_SEED,
//	DIAMONDPLANS_CHECKPOINT_DIR
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	str := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	str("DIAMONDPLANS_SERVER_HOST", &cfg.Server.Host)
	num("DIAMONDPLANS_SERVER_PORT", &cfg.Server.Port)
	str("DIAMONDPLANS_DB_HOST", &cfg.Database.Host)
	num("DIAMONDPLANS_DB_PORT", &cfg.Database.Port)
	str("DIAMONDPLANS_DB_NAME", &cfg.Database.Name)
	str("DIAMONDPLANS_DB_USER", &cfg.Database.User)
	str("DIAMONDPLANS_DB_PASSWORD", &cfg.Database.Password)
	str("DIAMONDPLANS_DB_SSLMODE", &cfg.Database.SSLMode)
	str("DIAMONDPLANS_AUTH_API_KEY", &cfg.Auth.APIKey)
	str("DIAMONDPLANS_TAILSCALE_HOSTNAME", &cfg.Tailscale.Hostname)
	str("DIAMONDPLANS_CHECKPOINT_DIR", &cfg.Checkpoint.Dir)
	num("DIAMONDPLANS_PRACTICE_RECENT", &cfg.Practice.RecentPractices)

	if v := os.Getenv("DIAMONDPLANS_TAILSCALE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Tailscale.Enabled = b
		}
	}
	if v := os.Getenv("DIAMONDPLANS_PRACTICE_SEED"); v != "" {
		if seed, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.Practice.Seed = seed
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Practice.RecentPractices == 0 {
		cfg.Practice.RecentPractices = 2
	}
	if cfg.Tailscale.Hostname == "" {
		cfg.Tailscale.Hostname = "diamondplans"
	}
	if cfg.Tailscale.StateDir == "" {
		cfg.Tailscale.StateDir = "tsnet-state"
	}
	if cfg.Checkpoint.Dir == "" {
		cfg.Checkpoint.Dir = "."
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	if c.Practice.RecentPractices < 0 {
		return fmt.Errorf("practice.recent_practices must not be negative")
	}
	return nil
}

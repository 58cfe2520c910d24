// Package config loads runtime settings from defaults, an optional config
// file and INVENTORY_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	CSVPath    string         `mapstructure:"csv_path"`
	BackupPath string         `mapstructure:"backup_path"`
	Database   DatabaseConfig `mapstructure:"database"`
	Redis      RedisConfig    `mapstructure:"redis"`
	Log        LogConfig      `mapstructure:"log"`
	Shell      ShellConfig    `mapstructure:"shell"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	URL    string `mapstructure:"url"`
}

// RedisConfig enables the product read cache when Addr is set.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Environment string `mapstructure:"environment"`
}

type ShellConfig struct {
	ClearScreen bool `mapstructure:"clear_screen"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("csv_path", "inventory.csv")
	v.SetDefault("backup_path", "backup.csv")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.url", "inventory.db")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 5*time.Minute)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.environment", "development")
	v.SetDefault("shell.clear_screen", true)
}

// Load reads the configuration. An empty path looks for an optional
// inventory.{yaml,json,toml} in the working directory; an explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("INVENTORY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("database.url", "INVENTORY_DATABASE_URL", "DATABASE_URL"); err != nil {
		return nil, fmt.Errorf("bind DATABASE_URL: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("inventory")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.CSVPath) == "" {
		errs = append(errs, errors.New("csv_path is required"))
	}
	if strings.TrimSpace(c.BackupPath) == "" {
		errs = append(errs, errors.New("backup_path is required"))
	}
	switch c.Database.Driver {
	case "sqlite", "postgres":
		if strings.TrimSpace(c.Database.URL) == "" {
			errs = append(errs, fmt.Errorf("database.url is required for driver %q", c.Database.Driver))
		}
	case "memory":
	default:
		errs = append(errs, fmt.Errorf("database.driver %q is not one of sqlite, postgres, memory", c.Database.Driver))
	}
	if c.Redis.Addr != "" && c.Redis.TTL <= 0 {
		errs = append(errs, errors.New("redis.ttl must be positive when redis.addr is set"))
	}
	return errors.Join(errs...)
}

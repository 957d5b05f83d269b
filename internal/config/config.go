package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	HTTP      HTTPConfig
	Storage   StorageConfig
	Static    StaticConfig
	Deck      DeckConfig
	Logger    LoggerConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

type HTTPConfig struct {
	Addr string
	Mode string
}

type StorageConfig struct {
	DBPath string
}

type StaticConfig struct {
	Dir string
}

type DeckConfig struct {
	SweepInterval time.Duration
	Seed          bool
}

type LoggerConfig struct {
	Level      string
	Encoding   string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type RateLimitConfig struct {
	PerMinute int
}

type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads configuration with Viper. An empty path searches for
// cardstack.yaml in ., ./config and $HOME/.config/cardstack; a missing file
// is not an error. Environment variables prefixed with CARDSTACK_ override
// file values (http.addr -> CARDSTACK_HTTP_ADDR).
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("cardstack")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.config/cardstack")
	}

	v.SetEnvPrefix("cardstack")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	cfg.HTTP.Addr = v.GetString("http.addr")
	cfg.HTTP.Mode = v.GetString("http.mode")
	cfg.Storage.DBPath = v.GetString("storage.db_path")
	cfg.Static.Dir = v.GetString("static.dir")

	cfg.Deck.SweepInterval = v.GetDuration("deck.sweep_interval")
	cfg.Deck.Seed = v.GetBool("deck.seed")

	cfg.Logger.Level = v.GetString("logger.level")
	cfg.Logger.Encoding = v.GetString("logger.encoding")
	cfg.Logger.File = v.GetString("logger.file")
	cfg.Logger.MaxSizeMB = v.GetInt("logger.max_size_mb")
	cfg.Logger.MaxBackups = v.GetInt("logger.max_backups")
	cfg.Logger.MaxAgeDays = v.GetInt("logger.max_age_days")

	cfg.RateLimit.PerMinute = v.GetInt("rate_limit.per_minute")
	cfg.CORS.AllowedOrigins = v.GetStringSlice("cors.allowed_origins")

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.mode", "release")
	v.SetDefault("storage.db_path", "data/cardstack.db")
	v.SetDefault("static.dir", "web/dist")

	v.SetDefault("deck.sweep_interval", time.Minute)
	v.SetDefault("deck.seed", true)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.encoding", "console")
	v.SetDefault("logger.file", "")
	v.SetDefault("logger.max_size_mb", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age_days", 28)

	v.SetDefault("rate_limit.per_minute", 600)
	v.SetDefault("cors.allowed_origins", []string{})
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Storage.DBPath) == "" {
		return fmt.Errorf("storage.db_path must not be empty")
	}
	if c.Deck.SweepInterval <= 0 {
		return fmt.Errorf("deck.sweep_interval must be positive, got %s", c.Deck.SweepInterval)
	}
	if c.RateLimit.PerMinute < 0 {
		return fmt.Errorf("rate_limit.per_minute must not be negative")
	}
	return nil
}

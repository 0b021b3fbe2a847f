// Package config loads the gateway's configuration entirely from the
// environment via viper, with no backing YAML file: every setting this
// gateway needs is a single scalar meant to be set by the process
// supervisor (systemd unit, container env, etc.).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds every environment-driven setting the gateway needs.
type Config struct {
	ListenAddr       string        `mapstructure:"listen_addr"`
	DatabaseURL      string        `mapstructure:"database_url"`
	RedisURL         string        `mapstructure:"redis_url"`
	JWTPublicKey     string        `mapstructure:"jwt_public_key"`
	LogLevel         string        `mapstructure:"log_level"`
	LogFormat        string        `mapstructure:"log_format"`
	ReadTimeout      time.Duration `mapstructure:"read_timeout"`
	IdleFrameTimeout time.Duration `mapstructure:"idle_frame_timeout"`
}

// Load reads configuration from the environment, applying defaults for
// everything but the three values that have no safe default:
// DATABASE_URL, REDIS_URL, and JWT_PUBLIC_KEY.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("listen_addr", "127.0.0.1:7878")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("read_timeout", 30*time.Second)
	v.SetDefault("idle_frame_timeout", 5*time.Minute)

	for _, key := range []string{
		"database_url", "redis_url", "jwt_public_key",
		"listen_addr", "log_level", "log_format",
		"read_timeout", "idle_frame_timeout",
	} {
		_ = v.BindEnv(key, strings.ToUpper(key))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// The public key typically arrives through an env var that cannot
	// hold a raw newline, so a literal "\n" stands in for one.
	cfg.JWTPublicKey = strings.ReplaceAll(cfg.JWTPublicKey, `\n`, "\n")

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.RedisURL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}
	if c.JWTPublicKey == "" {
		return fmt.Errorf("JWT_PUBLIC_KEY is required")
	}
	return nil
}

package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/fx"
)

// Config holds application configuration.
type Config struct {
	App         AppConfig       `mapstructure:"app"`
	Environment string          `mapstructure:"environment"`
	API         APIConfig       `mapstructure:"api"`
	Log         LogConfig       `mapstructure:"log"`
	Otel        OtelConfig      `mapstructure:"otel"`
	Metrics     MetricsConfig   `mapstructure:"metrics"`
	Store       StoreConfig     `mapstructure:"store"`
	Snowflake   SnowflakeConfig `mapstructure:"snowflake"`
}

type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
}

// APIConfig points at the remote catalog API. Timeout belongs to the HTTP
// transport, not to the gateway.
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type OtelConfig struct {
	Enabled       bool    `mapstructure:"enabled"`
	Endpoint      string  `mapstructure:"endpoint"`
	Protocol      string  `mapstructure:"protocol"`
	SamplingRatio float64 `mapstructure:"sampling_ratio"`
}

type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

type StoreConfig struct {
	DiscardStale bool `mapstructure:"discard_stale"`
}

type SnowflakeConfig struct {
	Node int64 `mapstructure:"node"`
}

var defaults = map[string]any{
	"app.name":            "catalogview",
	"app.version":         "0.1.0",
	"environment":         "development",
	"api.base_url":        "http://localhost:8080",
	"api.timeout":         "10s",
	"log.level":           "info",
	"log.format":          "json",
	"otel.enabled":        false,
	"otel.endpoint":       "localhost:4317",
	"otel.protocol":       "grpc",
	"otel.sampling_ratio": 1.0,
	"metrics.addr":        "",
	"store.discard_stale": false,
	"snowflake.node":      1,
}

// Load loads configuration from the environment, an optional .env file and
// an optional catalog.yml.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("catalog")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/catalogview")
	v.AddConfigPath(".")

	v.SetEnvPrefix("CATALOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	applyDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	return fromViper(v)
}

func applyDefaults(v *viper.Viper) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}

func fromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.API.BaseURL), "/")
	cfg.Environment = strings.ToLower(strings.TrimSpace(cfg.Environment))
	cfg.Otel.Protocol = strings.ToLower(strings.TrimSpace(cfg.Otel.Protocol))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configuration the gateway cannot work with.
func (c Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api.base_url %q", c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive, got %s", c.API.Timeout)
	}
	if c.Snowflake.Node < 0 || c.Snowflake.Node > 1023 {
		return fmt.Errorf("snowflake.node must be within 0..1023, got %d", c.Snowflake.Node)
	}
	return nil
}

func (c Config) IsDevelopment() bool {
	switch c.Environment {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}

// Module provides Config to the fx graph.
var Module = fx.Module("config",
	fx.Provide(Load),
)

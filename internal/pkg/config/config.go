package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/light-bringer/priceopt-service/internal/app/pricing/domain"
)

// Storage backends.
const (
	BackendSpanner = "spanner"
	BackendSQLite  = "sqlite"
)

// Config is the service configuration.
type Config struct {
	Name      string          `yaml:"name" validate:"required"`
	LogLevel  string          `yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFile   string          `yaml:"log_file"`
	GRPCPort  int             `yaml:"grpc_port" validate:"min=1,max=65535"`
	HTTPPort  int             `yaml:"http_port" validate:"min=1,max=65535,nefield=GRPCPort"`
	Storage   StorageConfig   `yaml:"storage"`
	Cache     CacheConfig     `yaml:"cache"`
	Optimizer OptimizerConfig `yaml:"optimizer"`
}

// StorageConfig selects and locates the history store.
type StorageConfig struct {
	Backend         string `yaml:"backend" validate:"oneof=spanner sqlite"`
	SpannerDatabase string `yaml:"spanner_database" validate:"required_if=Backend spanner"`
	SQLitePath      string `yaml:"sqlite_path" validate:"required_if=Backend sqlite"`
}

// CacheConfig controls the optimization result cache.
type CacheConfig struct {
	Enabled  bool          `yaml:"enabled"`
	RedisURL string        `yaml:"redis_url" validate:"required_if=Enabled true"`
	Prefix   string        `yaml:"prefix"`
	TTL      time.Duration `yaml:"ttl" validate:"min=0"`
}

// OptimizerConfig mirrors domain.OptimizerConfig.
type OptimizerConfig struct {
	MinSamples   int     `yaml:"min_samples" validate:"min=2"`
	GridSize     int     `yaml:"grid_size" validate:"min=2,max=1000"`
	PriceBand    float64 `yaml:"price_band" validate:"gt=0,lt=1"`
	RidgeAlpha   float64 `yaml:"ridge_alpha" validate:"gt=0"`
	MaxCondition float64 `yaml:"max_condition" validate:"gt=1"`
}

// Domain converts to the optimizer's configuration.
func (o OptimizerConfig) Domain() domain.OptimizerConfig {
	return domain.OptimizerConfig{
		MinSamples:   o.MinSamples,
		GridSize:     o.GridSize,
		PriceBand:    o.PriceBand,
		RidgeAlpha:   o.RidgeAlpha,
		MaxCondition: o.MaxCondition,
	}
}

// Default returns a configuration for local development against the
// Spanner emulator.
func Default() *Config {
	d := domain.DefaultOptimizerConfig()
	return &Config{
		Name:     "priceopt-service",
		LogLevel: "info",
		GRPCPort: 9090,
		HTTPPort: 8080,
		Storage: StorageConfig{
			Backend:         BackendSpanner,
			SpannerDatabase: "projects/test-project/instances/dev-instance/databases/priceopt-db",
			SQLitePath:      "priceopt.db",
		},
		Cache: CacheConfig{
			Enabled:  false,
			RedisURL: "redis://localhost:6379/0",
			Prefix:   "priceopt",
			TTL:      15 * time.Minute,
		},
		Optimizer: OptimizerConfig{
			MinSamples:   d.MinSamples,
			GridSize:     d.GridSize,
			PriceBand:    d.PriceBand,
			RidgeAlpha:   d.RidgeAlpha,
			MaxCondition: d.MaxCondition,
		},
	}
}

// Load reads the YAML file at path on top of Default, applies environment
// overrides and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config from YAML: %w", err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks struct constraints.
func (c *Config) Validate() error {
	return validate.Struct(c)
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("SPANNER_DATABASE"); ok && v != "" {
		c.Storage.SpannerDatabase = v
	}
	if v, ok := lookup("STORAGE_BACKEND"); ok && v != "" {
		c.Storage.Backend = v
	}
	if v, ok := lookup("SQLITE_PATH"); ok && v != "" {
		c.Storage.SQLitePath = v
	}
	if v, ok := lookup("REDIS_URL"); ok && v != "" {
		c.Cache.RedisURL = v
		c.Cache.Enabled = true
	}
	if v, ok := lookup("LOG_FILE"); ok {
		c.LogFile = v
	}
	for _, port := range []struct {
		env string
		dst *int
	}{
		{"GRPC_PORT", &c.GRPCPort},
		{"HTTP_PORT", &c.HTTPPort},
	} {
		v, ok := lookup(port.env)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", port.env, v, err)
		}
		*port.dst = n
	}
	return nil
}

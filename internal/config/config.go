// Package config provides configuration loading and validation for gitdistance.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/kurobon/gitdistance/internal/distance"
	"github.com/kurobon/gitdistance/internal/logging"
)

// EnvPrefix is prepended to every environment override, e.g. GITDISTANCE_DISTANCE_MAX_DEPTH.
const EnvPrefix = "GITDISTANCE"

var (
	ErrInvalidMaxDepth = errors.New("max depth must not be negative")
	ErrEmptyAddr       = errors.New("server address must not be empty")
)

// Config holds application-wide configuration.
type Config struct {
	Repository RepositoryConfig `mapstructure:"repository"`
	Distance   DistanceConfig   `mapstructure:"distance"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Server     ServerConfig     `mapstructure:"server"`
}

type RepositoryConfig struct {
	// Path is the work tree or bare repository to read.
	Path string `mapstructure:"path"`
	// SharedPath optionally names a repository to borrow missing objects from.
	SharedPath string `mapstructure:"shared_path"`
}

type DistanceConfig struct {
	// MaxDepth bounds every walk; 0 means unbounded.
	MaxDepth int    `mapstructure:"max_depth"`
	Strategy string `mapstructure:"strategy"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// FlagKeys maps command line flag names to configuration keys.
var FlagKeys = map[string]string{
	"repo":       "repository.path",
	"shared":     "repository.shared_path",
	"max-depth":  "distance.max_depth",
	"strategy":   "distance.strategy",
	"log-level":  "logging.level",
	"log-format": "logging.format",
	"addr":       "server.addr",
}

// Load reads configuration from defaults, an optional YAML file,
// GITDISTANCE_* environment variables and explicitly set flags, in
// increasing precedence. An empty path looks for gitdistance.yaml in the
// working directory and silently continues without it. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := New()

	if flags != nil {
		for name, key := range FlagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("gitdistance")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return FromViper(v)
}

// New returns a viper instance with defaults and environment binding set,
// so callers can bind flags before unmarshalling.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// FromViper unmarshals and validates v.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("repository.path", ".")
	v.SetDefault("repository.shared_path", "")

	v.SetDefault("distance.max_depth", 0)
	v.SetDefault("distance.strategy", string(distance.DefaultStrategy))

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("server.addr", ":8080")
}

// Validate checks field ranges and normalizes the strategy name.
func (c *Config) Validate() error {
	if c.Distance.MaxDepth < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxDepth, c.Distance.MaxDepth)
	}

	strategy, err := distance.ParseStrategy(c.Distance.Strategy)
	if err != nil {
		return err
	}
	c.Distance.Strategy = string(strategy)

	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: %q", logging.ErrInvalidFormat, c.Logging.Format)
	}

	if c.Server.Addr == "" {
		return ErrEmptyAddr
	}
	return nil
}

// StrategyValue returns the validated strategy.
func (c *Config) StrategyValue() distance.Strategy {
	return distance.Strategy(c.Distance.Strategy)
}

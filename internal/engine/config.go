package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// ErrInvalidConfig is returned by Validate for unusable settings.
var ErrInvalidConfig = errors.New("invalid engine config")

// Config holds the search settings.
type Config struct {
	Depth            int    `mapstructure:"depth"`              // plies searched before quiescence
	Quiescence       bool   `mapstructure:"quiescence"`         // extend leaves with a capture search
	MaxQuiescencePly int    `mapstructure:"max_quiescence_ply"` // quiescence stands pat beyond this
	UseMobility      bool   `mapstructure:"use_mobility"`       // add mobility to the score
	LogLevel         string `mapstructure:"log_level"`
}

// DefaultConfig returns the default search settings.
func DefaultConfig() Config {
	return Config{
		Depth:            4,
		Quiescence:       true,
		MaxQuiescencePly: 32,
		UseMobility:      false,
		LogLevel:         "info",
	}
}

// LoadConfig reads settings from an optional file (any format viper
// understands) and from BITCHESS_* environment variables, on top of the
// defaults. An empty path skips the file.
func LoadConfig(path string) (Config, error) {
	def := DefaultConfig()

	v := viper.New()
	v.SetDefault("depth", def.Depth)
	v.SetDefault("quiescence", def.Quiescence)
	v.SetDefault("max_quiescence_ply", def.MaxQuiescencePly)
	v.SetDefault("use_mobility", def.UseMobility)
	v.SetDefault("log_level", def.LogLevel)

	v.SetEnvPrefix("BITCHESS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the settings can drive a search.
func (c Config) Validate() error {
	if c.Depth < 1 {
		return fmt.Errorf("%w: depth %d, must be at least 1", ErrInvalidConfig, c.Depth)
	}
	if c.MaxQuiescencePly < 0 {
		return fmt.Errorf("%w: max quiescence ply %d is negative", ErrInvalidConfig, c.MaxQuiescencePly)
	}
	if _, err := c.level(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func (c Config) level() (zerolog.Level, error) {
	if c.LogLevel == "" {
		return zerolog.InfoLevel, nil
	}
	return zerolog.ParseLevel(c.LogLevel)
}

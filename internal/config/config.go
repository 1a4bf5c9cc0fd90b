// Package config loads translator and packager settings the way a
// js2sb3 user would expect: a project file, JS2SB3_* environment
// variables, and CLI flags, in that order of increasing precedence.
package config

import (
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

// Config holds all runtime settings for a translate invocation.
type Config struct {
	AssetDir        string `mapstructure:"asset_dir" toml:"asset_dir"`
	OutputSuffix    string `mapstructure:"output_suffix" toml:"output_suffix"`
	Color           string `mapstructure:"color" toml:"color"`
	WatchDebounceMS int    `mapstructure:"watch_debounce_ms" toml:"watch_debounce_ms"`
	Verbose         bool   `mapstructure:"verbose" toml:"verbose"`
}

// Load reads configuration from ".js2sb3.toml", JS2SB3_* environment
// variables, and built-in defaults for anything left unset. Load does not
// read CLI flags; the caller applies any flag values over the result.
func Load(v *viper.Viper) (Config, error) {
	v.SetDefault("asset_dir", "assets")
	v.SetDefault("output_suffix", ".sb3")
	v.SetDefault("color", "auto")
	v.SetDefault("watch_debounce_ms", 300)
	v.SetDefault("verbose", false)

	v.SetConfigName(".js2sb3")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("JS2SB3")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// unmarshalTOML is exercised by config_test.go to confirm the codec
// viper delegates to can actually decode the settings file's shape.
func unmarshalTOML(data []byte) (Config, error) {
	var cfg Config
	err := toml.Unmarshal(data, &cfg)
	return cfg, err
}

// Package config loads kvdash settings from a YAML file, KVDASH_ environment
// variables and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g.
// KVDASH_STORE_URL for store.url.
const EnvPrefix = "KVDASH"

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Store  StoreConfig  `mapstructure:"store"`
	Log    LogConfig    `mapstructure:"log"`
	Theme  ThemeConfig  `mapstructure:"theme"`
}

// ServerConfig configures the HTTP dashboard.
type ServerConfig struct {
	Addr       string        `mapstructure:"addr"        validate:"required"`
	BasePath   string        `mapstructure:"base_path"   validate:"omitempty,startswith=/"`
	Grace      time.Duration `mapstructure:"grace"       validate:"gte=0"`
	SessionTTL time.Duration `mapstructure:"session_ttl" validate:"gt=0"`
}

// StoreConfig points at the backing key-value store API.
type StoreConfig struct {
	URL              string        `mapstructure:"url"               validate:"required,url"`
	Timeout          time.Duration `mapstructure:"timeout"           validate:"gt=0"`
	ValidateContract bool          `mapstructure:"validate_contract"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"  validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=compact json pretty"`
}

// ThemeConfig selects the dashboard theme. File, when set, is a theme
// manifest registered on top of the built-in one.
type ThemeConfig struct {
	Name    string `mapstructure:"name"`
	Variant string `mapstructure:"variant"`
	File    string `mapstructure:"file"`
}

var defaults = map[string]any{
	"server.addr":             ":8383",
	"server.base_path":        "/dashboard",
	"server.grace":            "5s",
	"server.session_ttl":      "30m",
	"store.url":               "",
	"store.timeout":           "10s",
	"store.validate_contract": false,
	"log.level":               "info",
	"log.format":              "compact",
	"theme.name":              "kvdash",
	"theme.variant":           "",
	"theme.file":              "",
}

// flagKeys maps flag names registered by Flags to configuration keys.
var flagKeys = map[string]string{
	"addr":              "server.addr",
	"base-path":         "server.base_path",
	"grace":             "server.grace",
	"session-ttl":       "server.session_ttl",
	"store-url":         "store.url",
	"store-timeout":     "store.timeout",
	"validate-contract": "store.validate_contract",
	"log-level":         "log.level",
	"log-format":        "log.format",
	"theme":             "theme.name",
	"theme-variant":     "theme.variant",
	"theme-file":        "theme.file",
}

// Flags registers the command-line flags understood by Load on fs. Flags
// left unset do not override file or environment values.
func Flags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to a YAML config file")
	fs.String("addr", ":8383", "HTTP listen address")
	fs.String("base-path", "/dashboard", "URL prefix of the dashboard routes")
	fs.Duration("grace", 5*time.Second, "shutdown grace period")
	fs.Duration("session-ttl", 30*time.Minute, "idle lifetime of an edit session")
	fs.String("store-url", "", "base URL of the key-value store API")
	fs.Duration("store-timeout", 10*time.Second, "timeout of a single store request")
	fs.Bool("validate-contract", false, "check store responses against the bundled API description")
	fs.String("log-level", "info", "debug, info, warn or error")
	fs.String("log-format", "compact", "compact, json or pretty")
	fs.String("theme", "kvdash", "theme name")
	fs.String("theme-variant", "", "theme variant")
	fs.String("theme-file", "", "additional theme manifest (YAML)")
}

// Load reads the configuration. path may be empty, in which case config.yaml
// is looked up in ./configs and the working directory; a missing file is not
// an error. fs may be nil.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	vip := viper.New()
	if path == "" && fs != nil {
		if f := fs.Lookup("config"); f != nil {
			path = f.Value.String()
		}
	}
	if path != "" {
		vip.SetConfigFile(path)
	} else {
		vip.SetConfigName("config")
		vip.AddConfigPath("./configs")
		vip.AddConfigPath(".")
	}

	vip.SetConfigType("yaml")
	vip.SetEnvPrefix(EnvPrefix)
	vip.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vip.AutomaticEnv()

	for key, value := range defaults {
		vip.SetDefault(key, value)
	}

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := vip.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("config: bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := vip.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read file: %w", err)
		}
	}

	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	cfg.Server.BasePath = strings.TrimRight(cfg.Server.BasePath, "/")

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(cfg); err != nil {
		return fmt.Errorf("config: validation failed: %w", err)
	}
	return nil
}

// Package config loads client settings from flags, environment variables
// and an optional linklift.yaml.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/seckatie/linklift/internal/core/domain"
)

// EnvPrefix is prepended to every environment variable, e.g. LINKLIFT_API_URL.
const EnvPrefix = "LINKLIFT"

// Keys understood by Load.
const (
	KeyAPIURL         = "api_url"
	KeySessionStore   = "session_store"
	KeyPageSize       = "page_size"
	KeySortBy         = "sort_by"
	KeySortDirection  = "sort_direction"
	KeyRefreshDelay   = "refresh_delay"
	KeyRequestTimeout = "request_timeout"
	KeyLogLevel       = "log_level"
	KeyLogFormat      = "log_format"
)

// Config holds all client settings.
type Config struct {
	APIURL         string        `mapstructure:"api_url"`
	SessionStore   string        `mapstructure:"session_store"`
	PageSize       int           `mapstructure:"page_size"`
	SortBy         string        `mapstructure:"sort_by"`
	SortDirection  string        `mapstructure:"sort_direction"`
	RefreshDelay   time.Duration `mapstructure:"refresh_delay"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	LogLevel       string        `mapstructure:"log_level"`
	LogFormat      string        `mapstructure:"log_format"`
}

// Defaults returns the built-in settings.
func Defaults() Config {
	return Config{
		APIURL:         "http://localhost:7070/api/v1",
		SessionStore:   "sqlite://linklift.db",
		PageSize:       domain.DefaultPageSize,
		SortBy:         domain.DefaultSortBy,
		SortDirection:  domain.SortDesc,
		RefreshDelay:   2 * time.Second,
		RequestTimeout: 30 * time.Second,
		LogLevel:       "info",
		LogFormat:      "text",
	}
}

// Load reads settings in increasing precedence: defaults, config file,
// environment, flags. file may be empty, in which case linklift.yaml is
// looked up in the working directory and $HOME/.config/linklift; a missing
// file is not an error. flags may be nil.
func Load(file string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()

	d := Defaults()
	v.SetDefault(KeyAPIURL, d.APIURL)
	v.SetDefault(KeySessionStore, d.SessionStore)
	v.SetDefault(KeyPageSize, d.PageSize)
	v.SetDefault(KeySortBy, d.SortBy)
	v.SetDefault(KeySortDirection, d.SortDirection)
	v.SetDefault(KeyRefreshDelay, d.RefreshDelay)
	v.SetDefault(KeyRequestTimeout, d.RequestTimeout)
	v.SetDefault(KeyLogLevel, d.LogLevel)
	v.SetDefault(KeyLogFormat, d.LogFormat)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return Config{}, err
		}
	}

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("linklift")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/linklift")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// flagKeys maps persistent flag names to config keys.
var flagKeys = map[string]string{
	"api-url":       KeyAPIURL,
	"session-store": KeySessionStore,
	"log-level":     KeyLogLevel,
	"log-format":    KeyLogFormat,
	"timeout":       KeyRequestTimeout,
	"page-size":     KeyPageSize,
	"refresh-delay": KeyRefreshDelay,
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Validate checks value ranges and normalizes the sort direction.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return errors.New("api_url is not set")
	}
	if c.SessionStore == "" {
		return errors.New("session_store is not set")
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page_size must be positive, got %d", c.PageSize)
	}
	if c.RefreshDelay < 0 {
		return fmt.Errorf("refresh_delay must not be negative, got %s", c.RefreshDelay)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log_format %q: must be text or json", c.LogFormat)
	}
	c.SortDirection = domain.NormalizeSortDirection(c.SortDirection)
	return nil
}

// PageRequest returns the initial link listing request.
func (c Config) PageRequest() domain.PageRequest {
	return domain.PageRequest{
		Page:          0,
		Size:          c.PageSize,
		SortBy:        c.SortBy,
		SortDirection: c.SortDirection,
	}
}

// NewLogger builds the root logger described by c.
func (c Config) NewLogger() (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	l := logrus.New()
	l.SetLevel(level)
	if c.LogFormat == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return l, nil
}

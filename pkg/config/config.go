// Package config loads artist-pager configuration from flags, environment
// variables (ARTIST_PAGER_*) and an optional YAML file, in that order of
// precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Sternrassler/artist-pager/pkg/artist"
	"github.com/Sternrassler/artist-pager/pkg/client"
	"github.com/Sternrassler/artist-pager/pkg/render"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. ARTIST_PAGER_BASE_URL.
const EnvPrefix = "ARTIST_PAGER"

// Config holds all configuration for the CLI.
type Config struct {
	BaseURL   string `mapstructure:"base_url" validate:"required,url"`
	Path      string `mapstructure:"path" validate:"required,startswith=/"`
	UserAgent string `mapstructure:"user_agent" validate:"required"`

	PageSize  int `mapstructure:"page_size" validate:"gte=0,lte=1000"`
	StartPage int `mapstructure:"start_page" validate:"gte=0"`

	// Location is the listing page URL; its query string carries the filters.
	Location string `mapstructure:"location" validate:"omitempty,url"`

	// Filter values override those found in Location.
	Filter artist.Filter `mapstructure:"filter"`

	// All drains every page instead of waiting for triggers.
	All bool `mapstructure:"all"`

	// AutoLoad fetches the first page before the first trigger.
	AutoLoad bool `mapstructure:"auto_load"`

	MetricsAddr string `mapstructure:"metrics_addr" validate:"omitempty,hostname_port"`

	Render RenderConfig `mapstructure:"render"`
	Log    LogConfig    `mapstructure:"log"`
}

// RenderConfig holds fragment markup settings.
type RenderConfig struct {
	LinkPrefix string `mapstructure:"link_prefix"`
	ItemClass  string `mapstructure:"item_class"`
	LinkClass  string `mapstructure:"link_class"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn warning error"`
	Pretty bool   `mapstructure:"pretty"`
}

// flagKeys maps flag names to configuration keys.
var flagKeys = map[string]string{
	"base-url":     "base_url",
	"path":         "path",
	"user-agent":   "user_agent",
	"page-size":    "page_size",
	"start-page":   "start_page",
	"location":     "location",
	"name":         "filter.name",
	"nickname":     "filter.nickname",
	"birth-date":   "filter.birth_date",
	"all":          "all",
	"auto-load":    "auto_load",
	"metrics-addr": "metrics_addr",
	"log-level":    "log.level",
	"log-pretty":   "log.pretty",
}

// NewFlagSet registers the CLI flags.
func NewFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)

	fs.String("config", "", "path to a YAML config file")
	fs.String("base-url", "http://localhost:8080", "backend scheme and host")
	fs.String("path", client.DefaultPath, "collection endpoint path")
	fs.String("user-agent", "artist-pager/0.1.0", "User-Agent header")
	fs.Int("page-size", 3, "page size sent as the size parameter (0 omits it)")
	fs.Int("start-page", 0, "first page index to request")
	fs.String("location", "", "listing page URL whose query string holds the filters")
	fs.String("name", "", "name filter")
	fs.String("nickname", "", "nickname filter")
	fs.String("birth-date", "", "birth date filter")
	fs.Bool("all", false, "load every page and exit")
	fs.Bool("auto-load", true, "load the first page on start")
	fs.String("metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090)")
	fs.String("log-level", "info", "log level (debug, info, warn, error)")
	fs.Bool("log-pretty", false, "human-readable console logs")

	// Render settings are file/env only.
	return fs
}

// Load parses args into fs and resolves the configuration.
func Load(fs *pflag.FlagSet, args []string) (*Config, error) {
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	for flagName, key := range flagKeys {
		if f := fs.Lookup(flagName); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", flagName, err)
			}
		}
	}

	configFile, _ := fs.GetString("config")
	if configFile == "" {
		configFile = v.GetString("config")
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("artist-pager")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := render.DefaultConfig()

	v.SetDefault("base_url", "http://localhost:8080")
	v.SetDefault("path", client.DefaultPath)
	v.SetDefault("user_agent", "artist-pager/0.1.0")
	v.SetDefault("page_size", 3)
	v.SetDefault("start_page", 0)
	v.SetDefault("location", "")
	v.SetDefault("filter.name", "")
	v.SetDefault("filter.nickname", "")
	v.SetDefault("filter.birth_date", "")
	v.SetDefault("all", false)
	v.SetDefault("auto_load", true)
	v.SetDefault("metrics_addr", "")
	v.SetDefault("render.link_prefix", d.LinkPrefix)
	v.SetDefault("render.item_class", d.ItemClass)
	v.SetDefault("render.link_class", d.LinkClass)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ResolvedFilter merges the Location query filters with the explicit ones.
func (c Config) ResolvedFilter() (artist.Filter, error) {
	f, err := artist.FilterFromURL(c.Location)
	if err != nil {
		return artist.Filter{}, err
	}

	if c.Filter.Name != "" {
		f.Name = c.Filter.Name
	}
	if c.Filter.Nickname != "" {
		f.Nickname = c.Filter.Nickname
	}
	if c.Filter.BirthDate != "" {
		f.BirthDate = c.Filter.BirthDate
	}
	return f, nil
}

// ClientConfig returns the collection client configuration.
func (c Config) ClientConfig() client.Config {
	return client.Config{
		BaseURL:   c.BaseURL,
		Path:      c.Path,
		UserAgent: c.UserAgent,
	}
}

// RenderConfig returns the renderer configuration.
func (c Config) RenderConfig() render.Config {
	return render.Config{
		LinkPrefix: c.Render.LinkPrefix,
		ItemClass:  c.Render.ItemClass,
		LinkClass:  c.Render.LinkClass,
		Template:   render.DefaultItemTemplate,
	}
}

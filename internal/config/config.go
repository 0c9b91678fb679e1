package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

// ThemeConfig holds TUI color configuration. Empty fields fall back to the
// preset's value.
type ThemeConfig struct {
	Preset        string `mapstructure:"preset" toml:"preset"`
	Primary       string `mapstructure:"primary" toml:"primary,omitempty"`
	Secondary     string `mapstructure:"secondary" toml:"secondary,omitempty"`
	Accent        string `mapstructure:"accent" toml:"accent,omitempty"`
	Muted         string `mapstructure:"muted" toml:"muted,omitempty"`
	Danger        string `mapstructure:"danger" toml:"danger,omitempty"`
	Background    string `mapstructure:"background" toml:"background,omitempty"`
	MarkdownStyle string `mapstructure:"markdown_style" toml:"markdown_style,omitempty"`
}

// WeatherConfig holds weather lookup configuration.
type WeatherConfig struct {
	Enabled bool   `mapstructure:"enabled" toml:"enabled"`
	BaseURL string `mapstructure:"base_url" toml:"base_url"`
	APIKey  string `mapstructure:"api_key" toml:"api_key"`
	Timeout string `mapstructure:"timeout" toml:"timeout"`
	Cache   bool   `mapstructure:"cache" toml:"cache"`
}

// TimeoutDuration parses Timeout, falling back to 10s when it is empty or
// invalid.
func (w WeatherConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(w.Timeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// ShellConfig holds shell prompt integration configuration.
type ShellConfig struct {
	CacheTTL  string `mapstructure:"cache_ttl" toml:"cache_ttl"`
	EventIcon string `mapstructure:"event_icon" toml:"event_icon"`
	FreeIcon  string `mapstructure:"free_icon" toml:"free_icon"`
	ShowNext  bool   `mapstructure:"show_next" toml:"show_next"`
}

// Config holds the application configuration.
type Config struct {
	Storage         string        `mapstructure:"storage" toml:"storage"`
	DataDir         string        `mapstructure:"data_dir" toml:"data_dir"`
	DaysBeforeToday int           `mapstructure:"days_before_today" toml:"days_before_today"`
	DaysAfterToday  int           `mapstructure:"days_after_today" toml:"days_after_today"`
	LogLevel        string        `mapstructure:"log_level" toml:"log_level"`
	Editor          string        `mapstructure:"editor" toml:"editor"`
	MaxWidth        int           `mapstructure:"max_width" toml:"max_width"`
	Theme           ThemeConfig   `mapstructure:"theme" toml:"theme"`
	Weather         WeatherConfig `mapstructure:"weather" toml:"weather"`
	Shell           ShellConfig   `mapstructure:"shell" toml:"shell"`
}

// DefaultDataDir returns the default data directory (~/.agendactl/).
func DefaultDataDir() string {
	home, err := homedir.Dir()
	if err != nil {
		return filepath.Join(".", ".agendactl")
	}
	return filepath.Join(home, ".agendactl")
}

// DefaultPath returns where `config init` writes the config file:
// $XDG_CONFIG_HOME/agendactl/config.toml when XDG_CONFIG_HOME is set,
// otherwise ~/.agendactl/config.toml.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "agendactl", "config.toml")
	}
	return filepath.Join(DefaultDataDir(), "config.toml")
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() Config {
	return Config{
		Storage:         "markdown",
		DataDir:         DefaultDataDir(),
		DaysBeforeToday: 90,
		DaysAfterToday:  360,
		LogLevel:        "info",
		MaxWidth:        100,
		Theme:           ThemeConfig{Preset: "default-dark"},
		Weather: WeatherConfig{
			Enabled: false,
			BaseURL: "https://api.darksky.net/forecast",
			Timeout: "10s",
			Cache:   true,
		},
		Shell: ShellConfig{
			CacheTTL:  "5m",
			EventIcon: "📅",
			FreeIcon:  "○",
			ShowNext:  true,
		},
	}
}

// Load reads configuration from file, environment variables, and defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Defaults
	def := Default()
	v.SetDefault("storage", def.Storage)
	v.SetDefault("data_dir", def.DataDir)
	v.SetDefault("days_before_today", def.DaysBeforeToday)
	v.SetDefault("days_after_today", def.DaysAfterToday)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("editor", "")
	v.SetDefault("max_width", def.MaxWidth)
	v.SetDefault("theme.preset", def.Theme.Preset)
	v.SetDefault("theme.primary", "")
	v.SetDefault("theme.secondary", "")
	v.SetDefault("theme.accent", "")
	v.SetDefault("theme.muted", "")
	v.SetDefault("theme.danger", "")
	v.SetDefault("theme.background", "")
	v.SetDefault("theme.markdown_style", "")
	v.SetDefault("weather.enabled", def.Weather.Enabled)
	v.SetDefault("weather.base_url", def.Weather.BaseURL)
	v.SetDefault("weather.api_key", "")
	v.SetDefault("weather.timeout", def.Weather.Timeout)
	v.SetDefault("weather.cache", def.Weather.Cache)
	v.SetDefault("shell.cache_ttl", def.Shell.CacheTTL)
	v.SetDefault("shell.event_icon", def.Shell.EventIcon)
	v.SetDefault("shell.free_icon", def.Shell.FreeIcon)
	v.SetDefault("shell.show_next", def.Shell.ShowNext)

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// XDG support
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "agendactl"))
		}
		v.AddConfigPath(DefaultDataDir())
		v.SetConfigName("config")
		v.SetConfigType("toml")
	}

	// Environment variables: AGENDACTL_STORAGE, AGENDACTL_WEATHER_API_KEY, etc.
	v.SetEnvPrefix("AGENDACTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (ignore not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Only return error if it's not a "file not found" error
			if configPath != "" {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	dir, err := homedir.Expand(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("expanding data_dir: %w", err)
	}
	cfg.DataDir = dir

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values no command could work with.
func (c *Config) Validate() error {
	switch c.Storage {
	case "markdown", "sqlite":
	default:
		return fmt.Errorf("invalid storage %q: must be markdown or sqlite", c.Storage)
	}
	if c.DaysBeforeToday < 0 || c.DaysAfterToday < 0 {
		return fmt.Errorf("days_before_today and days_after_today must not be negative")
	}
	return nil
}

// WriteDefault writes the default configuration as TOML to path. It refuses
// to overwrite an existing file unless force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds application configuration values
type Config struct {
	// Logging
	LogLevel string `mapstructure:"log_level"`
	JSONLog  bool   `mapstructure:"json_log"`

	// HTTP/Scraping
	HTTPTimeout  time.Duration `mapstructure:"http_timeout"`
	UserAgent    string        `mapstructure:"user_agent"`
	Proxy        string        `mapstructure:"proxy"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`
	SiteDelay    time.Duration `mapstructure:"site_delay"`
	Timezone     string        `mapstructure:"timezone"`

	// Rate Limiting
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`

	// Server
	ListenAddr string        `mapstructure:"listen_addr"`
	RunTimeout time.Duration `mapstructure:"run_timeout"`
}

// Default returns a Config populated with the built-in defaults.
func Default() *Config {
	return &Config{
		LogLevel:       DefaultLogLevel,
		JSONLog:        DefaultJSONLog,
		HTTPTimeout:    DefaultHTTPTimeout,
		UserAgent:      DefaultUserAgent,
		MaxBodyBytes:   DefaultMaxBodyBytes,
		SiteDelay:      DefaultSiteDelay,
		Timezone:       DefaultTimezone,
		RateLimitRPS:   DefaultRateLimitRPS,
		RateLimitBurst: DefaultRateLimitBurst,
		ListenAddr:     DefaultListenAddr,
		RunTimeout:     DefaultRunTimeout,
	}
}

// Load builds a Config by combining defaults, an optional config file, environment variables, and CLI flags.
// Priority (highest to lowest): CLI flags > env vars > config file > defaults.
// Caller should pass the executing *cobra.Command so flags can be read.
func Load(cmd *cobra.Command) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	configPath := ""
	if cmd != nil {
		if f := cmd.Flags().Lookup("config"); f != nil {
			configPath = f.Value.String()
		}
	}
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(DefaultConfigName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".newswatch"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configPath != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay if not explicitly specified
	}

	if cmd != nil {
		if err := bindFlags(v, cmd.Flags()); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Verbosity switches win over the configured level
	if cmd != nil {
		if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
			cfg.LogLevel = "error"
		}
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			cfg.LogLevel = "debug"
		}
		if jsonLog, _ := cmd.Flags().GetBool("json"); jsonLog {
			cfg.JSONLog = true
		}
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timezone == "" {
		cfg.Timezone = DefaultTimezone
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Location resolves the configured time zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// bindFlags lets explicitly set flags override every other source.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

// setDefaults registers default values in viper.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("json_log", cfg.JSONLog)
	v.SetDefault("http_timeout", cfg.HTTPTimeout)
	v.SetDefault("user_agent", cfg.UserAgent)
	v.SetDefault("proxy", cfg.Proxy)
	v.SetDefault("max_body_bytes", cfg.MaxBodyBytes)
	v.SetDefault("site_delay", cfg.SiteDelay)
	v.SetDefault("timezone", cfg.Timezone)
	v.SetDefault("rate_limit_rps", cfg.RateLimitRPS)
	v.SetDefault("rate_limit_burst", cfg.RateLimitBurst)
	v.SetDefault("listen_addr", cfg.ListenAddr)
	v.SetDefault("run_timeout", cfg.RunTimeout)
}

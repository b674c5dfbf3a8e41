package config

import "time"

// Default constants for application configuration
const (
	DefaultLogLevel       = "info"
	DefaultJSONLog        = false
	DefaultUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	DefaultHTTPTimeout    = 30 * time.Second
	DefaultSiteDelay      = 1 * time.Second
	DefaultRateLimitRPS   = 1.0
	DefaultRateLimitBurst = 2
	DefaultMaxBodyBytes   = 10 * 1024 * 1024 // 10MB
	DefaultTimezone       = "Local"
	DefaultListenAddr     = ":8080"
	DefaultRunTimeout     = 5 * time.Minute
	DefaultConfigName     = "newswatch"
	EnvPrefix             = "NEWSWATCH"
)

package config

import "github.com/spf13/cobra"

// flagKeys maps persistent flag names to configuration keys.
var flagKeys = map[string]string{
	"proxy":       "proxy",
	"timeout":     "http_timeout",
	"user-agent":  "user_agent",
	"delay":       "site_delay",
	"timezone":    "timezone",
	"listen":      "listen_addr",
	"run-timeout": "run_timeout",
}

// RegisterFlags registers common CLI flags on the provided root command
func RegisterFlags(cmd *cobra.Command) {
	if cmd == nil {
		return
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress all output except errors")
	cmd.PersistentFlags().Bool("json", false, "Emit logs as JSON lines")
	cmd.PersistentFlags().String("proxy", "", "Comma-separated HTTP/SOCKS5 proxies (e.g., http://localhost:8080)")
	cmd.PersistentFlags().Duration("timeout", DefaultHTTPTimeout, "Timeout for each page request")
	cmd.PersistentFlags().String("user-agent", "", "Custom user agent string")
	cmd.PersistentFlags().Duration("delay", DefaultSiteDelay, "Pause between two sites")
	cmd.PersistentFlags().String("timezone", "", "IANA time zone used for result dates (default: local)")
	cmd.PersistentFlags().String("config", "", "Path to configuration file (optional)")
}

package cli

import (
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "tickerd",
	Short: "Serves the AFS market ticker, live marquee and clock over websockets",
	Long: `tickerd drives the ticker board, the live marquee and the header clock of
every open page. Each page connects to /ws with its session id; the live
marquee resumes its phase and prices when the same session reconnects.

Settings come from defaults, an optional config file, a .env file and
environment variables (e.g. LIVE_CYCLE=42s, REDIS_ENABLED=true).`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file (YAML, JSON or TOML)")
}

// Package cmd wires the wavetray CLI. The root command loads configuration
// and logging; subcommands talk to the Waveform backend through the shared
// API client helpers below.
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/waveformhq/wavetray/internal/api"
	"github.com/waveformhq/wavetray/internal/cache"
	"github.com/waveformhq/wavetray/internal/colors"
	"github.com/waveformhq/wavetray/internal/config"
	"github.com/waveformhq/wavetray/internal/logging"
	"github.com/waveformhq/wavetray/internal/version"
)

var (
	flagQuiet bool
	flagDebug bool
	flagToken string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:     "wavetray",
	Short:   "Waveform notifications in your terminal",
	Long:    "wavetray keeps the Waveform notification feed at hand: a live tray, status-line badges, and commands to act on notifications without opening the dashboard.",
	Version: version.String(),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()
		if flagQuiet {
			config.Set("quiet", "true")
		}
		if flagDebug {
			config.Set("debug", "true")
		}
		if flagToken != "" {
			config.Set("auth_token", flagToken)
		}
		colors.SetQuiet(config.GetBool("quiet"))
		colors.SetDebug(config.GetBool("debug"))
		initLogging(cmd.Name())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logging.ShutdownGlobal()
	},
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "suppress informational output")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "", "auth token (overrides config and WAVETRAY_AUTH_TOKEN)")
}

func initLogging(command string) {
	logger, err := logging.Init(logging.Config{
		Enabled:  config.GetBool("log_enabled"),
		Level:    config.Get("log_level", "info"),
		MaxFiles: config.GetInt("log_max_files", 10),
		Command:  command,
		PID:      os.Getpid(),
	})
	if err != nil {
		colors.Warning("failed to initialize logging: " + err.Error())
		return
	}
	logging.SetGlobal(logger)
	colors.SetLogger(logger)
}

// tokenSource re-reads the configured token on every call so a token rotated
// mid-session is picked up by the next request or reconnect attempt.
func tokenSource() string {
	return config.Get("auth_token", "")
}

// newAPIClient builds the REST client from configuration.
func newAPIClient() *api.Client {
	return api.NewClient(config.Get("api_origin", ""), tokenSource)
}

// openCache opens the snapshot cache when enabled. Returns nil when the
// cache is disabled or unavailable; callers treat nil as "no cache".
func openCache() *cache.Cache {
	if !config.GetBool("cache_enabled") {
		return nil
	}
	stateDir, err := config.StateDir()
	if err != nil {
		logging.Warn("snapshot cache unavailable", "error", err)
		return nil
	}
	c, err := cache.Open(cache.DefaultPath(stateDir))
	if err != nil {
		logging.Warn("snapshot cache unavailable", "error", err)
		return nil
	}
	return c
}

// pushURL assembles the websocket endpoint from config.
func pushURL() string {
	origin := config.Get("push_origin", "")
	path := config.Get("push_path", "/ws/notifications/")
	return origin + path
}

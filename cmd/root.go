// ABOUTME: Root command for the pulsectl CLI
// ABOUTME: Handles global flags and builds the shared client and session store

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/pulsekit/pulsectl/internal/client"
	"github.com/pulsekit/pulsectl/internal/config"
	"github.com/pulsekit/pulsectl/internal/session"
)

var (
	apiURL     string
	jsonOutput bool
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "pulsectl",
	Short: "CLI dashboard client for the Pulse platform",
	Long: `pulsectl is a command-line client for the Pulse platform API.

It authenticates a user, persists the session across invocations, and
fetches role-scoped resources: your profile, the user list (admin),
analytics events, and audit logs.

Environment Variables:
  PULSE_API_URL     Pulse API URL (default: http://localhost:8080)
  PULSE_CONFIG_DIR  Directory for session state (default: XDG config dir)`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Pulse API URL (overrides PULSE_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
}

// newClient builds the API client and its session store from flag, env,
// and default configuration (in priority order)
func newClient() (*client.Client, *session.Store, *config.Config) {
	cfg := config.Load()
	if apiURL != "" {
		cfg.APIURL = apiURL
	}
	store := session.New(cfg.ConfigDir)
	return client.New(cfg.APIURL, store), store, cfg
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

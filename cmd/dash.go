// ABOUTME: Dash command for pulsectl
// ABOUTME: Launches the interactive TUI dashboard

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pulsekit/pulsectl/internal/tui"
)

var dashCmd = &cobra.Command{
	Use:   "dash",
	Short: "Open the interactive dashboard",
	Long:  `Launch the full-screen terminal dashboard. Signed-out sessions land on the login screen; signed-in sessions land on the overview.`,
	Run: func(cmd *cobra.Command, args []string) {
		c, store, cfg := newClient()

		if err := tui.Run(c, store, cfg.ConfigDir); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(dashCmd)
}

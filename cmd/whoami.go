// ABOUTME: Whoami command for pulsectl
// ABOUTME: Fetches and prints the profile of the current session

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the currently signed-in user",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runWhoami(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

// runWhoami fetches the profile and returns an exit code
func runWhoami(ctx context.Context, w io.Writer) int {
	c, store, _ := newClient()

	user, err := c.GetProfile(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 1
	}

	// Keep the cached identity fresh
	store.SetUser(user)

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(user, "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprintf(w, "%s (%s, id %d)\n", user.Email, user.Role, user.ID)
	}

	return 0
}

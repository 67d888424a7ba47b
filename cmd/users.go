// ABOUTME: Users command for pulsectl
// ABOUTME: Lists all platform users (admin role required)

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

	"github.com/pulsekit/pulsectl/internal/session"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List all users (admin only)",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runUsers(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(usersCmd)
}

// runUsers fetches the user list and returns an exit code
func runUsers(ctx context.Context, w io.Writer) int {
	c, _, _ := newClient()

	users, err := c.GetUsers(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 1
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatUsersJSON(users))
	} else {
		fmt.Fprint(w, formatUsersHuman(users))
	}

	return 0
}

// formatUsersHuman formats the user list for human readability
func formatUsersHuman(users []session.User) string {
	if len(users) == 0 {
		return "No users found.\n"
	}

	out := fmt.Sprintf("%-6s %-32s %s\n", "ID", "EMAIL", "ROLE")
	for _, u := range users {
		out += fmt.Sprintf("%-6d %-32s %s\n", u.ID, u.Email, u.Role)
	}
	return out
}

// formatUsersJSON formats the user list as JSON
func formatUsersJSON(users []session.User) string {
	data, _ := json.MarshalIndent(users, "", "  ")
	return string(data)
}

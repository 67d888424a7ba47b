// ABOUTME: Logs command for pulsectl
// ABOUTME: Lists audit log entries with an optional server-side user filter

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

	"github.com/pulsekit/pulsectl/internal/client"
)

var logsUserID uint64

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "List audit log entries",
	Long:  `Fetch audit log entries from the Pulse API. With --user, the server filters to that user's actions; the client never filters locally.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runLogs(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(logsCmd)
	logsCmd.Flags().Uint64Var(&logsUserID, "user", 0, "Filter by user ID")
}

// runLogs fetches audit logs and returns an exit code
func runLogs(ctx context.Context, w io.Writer) int {
	c, _, _ := newClient()

	logs, err := c.GetUserLogs(ctx, logsUserID)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 1
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(logs, "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprint(w, formatLogsHuman(logs))
	}

	return 0
}

// formatLogsHuman formats audit logs for human readability
func formatLogsHuman(logs []client.AuditLog) string {
	if len(logs) == 0 {
		return "No audit logs found.\n"
	}

	out := fmt.Sprintf("%-20s %-10s %-12s %-6s %s\n", "TIMESTAMP", "ACTION", "RESOURCE", "USER", "IP")
	for _, l := range logs {
		out += fmt.Sprintf("%-20s %-10s %-12s %-6d %s\n",
			l.Timestamp.Format("2006-01-02 15:04:05"), l.Action, l.Resource, l.UserID, l.IPAddress)
	}
	return out
}

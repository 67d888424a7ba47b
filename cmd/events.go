// ABOUTME: Events command for pulsectl
// ABOUTME: Lists analytics events with an optional server-side user filter

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

var eventsUserID uint64

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List analytics events",
	Long:  `Fetch analytics events from the Pulse API. With --user, the server filters to that user's events; the client never filters locally.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runEvents(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.Flags().Uint64Var(&eventsUserID, "user", 0, "Filter by user ID")
}

// runEvents fetches events and returns an exit code
func runEvents(ctx context.Context, w io.Writer) int {
	c, _, _ := newClient()

	events, err := c.GetUserEvents(ctx, eventsUserID)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 1
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(events, "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprint(w, formatEventsHuman(events))
	}

	return 0
}

// formatEventsHuman formats events for human readability
func formatEventsHuman(events []client.AnalyticsEvent) string {
	if len(events) == 0 {
		return "No events found.\n"
	}

	out := fmt.Sprintf("%-20s %-18s %-6s %s\n", "TIMESTAMP", "EVENT", "USER", "METADATA")
	for _, e := range events {
		out += fmt.Sprintf("%-20s %-18s %-6d %s\n",
			e.Timestamp.Format("2006-01-02 15:04:05"), e.Event, e.UserID, e.Metadata)
	}
	return out
}

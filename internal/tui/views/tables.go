// ABOUTME: Table-backed list screens for users, analytics events, and audit logs
// ABOUTME: Wraps bubbles tables with consistent styling and scrolling

package views

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pulsekit/pulsectl/internal/client"
	"github.com/pulsekit/pulsectl/internal/session"
	"github.com/pulsekit/pulsectl/internal/tui/styles"
)

const timestampLayout = "2006-01-02 15:04:05"

// newTable builds a styled, focused table of the given shape
func newTable(columns []table.Column, rows []table.Row, height int) table.Model {
	if height < 3 {
		height = 3
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(height),
		table.WithFocused(true),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		Bold(true).
		Foreground(styles.Primary).
		BorderForeground(styles.Muted)
	s.Selected = s.Selected.
		Foreground(styles.Text).
		Background(styles.Muted)
	t.SetStyles(s)

	return t
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(timestampLayout)
}

// Users lists all platform users (admin only)
type Users struct {
	table table.Model
	count int
}

// NewUsers creates the user list screen
func NewUsers(users []session.User, height int) *Users {
	columns := []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Email", Width: 32},
		{Title: "Role", Width: 8},
	}

	rows := make([]table.Row, 0, len(users))
	for _, u := range users {
		rows = append(rows, table.Row{
			strconv.FormatUint(u.ID, 10),
			u.Email,
			u.Role,
		})
	}

	return &Users{table: newTable(columns, rows, height), count: len(users)}
}

// Update forwards key events for scrolling
func (u *Users) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	u.table, cmd = u.table.Update(msg)
	return cmd
}

// View renders the user list
func (u *Users) View() string {
	header := styles.Title.Render(fmt.Sprintf("Users (%d)", u.count))
	return header + "\n" + u.table.View()
}

// Events lists analytics events, optionally server-filtered by user
type Events struct {
	table  table.Model
	count  int
	filter uint64
}

// NewEvents creates the analytics event list screen
func NewEvents(events []client.AnalyticsEvent, filter uint64, height int) *Events {
	columns := []table.Column{
		{Title: "Timestamp", Width: 19},
		{Title: "Event", Width: 18},
		{Title: "User", Width: 6},
		{Title: "Metadata", Width: 30},
	}

	rows := make([]table.Row, 0, len(events))
	for _, e := range events {
		rows = append(rows, table.Row{
			formatTimestamp(e.Timestamp),
			e.Event,
			strconv.FormatUint(e.UserID, 10),
			e.Metadata,
		})
	}

	return &Events{table: newTable(columns, rows, height), count: len(events), filter: filter}
}

// Update forwards key events for scrolling
func (e *Events) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	e.table, cmd = e.table.Update(msg)
	return cmd
}

// View renders the event list
func (e *Events) View() string {
	title := fmt.Sprintf("Analytics Events (%d)", e.count)
	if e.filter > 0 {
		title += fmt.Sprintf(" (user %d)", e.filter)
	}
	return styles.Title.Render(title) + "\n" + e.table.View()
}

// Logs lists audit log entries, optionally server-filtered by user
type Logs struct {
	table  table.Model
	count  int
	filter uint64
}

// NewLogs creates the audit log list screen
func NewLogs(logs []client.AuditLog, filter uint64, height int) *Logs {
	columns := []table.Column{
		{Title: "Timestamp", Width: 19},
		{Title: "Action", Width: 10},
		{Title: "Resource", Width: 12},
		{Title: "User", Width: 6},
		{Title: "IP", Width: 15},
	}

	rows := make([]table.Row, 0, len(logs))
	for _, l := range logs {
		rows = append(rows, table.Row{
			formatTimestamp(l.Timestamp),
			l.Action,
			l.Resource,
			strconv.FormatUint(l.UserID, 10),
			l.IPAddress,
		})
	}

	return &Logs{table: newTable(columns, rows, height), count: len(logs), filter: filter}
}

// Update forwards key events for scrolling
func (l *Logs) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	l.table, cmd = l.table.Update(msg)
	return cmd
}

// View renders the audit log list
func (l *Logs) View() string {
	title := fmt.Sprintf("Audit Logs (%d)", l.count)
	if l.filter > 0 {
		title += fmt.Sprintf(" (user %d)", l.filter)
	}
	return styles.Title.Render(title) + "\n" + l.table.View()
}

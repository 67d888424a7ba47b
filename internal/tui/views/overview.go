// ABOUTME: Overview screen showing the signed-in profile and activity counts
// ABOUTME: Default landing view once a session is present

package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pulsekit/pulsectl/internal/session"
	"github.com/pulsekit/pulsectl/internal/tui/styles"
)

// Overview displays the current profile and platform activity summary
type Overview struct {
	user       *session.User
	eventCount int
	logCount   int
	width      int
	height     int
}

// NewOverview creates the overview panel. A nil user is tolerated: the
// identity may not be fetched yet.
func NewOverview(user *session.User, eventCount, logCount, width, height int) *Overview {
	return &Overview{
		user:       user,
		eventCount: eventCount,
		logCount:   logCount,
		width:      width,
		height:     height,
	}
}

// SetSize updates the panel dimensions
func (o *Overview) SetSize(width, height int) {
	o.width = width
	o.height = height
}

// View renders the overview
func (o *Overview) View() string {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render("Overview"))
	sb.WriteString("\n")

	if o.user != nil {
		sb.WriteString(fmt.Sprintf("Signed in as %s\n", styles.ValueStyle.Render(o.user.Email)))
		sb.WriteString(fmt.Sprintf("Role: %s\n", styles.RoleBadge(o.user.Role)))
		sb.WriteString(fmt.Sprintf("User ID: %d\n", o.user.ID))
	} else {
		sb.WriteString(styles.Subtitle.Render("(profile not loaded)"))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	sb.WriteString("Recent activity\n")
	sb.WriteString(fmt.Sprintf("  Analytics events: %s\n", styles.ValueStyle.Render(fmt.Sprintf("%d", o.eventCount))))
	sb.WriteString(fmt.Sprintf("  Audit log entries: %s\n", styles.ValueStyle.Render(fmt.Sprintf("%d", o.logCount))))

	return lipgloss.NewStyle().
		Width(o.width).
		Height(o.height).
		Render(sb.String())
}

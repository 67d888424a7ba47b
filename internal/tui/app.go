// ABOUTME: Root bubbletea model for the pulsectl dashboard
// ABOUTME: Routes input between screens and gates protected views on session state

package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/pulsekit/pulsectl/internal/client"
	"github.com/pulsekit/pulsectl/internal/session"
	"github.com/pulsekit/pulsectl/internal/tui/debuglog"
	"github.com/pulsekit/pulsectl/internal/tui/login"
	"github.com/pulsekit/pulsectl/internal/tui/styles"
	"github.com/pulsekit/pulsectl/internal/tui/views"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenRegister
	ScreenOverview
	ScreenUsers
	ScreenEvents
	ScreenLogs
)

// Layout constants
const (
	minTerminalWidth = 80
	frameOverhead    = 8 // header, footer, panel borders and padding
)

// sessionChangedMsg carries a store notification into the event loop
type sessionChangedMsg struct {
	session session.Session
}

// loginResultMsg is sent when the login round trip finishes
type loginResultMsg struct {
	email string
	err   error
}

// registerResultMsg is sent when the registration round trip finishes
type registerResultMsg struct {
	user *session.User
	err  error
}

// overviewLoadedMsg carries the overview fan-out result
type overviewLoadedMsg struct {
	user   *session.User
	events []client.AnalyticsEvent
	logs   []client.AuditLog
	err    error
}

// usersLoadedMsg carries the admin user list
type usersLoadedMsg struct {
	users []session.User
	err   error
}

// eventsLoadedMsg carries the analytics event list
type eventsLoadedMsg struct {
	events []client.AnalyticsEvent
	err    error
}

// logsLoadedMsg carries the audit log list
type logsLoadedMsg struct {
	logs []client.AuditLog
	err  error
}

// App is the root model for the TUI
type App struct {
	client   *client.Client
	sessions *session.Store

	screen  Screen
	width   int
	height  int
	err     error
	notice  string
	loading bool
	spin    spinner.Model

	filtering    bool
	filterInput  textinput.Model
	eventsFilter uint64
	logsFilter   uint64

	form       *login.Form
	overview   *views.Overview
	usersView  *views.Users
	eventsView *views.Events
	logsView   *views.Logs
}

// New creates the TUI application, choosing the initial screen from the
// current session state: no token means the login boundary, a token
// means the protected overview.
func New(apiClient *client.Client, sessions *session.Store) *App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	ti := textinput.New()
	ti.Placeholder = "user id"
	ti.Prompt = "> "
	ti.CharLimit = 20
	ti.Width = 20

	a := &App{
		client:      apiClient,
		sessions:    sessions,
		spin:        sp,
		filterInput: ti,
	}

	if sessions.Snapshot().Authenticated() {
		a.screen = ScreenOverview
		a.loading = true
	} else {
		a.screen = ScreenLogin
		a.form = login.New(login.ModeLogin, "")
	}

	return a
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	if a.screen == ScreenLogin {
		return a.form.Init()
	}
	return tea.Batch(a.spin.Tick, a.loadOverview())
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.overview != nil {
			a.overview.SetSize(a.contentWidth(), a.contentHeight())
		}
		if a.form != nil {
			a.form.Update(msg)
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		switch a.screen {
		case ScreenLogin, ScreenRegister:
			return a.updateForm(msg)
		default:
			return a.updateProtected(msg)
		}

	case sessionChangedMsg:
		return a.gate(msg.session)

	case login.SubmittedMsg:
		return a.handleSubmit(msg)

	case login.CancelledMsg:
		if a.screen == ScreenRegister {
			a.switchForm(login.ModeLogin, "")
			return a, a.form.Init()
		}
		return a, tea.Quit

	case loginResultMsg:
		a.loading = false
		if msg.err != nil {
			debuglog.Error("login", msg.err)
			a.err = msg.err
			a.switchForm(login.ModeLogin, msg.email)
			return a, a.form.Init()
		}
		// The session store notification flips the screen; nothing to do
		return a, nil

	case registerResultMsg:
		a.loading = false
		if msg.err != nil {
			debuglog.Error("register", msg.err)
			a.err = msg.err
			a.switchForm(login.ModeRegister, "")
			return a, a.form.Init()
		}
		a.notice = fmt.Sprintf("Account created for %s. Sign in to continue.", msg.user.Email)
		a.switchForm(login.ModeLogin, msg.user.Email)
		return a, a.form.Init()

	case overviewLoadedMsg:
		a.loading = false
		if msg.err != nil {
			return a.handleLoadError(msg.err)
		}
		// Cache the freshly fetched identity for other consumers
		if msg.user != nil {
			if err := a.sessions.SetUser(msg.user); err != nil {
				debuglog.Error("cache profile", err)
			}
		}
		a.overview = views.NewOverview(msg.user, len(msg.events), len(msg.logs), a.contentWidth(), a.contentHeight())
		a.screen = ScreenOverview
		return a, nil

	case usersLoadedMsg:
		a.loading = false
		if msg.err != nil {
			return a.handleLoadError(msg.err)
		}
		a.usersView = views.NewUsers(msg.users, a.contentHeight())
		a.screen = ScreenUsers
		return a, nil

	case eventsLoadedMsg:
		a.loading = false
		if msg.err != nil {
			return a.handleLoadError(msg.err)
		}
		a.eventsView = views.NewEvents(msg.events, a.eventsFilter, a.contentHeight())
		a.screen = ScreenEvents
		return a, nil

	case logsLoadedMsg:
		a.loading = false
		if msg.err != nil {
			return a.handleLoadError(msg.err)
		}
		a.logsView = views.NewLogs(msg.logs, a.logsFilter, a.contentHeight())
		a.screen = ScreenLogs
		return a, nil

	case spinner.TickMsg:
		if !a.loading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	default:
		// huh forms need to see their internal messages
		if (a.screen == ScreenLogin || a.screen == ScreenRegister) && a.form != nil {
			return a.updateForm(msg)
		}
	}

	return a, nil
}

// gate enforces the view-gating rule on every session change: protected
// screens require a token, the login boundary redirects away when one
// is present.
func (a *App) gate(sess session.Session) (tea.Model, tea.Cmd) {
	if !sess.Authenticated() {
		if a.screen == ScreenLogin || a.screen == ScreenRegister {
			return a, nil
		}
		a.filtering = false
		a.eventsFilter = 0
		a.logsFilter = 0
		a.notice = "Session ended. Sign in to continue."
		a.switchForm(login.ModeLogin, "")
		return a, a.form.Init()
	}

	if a.screen == ScreenLogin || a.screen == ScreenRegister {
		a.form = nil
		a.err = nil
		a.notice = ""
		a.screen = ScreenOverview
		a.loading = true
		return a, tea.Batch(a.spin.Tick, a.loadOverview())
	}
	return a, nil
}

// switchForm replaces the credential form and moves to its screen
func (a *App) switchForm(mode login.Mode, email string) {
	a.form = login.New(mode, email)
	if mode == login.ModeRegister {
		a.screen = ScreenRegister
	} else {
		a.screen = ScreenLogin
	}
}

func (a *App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.form == nil {
		return a, nil
	}
	// Offer register from the login screen before the form grabs the key
	if key, ok := msg.(tea.KeyMsg); ok && a.screen == ScreenLogin && key.String() == "ctrl+r" {
		a.err = nil
		a.notice = ""
		a.switchForm(login.ModeRegister, "")
		return a, a.form.Init()
	}

	model, cmd := a.form.Update(msg)
	a.form = model.(*login.Form)
	return a, cmd
}

func (a *App) updateProtected(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.filtering {
		switch msg.String() {
		case "enter":
			return a.applyFilter()
		case "esc":
			a.filtering = false
			return a, nil
		}
		var cmd tea.Cmd
		a.filterInput, cmd = a.filterInput.Update(msg)
		return a, cmd
	}

	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "f":
		if a.screen == ScreenEvents || a.screen == ScreenLogs {
			a.startFilter()
			return a, textinput.Blink
		}
	case "o":
		a.loading = true
		return a, tea.Batch(a.spin.Tick, a.loadOverview())
	case "u":
		a.loading = true
		return a, tea.Batch(a.spin.Tick, a.loadUsers())
	case "e":
		a.loading = true
		return a, tea.Batch(a.spin.Tick, a.loadEvents())
	case "l":
		a.loading = true
		return a, tea.Batch(a.spin.Tick, a.loadLogs())
	case "r":
		return a.refreshCurrent()
	case "x":
		// Explicit logout; gating reacts to the cleared session
		if err := a.sessions.Logout(); err != nil {
			debuglog.Error("logout", err)
		}
		return a.gate(a.sessions.Snapshot())
	}

	// Scrolling keys go to the active table
	var cmd tea.Cmd
	switch a.screen {
	case ScreenUsers:
		if a.usersView != nil {
			cmd = a.usersView.Update(msg)
		}
	case ScreenEvents:
		if a.eventsView != nil {
			cmd = a.eventsView.Update(msg)
		}
	case ScreenLogs:
		if a.logsView != nil {
			cmd = a.logsView.Update(msg)
		}
	}
	return a, cmd
}

// startFilter opens the user-id prompt for the current table,
// prefilled with the active filter
func (a *App) startFilter() {
	current := a.eventsFilter
	if a.screen == ScreenLogs {
		current = a.logsFilter
	}
	a.filterInput.SetValue("")
	if current > 0 {
		a.filterInput.SetValue(strconv.FormatUint(current, 10))
	}
	a.filterInput.Focus()
	a.filtering = true
}

// applyFilter parses the prompt and reloads the current table with the
// new server-side filter. Empty input clears the filter.
func (a *App) applyFilter() (tea.Model, tea.Cmd) {
	a.filtering = false

	var id uint64
	if raw := strings.TrimSpace(a.filterInput.Value()); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			a.err = fmt.Errorf("invalid user id %q", raw)
			return a, nil
		}
		id = parsed
	}

	a.err = nil
	a.loading = true
	if a.screen == ScreenLogs {
		a.logsFilter = id
		return a, tea.Batch(a.spin.Tick, a.loadLogs())
	}
	a.eventsFilter = id
	return a, tea.Batch(a.spin.Tick, a.loadEvents())
}

func (a *App) refreshCurrent() (tea.Model, tea.Cmd) {
	a.loading = true
	switch a.screen {
	case ScreenUsers:
		return a, tea.Batch(a.spin.Tick, a.loadUsers())
	case ScreenEvents:
		return a, tea.Batch(a.spin.Tick, a.loadEvents())
	case ScreenLogs:
		return a, tea.Batch(a.spin.Tick, a.loadLogs())
	default:
		return a, tea.Batch(a.spin.Tick, a.loadOverview())
	}
}

// handleSubmit dispatches the credential form result
func (a *App) handleSubmit(msg login.SubmittedMsg) (tea.Model, tea.Cmd) {
	a.err = nil
	a.notice = ""
	a.loading = true
	if msg.Mode == login.ModeRegister {
		return a, tea.Batch(a.spin.Tick, a.doRegister(msg.Email, msg.Password, msg.Role))
	}
	return a, tea.Batch(a.spin.Tick, a.doLogin(msg.Email, msg.Password))
}

// handleLoadError routes fetch failures; an authentication failure has
// already cleared the session, so gating takes over
func (a *App) handleLoadError(err error) (tea.Model, tea.Cmd) {
	debuglog.Error("load", err)
	if errors.Is(err, client.ErrUnauthenticated) {
		return a.gate(a.sessions.Snapshot())
	}
	a.err = err
	return a, nil
}

// doLogin exchanges credentials for a token, stores it, and refreshes
// the cached identity best-effort
func (a *App) doLogin(email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		token, err := a.client.Login(ctx, email, password)
		if err != nil {
			return loginResultMsg{email: email, err: err}
		}
		if err := a.sessions.SetToken(token); err != nil {
			debuglog.Error("persist session", err)
		}
		// Identity is lazily refreshed; a failed fetch leaves it absent
		if profile, err := a.client.GetProfile(ctx); err == nil {
			if err := a.sessions.SetUser(profile); err != nil {
				debuglog.Error("cache profile", err)
			}
		} else {
			debuglog.Error("fetch profile", err)
		}
		return loginResultMsg{email: email}
	}
}

// doRegister creates an account; the session is never touched
func (a *App) doRegister(email, password, role string) tea.Cmd {
	return func() tea.Msg {
		user, err := a.client.Register(context.Background(), email, password, role)
		return registerResultMsg{user: user, err: err}
	}
}

// loadOverview fetches profile, events, and logs in one fan-out
func (a *App) loadOverview() tea.Cmd {
	return func() tea.Msg {
		g, ctx := errgroup.WithContext(context.Background())

		var user *session.User
		var events []client.AnalyticsEvent
		var logs []client.AuditLog

		g.Go(func() error {
			u, err := a.client.GetProfile(ctx)
			if err != nil {
				return err
			}
			user = u
			return nil
		})
		g.Go(func() error {
			ev, err := a.client.GetUserEvents(ctx, 0)
			if err != nil {
				return err
			}
			events = ev
			return nil
		})
		g.Go(func() error {
			lg, err := a.client.GetUserLogs(ctx, 0)
			if err != nil {
				return err
			}
			logs = lg
			return nil
		})

		if err := g.Wait(); err != nil {
			return overviewLoadedMsg{err: err}
		}
		return overviewLoadedMsg{user: user, events: events, logs: logs}
	}
}

func (a *App) loadUsers() tea.Cmd {
	return func() tea.Msg {
		users, err := a.client.GetUsers(context.Background())
		return usersLoadedMsg{users: users, err: err}
	}
}

func (a *App) loadEvents() tea.Cmd {
	userID := a.eventsFilter
	return func() tea.Msg {
		events, err := a.client.GetUserEvents(context.Background(), userID)
		return eventsLoadedMsg{events: events, err: err}
	}
}

func (a *App) loadLogs() tea.Cmd {
	userID := a.logsFilter
	return func() tea.Msg {
		logs, err := a.client.GetUserLogs(context.Background(), userID)
		return logsLoadedMsg{logs: logs, err: err}
	}
}

// View implements tea.Model
func (a *App) View() string {
	var content string

	switch a.screen {
	case ScreenLogin, ScreenRegister:
		content = a.viewForm()
	case ScreenOverview:
		content = a.viewPanel(a.overviewContent())
	case ScreenUsers:
		content = a.viewPanel(a.listContent(a.usersView))
	case ScreenEvents:
		content = a.viewPanel(a.listContent(a.eventsView))
	case ScreenLogs:
		content = a.viewPanel(a.listContent(a.logsView))
	}

	return a.wrapWithFrame(content)
}

// viewer is anything with a View method; the table screens share it
type viewer interface {
	View() string
}

func (a *App) viewForm() string {
	var sb strings.Builder
	if a.notice != "" {
		sb.WriteString(styles.StatusOK.Render(a.notice))
		sb.WriteString("\n\n")
	}
	if a.err != nil {
		sb.WriteString(styles.StatusCritical.Render("Error: " + a.err.Error()))
		sb.WriteString("\n\n")
	}
	if a.loading {
		sb.WriteString(a.spin.View())
		sb.WriteString(" Signing in...\n")
		return styles.ActivePanel.Width(a.contentWidth()).Render(sb.String())
	}
	if a.form != nil {
		sb.WriteString(a.form.View())
	}
	return styles.ActivePanel.Width(a.contentWidth()).Render(sb.String())
}

func (a *App) overviewContent() string {
	if a.overview == nil {
		return a.loadingLine("Loading overview...")
	}
	return a.overview.View()
}

func (a *App) listContent(v viewer) string {
	var sb strings.Builder
	if a.filtering {
		sb.WriteString(styles.Subtitle.Render("Filter by user id, empty clears"))
		sb.WriteString("\n")
		sb.WriteString(a.filterInput.View())
		sb.WriteString("\n\n")
	}

	switch {
	case a.loading:
		sb.WriteString(a.loadingLine("Loading..."))
	case v == nil || isNilView(v):
		sb.WriteString(a.loadingLine("Loading..."))
	default:
		sb.WriteString(v.View())
	}
	return sb.String()
}

// isNilView guards against typed-nil view pointers behind the interface
func isNilView(v viewer) bool {
	switch t := v.(type) {
	case *views.Users:
		return t == nil
	case *views.Events:
		return t == nil
	case *views.Logs:
		return t == nil
	}
	return false
}

func (a *App) loadingLine(label string) string {
	if a.loading {
		return a.spin.View() + " " + label
	}
	return label
}

func (a *App) viewPanel(content string) string {
	if a.err != nil {
		content = styles.StatusCritical.Render("Error: "+a.err.Error()) + "\n\n" + content
	}
	return styles.ActivePanel.Width(a.contentWidth()).Render(content)
}

// contentWidth calculates the width available inside the panel
func (a *App) contentWidth() int {
	width := a.width
	if width < minTerminalWidth {
		width = minTerminalWidth
	}
	return width - 4
}

// contentHeight calculates the height available for screen content
func (a *App) contentHeight() int {
	height := a.height - frameOverhead
	if height < 5 {
		height = 5
	}
	return height
}

// renderHeader creates the header bar with app branding and identity
func (a *App) renderHeader() string {
	width := a.width
	if width < minTerminalWidth {
		width = minTerminalWidth
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	leftText := " " + titleStyle.Render("Pulse Dashboard")

	rightText := ""
	if user, ok := a.sessions.User(); ok && a.screen != ScreenLogin && a.screen != ScreenRegister {
		rightText = contextStyle.Render(user.Email) + " "
	}

	leftWidth := lipgloss.Width(leftText)
	rightWidth := lipgloss.Width(rightText)
	fillWidth := width - 4 - leftWidth - rightWidth
	if fillWidth < 0 {
		fillWidth = 0
	}

	header := "╭─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╮"
	return borderStyle.Render(header)
}

// renderFooter creates the footer with keyboard shortcuts
func (a *App) renderFooter() string {
	width := a.width
	if width < minTerminalWidth {
		width = minTerminalWidth
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)

	var shortcuts []string
	switch a.screen {
	case ScreenLogin:
		shortcuts = []string{"Enter Submit", "ctrl+r Register", "Esc Quit"}
	case ScreenRegister:
		shortcuts = []string{"Enter Submit", "Esc Back"}
	case ScreenEvents, ScreenLogs:
		shortcuts = []string{"o Overview", "u Users", "e Events", "l Logs", "f Filter", "r Refresh", "x Logout", "q Quit"}
	default:
		shortcuts = []string{"o Overview", "u Users", "e Events", "l Logs", "r Refresh", "x Logout", "q Quit"}
	}

	var styledShortcuts []string
	for _, s := range shortcuts {
		parts := strings.SplitN(s, " ", 2)
		if len(parts) == 2 {
			styledShortcuts = append(styledShortcuts, keyStyle.Render(parts[0])+" "+labelStyle.Render(parts[1]))
		} else {
			styledShortcuts = append(styledShortcuts, s)
		}
	}

	leftText := " " + strings.Join(styledShortcuts, "  ")
	leftPlainText := " " + strings.Join(shortcuts, "  ")

	fillWidth := width - 4 - lipgloss.Width(leftPlainText)
	if fillWidth < 0 {
		fillWidth = 0
	}

	footer := "╰─" + leftText + strings.Repeat("─", fillWidth) + "─╯"
	return borderStyle.Render(footer)
}

// wrapWithFrame wraps content with header and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder

	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())

	return sb.String()
}

// Run starts the TUI and bridges session store notifications into the
// event loop
func Run(apiClient *client.Client, sessions *session.Store, configDir string) error {
	if err := debuglog.Init(configDir); err == nil {
		defer debuglog.Close()
	}

	app := New(apiClient, sessions)

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
	)

	unsubscribe := sessions.Subscribe(func(sess session.Session) {
		debuglog.Session(sess.Authenticated())
		p.Send(sessionChangedMsg{session: sess})
	})
	defer unsubscribe()

	_, err := p.Run()
	return err
}

// ABOUTME: Login and registration forms as bubbletea models
// ABOUTME: Uses huh forms for credential entry on the unauthenticated screens

package login

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/pulsekit/pulsectl/internal/tui/styles"
)

// Mode selects between the login and registration form
type Mode int

const (
	ModeLogin Mode = iota
	ModeRegister
)

// SubmittedMsg is sent when the form completes
type SubmittedMsg struct {
	Mode     Mode
	Email    string
	Password string
	Role     string
}

// CancelledMsg is sent when the form is dismissed with esc
type CancelledMsg struct{}

// Form is the credential entry screen
type Form struct {
	mode  Mode
	form  *huh.Form
	width int

	email    string
	password string
	role     string
}

var roleOptions = []huh.Option[string]{
	huh.NewOption("user", "user"),
	huh.NewOption("admin", "admin"),
}

// createTheme returns a huh theme matching the app palette
func createTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Group.Title = lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true).
		MarginBottom(1)
	t.Group.Description = lipgloss.NewStyle().
		Foreground(styles.Muted).
		MarginBottom(1)

	t.Focused.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(styles.Primary)
	t.Focused.Title = lipgloss.NewStyle().
		Foreground(styles.Accent).
		Bold(true)
	t.Focused.Description = lipgloss.NewStyle().
		Foreground(styles.Muted)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().
		Foreground(styles.Danger).
		SetString(" *")
	t.Focused.ErrorMessage = lipgloss.NewStyle().
		Foreground(styles.Danger)
	t.Focused.SelectSelector = lipgloss.NewStyle().
		Foreground(styles.Primary).
		SetString("> ")
	t.Focused.SelectedOption = lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().
		Foreground(styles.Primary)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().
		Foreground(styles.Primary)
	t.Focused.TextInput.Text = lipgloss.NewStyle().
		Foreground(styles.Text)

	t.Blurred = t.Focused
	t.Blurred.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.HiddenBorder()).
		BorderLeft(true)
	t.Blurred.Title = lipgloss.NewStyle().
		Foreground(styles.Muted)

	return t
}

// New creates a credential form. The email is prefilled so a fresh
// registration can roll straight into login.
func New(mode Mode, email string) *Form {
	f := &Form{
		mode:  mode,
		email: email,
		role:  "user",
	}
	f.form = f.createForm()
	return f
}

func (f *Form) createForm() *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("Email").
			Placeholder("you@example.com").
			Value(&f.email).
			Validate(validateRequired("email")),
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&f.password).
			Validate(validateRequired("password")),
	}

	title := "Sign in"
	description := "Enter your Pulse credentials"
	if f.mode == ModeRegister {
		title = "Create account"
		description = "Register a new Pulse user"
		fields = append(fields,
			huh.NewSelect[string]().
				Title("Role").
				Options(roleOptions...).
				Value(&f.role),
		)
	}

	return huh.NewForm(
		huh.NewGroup(fields...).
			Title(title).
			Description(description),
	).WithTheme(createTheme())
}

// validateRequired rejects blank input
func validateRequired(name string) func(string) error {
	return func(v string) error {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}

// Mode returns the form's current mode
func (f *Form) Mode() Mode {
	return f.mode
}

// Init implements tea.Model
func (f *Form) Init() tea.Cmd {
	return f.form.Init()
}

// Update implements tea.Model
func (f *Form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		f.width = msg.Width

	case tea.KeyMsg:
		if msg.String() == "esc" {
			return f, func() tea.Msg { return CancelledMsg{} }
		}
	}

	form, cmd := f.form.Update(msg)
	if hf, ok := form.(*huh.Form); ok {
		f.form = hf
	}

	if f.form.State == huh.StateCompleted {
		submitted := SubmittedMsg{
			Mode:     f.mode,
			Email:    strings.TrimSpace(f.email),
			Password: f.password,
			Role:     f.role,
		}
		return f, func() tea.Msg { return submitted }
	}

	return f, cmd
}

// View implements tea.Model
func (f *Form) View() string {
	return f.form.View()
}

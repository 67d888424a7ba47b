// ABOUTME: Register command for pulsectl
// ABOUTME: Creates a new Pulse account without touching the stored session

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var (
	registerEmail    string
	registerPassword string
	registerRole     string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new Pulse account",
	Long:  `Register a new user with the given role. Registration does not sign you in; run "pulsectl login" afterwards.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runRegister(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "Account email")
	registerCmd.Flags().StringVar(&registerPassword, "password", "", "Account password")
	registerCmd.Flags().StringVar(&registerRole, "role", "user", "Account role (admin or user)")
}

// runRegister executes the registration and returns an exit code
func runRegister(ctx context.Context, w io.Writer) int {
	email, password, role := registerEmail, registerPassword, registerRole
	if email == "" || password == "" {
		var err error
		email, password, role, err = promptRegistration(email, password, role)
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 1
		}
	}

	c, _, _ := newClient()

	user, err := c.Register(ctx, email, password, role)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 1
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(user, "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprintf(w, "Created user %s (%s)\n", user.Email, user.Role)
	}

	return 0
}

// promptRegistration collects missing registration fields interactively
func promptRegistration(email, password, role string) (string, string, string, error) {
	if role == "" {
		role = "user"
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Value(&email),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&password),
			huh.NewSelect[string]().
				Title("Role").
				Options(
					huh.NewOption("user", "user"),
					huh.NewOption("admin", "admin"),
				).
				Value(&role),
		),
	).WithTheme(huh.ThemeBase())

	if err := form.Run(); err != nil {
		return "", "", "", err
	}
	return email, password, role, nil
}

// ABOUTME: Login command for pulsectl
// ABOUTME: Exchanges credentials for a token and persists the session

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
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate against the Pulse API",
	Long:  `Exchange email and password for a bearer token and store it for later commands. Missing credentials are collected interactively.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runLogin(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password")
}

// runLogin executes the login flow and returns an exit code
func runLogin(ctx context.Context, w io.Writer) int {
	email, password := loginEmail, loginPassword
	if email == "" || password == "" {
		var err error
		email, password, err = promptCredentials(email, password)
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 1
		}
	}

	c, store, _ := newClient()

	token, err := c.Login(ctx, email, password)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 1
	}

	if err := store.SetToken(token); err != nil {
		fmt.Fprintf(w, "Error: failed to save session: %v\n", err)
		return 1
	}

	result := loginResult{Status: "logged_in", Email: email}

	// Cache the identity when the profile fetch succeeds; every consumer
	// tolerates its absence
	if profile, err := c.GetProfile(ctx); err == nil {
		store.SetUser(profile)
		result.Email = profile.Email
		result.Role = profile.Role
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Fprintln(w, string(data))
	} else if result.Role != "" {
		fmt.Fprintf(w, "Logged in as %s (%s)\n", result.Email, result.Role)
	} else {
		fmt.Fprintln(w, "Logged in")
	}

	return 0
}

// loginResult is the --json shape of a successful login
type loginResult struct {
	Status string `json:"status"`
	Email  string `json:"email"`
	Role   string `json:"role,omitempty"`
}

// promptCredentials collects missing credentials interactively
func promptCredentials(email, password string) (string, string, error) {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Value(&email),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&password),
		),
	).WithTheme(huh.ThemeBase())

	if err := form.Run(); err != nil {
		return "", "", err
	}
	return email, password, nil
}

package auth

import (
	"fmt"
	"net/http"

	"github.com/crucial707/listing-admin/cmd/cli/client"
	"github.com/crucial707/listing-admin/cmd/cli/config"
	"github.com/crucial707/listing-admin/internal/models"
	"github.com/spf13/cobra"
)

// InitAuth registers auth-related CLI commands (login, logout, whoami) on the root command.
func InitAuth(rootCmd *cobra.Command) {
	rootCmd.AddCommand(loginCmd(), logoutCmd(), whoamiCmd())
}

// loginCmd creates a command that logs in a user and stores the session token locally.
func loginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the listing admin API",
		Long:  "Authenticate with the listing admin API and store a session token for subsequent CLI commands.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" || password == "" {
				return fmt.Errorf("--username and --password are required")
			}

			var loginResp struct {
				Token string      `json:"token"`
				User  models.User `json:"user"`
			}
			payload := map[string]string{"username": username, "password": password}
			if err := client.Do(http.MethodPost, "/auth/login", "", payload, &loginResp); err != nil {
				return fmt.Errorf("failed to login: %w", err)
			}
			if loginResp.Token == "" {
				return fmt.Errorf("login succeeded but no token returned")
			}

			if err := config.SaveToken(loginResp.Token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s). Token stored in %s\n",
				loginResp.User.Username, loginResp.User.Role, config.TokenPath())
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username to authenticate as")
	cmd.Flags().StringVar(&password, "password", "", "Password")

	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the locally stored token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.DeleteToken(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the user the stored token belongs to",
		RunE: func(cmd *cobra.Command, args []string) error {
			var out struct {
				User models.User `json:"user"`
			}
			if err := client.DoAuthed(http.MethodGet, "/auth/verify", nil, &out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (id %d, role %s)\n", out.User.Username, out.User.ID, out.User.Role)
			return nil
		},
	}
}

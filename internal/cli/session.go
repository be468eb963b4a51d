package cli

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/plantel/internal/session"
)

// LoginCmd stores a bearer token for later runs.
func LoginCmd(g *Globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store the API token",
		Long: `Store the bearer token used for every API request.

Without --token the token is read from the first line of stdin, so it can be
piped in and stays out of the shell history.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, _ := cmd.Flags().GetString("token")
			if token == "" {
				fmt.Fprint(cmd.ErrOrStderr(), "Token: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read token: %w", err)
				}
				token = line
			}

			env, err := setup(g)
			if err != nil {
				return err
			}
			defer func() { _ = env.Close() }()

			if err := env.Session.Login(cmd.Context(), token); err != nil {
				return fmt.Errorf("login: %w", err)
			}

			msg := "Signed in"
			token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
			if exp, ok := session.Expiry(token); ok {
				msg += fmt.Sprintf(" (token expires %s)", exp.Local().Format(time.RFC1123))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", okMark, msg)
			return nil
		},
	}
	cmd.Flags().String("token", "", "bearer token (read from stdin when omitted)")
	return cmd
}

// LogoutCmd forgets the stored token.
func LogoutCmd(g *Globals) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored API token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(g)
			if err != nil {
				return err
			}
			defer func() { _ = env.Close() }()

			if err := env.Session.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Signed out\n", okMark)
			return nil
		},
	}
}

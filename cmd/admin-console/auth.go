package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/kunalgharate/token-generation-admin-panel/internal/session"
)

func newLoginCommand(a *app) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with an admin account and store the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				secret, err := promptPassword(cmd)
				if err != nil {
					return err
				}
				password = secret
			}
			result, err := a.authenticator().Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			a.out.Messagef("Logged in as %s", displayName(result.User.Name, result.User.Username))
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "admin username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when omitted)")
	return cmd
}

func newLogoutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.authenticator().Logout(); err != nil {
				return err
			}
			a.out.Messagef("Logged out")
			return nil
		},
	}
}

func newWhoamiCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.session.Authenticated() {
				return errNotLoggedIn
			}
			a.out.User(a.session.User())
			claims, err := session.Inspect(a.session.Token())
			if err != nil {
				return nil
			}
			if !claims.ExpiresAt.IsZero() {
				a.out.Messagef("expires %s (in %s)", claims.ExpiresAt.Local().Format(time.RFC1123), time.Until(claims.ExpiresAt).Round(time.Minute))
			}
			return nil
		},
	}
}

func promptPassword(cmd *cobra.Command) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		secret, err := term.ReadPassword(fd)
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(secret), nil
	}
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func displayName(name, username string) string {
	if name != "" {
		return name
	}
	return username
}

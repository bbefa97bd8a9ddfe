/*
Copyright © 2025 Katie Mulliken <katie@mulliken.net>
*/
package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/seckatie/linklift/internal/core/domain"
	"github.com/seckatie/linklift/internal/core/session"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session",
	Long: `Sign in with a username or email. The password is read from --password
or, when that is empty, from the first line of standard input.`,
	Args: cobra.NoArgs,
	RunE: withApp(runLogin),
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	Args:  cobra.NoArgs,
	RunE:  withApp(runRegister),
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored session",
	Args:  cobra.NoArgs,
	RunE:  withApp(runLogout),
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user and session expiry",
	Args:  cobra.NoArgs,
	RunE:  withApp(runWhoami),
}

// readPassword returns flagValue or the first line of in.
func readPassword(flagValue string, in io.Reader) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("password is required")
	}
	return line, nil
}

func runLogin(cmd *cobra.Command, _ []string, a *app) error {
	username, err := cmd.Flags().GetString("username")
	if err != nil {
		return fmt.Errorf("failed to read --username: %w", err)
	}
	if username == "" {
		return errors.New("--username is required")
	}
	passwordFlag, err := cmd.Flags().GetString("password")
	if err != nil {
		return fmt.Errorf("failed to read --password: %w", err)
	}
	remember, err := cmd.Flags().GetBool("remember")
	if err != nil {
		return fmt.Errorf("failed to read --remember: %w", err)
	}
	password, err := readPassword(passwordFlag, cmd.InOrStdin())
	if err != nil {
		return err
	}

	var saved bool
	a.sessions.RegisterEventListener(session.OnSessionSaved, func(session.Event) error {
		saved = true
		return nil
	})

	s, err := a.uc.Login.Execute(cmd.Context(), domain.Credentials{
		LoginIdentifier: username,
		Password:        password,
		RememberMe:      remember,
	})
	if err != nil {
		return failure("Login failed", err)
	}
	a.printf("Logged in as %s\n", s.User.Username)
	if !saved {
		return fmt.Errorf("the session could not be stored in %s; later commands will not be signed in", a.cfg.SessionStore)
	}
	return nil
}

func runRegister(cmd *cobra.Command, _ []string, a *app) error {
	var reg domain.Registration
	for name, dst := range map[string]*string{
		"username":   &reg.Username,
		"email":      &reg.Email,
		"password":   &reg.Password,
		"first-name": &reg.FirstName,
		"last-name":  &reg.LastName,
	} {
		v, err := cmd.Flags().GetString(name)
		if err != nil {
			return fmt.Errorf("failed to read --%s: %w", name, err)
		}
		*dst = v
	}
	if reg.Username == "" || reg.Email == "" {
		return errors.New("--username and --email are required")
	}
	password, err := readPassword(reg.Password, cmd.InOrStdin())
	if err != nil {
		return err
	}
	reg.Password = password

	user, err := a.uc.Register.Execute(cmd.Context(), reg)
	if err != nil {
		return failure("Registration failed", err)
	}
	a.printf("Registered %s <%s>. Run \"linklift login\" to sign in.\n", user.Username, user.Email)
	return nil
}

func runLogout(cmd *cobra.Command, _ []string, a *app) error {
	if a.client.Session().AccessToken == "" {
		a.printf("Not logged in.\n")
		return nil
	}
	var cleared bool
	a.sessions.RegisterEventListener(session.OnSessionCleared, func(session.Event) error {
		cleared = true
		return nil
	})

	// The local session is cleared even when the server call fails.
	if err := a.uc.Logout.Execute(cmd.Context()); err != nil {
		a.log.WithError(err).Warn("server logout failed, local session cleared")
	}
	if !cleared {
		return fmt.Errorf("the stored session in %s could not be removed", a.cfg.SessionStore)
	}
	a.printf("Logged out.\n")
	return nil
}

func runWhoami(_ *cobra.Command, _ []string, a *app) error {
	s := a.client.Session()
	if s.AccessToken == "" {
		return errors.New("not logged in")
	}

	a.printf("User:    %s\n", s.User.Username)
	if s.User.Email != "" {
		a.printf("Email:   %s\n", s.User.Email)
	}
	if name := strings.TrimSpace(s.User.FirstName + " " + s.User.LastName); name != "" {
		a.printf("Name:    %s\n", name)
	}
	a.printf("API:     %s\n", a.client.BaseURL())

	exp, err := session.AccessTokenExpiry(s.AccessToken)
	switch {
	case err != nil:
		a.printf("Expires: unknown\n")
	case exp.Before(time.Now()):
		a.printf("Expires: expired %s (will refresh on next request)\n", humanize.Time(exp))
	default:
		a.printf("Expires: %s\n", humanize.Time(exp))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd)

	loginCmd.Flags().StringP("username", "u", "", "Username or email")
	loginCmd.Flags().StringP("password", "p", "", "Password (read from stdin when empty)")
	loginCmd.Flags().Bool("remember", false, "Ask the server for a long-lived session")

	registerCmd.Flags().StringP("username", "u", "", "Username")
	registerCmd.Flags().String("email", "", "Email address")
	registerCmd.Flags().StringP("password", "p", "", "Password (read from stdin when empty)")
	registerCmd.Flags().String("first-name", "", "First name")
	registerCmd.Flags().String("last-name", "", "Last name")
}

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/chrimztech/unza-counseling-console/internal/domain"
	"github.com/chrimztech/unza-counseling-console/internal/session"
	apperrors "github.com/chrimztech/unza-counseling-console/pkg/errors"
)

func newLoginCmd(e *env) *cobra.Command {
	var (
		identifier    string
		passwordStdin bool
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the credential",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			deps, err := e.load(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if identifier == "" {
				fmt.Fprint(out, "Username or email: ")
				if identifier, err = e.readLine(cmd); err != nil {
					return err
				}
			}
			password, err := e.promptPassword(cmd, "Password: ", passwordStdin)
			if err != nil {
				return err
			}

			_, err = deps.API.Auth.Login(cmd.Context(), domain.LoginRequest{
				Identifier: strings.TrimSpace(identifier),
				Password:   password,
			})
			if errors.Is(err, apperrors.ErrUnauthorized) {
				return errors.New("sign-in rejected: " + apperrors.UserMessage(err, "invalid username or password"))
			}
			if err != nil {
				return err
			}

			user, _ := deps.API.Auth.CurrentUser(cmd.Context())
			fmt.Fprintf(out, "Signed in as %s\n", displayName(user, identifier))
			return nil
		},
	}
	cmd.Flags().StringVarP(&identifier, "user", "u", "", "username or email")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from standard input")
	return cmd
}

// promptPassword reads a password without echo from a terminal. Piped
// input, or --password-stdin, is read as a plain line.
func (e *env) promptPassword(cmd *cobra.Command, prompt string, fromStdin bool) (string, error) {
	if !fromStdin {
		if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			fmt.Fprint(cmd.OutOrStdout(), prompt)
			pass, err := term.ReadPassword(int(f.Fd()))
			fmt.Fprintln(cmd.OutOrStdout())
			if err != nil {
				return "", fmt.Errorf("read password: %w", err)
			}
			return string(pass), nil
		}
	}
	return e.readLine(cmd)
}

func newLogoutCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored credential",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			deps, err := e.load(cmd)
			if err != nil {
				return err
			}
			err = deps.API.Auth.Logout(cmd.Context())
			token, tokenErr := deps.Store.Token(cmd.Context())
			if tokenErr != nil || token != "" {
				return err
			}
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: backend sign-out failed: %s\n", Describe(err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

// identity is the whoami view.
type identity struct {
	Subject   string       `json:"subject"`
	Email     string       `json:"email,omitempty"`
	Roles     []string     `json:"roles,omitempty"`
	ExpiresAt *time.Time   `json:"expiresAt,omitempty"`
	Expired   bool         `json:"expired"`
	User      *domain.User `json:"user,omitempty"`
}

func newWhoamiCmd(e *env) *cobra.Command {
	var remote bool
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in operator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			deps, err := e.load(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			token, err := deps.Store.Token(ctx)
			if err != nil {
				return err
			}
			if token == "" {
				return apperrors.Unauthorized("not signed in")
			}
			claims, err := session.ParseClaims(token)
			if err != nil {
				return err
			}

			id := identity{
				Subject: claims.Subject,
				Email:   claims.Email,
				Roles:   claims.Roles,
				Expired: claims.Expired(time.Now()),
			}
			if !claims.ExpiresAt.IsZero() {
				exp := claims.ExpiresAt
				id.ExpiresAt = &exp
			}
			if remote {
				if id.User, err = deps.API.Auth.Profile(ctx); err != nil {
					return err
				}
			} else if id.User, err = deps.API.Auth.CurrentUser(ctx); err != nil {
				return err
			}

			return e.render(cmd, id, func(w io.Writer) {
				fmt.Fprintf(w, "Name:\t%s\n", displayName(id.User, id.Subject))
				fmt.Fprintf(w, "Subject:\t%s\n", id.Subject)
				if id.Email != "" {
					fmt.Fprintf(w, "Email:\t%s\n", id.Email)
				}
				if len(id.Roles) > 0 {
					fmt.Fprintf(w, "Roles:\t%s\n", strings.Join(id.Roles, ", "))
				}
				if id.ExpiresAt != nil {
					state := "valid"
					if id.Expired {
						state = "expired"
					}
					fmt.Fprintf(w, "Expires:\t%s (%s)\n", id.ExpiresAt.Local().Format(time.RFC1123), state)
				}
			})
		},
	}
	cmd.Flags().BoolVar(&remote, "remote", false, "fetch the profile from the backend")
	return cmd
}

func displayName(u *domain.User, fallback string) string {
	if u == nil {
		return fallback
	}
	if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
		return name
	}
	if u.Username != "" {
		return u.Username
	}
	return fallback
}

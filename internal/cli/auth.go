package cli

import (
	"bufio"
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kottz/ekman/internal/api"
	"github.com/kottz/ekman/internal/model"
)

func newLoginCmd(app *App) *cobra.Command {
	var in model.LoginInput

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the server (the session cookie is stored next to the config)",
		Long: strings.TrimSpace(`
Sign in to the configured server. Without --password the password is read
from the first line of stdin, so it stays out of shell history:

  printf '%s\n' "$PASS" | ekman login --username me --totp 123456

The local backend accepts any credentials.
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(in.Username) == "" {
				return writeErr(cmd, errUsage("--username is required"))
			}
			pw, err := readPassword(cmd, in.Password)
			if err != nil {
				return writeErr(cmd, err)
			}
			in.Password = pw
			return withClient(cmd, app, func(ctx context.Context, c api.Client) error {
				s, err := c.Login(ctx, in)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, wrap(sessionView{s}))
			})
		},
	}

	cmd.Flags().StringVar(&in.Username, "username", envOr("EKMAN_USERNAME", ""), "Username")
	cmd.Flags().StringVar(&in.Password, "password", envOr("EKMAN_PASSWORD", ""), "Password (default: read from stdin)")
	cmd.Flags().StringVar(&in.TOTP, "totp", "", "One-time code from the authenticator app")

	return cmd
}

func newRegisterCmd(app *App) *cobra.Command {
	var in model.RegisterInput

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account on the server and sign in",
		Long: strings.TrimSpace(`
Create an account. The server asks for the TOTP secret you enrolled in your
authenticator app and a current code from it. The password is read the same
way as for login:

  printf '%s\n' "$PASS" | ekman register --username me --totp-secret BASE32 --totp 123456

The local backend only checks that a username and password are given.
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(in.Username) == "" {
				return writeErr(cmd, errUsage("--username is required"))
			}
			pw, err := readPassword(cmd, in.Password)
			if err != nil {
				return writeErr(cmd, err)
			}
			in.Password = pw
			return withClient(cmd, app, func(ctx context.Context, c api.Client) error {
				s, err := c.Register(ctx, in)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, wrap(sessionView{s}))
			})
		},
	}

	cmd.Flags().StringVar(&in.Username, "username", envOr("EKMAN_USERNAME", ""), "Username")
	cmd.Flags().StringVar(&in.Password, "password", envOr("EKMAN_PASSWORD", ""), "Password (default: read from stdin)")
	cmd.Flags().StringVar(&in.TOTPSecret, "totp-secret", "", "Base32 TOTP secret from the authenticator enrollment")
	cmd.Flags().StringVar(&in.TOTPCode, "totp", "", "Current one-time code for that secret")

	return cmd
}

// readPassword keeps a password given by flag or environment, else reads the
// first line of stdin.
func readPassword(cmd *cobra.Command, given string) (string, error) {
	if given != "" {
		return given, nil
	}
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", errUsage("password required (pass --password or pipe it on stdin)")
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the server session and forget the stored cookie",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, app, func(ctx context.Context, c api.Client) error {
				if err := c.Logout(ctx); err != nil {
					return err
				}
				return writeOut(cmd, app, wrap(message{Message: "Signed out"}))
			})
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, app, func(ctx context.Context, c api.Client) error {
				u, err := c.CheckSession(ctx)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, wrap(userView{u}))
			})
		},
	}
}

package clitools

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/biznex/bizconsole/src/auth"
	"github.com/biznex/bizconsole/src/bizurl"
	"github.com/biznex/bizconsole/src/console"
	"github.com/biznex/bizconsole/src/guard"
	"github.com/biznex/bizconsole/src/models"
	"github.com/biznex/bizconsole/src/utils"
	"github.com/spf13/cobra"
)

func init() {
	loginCommand := &cobra.Command{
		Use:   "login [username]",
		Short: "Sign in to the BizNex backend",
		Run: func(cmd *cobra.Command, args []string) {
			p := newStdinPrompter()
			run(nil, func(ctx context.Context, app *console.App) error {
				var username string
				if len(args) > 0 {
					username = args[0]
				} else {
					var err error
					if username, err = p.Line("Username: "); err != nil {
						return err
					}
				}
				password, err := p.Secret("Password: ")
				if err != nil {
					return err
				}

				next, err := app.Auth.Login(ctx, username, password)
				if err != nil {
					return err
				}
				printLoginResult(os.Stdout, app.State.User(), next)
				return nil
			})
		},
	}
	console.ConsoleCommand.AddCommand(loginCommand)

	logoutCommand := &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Run: func(cmd *cobra.Command, args []string) {
			run(nil, func(ctx context.Context, app *console.App) error {
				if err := app.Auth.Logout(ctx); err != nil {
					return err
				}
				fmt.Println("Signed out.")
				return nil
			})
		},
	}
	console.ConsoleCommand.AddCommand(logoutCommand)

	whoamiCommand := &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored session",
		Run: func(cmd *cobra.Command, args []string) {
			run(nil, func(ctx context.Context, app *console.App) error {
				printSession(os.Stdout, app.State.Snapshot())
				return nil
			})
		},
	}
	console.ConsoleCommand.AddCommand(whoamiCommand)

	passwdCommand := &cobra.Command{
		Use:   "passwd",
		Short: "Change your password",
		Run: func(cmd *cobra.Command, args []string) {
			p := newStdinPrompter()
			target := guard.ForcePassword
			run(&target, func(ctx context.Context, app *console.App) error {
				password, confirm, err := p.NewPassword()
				if err != nil {
					return err
				}
				if app.State.MustChangePassword() {
					if err := app.Auth.ChangePasswordFirstLogin(ctx, password, confirm); err != nil {
						return err
					}
					fmt.Println("Password changed. Run `bizconsole login` with your new password.")
					return nil
				}

				if err := auth.ValidateNewPassword(password, confirm); err != nil {
					return err
				}
				msg, err := app.API.Auth.ChangePassword(ctx, app.State.User().Username, password)
				if err != nil {
					return err
				}
				fmt.Println(utils.OrDefault(msg, "Password changed."))
				return nil
			})
		},
	}
	console.ConsoleCommand.AddCommand(passwdCommand)

	forgotPasswordCommand := &cobra.Command{
		Use:   "forgot-password [username]",
		Short: "Ask the backend to reset a password",
		Run: func(cmd *cobra.Command, args []string) {
			requireArgs(cmd, args, 1, "You must provide a username.")
			run(nil, func(ctx context.Context, app *console.App) error {
				msg, err := app.API.Auth.ForgotPassword(ctx, args[0])
				if err != nil {
					return err
				}
				if msg == "" {
					msg = "Password reset requested."
				}
				fmt.Println(msg)
				return nil
			})
		},
	}
	console.ConsoleCommand.AddCommand(forgotPasswordCommand)

	setupCommand := &cobra.Command{
		Use:   "setup",
		Short: "Create the first admin account on a fresh backend",
		Run: func(cmd *cobra.Command, args []string) {
			p := newStdinPrompter()
			run(nil, func(ctx context.Context, app *console.App) error {
				firstTime, err := app.Auth.CheckFirstTime(ctx)
				if err != nil {
					return err
				}
				if !firstTime {
					fmt.Println("Setup has already been completed. Run `bizconsole login` instead.")
					return nil
				}

				var reg models.Registration
				if reg.Username, err = p.Line("Admin username: "); err != nil {
					return err
				}
				if reg.UserEmail, err = p.Line("Email (optional): "); err != nil {
					return err
				}
				password, confirm, err := p.NewPassword()
				if err != nil {
					return err
				}
				reg.UserPassword = password

				if err := app.Auth.BootstrapAdmin(ctx, reg, confirm); err != nil {
					return err
				}
				fmt.Printf("Created admin '%s'. Run `bizconsole login %s` to sign in.\n", strings.TrimSpace(reg.Username), strings.TrimSpace(reg.Username))
				return nil
			})
		},
	}
	console.ConsoleCommand.AddCommand(setupCommand)
}

func printLoginResult(w io.Writer, user *models.Session, next string) {
	if user != nil {
		fmt.Fprintf(w, "Signed in as %s (%s).\n", user.Username, user.UserRole)
	}
	switch next {
	case bizurl.PathFirstTime:
		fmt.Fprintln(w, "The backend reports first-time setup. Run `bizconsole setup` to create the admin account.")
	case bizurl.PathForcePassword:
		fmt.Fprintln(w, "You must change your password before continuing. Run `bizconsole passwd`.")
	}
}

func printSession(w io.Writer, snap auth.Snapshot) {
	if !snap.IsAuthenticated() {
		fmt.Fprintln(w, "Not logged in.")
		return
	}
	user := snap.User
	fmt.Fprintf(w, "Username: %s\n", user.Username)
	fmt.Fprintf(w, "Role:     %s\n", user.UserRole)
	switch {
	case user.ExpireAt == 0:
		fmt.Fprintln(w, "Expires:  never")
	case snap.IsExpired():
		fmt.Fprintf(w, "Expires:  expired at %s\n", user.ExpiresAt().Local().Format(time.RFC1123))
	default:
		fmt.Fprintf(w, "Expires:  %s\n", user.ExpiresAt().Local().Format(time.RFC1123))
	}
	if user.MustChangePassword {
		fmt.Fprintln(w, "A password change is required. Run `bizconsole passwd`.")
	}
}

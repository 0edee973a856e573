package clitools

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/biznex/bizconsole/src/api"
	"github.com/biznex/bizconsole/src/config"
	"github.com/biznex/bizconsole/src/console"
	"github.com/biznex/bizconsole/src/guard"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	ErrNotLoggedIn            = errors.New("not logged in; run `bizconsole login` first")
	ErrNotAuthorized          = errors.New("not authorized")
	ErrPasswordChangeRequired = errors.New("password change required; run `bizconsole passwd` first")
)

// checkAccess applies the route guard to a command, the same way the console
// applies it to a page.
func checkAccess(d guard.Decision, target guard.Target) error {
	switch d.Outcome {
	case guard.OutcomeAllow:
		return nil
	case guard.OutcomeNotAuthorized:
		return fmt.Errorf("%w: %s requires the %s role", ErrNotAuthorized, target.Name, target.Role)
	case guard.OutcomeRedirect:
		if d.Route == guard.ForcePassword.Path {
			return ErrPasswordChangeRequired
		}
		return ErrNotLoggedIn
	default:
		// Commands load the session before checking, so this means storage
		// never finished loading.
		return ErrNotLoggedIn
	}
}

// describe turns an error into the line printed for the user.
func describe(err error) string {
	switch {
	case api.IsKind(err, api.KindUnauthenticated):
		return "Your session has ended: " + api.Message(err) + ". Run `bizconsole login` to sign in again."
	case api.IsKind(err, api.KindPasswordChangeRequired):
		return ErrPasswordChangeRequired.Error()
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, describe(err))
	os.Exit(1)
}

// openApp opens the stored session and waits for it to load.
func openApp(ctx context.Context) *console.App {
	app, err := console.OpenApp(config.Config)
	if err != nil {
		fail(err)
	}
	if err := app.State.Load(ctx); err != nil {
		app.Close()
		fail(err)
	}
	return app
}

// run opens the app, checks access to target if there is one, and runs fn.
// Any error ends the process.
func run(target *guard.Target, fn func(ctx context.Context, app *console.App) error) {
	ctx := context.Background()
	app := openApp(ctx)
	defer app.Close()

	if target != nil {
		if err := checkAccess(guard.Check(app.State, *target), *target); err != nil {
			app.Close()
			fail(err)
		}
	}

	if err := fn(ctx, app); err != nil {
		app.Close()
		fail(err)
	}
}

func requireArgs(cmd *cobra.Command, args []string, n int, msg string) {
	if len(args) < n {
		fmt.Printf("%s\n\n", msg)
		cmd.Usage()
		os.Exit(1)
	}
}

// prompter reads answers from the user. Secrets are read without echo when
// the input is a terminal.
type prompter struct {
	in     *bufio.Reader
	out    io.Writer
	fd     int
	isTerm bool
}

func newStdinPrompter() *prompter {
	fd := int(os.Stdin.Fd())
	return &prompter{
		in:     bufio.NewReader(os.Stdin),
		out:    os.Stderr,
		fd:     fd,
		isTerm: term.IsTerminal(fd),
	}
}

func (p *prompter) Line(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (p *prompter) Secret(prompt string) (string, error) {
	if !p.isTerm {
		return p.Line(prompt)
	}
	fmt.Fprint(p.out, prompt)
	secret, err := term.ReadPassword(p.fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", err
	}
	return string(secret), nil
}

// NewPassword asks for a password twice.
func (p *prompter) NewPassword() (password, confirm string, err error) {
	password, err = p.Secret("New password: ")
	if err != nil {
		return "", "", err
	}
	confirm, err = p.Secret("Confirm password: ")
	if err != nil {
		return "", "", err
	}
	return password, confirm, nil
}

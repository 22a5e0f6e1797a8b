package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"todo/internal/auth"
	"todo/internal/exitcode"
	"todo/internal/service"
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command.
type LoginCmd struct {
	password string
}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Log in and store the access token" }
func (c *LoginCmd) Usage() string {
	return "todo login [common flags] [--password <pw>] <username>"
}
func (c *LoginCmd) NeedsAuth() bool { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.password, "password", "", "")
}

func (c *LoginCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		fmt.Fprintln(errOut, "error: username required")
		return exitcode.UserError
	}
	username := strings.TrimSpace(args[0])

	password, err := readPassword(c.password, env.In)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	token, err := env.Service.Login(ctx, username, password)
	if err != nil {
		var apiErr *service.APIError
		if errors.As(err, &apiErr) && errors.Is(err, service.ErrUnauthorized) {
			fmt.Fprintf(errOut, "error: %s\n", apiErr.Message)
			return exitcode.AuthError
		}
		return fail(errOut, err)
	}

	if err := auth.SaveToken(ctx, env.Store, token); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	// The cached user is a convenience for whoami and status.
	if user, err := env.Service.CurrentUser(ctx); err != nil {
		env.Logger.Warn("could not fetch user after login", zap.Error(err))
	} else if err := auth.SaveUser(ctx, env.Store, user); err != nil {
		env.Logger.Warn("could not cache user", zap.Error(err))
	}

	if !env.Config.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

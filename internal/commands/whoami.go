package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todo/internal/auth"
	"todo/internal/exitcode"
	"todo/internal/output"
)

func init() {
	Register(&WhoamiCmd{})
}

// WhoamiCmd implements the whoami command.
type WhoamiCmd struct{}

func (c *WhoamiCmd) Name() string      { return "whoami" }
func (c *WhoamiCmd) Aliases() []string { return nil }
func (c *WhoamiCmd) Synopsis() string  { return "Print the logged-in user" }
func (c *WhoamiCmd) Usage() string     { return "todo whoami [common flags]" }
func (c *WhoamiCmd) NeedsAuth() bool   { return false }

func (c *WhoamiCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *WhoamiCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if !auth.HasToken(ctx, env.Store) {
		fmt.Fprintln(out, "not logged in")
		return exitcode.Success
	}

	if user := env.Service.Identity(ctx); user != nil {
		output.FormatUser(out, *user)
		return exitcode.Success
	}

	// The server could not be asked; a rejected token has already been
	// cleared, so whatever is cached is still ours.
	if user := auth.LoadUser(ctx, env.Store); user != nil {
		output.FormatUser(out, *user)
		return exitcode.Success
	}

	fmt.Fprintln(out, "not logged in")
	return exitcode.Success
}

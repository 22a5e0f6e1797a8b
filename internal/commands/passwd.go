package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"todo/internal/exitcode"
)

func init() {
	Register(&PasswdCmd{})
}

// PasswdCmd implements the passwd command.
type PasswdCmd struct {
	current string
	next    string
}

func (c *PasswdCmd) Name() string      { return "passwd" }
func (c *PasswdCmd) Aliases() []string { return nil }
func (c *PasswdCmd) Synopsis() string  { return "Change the account password" }
func (c *PasswdCmd) Usage() string {
	return "todo passwd [common flags] [--current <pw>] [--new <pw>]"
}
func (c *PasswdCmd) NeedsAuth() bool { return true }

func (c *PasswdCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.current, "current", "", "")
	fs.StringVar(&c.next, "new", "", "")
}

func (c *PasswdCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	// Missing values come from stdin, current first. An absent line leaves
	// the value empty for the validation below to report.
	pw := newPasswordInput(env.In)
	current, err := pw.next(c.current)
	if err != nil && !errors.Is(err, errPasswordRequired) {
		return fail(errOut, err)
	}
	next, err := pw.next(c.next)
	if err != nil && !errors.Is(err, errPasswordRequired) {
		return fail(errOut, err)
	}

	if err := env.Service.ChangePassword(ctx, current, next); err != nil {
		return fail(errOut, err)
	}

	if !env.Config.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

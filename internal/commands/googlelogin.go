package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todo/internal/exitcode"
)

func init() {
	Register(&GoogleLoginCmd{})
}

// GoogleLoginCmd authorizes read access to Google Tasks for import-google.
// It is unrelated to the task server session.
type GoogleLoginCmd struct {
	googleDir string
}

func (c *GoogleLoginCmd) Name() string      { return "google-login" }
func (c *GoogleLoginCmd) Aliases() []string { return nil }
func (c *GoogleLoginCmd) Synopsis() string  { return "Authorize Google Tasks access for import" }
func (c *GoogleLoginCmd) Usage() string {
	return "todo google-login [common flags] [--google-dir <dir>]"
}
func (c *GoogleLoginCmd) NeedsAuth() bool { return false }

func (c *GoogleLoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.googleDir, "google-dir", "", "")
}

func (c *GoogleLoginCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if env.AuthorizeSource == nil {
		fmt.Fprintln(errOut, "error: google import not available")
		return exitcode.UserError
	}

	dir := c.googleDir
	if dir == "" {
		dir = env.Config.GoogleDir()
	}
	if err := env.AuthorizeSource(ctx, dir, errOut); err != nil {
		fmt.Fprintf(errOut, "error: google: %v\n", err)
		return exitcode.AuthError
	}

	if !env.Config.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

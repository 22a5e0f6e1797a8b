package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"todo/internal/auth"
	"todo/internal/exitcode"
)

func init() {
	Register(&StatusCmd{})
}

// StatusCmd implements the status command. It never contacts the server.
type StatusCmd struct {
	now func() time.Time
}

// SetNow sets the clock (for testing).
func (c *StatusCmd) SetNow(now func() time.Time) {
	c.now = now
}

func (c *StatusCmd) Name() string      { return "status" }
func (c *StatusCmd) Aliases() []string { return nil }
func (c *StatusCmd) Synopsis() string  { return "Show the stored session" }
func (c *StatusCmd) Usage() string     { return "todo status [common flags]" }
func (c *StatusCmd) NeedsAuth() bool   { return false }

func (c *StatusCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *StatusCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	fmt.Fprintf(out, "server:  %s\n", env.Config.BaseURL)

	token, err := auth.LoadToken(ctx, env.Store)
	if err != nil {
		fmt.Fprintln(out, "session: not logged in")
		return exitcode.Success
	}

	if user := auth.LoadUser(ctx, env.Store); user != nil {
		fmt.Fprintf(out, "user:    %s\n", user.Username)
	}

	claims := auth.Inspect(token.AccessToken)
	if !claims.JWT {
		fmt.Fprintln(out, "session: opaque token")
		return exitcode.Success
	}
	if claims.Subject != "" {
		fmt.Fprintf(out, "subject: %s\n", claims.Subject)
	}
	if claims.ExpiresAt.IsZero() {
		fmt.Fprintln(out, "session: no expiry")
		return exitcode.Success
	}

	now := time.Now
	if c.now != nil {
		now = c.now
	}
	expires := claims.ExpiresAt.UTC().Format(time.RFC3339)
	if claims.Expired(now()) {
		fmt.Fprintf(out, "session: expired at %s (run: todo login)\n", expires)
	} else {
		fmt.Fprintf(out, "session: valid until %s\n", expires)
	}
	return exitcode.Success
}

package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"todo/internal/exitcode"
	"todo/internal/output"
	"todo/internal/service"
)

func init() {
	Register(&CreateListCmd{})
}

// CreateListCmd implements the createlist command.
type CreateListCmd struct {
	description string
}

func (c *CreateListCmd) Name() string      { return "createlist" }
func (c *CreateListCmd) Aliases() []string { return []string{"addlist"} }
func (c *CreateListCmd) Synopsis() string  { return "Create a new list" }
func (c *CreateListCmd) Usage() string {
	return "todo createlist [common flags] [--description <text>] <list-name>"
}
func (c *CreateListCmd) NeedsAuth() bool { return true }

func (c *CreateListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.description, "description", "", "")
	fs.StringVar(&c.description, "d", "", "")
}

func (c *CreateListCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		fmt.Fprintln(errOut, "error: list name required")
		return exitcode.UserError
	}

	// Names are not unique on the server, but duplicates make name
	// references ambiguous.
	_, err := resolveList(ctx, env.Service, name)
	if err == nil {
		fmt.Fprintf(errOut, "error: list already exists: %s\n", name)
		return exitcode.UserError
	}
	if !isListLookupError(err) {
		return fail(errOut, err)
	}

	list, err := env.Service.CreateList(ctx, service.CreateListRequest{
		Name:        name,
		Description: strings.TrimSpace(c.description),
	})
	if err != nil {
		return fail(errOut, err)
	}

	if !env.Config.Quiet {
		output.FormatListName(out, list)
	}
	return exitcode.Success
}
